// Package split groups document pages by their classification key.
//
// The engine is a fold over the pages in document order, threading one piece
// of carried state (the last resolved key) and an insertion-ordered group
// accumulator. Ordering is a correctness requirement: the AttachToPrevious
// policy assigns an unmatched page to whatever key the pages before it
// resolved to.
package split

import (
	"errors"
	"fmt"

	"github.com/jadabouassaly/PDF-Splitting/internal/classify"
)

// ErrNoGroups is returned when not a single page resolved to a valid key.
var ErrNoGroups = errors.New("no pages with a valid classification key")

// Policy decides what happens to a page whose text classifies as Unknown.
type Policy int

const (
	// AttachToPrevious assigns the page to the most recently resolved key.
	// Pages before the first resolved key land in the UNKNOWN group.
	AttachToPrevious Policy = iota

	// Drop discards the page entirely; it appears in no group.
	Drop
)

func (p Policy) String() string {
	switch p {
	case AttachToPrevious:
		return "attach-to-previous"
	case Drop:
		return "drop"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Page is the grouping engine's view of a document page: its 1-based
// position and its extracted plain text (possibly empty).
type Page struct {
	Number int
	Text   string
}

// Group is an ordered run of page numbers sharing an effective key.
// Pages keep their original relative order; groups keep first-appearance
// order within Result.
type Group struct {
	Key   classify.Key
	Pages []int
}

// Assignment records, per processed page, what was extracted from its text
// and which group it effectively landed in. Used for operator narration.
type Assignment struct {
	Page      int          `json:"page"`
	Extracted classify.Key `json:"extracted"`
	Effective classify.Key `json:"effective"`
	Dropped   bool         `json:"dropped,omitempty"`
}

// Reattribution records an unmatched page that was attached to the group of
// a previously resolved key.
type Reattribution struct {
	Page int          `json:"page"`
	Key  classify.Key `json:"assigned_to"`
}

// Diagnostics collects the pages the policy had to handle specially.
type Diagnostics struct {
	// Reattributed lists pages assigned to a prior key (AttachToPrevious).
	Reattributed []Reattribution `json:"reattributed,omitempty"`
	// Unresolved lists pages grouped under UNKNOWN because nothing was
	// resolved before them (AttachToPrevious).
	Unresolved []int `json:"unresolved,omitempty"`
	// Dropped lists pages discarded outright (Drop).
	Dropped []int `json:"dropped,omitempty"`
}

// Result is the outcome of one grouping run.
type Result struct {
	Groups      []Group
	Assignments []Assignment
	Diagnostics Diagnostics

	index map[classify.Key]int
}

// Group returns the group for key, if any.
func (r *Result) Group(key classify.Key) (Group, bool) {
	i, ok := r.index[key]
	if !ok {
		return Group{}, false
	}
	return r.Groups[i], true
}

// PageCount returns the total number of pages across all groups.
func (r *Result) PageCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Pages)
	}
	return n
}

func (r *Result) append(key classify.Key, page int) {
	i, ok := r.index[key]
	if !ok {
		i = len(r.Groups)
		r.Groups = append(r.Groups, Group{Key: key})
		r.index[key] = i
	}
	r.Groups[i].Pages = append(r.Groups[i].Pages, page)
}

// Run folds the pages, in order, into groups keyed by the classifier's
// result with the policy applied to Unknown pages. It returns ErrNoGroups
// when no group ends up non-empty (all pages dropped, or zero pages).
func Run(pages []Page, c classify.Classifier, policy Policy) (*Result, error) {
	res := &Result{index: make(map[classify.Key]int)}

	var lastResolved classify.Key
	haveResolved := false

	for _, p := range pages {
		extracted := c.Classify(p.Text)
		a := Assignment{Page: p.Number, Extracted: extracted, Effective: extracted}

		if !extracted.IsUnknown() {
			lastResolved = extracted
			haveResolved = true
			res.append(extracted, p.Number)
			res.Assignments = append(res.Assignments, a)
			continue
		}

		switch policy {
		case AttachToPrevious:
			if haveResolved {
				a.Effective = lastResolved
				res.Diagnostics.Reattributed = append(res.Diagnostics.Reattributed,
					Reattribution{Page: p.Number, Key: lastResolved})
			} else {
				res.Diagnostics.Unresolved = append(res.Diagnostics.Unresolved, p.Number)
			}
			res.append(a.Effective, p.Number)
		case Drop:
			a.Dropped = true
			res.Diagnostics.Dropped = append(res.Diagnostics.Dropped, p.Number)
		default:
			return nil, fmt.Errorf("unknown policy %v", policy)
		}
		res.Assignments = append(res.Assignments, a)
	}

	if len(res.Groups) == 0 {
		return nil, fmt.Errorf("%w (%s)", ErrNoGroups, c.Kind)
	}
	return res, nil
}

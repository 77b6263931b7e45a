// Package splitter runs one split invocation end to end: parse the upload,
// group its pages, serialize one output document per group and pack them
// into a single zip. Everything lives for the duration of one call; the
// Service itself holds only immutable collaborators, so concurrent
// invocations never share state.
package splitter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jadabouassaly/PDF-Splitting/internal/classify"
	"github.com/jadabouassaly/PDF-Splitting/internal/document"
	"github.com/jadabouassaly/PDF-Splitting/internal/split"
)

// Variant selects which splitter tool processes the upload.
type Variant string

const (
	// CallList groups by 4-digit depot ID; unmatched pages attach to the
	// previous depot's document.
	CallList Variant = "call-list"

	// GroupList groups by 3-digits+V shipping point; unmatched pages are
	// ignored.
	GroupList Variant = "group-list"
)

// variantSpec binds a variant to its classifier, filename rule, unknown
// policy and archive download name.
type variantSpec struct {
	classifier   classify.Classifier
	filename     classify.Formatter
	policy       split.Policy
	downloadName string
}

func (v Variant) spec() (variantSpec, error) {
	switch v {
	case CallList:
		return variantSpec{
			classifier:   classify.DepotID(),
			filename:     classify.DepotFilename,
			policy:       split.AttachToPrevious,
			downloadName: "call_lists_by_depot.zip",
		}, nil
	case GroupList:
		return variantSpec{
			classifier:   classify.ShippingPoint(),
			filename:     classify.GroupFilename,
			policy:       split.Drop,
			downloadName: "group_lists_by_shipping_point.zip",
		}, nil
	default:
		return variantSpec{}, fmt.Errorf("unknown variant %q", v)
	}
}

// Valid reports whether v names a known splitter variant.
func (v Variant) Valid() bool {
	_, err := v.spec()
	return err == nil
}

// GroupSummary describes one output document of a run.
type GroupSummary struct {
	Key      classify.Key `json:"key"`
	Filename string       `json:"filename"`
	Pages    []int        `json:"pages"`
}

// Outcome is the result of one successful split invocation.
type Outcome struct {
	RunID        string             `json:"run_id"`
	Variant      Variant            `json:"variant"`
	PageCount    int                `json:"page_count"`
	Groups       []GroupSummary     `json:"groups"`
	Assignments  []split.Assignment `json:"assignments"`
	Diagnostics  split.Diagnostics  `json:"diagnostics"`
	DownloadName string             `json:"download_name"`

	// Archive is the packed zip. Nil for report-only runs.
	Archive []byte `json:"-"`
}

// Service wires the document source and archive sink to the grouping core.
type Service struct {
	source document.Source
	sink   document.ArchiveSink
	logger *slog.Logger
}

// NewService creates a splitter service. A nil logger falls back to
// slog.Default().
func NewService(source document.Source, sink document.ArchiveSink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, sink: sink, logger: logger}
}

// Split processes one uploaded document and returns the packed archive plus
// the per-page report. split.ErrNoGroups is returned (wrapped) when no page
// produced a valid key; collaborator faults abort the whole invocation with
// no partial archive.
func (s *Service) Split(ctx context.Context, variant Variant, data []byte) (*Outcome, error) {
	out, doc, err := s.group(ctx, variant, data)
	if err != nil {
		return nil, err
	}

	log := s.logger.With("run_id", out.RunID, "variant", variant)

	entries := make([]document.Entry, 0, len(out.Groups))
	for _, g := range out.Groups {
		docBytes, err := doc.Extract(ctx, g.Pages)
		if err != nil {
			return nil, fmt.Errorf("run %s: serializing group %s: %w", out.RunID, g.Key, err)
		}
		entries = append(entries, document.Entry{Name: g.Filename, Data: docBytes})
	}

	archive, err := s.sink.Write(entries)
	if err != nil {
		return nil, fmt.Errorf("run %s: packing archive: %w", out.RunID, err)
	}
	out.Archive = archive

	log.Info("split complete", "groups", len(out.Groups), "archive_bytes", len(archive))
	return out, nil
}

// Report runs extraction and grouping only, without serializing any output
// documents. Used by the report endpoints and CLI dry runs.
func (s *Service) Report(ctx context.Context, variant Variant, data []byte) (*Outcome, error) {
	out, _, err := s.group(ctx, variant, data)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) group(ctx context.Context, variant Variant, data []byte) (*Outcome, document.Document, error) {
	spec, err := variant.spec()
	if err != nil {
		return nil, nil, err
	}

	runID := uuid.New().String()
	log := s.logger.With("run_id", runID, "variant", variant)

	doc, err := s.source.Open(ctx, data)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: opening document: %w", runID, err)
	}

	srcPages := doc.Pages()
	log.Info("document parsed", "pages", len(srcPages))

	pages := make([]split.Page, len(srcPages))
	for i, p := range srcPages {
		pages[i] = split.Page{Number: p.Number(), Text: p.Text()}
	}

	result, err := split.Run(pages, spec.classifier, spec.policy)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}

	// Line-by-line narration, mirroring what the operator sees in the
	// report: one entry per page with extracted and effective keys.
	for _, a := range result.Assignments {
		switch {
		case a.Dropped:
			log.Info("page ignored", "page", a.Page, "reason", "no valid "+spec.classifier.Kind)
		case a.Extracted.IsUnknown() && !a.Effective.IsUnknown():
			log.Warn("page attached to previous group", "page", a.Page, "group", a.Effective)
		case a.Extracted.IsUnknown():
			log.Warn("page has no "+spec.classifier.Kind+" and no previous group", "page", a.Page)
		default:
			log.Info("page assigned", "page", a.Page, "group", a.Effective)
		}
	}

	out := &Outcome{
		RunID:        runID,
		Variant:      variant,
		PageCount:    len(srcPages),
		Assignments:  result.Assignments,
		Diagnostics:  result.Diagnostics,
		DownloadName: spec.downloadName,
	}
	for _, g := range result.Groups {
		out.Groups = append(out.Groups, GroupSummary{
			Key:      g.Key,
			Filename: spec.filename(g.Key),
			Pages:    g.Pages,
		})
	}
	return out, doc, nil
}

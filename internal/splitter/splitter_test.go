package splitter

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/jadabouassaly/PDF-Splitting/internal/document"
	"github.com/jadabouassaly/PDF-Splitting/internal/split"
)

// fakeDoc implements document.Document over plain page texts. Extract
// renders a deterministic textual stand-in for a real serialized document.
type fakeDoc struct {
	texts      []string
	extractErr error
}

type fakePage struct {
	number int
	text   string
}

func (p fakePage) Number() int  { return p.number }
func (p fakePage) Text() string { return p.text }

func (d *fakeDoc) Pages() []document.Page {
	pages := make([]document.Page, len(d.texts))
	for i, t := range d.texts {
		pages[i] = fakePage{number: i + 1, text: t}
	}
	return pages
}

func (d *fakeDoc) Extract(_ context.Context, pageNumbers []int) ([]byte, error) {
	if d.extractErr != nil {
		return nil, d.extractErr
	}
	return []byte(fmt.Sprintf("pages%v", pageNumbers)), nil
}

type fakeSource struct {
	doc     *fakeDoc
	openErr error
}

func (s fakeSource) Open(_ context.Context, _ []byte) (document.Document, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.doc, nil
}

// fakeSink records what it was asked to pack.
type fakeSink struct {
	entries  []document.Entry
	writeErr error
}

func (s *fakeSink) Write(entries []document.Entry) ([]byte, error) {
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	s.entries = entries
	return []byte("archive"), nil
}

func depotText(key string) string { return key + "\nDepot ID" }

func TestService_Split_CallList(t *testing.T) {
	doc := &fakeDoc{texts: []string{depotText("2104"), "", "", depotText("2200")}}
	sink := &fakeSink{}
	svc := NewService(fakeSource{doc: doc}, sink, nil)

	out, err := svc.Split(context.Background(), CallList, []byte("pdf"))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if out.RunID == "" {
		t.Error("expected a run ID")
	}
	if out.PageCount != 4 {
		t.Errorf("PageCount = %d, want 4", out.PageCount)
	}
	if out.DownloadName != "call_lists_by_depot.zip" {
		t.Errorf("DownloadName = %q", out.DownloadName)
	}
	if string(out.Archive) != "archive" {
		t.Errorf("Archive = %q, want sink output", out.Archive)
	}

	wantGroups := []GroupSummary{
		{Key: "2104", Filename: "104V_CL.pdf", Pages: []int{1, 2, 3}},
		{Key: "2200", Filename: "200V_CL.pdf", Pages: []int{4}},
	}
	if !reflect.DeepEqual(out.Groups, wantGroups) {
		t.Errorf("Groups = %+v, want %+v", out.Groups, wantGroups)
	}

	wantRe := []split.Reattribution{{Page: 2, Key: "2104"}, {Page: 3, Key: "2104"}}
	if !reflect.DeepEqual(out.Diagnostics.Reattributed, wantRe) {
		t.Errorf("Reattributed = %v, want %v", out.Diagnostics.Reattributed, wantRe)
	}

	// One archive entry per group, in first-appearance order.
	if len(sink.entries) != 2 {
		t.Fatalf("sink got %d entries, want 2", len(sink.entries))
	}
	if sink.entries[0].Name != "104V_CL.pdf" || sink.entries[1].Name != "200V_CL.pdf" {
		t.Errorf("entry names = %q, %q", sink.entries[0].Name, sink.entries[1].Name)
	}
	if string(sink.entries[0].Data) != "pages[1 2 3]" {
		t.Errorf("entry 0 data = %q, want pages[1 2 3]", sink.entries[0].Data)
	}
}

func TestService_Split_GroupList_DropsUnmatched(t *testing.T) {
	doc := &fakeDoc{texts: []string{
		"Shipping Point : 123V",
		"no shipping point here",
		"Shipping Point : 123V",
		"Shipping Point : 140V",
	}}
	sink := &fakeSink{}
	svc := NewService(fakeSource{doc: doc}, sink, nil)

	out, err := svc.Split(context.Background(), GroupList, []byte("pdf"))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	wantGroups := []GroupSummary{
		{Key: "123V", Filename: "123V_Group.pdf", Pages: []int{1, 3}},
		{Key: "140V", Filename: "140V_Group.pdf", Pages: []int{4}},
	}
	if !reflect.DeepEqual(out.Groups, wantGroups) {
		t.Errorf("Groups = %+v, want %+v", out.Groups, wantGroups)
	}
	if !reflect.DeepEqual(out.Diagnostics.Dropped, []int{2}) {
		t.Errorf("Dropped = %v, want [2]", out.Diagnostics.Dropped)
	}
}

func TestService_Split_NoGroups(t *testing.T) {
	doc := &fakeDoc{texts: []string{"nothing", "relevant"}}
	svc := NewService(fakeSource{doc: doc}, &fakeSink{}, nil)

	_, err := svc.Split(context.Background(), GroupList, []byte("pdf"))
	if !errors.Is(err, split.ErrNoGroups) {
		t.Fatalf("Split() error = %v, want ErrNoGroups", err)
	}
}

func TestService_Split_SerializationFailureAborts(t *testing.T) {
	doc := &fakeDoc{
		texts:      []string{depotText("2104")},
		extractErr: errors.New("corrupt xref"),
	}
	sink := &fakeSink{}
	svc := NewService(fakeSource{doc: doc}, sink, nil)

	_, err := svc.Split(context.Background(), CallList, []byte("pdf"))
	if err == nil || !strings.Contains(err.Error(), "corrupt xref") {
		t.Fatalf("Split() error = %v, want wrapped extract failure", err)
	}
	if sink.entries != nil {
		t.Error("sink received entries despite serialization failure")
	}
}

func TestService_Split_OpenFailure(t *testing.T) {
	svc := NewService(fakeSource{openErr: errors.New("not a PDF")}, &fakeSink{}, nil)
	_, err := svc.Split(context.Background(), CallList, []byte("junk"))
	if err == nil || !strings.Contains(err.Error(), "not a PDF") {
		t.Fatalf("Split() error = %v, want wrapped open failure", err)
	}
}

func TestService_Split_UnknownVariant(t *testing.T) {
	svc := NewService(fakeSource{doc: &fakeDoc{}}, &fakeSink{}, nil)
	_, err := svc.Split(context.Background(), Variant("bogus"), nil)
	if err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestService_Report_NoArchive(t *testing.T) {
	doc := &fakeDoc{texts: []string{depotText("2104")}}
	sink := &fakeSink{}
	svc := NewService(fakeSource{doc: doc}, sink, nil)

	out, err := svc.Report(context.Background(), CallList, []byte("pdf"))
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if out.Archive != nil {
		t.Error("Report() produced an archive")
	}
	if sink.entries != nil {
		t.Error("Report() wrote to the sink")
	}
}

func TestVariant_Valid(t *testing.T) {
	if !CallList.Valid() || !GroupList.Valid() {
		t.Error("built-in variants must be valid")
	}
	if Variant("other").Valid() {
		t.Error("unexpected valid variant")
	}
}

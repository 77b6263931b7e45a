package endpoints

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jadabouassaly/PDF-Splitting/internal/document"
	"github.com/jadabouassaly/PDF-Splitting/internal/splitter"
	"github.com/jadabouassaly/PDF-Splitting/internal/svcctx"
)

// stubDoc serves canned page texts and trivially serialized groups.
type stubDoc struct {
	texts []string
}

type stubPage struct {
	number int
	text   string
}

func (p stubPage) Number() int  { return p.number }
func (p stubPage) Text() string { return p.text }

func (d stubDoc) Pages() []document.Page {
	pages := make([]document.Page, len(d.texts))
	for i, t := range d.texts {
		pages[i] = stubPage{number: i + 1, text: t}
	}
	return pages
}

func (d stubDoc) Extract(_ context.Context, pageNumbers []int) ([]byte, error) {
	return []byte("doc"), nil
}

type stubSource struct {
	texts []string
}

func (s stubSource) Open(_ context.Context, _ []byte) (document.Document, error) {
	return stubDoc{texts: s.texts}, nil
}

func newTestServices(texts []string) *svcctx.Services {
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	return &svcctx.Services{
		Splitter: splitter.NewService(stubSource{texts: texts}, document.ZipSink{}, logger),
		Logger:   logger,
	}
}

// uploadRequest builds a multipart POST with one file field.
func uploadRequest(t *testing.T, path, filename string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("%PDF-stub"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func do(t *testing.T, ep interface {
	Route() (string, string, http.HandlerFunc)
}, req *http.Request, services *svcctx.Services) *httptest.ResponseRecorder {
	t.Helper()
	_, _, handler := ep.Route()
	req = req.WithContext(svcctx.WithServices(req.Context(), services))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSplitEndpoint_ReturnsArchive(t *testing.T) {
	services := newTestServices([]string{
		"2104\nDepot ID",
		"",
		"2200\nDepot ID",
	})

	ep := &SplitEndpoint{Variant: splitter.CallList}
	req := uploadRequest(t, "/api/split/call-list", "calls.pdf")
	rec := do(t, ep, req, services)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/zip" {
		t.Errorf("Content-Type = %q, want application/zip", got)
	}
	if rec.Header().Get("X-Split-Run-Id") == "" {
		t.Error("missing X-Split-Run-Id header")
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="call_lists_by_depot.zip"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	// Body is a readable zip with one entry per group.
	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("response is not a zip: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("zip has %d entries, want 2", len(zr.File))
	}
	if zr.File[0].Name != "104V_CL.pdf" || zr.File[1].Name != "200V_CL.pdf" {
		t.Errorf("entry names = %q, %q", zr.File[0].Name, zr.File[1].Name)
	}
}

func TestSplitEndpoint_NoGroupsIs422(t *testing.T) {
	services := newTestServices([]string{"no shipping point", "none here either"})

	ep := &SplitEndpoint{Variant: splitter.GroupList}
	req := uploadRequest(t, "/api/split/group-list", "groups.pdf")
	rec := do(t, ep, req, services)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body = %s", rec.Code, rec.Body.String())
	}
	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("error body not JSON: %v", err)
	}
	if errResp.Error == "" {
		t.Error("empty error message")
	}
}

func TestSplitEndpoint_RejectsNonPDF(t *testing.T) {
	services := newTestServices(nil)

	ep := &SplitEndpoint{Variant: splitter.CallList}
	req := uploadRequest(t, "/api/split/call-list", "calls.txt")
	rec := do(t, ep, req, services)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSplitEndpoint_RejectsMissingFile(t *testing.T) {
	services := newTestServices(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "no file here")
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/split/call-list", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	ep := &SplitEndpoint{Variant: splitter.CallList}
	rec := do(t, ep, req, services)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReportEndpoint_ReturnsDiagnostics(t *testing.T) {
	services := newTestServices([]string{
		"Shipping Point : 123V",
		"nothing",
		"Shipping Point : 140V",
	})

	ep := &ReportEndpoint{Variant: splitter.GroupList}
	req := uploadRequest(t, "/api/report/group-list", "groups.pdf")
	rec := do(t, ep, req, services)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out splitter.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if len(out.Groups) != 2 {
		t.Errorf("groups = %d, want 2", len(out.Groups))
	}
	if len(out.Diagnostics.Dropped) != 1 || out.Diagnostics.Dropped[0] != 2 {
		t.Errorf("dropped = %v, want [2]", out.Diagnostics.Dropped)
	}
	if out.PageCount != 3 {
		t.Errorf("page count = %d, want 3", out.PageCount)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ep := &HealthEndpoint{}
	_, _, handler := ep.Route()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

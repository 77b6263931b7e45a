package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jadabouassaly/PDF-Splitting/internal/api"
	"github.com/jadabouassaly/PDF-Splitting/internal/split"
	"github.com/jadabouassaly/PDF-Splitting/internal/splitter"
	"github.com/jadabouassaly/PDF-Splitting/internal/svcctx"
)

// SplitEndpoint handles POST /api/split/{variant} with a multipart PDF
// upload. The response body is the packed zip archive.
type SplitEndpoint struct {
	Variant splitter.Variant
}

var _ api.Endpoint = (*SplitEndpoint)(nil)

func (e *SplitEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/split/" + string(e.Variant), e.handler
}

func (e *SplitEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Split an uploaded PDF into one document per group
//	@Description	Groups pages by the variant's classification key and returns a zip
//	@Accept			mpfd
//	@Produce		application/zip
//	@Param			file	formData	file	true	"PDF to split"
//	@Success		200	{file}		binary
//	@Failure		400	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
func (e *SplitEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	svc := svcctx.SplitterFrom(r.Context())
	out, err := svc.Split(r.Context(), e.Variant, data)
	if err != nil {
		writeSplitError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.DownloadName))
	w.Header().Set("X-Split-Run-Id", out.RunID)
	w.WriteHeader(http.StatusOK)
	w.Write(out.Archive)
}

func (e *SplitEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("split-%s <file.pdf>", e.Variant),
		Short: fmt.Sprintf("Split a %s PDF on the server and download the zip", e.Variant),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, serverName, err := client.UploadDownload(cmd.Context(), "/api/split/"+string(e.Variant), args[0])
			if err != nil {
				return err
			}

			dest := outPath
			if dest == "" {
				dest = serverName
			}
			if dest == "" {
				dest = string(e.Variant) + ".zip"
			}
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", dest, err)
			}
			fmt.Printf("Wrote %s (%d bytes)\n", dest, len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "Output zip path (default: server-suggested name)")
	return cmd
}

// ReportEndpoint handles POST /api/report/{variant}: same intake as the
// split endpoint but returns the grouping report as JSON and builds no
// archive. This is the operator's diagnostic view (reattributed, unresolved
// and ignored pages).
type ReportEndpoint struct {
	Variant splitter.Variant
}

var _ api.Endpoint = (*ReportEndpoint)(nil)

func (e *ReportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/report/" + string(e.Variant), e.handler
}

func (e *ReportEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Report how an uploaded PDF would be split
//	@Description	Runs extraction and grouping only; returns groups and diagnostics
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"PDF to inspect"
//	@Success		200	{object}	splitter.Outcome
//	@Failure		400	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
func (e *ReportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	svc := svcctx.SplitterFrom(r.Context())
	out, err := svc.Report(r.Context(), e.Variant, data)
	if err != nil {
		writeSplitError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (e *ReportEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("report-%s <file.pdf>", e.Variant),
		Short: fmt.Sprintf("Show how a %s PDF would be split, without splitting", e.Variant),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var out splitter.Outcome
			if err := client.UploadJSON(cmd.Context(), "/api/report/"+string(e.Variant), args[0], &out); err != nil {
				return err
			}
			return api.Output(out)
		},
	}
}

// readUpload parses the multipart form and returns the uploaded PDF bytes.
// On failure it writes the error response and returns ok=false.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	maxBytes := int64(200 << 20)
	if cm := svcctx.ConfigFrom(r.Context()); cm != nil {
		if limit := cm.Get().MaxUploadBytes; limit > 0 {
			maxBytes = limit
		}
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return nil, false
	}
	fh := files[0]
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", fh.Filename))
		return nil, false
	}

	src, err := fh.Open()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to open uploaded file: %v", err))
		return nil, false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read uploaded file: %v", err))
		return nil, false
	}
	return data, true
}

// writeSplitError maps splitter errors onto HTTP statuses: an empty result
// is the operator's problem (422), anything else is ours (500).
func writeSplitError(w http.ResponseWriter, err error) {
	if errors.Is(err, split.ErrNoGroups) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

package document

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// ZipSink packs archive entries into a deflate-compressed zip in memory.
type ZipSink struct{}

var _ ArchiveSink = ZipSink{}

// Write packs the entries in order. Entry names are taken as-is; callers
// guarantee uniqueness (one entry per distinct group key).
func (ZipSink) Write(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			return nil, fmt.Errorf("creating archive entry %q: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("writing archive entry %q: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}

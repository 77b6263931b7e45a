// Package document defines the narrow capability contracts the splitter
// depends on (parse, per-page text, page copy, archive packing) and their
// real PDF/zip implementations. The grouping core never imports a PDF
// library; it sees only these interfaces, so tests drive it with in-memory
// fakes.
package document

import "context"

// Page is one page of a parsed document.
type Page interface {
	// Number is the 1-based position of the page in the source document.
	Number() int

	// Text is the page's extracted plain text. May be empty; extraction
	// problems degrade to empty text rather than failing the run.
	Text() string
}

// Document is a parsed upload: an ordered page list plus the ability to
// serialize a subset of its pages into a new standalone document.
type Document interface {
	Pages() []Page

	// Extract serializes the given pages, in the given order, into a new
	// document. Page numbers are 1-based.
	Extract(ctx context.Context, pageNumbers []int) ([]byte, error)
}

// Source parses one uploaded blob into a Document.
type Source interface {
	Open(ctx context.Context, data []byte) (Document, error)
}

// Entry is one named member of an output archive.
type Entry struct {
	Name string
	Data []byte
}

// ArchiveSink packs entries, in order, into a single archive blob.
type ArchiveSink interface {
	Write(entries []Entry) ([]byte, error)
}

// Package extract turns spreadsheet and word-processor files into rows or
// plain-text lines for the import parsers.
package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrIO is returned when the source cannot be read.
	ErrIO = errors.New("source unreadable")
	// ErrFormat is returned when the source is not a valid document of its
	// claimed type.
	ErrFormat = errors.New("unsupported or corrupt document")
)

// Sheet is one worksheet as ordered rows of cell text.
type Sheet struct {
	Name string
	Rows [][]string
}

// Cell returns the trimmed text at the zero-based row and column, or "".
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Document is the normalized form of one source file. Spreadsheets fill
// Sheets; text documents fill Lines.
type Document struct {
	Sheets []Sheet
	Lines  []string
}

// Sheet looks a worksheet up by name.
func (d *Document) Sheet(name string) (*Sheet, bool) {
	for i := range d.Sheets {
		if d.Sheets[i].Name == name {
			return &d.Sheets[i], true
		}
	}
	return nil, false
}

// FirstSheet returns the first worksheet, if any.
func (d *Document) FirstSheet() (*Sheet, bool) {
	if len(d.Sheets) == 0 {
		return nil, false
	}
	return &d.Sheets[0], true
}

// Extractor converts one physical file into a Document.
type Extractor interface {
	Extract(r io.Reader) (*Document, error)
}

// ForFile picks an extractor from the file extension.
func ForFile(name string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return Spreadsheet{}, nil
	case ".docx":
		return WordDocument{}, nil
	case ".txt":
		return PlainText{}, nil
	default:
		return nil, fmt.Errorf("%w: no extractor for %q", ErrFormat, filepath.Base(name))
	}
}

// Open opens path for extraction, mapping failures onto ErrIO.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return f, nil
}

// readAll drains r, mapping failures onto ErrIO.
func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return data, nil
}

// splitLines trims every line and drops the empty ones.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// PlainText reads newline separated text.
type PlainText struct{}

func (PlainText) Extract(r io.Reader) (*Document, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return &Document{Lines: splitLines(string(data))}, nil
}

// Package parse turns extracted documents into Lab and Asset candidates.
//
// Each supported source layout has its own parser. Tabular layouts read
// fixed columns; free-text layouts run a small state machine over the
// document lines (see FreeTextParser).
package parse

import (
	"fmt"
	"strings"

	"labinventory-backend/internal/extract"
)

// Layout selects the parser for a source document.
type Layout string

const (
	// LayoutWorkbook is the two-sheet Labs/Assets workbook, as exported.
	LayoutWorkbook Layout = "workbook"
	// LayoutCSE is the single-sheet [labCode, item, quantity] variant.
	LayoutCSE Layout = "cse"
	// LayoutDSE is the free-text equipment register with labelled items.
	LayoutDSE Layout = "dse"
	// LayoutICT is the free-text register with one item per line.
	LayoutICT Layout = "ict"
	// LayoutDoc is a key/value document ("Lab: X, Name: Y").
	LayoutDoc Layout = "doc"
)

// Layouts lists every supported layout.
var Layouts = []Layout{LayoutWorkbook, LayoutCSE, LayoutDSE, LayoutICT, LayoutDoc}

// ParseLayout validates a layout selector.
func ParseLayout(s string) (Layout, error) {
	l := Layout(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Layouts {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown layout %q", s)
}

// Spreadsheet reports whether the layout is read from a workbook
// regardless of the file name.
func (l Layout) Spreadsheet() bool {
	return l == LayoutWorkbook || l == LayoutCSE
}

// LabCandidate is a lab as read from a source document.
type LabCandidate struct {
	Code       string
	Name       string
	Department string
	Location   string
	Remarks    string
}

// AssetCandidate is an asset as read from a source document. Dates and
// status are kept as raw text; the importer validates them.
type AssetCandidate struct {
	AssetTag       string
	LabCode        string
	Status         string
	ModelName      string
	Manufacturer   string
	SerialNumber   string
	PurchaseDate   string
	WarrantyExpiry string
	Remarks        string
}

// Batch is the ordered parser output.
type Batch struct {
	Labs   []LabCandidate
	Assets []AssetCandidate
}

// Parser turns a document into candidates. Parsers never fail: rows or
// lines they cannot interpret are skipped.
type Parser interface {
	Parse(doc *extract.Document) Batch
}

// For returns the parser registered for a layout.
func For(l Layout) (Parser, error) {
	switch l {
	case LayoutWorkbook:
		return WorkbookParser{}, nil
	case LayoutCSE:
		return TabularParser{Department: "CSE", TagPrefix: "CSE", SourceRemark: "Imported from CSE workbook"}, nil
	case LayoutDSE:
		return FreeTextParser{Rules: DSERules}, nil
	case LayoutICT:
		return FreeTextParser{Rules: ICTRules}, nil
	case LayoutDoc:
		return KeyValueParser{}, nil
	}
	return nil, fmt.Errorf("unknown layout %q", l)
}

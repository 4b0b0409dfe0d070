package parse

import (
	"fmt"
	"strconv"
	"strings"

	"labinventory-backend/internal/extract"
)

// Sheet and column layout of the Labs/Assets workbook. The export writes
// the same layout.
const (
	LabsSheet   = "Labs"
	AssetsSheet = "Assets"
)

var (
	LabColumns   = []string{"Code", "Name", "Department", "Location", "Remarks"}
	AssetColumns = []string{"Asset Tag", "Lab Code", "Status", "Model Name", "Manufacturer", "Serial Number", "Purchase Date", "Warranty Expiry", "Remarks"}
)

// WorkbookParser reads the Labs and Assets sheets, skipping the header row.
// Lab rows need code, name and department; asset rows need tag and lab code.
type WorkbookParser struct{}

func (WorkbookParser) Parse(doc *extract.Document) Batch {
	var b Batch

	if labs, ok := doc.Sheet(LabsSheet); ok {
		for r := 1; r < len(labs.Rows); r++ {
			lab := LabCandidate{
				Code:       labs.Cell(r, 0),
				Name:       labs.Cell(r, 1),
				Department: labs.Cell(r, 2),
				Location:   labs.Cell(r, 3),
				Remarks:    labs.Cell(r, 4),
			}
			if lab.Code == "" || lab.Name == "" || lab.Department == "" {
				continue
			}
			b.Labs = append(b.Labs, lab)
		}
	}

	if assets, ok := doc.Sheet(AssetsSheet); ok {
		for r := 1; r < len(assets.Rows); r++ {
			a := AssetCandidate{
				AssetTag:       assets.Cell(r, 0),
				LabCode:        assets.Cell(r, 1),
				Status:         assets.Cell(r, 2),
				ModelName:      assets.Cell(r, 3),
				Manufacturer:   assets.Cell(r, 4),
				SerialNumber:   assets.Cell(r, 5),
				PurchaseDate:   assets.Cell(r, 6),
				WarrantyExpiry: assets.Cell(r, 7),
				Remarks:        assets.Cell(r, 8),
			}
			if a.AssetTag == "" || a.LabCode == "" {
				continue
			}
			b.Assets = append(b.Assets, a)
		}
	}
	return b
}

// tabularFirstRow is the zero-based index of the first data row; the
// rows above it hold the sheet title and column headings.
const tabularFirstRow = 4

// TabularParser reads a single sheet of [lab code, item, quantity] rows.
type TabularParser struct {
	Department   string
	TagPrefix    string
	SourceRemark string
}

func (p TabularParser) Parse(doc *extract.Document) Batch {
	var b Batch
	sheet, ok := doc.FirstSheet()
	if !ok {
		return b
	}

	counters := make(map[string]int)
	for r := tabularFirstRow; r < len(sheet.Rows); r++ {
		raw := sheet.Cell(r, 0)
		if raw == "" || strings.EqualFold(raw, "seminar") {
			continue
		}

		code := NormalizeCode(raw)
		if _, seen := counters[code]; !seen {
			counters[code] = 1
			b.Labs = append(b.Labs, LabCandidate{
				Code:       code,
				Name:       "Lab " + code,
				Department: p.Department,
				Remarks:    p.SourceRemark,
			})
		}

		desc := sheet.Cell(r, 1)
		if desc == "" || desc == "[empty]" {
			continue
		}

		n := counters[code]
		counters[code] = n + 1
		a := AssetCandidate{
			AssetTag:  fmt.Sprintf("%s-%s-%d", p.TagPrefix, code, n),
			LabCode:   code,
			ModelName: desc,
		}
		if qty, ok := quantity(sheet.Cell(r, 2)); ok {
			a.Remarks = fmt.Sprintf("Quantity: %d", qty)
		}
		b.Assets = append(b.Assets, a)
	}
	return b
}

// quantity reads a positive whole quantity. Spreadsheets often store
// integers as "24" or "24.0".
func quantity(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int(f), true
}

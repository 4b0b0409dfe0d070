package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labinventory-backend/internal/extract"
)

func TestWorkbookParser(t *testing.T) {
	doc := &extract.Document{Sheets: []extract.Sheet{
		{Name: LabsSheet, Rows: [][]string{
			LabColumns,
			{"LAB-1", "Networking Lab", "CSE", "Block A", "first floor"},
			{"LAB-2", "", "CSE"},
			{"LAB-3", "Physics Lab", "PHY"},
		}},
		{Name: AssetsSheet, Rows: [][]string{
			AssetColumns,
			{"AT-1", "LAB-1", "WORKING", "OptiPlex", "Dell", "SN1", "2024-01-15", "2027-01-15", "ok"},
			{"", "LAB-1", "WORKING"},
			{"AT-2", ""},
			{"AT-3", "LAB-3"},
		}},
	}}

	b := WorkbookParser{}.Parse(doc)

	require.Len(t, b.Labs, 2)
	assert.Equal(t, LabCandidate{Code: "LAB-1", Name: "Networking Lab", Department: "CSE", Location: "Block A", Remarks: "first floor"}, b.Labs[0])
	assert.Equal(t, "LAB-3", b.Labs[1].Code)

	require.Len(t, b.Assets, 2)
	assert.Equal(t, AssetCandidate{
		AssetTag: "AT-1", LabCode: "LAB-1", Status: "WORKING", ModelName: "OptiPlex", Manufacturer: "Dell",
		SerialNumber: "SN1", PurchaseDate: "2024-01-15", WarrantyExpiry: "2027-01-15", Remarks: "ok",
	}, b.Assets[0])
	assert.Equal(t, AssetCandidate{AssetTag: "AT-3", LabCode: "LAB-3"}, b.Assets[1])
}

func TestWorkbookParser_MissingSheets(t *testing.T) {
	b := WorkbookParser{}.Parse(&extract.Document{Sheets: []extract.Sheet{{Name: "Sheet1"}}})
	assert.Empty(t, b.Labs)
	assert.Empty(t, b.Assets)
}

func TestTabularParser(t *testing.T) {
	p, err := For(LayoutCSE)
	require.NoError(t, err)

	doc := &extract.Document{Sheets: []extract.Sheet{{Name: "Sheet1", Rows: [][]string{
		{"Department of CSE"},
		{},
		{"Lab", "Equipment", "Qty"},
		{},
		{"cse 01", "Dell Desktop", "24"},
		{"Seminar", "Projector", "1"},
		{"", "Loose item", "1"},
		{"CSE 01", "[empty]", ""},
		{"cse 02", "", ""},
		{"cse 01", "Switch", "2.0"},
		{"cse 01", "Cable", "lots"},
	}}}}

	b := p.Parse(doc)

	require.Len(t, b.Labs, 2)
	assert.Equal(t, LabCandidate{Code: "CSE-01", Name: "Lab CSE-01", Department: "CSE", Remarks: "Imported from CSE workbook"}, b.Labs[0])
	assert.Equal(t, "CSE-02", b.Labs[1].Code)

	expected := []AssetCandidate{
		{AssetTag: "CSE-CSE-01-1", LabCode: "CSE-01", ModelName: "Dell Desktop", Remarks: "Quantity: 24"},
		{AssetTag: "CSE-CSE-01-2", LabCode: "CSE-01", ModelName: "Switch", Remarks: "Quantity: 2"},
		{AssetTag: "CSE-CSE-01-3", LabCode: "CSE-01", ModelName: "Cable"},
	}
	assert.Equal(t, expected, b.Assets)
}

func TestTabularParser_NoSheets(t *testing.T) {
	b := TabularParser{}.Parse(&extract.Document{Lines: []string{"not a sheet"}})
	assert.Empty(t, b.Labs)
}

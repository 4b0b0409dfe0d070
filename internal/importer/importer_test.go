package importer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"labinventory-backend/config"
	"labinventory-backend/internal/db"
	"labinventory-backend/internal/extract"
	"labinventory-backend/internal/model"
	"labinventory-backend/internal/parse"
	"labinventory-backend/internal/store"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	t.Cleanup(func() { sqlDB.Close() })
	return store.NewGormStore(gormDB)
}

// workbook builds a Labs/Assets workbook with header rows.
func workbook(t *testing.T, labs, assets [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", parse.LabsSheet))
	_, err := f.NewSheet(parse.AssetsSheet)
	require.NoError(t, err)

	write := func(sheet string, header []string, rows [][]any) {
		hdr := make([]any, len(header))
		for i, h := range header {
			hdr[i] = h
		}
		require.NoError(t, f.SetSheetRow(sheet, "A1", &hdr))
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	write(parse.LabsSheet, parse.LabColumns, labs)
	write(parse.AssetsSheet, parse.AssetColumns, assets)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImport_MissingLab(t *testing.T) {
	svc := NewService(newStore(t))

	buf := workbook(t, nil, [][]any{{"AT-1", "LAB-99", "WORKING"}})
	summary, err := svc.Import(context.Background(), buf, "assets.xlsx", parse.LayoutWorkbook)

	require.NoError(t, err)
	assert.Equal(t, &Summary{
		LabsImported:   0,
		AssetsImported: 0,
		Errors:         []string{"Asset AT-1: Lab LAB-99 not found"},
	}, summary)
}

func TestImport_PartialFailure(t *testing.T) {
	s := newStore(t)
	svc := NewService(s)

	buf := workbook(t,
		[][]any{{"LAB-1", "Networking Lab", "CSE"}},
		[][]any{
			{"AT-1", "LAB-1", "working", "OptiPlex", "Dell", "SN1", "2024-01-15"},
			{"AT-2", "LAB-1", "BROKEN"},
			{"AT-3", "LAB-1", "", "", "", "", "yesterday"},
			{"AT-4", "LAB-1", "under repair", "", "", "", "", "01-15-27"},
		},
	)
	summary, err := svc.Import(context.Background(), buf, "assets.xlsx", parse.LayoutWorkbook)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.LabsImported)
	assert.Equal(t, 2, summary.AssetsImported)
	assert.Equal(t, []string{
		`Asset AT-2: invalid status "BROKEN"`,
		`Asset AT-3: purchase date: invalid date "yesterday"`,
	}, summary.Errors)

	assets, err := s.ListAssets(context.Background(), store.AssetFilter{})
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "AT-1", assets[0].AssetTag)
	assert.Equal(t, model.StatusWorking, assets[0].Status)
	require.NotNil(t, assets[0].PurchaseDate)
	assert.Equal(t, "2024-01-15", time.Time(*assets[0].PurchaseDate).Format("2006-01-02"))
	assert.Equal(t, model.StatusUnderRepair, assets[1].Status)
	require.NotNil(t, assets[1].WarrantyExpiry)
	assert.Equal(t, "2027-01-15", time.Time(*assets[1].WarrantyExpiry).Format("2006-01-02"))
}

func TestImport_Idempotent(t *testing.T) {
	s := newStore(t)
	svc := NewService(s)
	text := "SN\n1\nNetworking Lab\nEquipment: Switch\n24\n2\nPhysics Lab\nScope: Tektronix TBS1052\n"

	first, err := svc.Import(context.Background(), strings.NewReader(text), "DSE.txt", parse.LayoutDSE)
	require.NoError(t, err)
	second, err := svc.Import(context.Background(), strings.NewReader(text), "DSE.txt", parse.LayoutDSE)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, &Summary{LabsImported: 2, AssetsImported: 2}, second)

	labs, err := s.ListLabs(context.Background())
	require.NoError(t, err)
	assert.Len(t, labs, 2)

	assets, err := s.ListAssets(context.Background(), store.AssetFilter{})
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "DSE-NETWORKING-LAB-1", assets[0].AssetTag)
	require.NotNil(t, assets[0].Model.Name)
	assert.Equal(t, "Switch", *assets[0].Model.Name)
	require.NotNil(t, assets[0].Remarks)
	assert.Contains(t, *assets[0].Remarks, "Count: 24")
}

func TestImport_ReimportUpdatesInPlace(t *testing.T) {
	s := newStore(t)
	svc := NewService(s)
	ctx := context.Background()

	_, err := svc.Import(ctx, workbook(t,
		[][]any{{"LAB-1", "Old Name", "CSE"}},
		[][]any{{"AT-1", "LAB-1", "UNDER_REPAIR"}},
	), "v1.xlsx", parse.LayoutWorkbook)
	require.NoError(t, err)

	before, err := s.ListAssets(ctx, store.AssetFilter{})
	require.NoError(t, err)
	require.Len(t, before, 1)

	_, err = svc.Import(ctx, workbook(t,
		[][]any{{"LAB-1", "New Name", "ECE", "Block B"}},
		[][]any{{"AT-1", "LAB-1", "WORKING", "OptiPlex"}},
	), "v2.xlsx", parse.LayoutWorkbook)
	require.NoError(t, err)

	labs, err := s.ListLabs(ctx)
	require.NoError(t, err)
	require.Len(t, labs, 1)
	assert.Equal(t, "New Name", labs[0].Name)
	assert.Equal(t, "ECE", labs[0].Department)

	after, err := s.ListAssets(ctx, store.AssetFilter{})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, model.StatusWorking, after[0].Status)
	assert.Equal(t, "OptiPlex", *after[0].Model.Name)
}

func TestImport_FormatErrors(t *testing.T) {
	svc := NewService(newStore(t))
	ctx := context.Background()

	testCases := []struct {
		name     string
		filename string
		layout   parse.Layout
		body     string
	}{
		{name: "corrupt workbook", filename: "assets.xlsx", layout: parse.LayoutWorkbook, body: "not a zip"},
		{name: "free text layout given a workbook", filename: "DSE.xlsx", layout: parse.LayoutDSE, body: "irrelevant"},
		{name: "unsupported extension", filename: "DSE.pdf", layout: parse.LayoutDSE, body: "%PDF-1.4"},
		{name: "corrupt docx", filename: "ICT.docx", layout: parse.LayoutICT, body: "not a zip"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			summary, err := svc.Import(ctx, strings.NewReader(tc.body), tc.filename, tc.layout)
			assert.Nil(t, summary)
			assert.ErrorIs(t, err, extract.ErrFormat)
			assert.True(t, IsInputError(err))
		})
	}

	_, err := svc.Import(ctx, strings.NewReader(""), "x.txt", parse.Layout("pdf"))
	assert.Error(t, err)
	assert.False(t, IsInputError(err))
}

type unavailableStore struct {
	upserts int
}

func (s *unavailableStore) UpsertLab(context.Context, *model.Lab) error {
	s.upserts++
	return fmt.Errorf("%w: dial tcp: connection refused", store.ErrUnavailable)
}

func (s *unavailableStore) UpsertAsset(context.Context, *model.Asset) error {
	s.upserts++
	return nil
}

func (s *unavailableStore) FindLabByCode(context.Context, string) (*model.Lab, error) {
	return &model.Lab{ID: 1}, nil
}

func TestImport_StoreUnavailableAborts(t *testing.T) {
	s := &unavailableStore{}
	svc := NewService(s)

	text := "1\nNetworking Lab\nEquipment: Switch\n24\n2\nPhysics Lab\n"
	summary, err := svc.Import(context.Background(), strings.NewReader(text), "DSE.txt", parse.LayoutDSE)

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Equal(t, 1, s.upserts)
}

func TestImport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(newStore(t)).Import(ctx, strings.NewReader("Lab: L1"), "x.txt", parse.LayoutDoc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportFile(t *testing.T) {
	svc := NewService(newStore(t))
	dir := t.TempDir()

	path := filepath.Join(dir, "labs.txt")
	require.NoError(t, os.WriteFile(path, []byte("Lab: L1, Name: Chemistry Lab\nAsset Tag: A1, Lab: L1\n"), 0o644))

	summary, err := svc.ImportFile(context.Background(), path, parse.LayoutDoc)
	require.NoError(t, err)
	assert.Equal(t, &Summary{LabsImported: 1, AssetsImported: 1}, summary)

	_, err = svc.ImportFile(context.Background(), filepath.Join(dir, "missing.txt"), parse.LayoutDoc)
	assert.ErrorIs(t, err, extract.ErrIO)
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
		wantErr  bool
	}{
		{raw: "", expected: ""},
		{raw: "2024-01-15", expected: "2024-01-15"},
		{raw: "2024-01-15T10:00:00Z", expected: "2024-01-15"},
		{raw: "01-15-24", expected: "2024-01-15"},
		{raw: "1/15/2024", expected: "2024-01-15"},
		{raw: "15.01.2024", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			d, err := ParseDate(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tc.expected == "" {
				assert.Nil(t, d)
				return
			}
			require.NotNil(t, d)
			assert.Equal(t, tc.expected, time.Time(*d).Format("2006-01-02"))
		})
	}
}

func TestCellDate(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		{raw: "23802", expected: "1965-03-01"},
		{raw: "45306", expected: "2024-01-15"},
		{raw: "45306.75", expected: "2024-01-15"},
		{raw: "2024-01-15", expected: "2024-01-15"},
		{raw: "01-15-24", expected: "2024-01-15"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			d, err := cellDate(tc.raw)
			require.NoError(t, err)
			require.NotNil(t, d)
			assert.Equal(t, tc.expected, time.Time(*d).Format("2006-01-02"))
		})
	}

	d, err := cellDate("")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestImport_DateCells(t *testing.T) {
	s := newStore(t)
	svc := NewService(s)

	buf := workbook(t,
		[][]any{{"LAB-1", "Networking Lab", "CSE"}},
		[][]any{{"AT-1", "LAB-1", "WORKING", "", "", "",
			time.Date(1965, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2031, time.December, 31, 0, 0, 0, 0, time.UTC)}},
	)
	summary, err := svc.Import(context.Background(), buf, "assets.xlsx", parse.LayoutWorkbook)
	require.NoError(t, err)
	require.Empty(t, summary.Errors)

	assets, err := s.ListAssets(context.Background(), store.AssetFilter{})
	require.NoError(t, err)
	require.Len(t, assets, 1)
	asset := assets[0]
	require.NotNil(t, asset.PurchaseDate)
	require.NotNil(t, asset.WarrantyExpiry)
	assert.Equal(t, "1965-03-01", time.Time(*asset.PurchaseDate).Format("2006-01-02"))
	assert.Equal(t, "2031-12-31", time.Time(*asset.WarrantyExpiry).Format("2006-01-02"))
}

func TestImport_LabsReconciledBeforeAssets(t *testing.T) {
	svc := NewService(newStore(t))

	text := "Asset Tag: AT-1, Lab: L1, Status: WORKING\nLab: L1, Name: Physics Lab\n"
	summary, err := svc.Import(context.Background(), strings.NewReader(text), "inventory.txt", parse.LayoutDoc)

	require.NoError(t, err)
	assert.Equal(t, &Summary{LabsImported: 1, AssetsImported: 1}, summary)
}

func TestParseStatus(t *testing.T) {
	testCases := []struct {
		raw      string
		expected model.AssetStatus
		wantErr  bool
	}{
		{raw: "", expected: model.StatusWorking},
		{raw: "lost", expected: model.StatusLost},
		{raw: "Under  Repair", expected: model.StatusUnderRepair},
		{raw: "SCRAPPED", expected: model.StatusScrapped},
		{raw: "stolen", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			s, err := ParseStatus(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, s)
		})
	}
}

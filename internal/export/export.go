// Package export writes the inventory as a Labs/Assets workbook that the
// workbook import layout reads back.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"labinventory-backend/internal/model"
	"labinventory-backend/internal/parse"
	"labinventory-backend/internal/store"
)

// ContentType is the MIME type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Source lists the entities to export. Labs come ordered by code and
// assets by tag with their lab loaded.
type Source interface {
	ListLabs(ctx context.Context) ([]model.Lab, error)
	ListAssets(ctx context.Context, filter store.AssetFilter) ([]model.Asset, error)
}

// Export writes every lab and asset to w as xlsx.
func Export(ctx context.Context, src Source, w io.Writer) error {
	labs, err := src.ListLabs(ctx)
	if err != nil {
		return fmt.Errorf("list labs: %w", err)
	}
	assets, err := src.ListAssets(ctx, store.AssetFilter{})
	if err != nil {
		return fmt.Errorf("list assets: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", parse.LabsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(parse.AssetsSheet); err != nil {
		return err
	}

	labRows := make([][]any, 0, len(labs))
	for _, l := range labs {
		labRows = append(labRows, []any{l.Code, l.Name, l.Department, deref(l.Location), deref(l.Remarks)})
	}
	if err := writeSheet(f, parse.LabsSheet, parse.LabColumns, labRows); err != nil {
		return err
	}

	assetRows := make([][]any, 0, len(assets))
	for _, a := range assets {
		labCode := ""
		if a.Lab != nil {
			labCode = a.Lab.Code
		}
		assetRows = append(assetRows, []any{
			a.AssetTag,
			labCode,
			string(a.Status),
			deref(a.Model.Name),
			deref(a.Model.Manufacturer),
			deref(a.SerialNumber),
			formatDate(a.PurchaseDate),
			formatDate(a.WarrantyExpiry),
			deref(a.Remarks),
		})
	}
	if err := writeSheet(f, parse.AssetsSheet, parse.AssetColumns, assetRows); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return err
	}
	for i := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &rows[i]); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func formatDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format("2006-01-02")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

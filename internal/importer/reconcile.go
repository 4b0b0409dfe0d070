package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"labinventory-backend/internal/metrics"
	"labinventory-backend/internal/model"
	"labinventory-backend/internal/parse"
	"labinventory-backend/internal/store"
)

// dateLayouts are the accepted date renderings: ISO, RFC 3339 and two
// US forms seen in text-typed spreadsheet cells.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01-02-06",
	"1/2/2006",
}

// reconciler writes candidates one at a time and accumulates the summary
// of a single run.
type reconciler struct {
	store   Store
	summary Summary
}

func (r *reconciler) lab(ctx context.Context, c parse.LabCandidate) error {
	lab := &model.Lab{
		Code:       c.Code,
		Name:       c.Name,
		Department: c.Department,
		Location:   optional(c.Location),
		Remarks:    optional(c.Remarks),
	}
	if err := r.store.UpsertLab(ctx, lab); err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			return err
		}
		r.reject("Lab", c.Code, err.Error())
		return nil
	}
	r.summary.LabsImported++
	metrics.ImportRecords.WithLabelValues("lab", "upserted").Inc()
	return nil
}

func (r *reconciler) asset(ctx context.Context, c parse.AssetCandidate) error {
	status, err := ParseStatus(c.Status)
	if err != nil {
		r.reject("Asset", c.AssetTag, err.Error())
		return nil
	}
	purchased, err := cellDate(c.PurchaseDate)
	if err != nil {
		r.reject("Asset", c.AssetTag, "purchase date: "+err.Error())
		return nil
	}
	warranty, err := cellDate(c.WarrantyExpiry)
	if err != nil {
		r.reject("Asset", c.AssetTag, "warranty expiry: "+err.Error())
		return nil
	}

	lab, err := r.store.FindLabByCode(ctx, c.LabCode)
	switch {
	case errors.Is(err, store.ErrNotFound):
		r.reject("Asset", c.AssetTag, fmt.Sprintf("Lab %s not found", c.LabCode))
		return nil
	case errors.Is(err, store.ErrUnavailable):
		return err
	case err != nil:
		r.reject("Asset", c.AssetTag, err.Error())
		return nil
	}

	asset := &model.Asset{
		AssetTag: c.AssetTag,
		LabID:    lab.ID,
		Status:   status,
		Model: model.AssetModel{
			Name:         optional(c.ModelName),
			Manufacturer: optional(c.Manufacturer),
		},
		SerialNumber:   optional(c.SerialNumber),
		PurchaseDate:   purchased,
		WarrantyExpiry: warranty,
		Remarks:        optional(c.Remarks),
	}
	if err := r.store.UpsertAsset(ctx, asset); err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			return err
		}
		r.reject("Asset", c.AssetTag, err.Error())
		return nil
	}
	r.summary.AssetsImported++
	metrics.ImportRecords.WithLabelValues("asset", "upserted").Inc()
	return nil
}

func (r *reconciler) reject(kind, key, msg string) {
	r.summary.Errors = append(r.summary.Errors, fmt.Sprintf("%s %s: %s", kind, key, msg))
	metrics.ImportRecords.WithLabelValues(strings.ToLower(kind), "rejected").Inc()
}

// ParseStatus accepts the status names in any case, with spaces for
// underscores. Blank means WORKING.
func ParseStatus(raw string) (model.AssetStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return model.StatusWorking, nil
	}
	s := model.AssetStatus(strings.ToUpper(strings.Join(strings.Fields(raw), "_")))
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q", raw)
	}
	return s, nil
}

// ParseDate accepts the dateLayouts renderings. Blank means no date.
func ParseDate(raw string) (*datatypes.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := datatypes.Date(t)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", raw)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// cellDate parses an imported date. Spreadsheet date cells arrive as
// Excel serial numbers; anything else goes through ParseDate.
func cellDate(raw string) (*datatypes.Date, error) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial <= 0 {
		return ParseDate(raw)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	y, m, day := t.Date()
	d := datatypes.Date(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
	return &d, nil
}

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labinventory-backend/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a natural key is already taken.
	ErrDuplicate = errors.New("duplicate key")
	// ErrUnavailable is returned when the database cannot be reached.
	ErrUnavailable = errors.New("storage unavailable")
)

// AssetFilter narrows ListAssets. Zero values match everything.
type AssetFilter struct {
	LabID  int64
	Status model.AssetStatus
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	Ping(ctx context.Context) error

	UpsertLab(ctx context.Context, lab *model.Lab) error
	UpsertAsset(ctx context.Context, asset *model.Asset) error
	FindLabByCode(ctx context.Context, code string) (*model.Lab, error)

	ListLabs(ctx context.Context) ([]model.Lab, error)
	GetLab(ctx context.Context, id int64) (*model.Lab, error)
	CreateLab(ctx context.Context, lab *model.Lab) error

	ListAssets(ctx context.Context, filter AssetFilter) ([]model.Asset, error)
	GetAsset(ctx context.Context, id int64) (*model.Asset, error)
	CreateAsset(ctx context.Context, asset *model.Asset) error

	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return translate(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// UpsertLab inserts the lab or overwrites the one sharing its code.
func (s *gormStore) UpsertLab(ctx context.Context, lab *model.Lab) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "department", "location", "remarks", "updated_at"}),
	}).Create(lab).Error
	if err != nil {
		return fmt.Errorf("upsert lab %s: %w", lab.Code, translate(err))
	}
	return nil
}

// UpsertAsset inserts the asset or overwrites the one sharing its tag.
func (s *gormStore) UpsertAsset(ctx context.Context, asset *model.Asset) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "asset_tag"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"lab_id", "status", "model_name", "model_manufacturer", "serial_number",
			"purchase_date", "warranty_expiry", "remarks", "updated_at",
		}),
	}).Create(asset).Error
	if err != nil {
		return fmt.Errorf("upsert asset %s: %w", asset.AssetTag, translate(err))
	}
	return nil
}

func (s *gormStore) FindLabByCode(ctx context.Context, code string) (*model.Lab, error) {
	var lab model.Lab
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&lab).Error; err != nil {
		return nil, translate(err)
	}
	return &lab, nil
}

func (s *gormStore) ListLabs(ctx context.Context) ([]model.Lab, error) {
	var labs []model.Lab
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&labs).Error; err != nil {
		return nil, translate(err)
	}
	return labs, nil
}

func (s *gormStore) GetLab(ctx context.Context, id int64) (*model.Lab, error) {
	var lab model.Lab
	if err := s.db.WithContext(ctx).First(&lab, id).Error; err != nil {
		return nil, translate(err)
	}
	return &lab, nil
}

func (s *gormStore) CreateLab(ctx context.Context, lab *model.Lab) error {
	if err := s.db.WithContext(ctx).Create(lab).Error; err != nil {
		return translate(err)
	}
	return nil
}

// ListAssets returns assets ordered by tag with their lab preloaded.
func (s *gormStore) ListAssets(ctx context.Context, filter AssetFilter) ([]model.Asset, error) {
	q := s.db.WithContext(ctx).Preload("Lab")
	if filter.LabID != 0 {
		q = q.Where("lab_id = ?", filter.LabID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var assets []model.Asset
	if err := q.Order("asset_tag ASC").Find(&assets).Error; err != nil {
		return nil, translate(err)
	}
	return assets, nil
}

func (s *gormStore) GetAsset(ctx context.Context, id int64) (*model.Asset, error) {
	var asset model.Asset
	if err := s.db.WithContext(ctx).Preload("Lab").First(&asset, id).Error; err != nil {
		return nil, translate(err)
	}
	return &asset, nil
}

// CreateAsset inserts a new asset and reloads it with its lab.
func (s *gormStore) CreateAsset(ctx context.Context, asset *model.Asset) error {
	if asset.Status == "" {
		asset.Status = model.StatusWorking
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(asset).Error; err != nil {
		return translate(err)
	}
	return translate(s.db.WithContext(ctx).Preload("Lab").First(asset, asset.ID).Error)
}

func (s *gormStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

// translate maps driver and gorm errors onto the store's sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "sql: database is closed")
}

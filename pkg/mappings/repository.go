package mappings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("transaction mapping not found")

	// ErrConflict means an active mapping already exists for the key.
	ErrConflict = errors.New("active mapping already exists")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&TransactionMapping{})
}

func (r *Repository) Create(ctx context.Context, req models.CreateMappingRequest) (*TransactionMapping, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TransactionMapping{}).
		Where("tenant_id = ? AND partner_id = ? AND transaction_type = ? AND active = ?",
			req.TenantID, req.PartnerID, req.TransactionType, true).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s/%s/%s", ErrConflict, req.TenantID, req.PartnerID, req.TransactionType)
	}

	now := time.Now().UTC()
	mapping := TransactionMapping{
		ID:              uuid.New().String(),
		TenantID:        req.TenantID,
		PartnerID:       req.PartnerID,
		TransactionType: req.TransactionType,
		FieldMap:        datatypes.JSONMap(req.FieldMap),
		Defaults:        datatypes.JSONMap(req.Defaults),
		Transforms:      datatypes.JSONMap(req.Transforms),
		ValidationRules: datatypes.JSONMap(req.ValidationRules),
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.db.WithContext(ctx).Create(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

// Lookup returns the active mapping for the key, if any.
func (r *Repository) Lookup(ctx context.Context, tenantID, partnerID string, t models.TransactionType) (*TransactionMapping, error) {
	var mapping TransactionMapping
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND partner_id = ? AND transaction_type = ? AND active = ?",
			tenantID, partnerID, t, true).
		First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *Repository) List(ctx context.Context, tenantID string) ([]TransactionMapping, error) {
	var list []TransactionMapping
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("partner_id ASC, transaction_type ASC").
		Find(&list).Error
	return list, err
}

// Deactivate retires the mapping so a replacement can be created.
func (r *Repository) Deactivate(ctx context.Context, tenantID, id string) error {
	res := r.db.WithContext(ctx).Model(&TransactionMapping{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

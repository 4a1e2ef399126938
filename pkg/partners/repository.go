package partners

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
	ErrNotFound = errors.New("trading partner not found")

	// ErrConflict means another non-deleted partner already claims the ISA id.
	ErrConflict = errors.New("isa id already in use")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&TradingPartner{})
}

func (r *Repository) Create(ctx context.Context, req models.CreatePartnerRequest) (*TradingPartner, error) {
	taken, err := r.isaIDTaken(ctx, req.TenantID, req.ISAID, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrConflict, req.ISAID)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	now := time.Now().UTC()
	partner := TradingPartner{
		ID:                   uuid.New().String(),
		TenantID:             req.TenantID,
		PartnerName:          req.PartnerName,
		PartnerType:          req.PartnerType,
		ISAID:                req.ISAID,
		Protocol:             req.Protocol,
		ConnectionConfig:     datatypes.JSONMap(req.ConnectionConfig),
		SendFunctionalAck:    req.SendFunctionalAck,
		RequireFunctionalAck: req.RequireFunctional,
		Active:               active,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := r.db.WithContext(ctx).Create(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *Repository) Update(ctx context.Context, tenantID, id string, req models.UpdatePartnerRequest) (*TradingPartner, error) {
	partner, err := r.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.ISAID != nil && *req.ISAID != partner.ISAID {
		taken, err := r.isaIDTaken(ctx, tenantID, *req.ISAID, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", ErrConflict, *req.ISAID)
		}
		partner.ISAID = *req.ISAID
	}
	if req.PartnerName != nil {
		partner.PartnerName = *req.PartnerName
	}
	if req.PartnerType != nil {
		partner.PartnerType = *req.PartnerType
	}
	if req.Protocol != nil {
		partner.Protocol = *req.Protocol
	}
	if req.ConnectionConfig != nil {
		partner.ConnectionConfig = datatypes.JSONMap(req.ConnectionConfig)
	}
	if req.SendFunctionalAck != nil {
		partner.SendFunctionalAck = *req.SendFunctionalAck
	}
	if req.RequireFunctional != nil {
		partner.RequireFunctionalAck = *req.RequireFunctional
	}
	if req.Active != nil {
		partner.Active = *req.Active
	}
	partner.UpdatedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).Save(partner).Error; err != nil {
		return nil, err
	}
	return partner, nil
}

func (r *Repository) Get(ctx context.Context, tenantID, id string) (*TradingPartner, error) {
	var partner TradingPartner
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&partner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *Repository) List(ctx context.Context, tenantID string) ([]TradingPartner, error) {
	var list []TradingPartner
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("partner_name ASC").
		Find(&list).Error
	return list, err
}

// Delete soft-deletes the partner; the ISA id becomes reusable.
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&TradingPartner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) isaIDTaken(ctx context.Context, tenantID, isaID, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&TradingPartner{}).
		Where("tenant_id = ? AND isa_id = ?", tenantID, isaID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

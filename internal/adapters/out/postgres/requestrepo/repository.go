package requestrepo

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.RequestRepository = (*GormRequestRepository)(nil)

// GormRequestRepository implements RequestRepository using GORM.
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GORM request repository.
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// Add saves a new request to the database.
func (r *GormRequestRepository) Add(ctx context.Context, aggregate *delivery.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectConflictError("request", aggregate.ID().String())
		}
		return err
	}
	return nil
}

// Update writes every column of the request, but only if the stored status still equals
// expected. A miss is reported as ObjectNotFound when the row does not exist and as
// ObjectConflict when another writer changed the status first.
func (r *GormRequestRepository) Update(ctx context.Context, aggregate *delivery.Request, expected delivery.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&RequestDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&RequestDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("request", aggregate.ID().String())
	}
	return errs.NewObjectConflictError("request", aggregate.ID().String())
}

// Get retrieves a request by ID.
func (r *GormRequestRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Request, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("request", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List retrieves requests matching filter, oldest first.
func (r *GormRequestRepository) List(ctx context.Context, filter ports.RequestFilter) ([]*delivery.Request, error) {
	tx := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if filter.Status != nil {
		tx = tx.Where("status = ?", filter.Status.String())
	}
	if filter.CourierID != nil {
		tx = tx.Where("courier_id = ?", filter.CourierID.Bytes())
	}

	var dtos []RequestDTO
	if err := tx.Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// ListPending retrieves the PENDING queue in offer order.
func (r *GormRequestRepository) ListPending(ctx context.Context) ([]*delivery.Request, error) {
	pending := delivery.Pending
	return r.List(ctx, ports.RequestFilter{Status: &pending})
}

// FindActiveByCourier retrieves the undelivered request carried by the courier.
func (r *GormRequestRepository) FindActiveByCourier(ctx context.Context, courierID kernel.UUID) (*delivery.Request, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	err := r.db.WithContext(ctx).
		Where("courier_id = ? AND status <> ?", courierID.Bytes(), delivery.Delivered.String()).
		Order("created_at ASC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active request of courier", courierID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func toDomainAll(dtos []RequestDTO) ([]*delivery.Request, error) {
	requests := make([]*delivery.Request, 0, len(dtos))
	for _, dto := range dtos {
		request, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

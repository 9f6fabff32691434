package courierrepo

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/domain/model/courier"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.CourierRepository = (*GormCourierRepository)(nil)

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectConflictError("courier", aggregate.ID().String())
		}
		return err
	}
	return nil
}

// Update saves an existing courier. Every column is written, including false and zero values.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}
	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List retrieves every courier ordered by name.
func (r *GormCourierRepository) List(ctx context.Context) ([]*courier.Courier, error) {
	return r.find(r.db.WithContext(ctx))
}

// ListOnline retrieves the couriers that accept offers.
//
// Example:
//
//	online, err := repo.ListOnline(ctx)
//	if err != nil {
//		return fmt.Errorf("failed to get online couriers: %w", err)
//	}
//	for _, c := range online {
//		fmt.Printf("Online courier: %s\n", c.Name())
//	}
func (r *GormCourierRepository) ListOnline(ctx context.Context) ([]*courier.Courier, error) {
	return r.find(r.db.WithContext(ctx).Where("online = ?", true))
}

func (r *GormCourierRepository) find(tx *gorm.DB) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := tx.Order("name ASC, id ASC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}
	return couriers, nil
}

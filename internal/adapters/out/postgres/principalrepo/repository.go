package principalrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrincipalDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role   string    `gorm:"type:varchar(16);index"`
	Locked bool
}

func (PrincipalDTO) TableName() string {
	return "principals"
}

type GormPrincipalRepository struct {
	db *gorm.DB
}

func NewGormPrincipalRepository(db *gorm.DB) *GormPrincipalRepository {
	return &GormPrincipalRepository{db: db}
}

func (r *GormPrincipalRepository) Add(ctx context.Context, p *identity.Principal) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := PrincipalDTO{ID: p.ID().Bytes(), Role: p.Role().String(), Locked: p.IsLocked()}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewStorageError("add principal", err)
	}
	return nil
}

func (r *GormPrincipalRepository) Update(ctx context.Context, p *identity.Principal) error {
	if err := p.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&PrincipalDTO{}).
		Where("id = ?", p.ID().Bytes()).
		Update("locked", p.IsLocked())
	if result.Error != nil {
		return errs.NewStorageError("update principal", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("principal", p.ID().String())
	}
	return nil
}

func (r *GormPrincipalRepository) Get(ctx context.Context, id kernel.UUID) (*identity.Principal, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PrincipalDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("principal", id.String())
	}
	if err != nil {
		return nil, errs.NewStorageError("get principal", err)
	}

	return toDomain(dto)
}

func (r *GormPrincipalRepository) ListByRole(ctx context.Context, role identity.Role) ([]*identity.Principal, error) {
	var dtos []PrincipalDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos, "role = ?", role.String()).Error; err != nil {
		return nil, errs.NewStorageError("list principals", err)
	}

	principals := make([]*identity.Principal, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		principals = append(principals, p)
	}
	return principals, nil
}

func toDomain(dto PrincipalDTO) (*identity.Principal, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := identity.RoleFromString(dto.Role)
	if err != nil {
		return nil, err
	}

	return identity.NewPrincipal(id, role, dto.Locked)
}

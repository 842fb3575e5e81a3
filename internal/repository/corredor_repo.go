package repository

import (
	"context"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CorredorRepository interface {
	Create(ctx context.Context, c *model.Corredor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Corredor, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Corredor, error)
	Update(ctx context.Context, c *model.Corredor) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type corredorRepo struct{ db *gorm.DB }

func NewCorredorRepository(db *gorm.DB) CorredorRepository { return &corredorRepo{db: db} }

func (r *corredorRepo) Create(ctx context.Context, c *model.Corredor) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *corredorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Corredor, error) {
	var c model.Corredor
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *corredorRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Corredor, error) {
	var corredores []model.Corredor
	q := r.db.WithContext(ctx)
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&corredores).Error
	return corredores, err
}

func (r *corredorRepo) Update(ctx context.Context, c *model.Corredor) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *corredorRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Corredor{}).Where("id = ?", id).Update("activo", false).Error
}

package designation

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, d *Designation) error
	FindAll(ctx context.Context) ([]Designation, error)
	FindByID(ctx context.Context, id string) (*Designation, error)
	Update(ctx context.Context, d *Designation) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, d *Designation) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Designation, error) {
	var designations []Designation
	err := r.db.WithContext(ctx).
		Preload("Department").
		Order("name ASC").
		Find(&designations).Error
	return designations, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Designation, error) {
	var d Designation
	err := r.db.WithContext(ctx).
		Preload("Department").
		First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) Update(ctx context.Context, d *Designation) error {
	// Avoid persisting the preloaded Department association on update.
	return r.db.WithContext(ctx).Omit("Department").Save(d).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Designation{}, "id = ?", id).Error
}

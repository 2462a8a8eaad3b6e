package salarystructure

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, structure *SalaryStructure) error
	Update(ctx context.Context, structure *SalaryStructure) error
	// FindCurrentByEmployee selects among active structures whose validity
	// window contains asOf, the one with the latest effective_from; equal
	// effective_from ties break by latest created_at.
	FindCurrentByEmployee(ctx context.Context, employeeID string, asOf time.Time) (*SalaryStructure, error)
	// FindCurrentByEmployeeForUpdate is the locking variant used by
	// Supersede so the retire-and-insert pair is atomic.
	FindCurrentByEmployeeForUpdate(ctx context.Context, employeeID string, asOf time.Time) (*SalaryStructure, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]SalaryStructure, error)
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

func (r *repository) Create(ctx context.Context, structure *SalaryStructure) error {
	return r.db.WithContext(ctx).Create(structure).Error
}

func (r *repository) Update(ctx context.Context, structure *SalaryStructure) error {
	return r.db.WithContext(ctx).Save(structure).Error
}

func (r *repository) FindCurrentByEmployee(ctx context.Context, employeeID string, asOf time.Time) (*SalaryStructure, error) {
	return r.findCurrent(r.db.WithContext(ctx), employeeID, asOf)
}

func (r *repository) FindCurrentByEmployeeForUpdate(ctx context.Context, employeeID string, asOf time.Time) (*SalaryStructure, error) {
	return r.findCurrent(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		employeeID,
		asOf,
	)
}

func (r *repository) findCurrent(db *gorm.DB, employeeID string, asOf time.Time) (*SalaryStructure, error) {
	var structure SalaryStructure
	err := db.
		Where("employee_id = ?", employeeID).
		Where("active = ?", true).
		Where("effective_from <= ?", asOf).
		Where("effective_to IS NULL OR effective_to >= ?", asOf).
		Order("effective_from DESC").
		Order("created_at DESC").
		First(&structure).Error
	if err != nil {
		return nil, err
	}
	return &structure, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]SalaryStructure, error) {
	var structures []SalaryStructure
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("effective_from DESC").
		Order("created_at DESC").
		Find(&structures).Error
	return structures, err
}

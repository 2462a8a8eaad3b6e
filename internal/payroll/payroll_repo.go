package payroll

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payroll *Payroll) error
	FindByID(ctx context.Context, id string) (*Payroll, error)
	// FindByIDForUpdate locks the payroll row so status checks and total
	// recomputation serialize with concurrent writers.
	FindByIDForUpdate(ctx context.Context, id string) (*Payroll, error)
	FindAll(ctx context.Context, filter QueryFilter) ([]Payroll, error)
	Update(ctx context.Context, payroll *Payroll) error
	CreateItem(ctx context.Context, item *PayrollItem) error
	FindItems(ctx context.Context, payrollID string) ([]PayrollItem, error)
	// SumItems derives the earning and deduction totals from the full item
	// set; totals are never incremented in place from a stale read.
	SumItems(ctx context.Context, payrollID string) (earnings int64, deductions int64, err error)
}

type QueryFilter struct {
	EmployeeID string
	Status     string
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

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.db.WithContext(ctx).Create(payroll).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.db.WithContext(ctx).First(&payroll, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payroll, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *repository) FindAll(ctx context.Context, filter QueryFilter) ([]Payroll, error) {
	db := r.db.WithContext(ctx).Model(&Payroll{})

	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var payrolls []Payroll
	err := db.Order("period_start DESC").Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) Update(ctx context.Context, payroll *Payroll) error {
	return r.db.WithContext(ctx).Save(payroll).Error
}

func (r *repository) CreateItem(ctx context.Context, item *PayrollItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindItems(ctx context.Context, payrollID string) ([]PayrollItem, error) {
	var items []PayrollItem
	err := r.db.WithContext(ctx).
		Where("payroll_id = ?", payrollID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) SumItems(ctx context.Context, payrollID string) (int64, int64, error) {
	type itemSum struct {
		ItemType string
		Total    int64
	}

	var sums []itemSum
	err := r.db.WithContext(ctx).
		Model(&PayrollItem{}).
		Select("item_type, COALESCE(SUM(amount), 0) AS total").
		Where("payroll_id = ?", payrollID).
		Group("item_type").
		Scan(&sums).Error
	if err != nil {
		return 0, 0, err
	}

	var earnings, deductions int64
	for _, s := range sums {
		switch s.ItemType {
		case ItemTypeEarning:
			earnings = s.Total
		case ItemTypeDeduction:
			deductions = s.Total
		}
	}

	return earnings, deductions, nil
}

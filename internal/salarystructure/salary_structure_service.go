package salarystructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/role"
	salarystructureerrors "go-payroll/internal/salarystructure/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	// Supersede inserts a new active structure and, in the same
	// transaction, retires the previously current one so exactly one
	// structure is active-and-current per employee at any instant.
	Supersede(ctx context.Context, actor role.Actor, req CreateSalaryStructureRequest) (SalaryStructureResponse, error)
	CurrentStructure(ctx context.Context, actor role.Actor, employeeID string, asOf time.Time) (SalaryStructureResponse, error)
	GetAllByEmployee(ctx context.Context, actor role.Actor, employeeID string) ([]SalaryStructureResponse, error)

	// CurrentBasicSalary is the resolver port consumed by payroll creation.
	CurrentBasicSalary(ctx context.Context, employeeID string, asOf time.Time) (int64, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	recorder audit.Recorder
}

func NewService(db *gorm.DB, repo Repository, recorder audit.Recorder) Service {
	return &service{db: db, repo: repo, recorder: recorder}
}

func (s *service) Supersede(
	ctx context.Context,
	actor role.Actor,
	req CreateSalaryStructureRequest,
) (SalaryStructureResponse, error) {
	if err := requireRole(actor, role.HRManager); err != nil {
		return SalaryStructureResponse{}, err
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return SalaryStructureResponse{}, salarystructureerrors.ErrInvalidEmployeeID
	}

	effectiveFrom, err := parseDate(req.EffectiveFrom)
	if err != nil {
		return SalaryStructureResponse{}, salarystructureerrors.ErrInvalidDateFormat
	}

	if req.BasicSalary < 0 || req.HouseRentAllowance < 0 || req.ConveyanceAllowance < 0 ||
		req.MedicalAllowance < 0 || req.SpecialAllowance < 0 {
		return SalaryStructureResponse{}, salarystructureerrors.ErrNegativeAmount
	}

	structure := &SalaryStructure{
		ID:                  uuid.New(),
		EmployeeID:          employeeID,
		BasicSalary:         req.BasicSalary,
		HouseRentAllowance:  req.HouseRentAllowance,
		ConveyanceAllowance: req.ConveyanceAllowance,
		MedicalAllowance:    req.MedicalAllowance,
		SpecialAllowance:    req.SpecialAllowance,
		EffectiveFrom:       effectiveFrom,
		Active:              true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		current, err := qtx.FindCurrentByEmployeeForUpdate(ctx, req.EmployeeID, effectiveFrom)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if current != nil {
			current.Active = false
			current.EffectiveTo = &effectiveFrom
			if err := qtx.Update(ctx, current); err != nil {
				return err
			}
		}

		return qtx.Create(ctx, structure)
	})
	if err != nil {
		return SalaryStructureResponse{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionSupersede,
		EntityType: "salary_structure",
		EntityID:   structure.ID.String(),
		Detail:     fmt.Sprintf("salary structure effective from %s", req.EffectiveFrom),
	})

	return mapToResponse(*structure), nil
}

func (s *service) CurrentStructure(
	ctx context.Context,
	actor role.Actor,
	employeeID string,
	asOf time.Time,
) (SalaryStructureResponse, error) {
	if err := requireReadAccess(actor, employeeID); err != nil {
		return SalaryStructureResponse{}, err
	}

	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	structure, err := s.repo.FindCurrentByEmployee(ctx, employeeID, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryStructureResponse{}, salarystructureerrors.ErrStructureNotFound
		}
		return SalaryStructureResponse{}, err
	}

	return mapToResponse(*structure), nil
}

func (s *service) GetAllByEmployee(
	ctx context.Context,
	actor role.Actor,
	employeeID string,
) ([]SalaryStructureResponse, error) {
	if err := requireReadAccess(actor, employeeID); err != nil {
		return nil, err
	}

	structures, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(structures), nil
}

func (s *service) CurrentBasicSalary(ctx context.Context, employeeID string, asOf time.Time) (int64, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	structure, err := s.repo.FindCurrentByEmployee(ctx, employeeID, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, salarystructureerrors.ErrStructureNotFound
		}
		return 0, err
	}

	return structure.BasicSalary, nil
}

func requireRole(actor role.Actor, required role.Role) error {
	if !actor.Authenticated() {
		return apperror.ErrUnauthorized
	}
	allowed, err := role.HasAccess(actor.Role, required)
	if err != nil {
		return err
	}
	if !allowed {
		return apperror.ErrForbidden
	}
	return nil
}

// requireReadAccess allows hr_staff and above to read any employee's
// structures; an employee-role actor may only read their own.
func requireReadAccess(actor role.Actor, employeeID string) error {
	if !actor.Authenticated() {
		return apperror.ErrUnauthorized
	}

	allowed, err := role.HasAccess(actor.Role, role.HRStaff)
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}

	if !actor.Owns(employeeID) {
		return apperror.ErrForbidden
	}
	return nil
}

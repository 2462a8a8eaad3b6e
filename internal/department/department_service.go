package department

import (
	"context"
	"errors"

	"go-payroll/internal/audit"
	"go-payroll/internal/role"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, actor role.Actor, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context, actor role.Actor) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, actor role.Actor, id string) (DepartmentResponse, error)
	Update(ctx context.Context, actor role.Actor, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, actor role.Actor, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	recorder audit.Recorder
}

func NewService(db *gorm.DB, repo Repository, recorder audit.Recorder) Service {
	return &service{db: db, repo: repo, recorder: recorder}
}

func (s *service) Create(
	ctx context.Context,
	actor role.Actor,
	req CreateDepartmentRequest,
) (DepartmentResponse, error) {
	if err := requireRank(actor, role.HRManager); err != nil {
		return DepartmentResponse{}, err
	}

	dept := &Department{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, dept)
	})
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionCreate,
		EntityType: "department",
		EntityID:   dept.ID.String(),
		Detail:     dept.Name,
	})

	return mapToResponse(*dept), nil
}

func (s *service) GetAll(ctx context.Context, actor role.Actor) ([]DepartmentResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return nil, err
	}

	depts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(depts), nil
}

func (s *service) GetByID(ctx context.Context, actor role.Actor, id string) (DepartmentResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return DepartmentResponse{}, err
	}

	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*dept), nil
}

func (s *service) Update(
	ctx context.Context,
	actor role.Actor,
	id string,
	req UpdateDepartmentRequest,
) (DepartmentResponse, error) {
	if err := requireRank(actor, role.HRManager); err != nil {
		return DepartmentResponse{}, err
	}

	var updated Department
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		dept, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		dept.Name = req.Name
		dept.Description = req.Description

		if err := qtx.Update(ctx, dept); err != nil {
			return err
		}

		updated = *dept
		return nil
	})
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionUpdate,
		EntityType: "department",
		EntityID:   id,
		Detail:     updated.Name,
	})

	return mapToResponse(updated), nil
}

func (s *service) Delete(ctx context.Context, actor role.Actor, id string) error {
	if err := requireRank(actor, role.HRManager); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		// Soft delete; employees referencing the department keep their FK.
		if _, err := qtx.FindByID(ctx, id); err != nil {
			return err
		}
		return qtx.Delete(ctx, id)
	})
	if err != nil {
		return mapRepositoryError(err)
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionDelete,
		EntityType: "department",
		EntityID:   id,
	})

	return nil
}

func requireRank(actor role.Actor, required role.Role) error {
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

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrDepartmentNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDepartmentNameTaken
	}
	return err
}

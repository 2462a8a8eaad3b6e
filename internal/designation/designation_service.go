package designation

import (
	"context"
	"errors"

	"go-payroll/internal/audit"
	"go-payroll/internal/department"
	"go-payroll/internal/role"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, actor role.Actor, req CreateDesignationRequest) (DesignationResponse, error)
	GetAll(ctx context.Context, actor role.Actor) ([]DesignationResponse, error)
	GetByID(ctx context.Context, actor role.Actor, id string) (DesignationResponse, error)
	Update(ctx context.Context, actor role.Actor, id string, req UpdateDesignationRequest) (DesignationResponse, error)
	Delete(ctx context.Context, actor role.Actor, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	depts    department.Repository
	recorder audit.Recorder
}

func NewService(db *gorm.DB, repo Repository, depts department.Repository, recorder audit.Recorder) Service {
	return &service{db: db, repo: repo, depts: depts, recorder: recorder}
}

func (s *service) Create(
	ctx context.Context,
	actor role.Actor,
	req CreateDesignationRequest,
) (DesignationResponse, error) {
	if err := requireRank(actor, role.HRManager); err != nil {
		return DesignationResponse{}, err
	}

	d := &Designation{
		ID:           uuid.New(),
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: uuid.MustParse(req.DepartmentID),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.depts.WithTx(tx).FindByID(ctx, req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownDepartment
			}
			return err
		}
		return s.repo.WithTx(tx).Create(ctx, d)
	})
	if err != nil {
		return DesignationResponse{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionCreate,
		EntityType: "designation",
		EntityID:   d.ID.String(),
		Detail:     d.Name,
	})

	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context, actor role.Actor) ([]DesignationResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return nil, err
	}

	designations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(designations), nil
}

func (s *service) GetByID(ctx context.Context, actor role.Actor, id string) (DesignationResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return DesignationResponse{}, err
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DesignationResponse{}, mapNotFound(err)
	}

	return mapToResponse(*d), nil
}

func (s *service) Update(
	ctx context.Context,
	actor role.Actor,
	id string,
	req UpdateDesignationRequest,
) (DesignationResponse, error) {
	if err := requireRank(actor, role.HRManager); err != nil {
		return DesignationResponse{}, err
	}

	var updated Designation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		d, err := qtx.FindByID(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}

		if _, err := s.depts.WithTx(tx).FindByID(ctx, req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownDepartment
			}
			return err
		}

		d.Name = req.Name
		d.Description = req.Description
		d.DepartmentID = uuid.MustParse(req.DepartmentID)

		if err := qtx.Update(ctx, d); err != nil {
			return err
		}

		updated = *d
		return nil
	})
	if err != nil {
		return DesignationResponse{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionUpdate,
		EntityType: "designation",
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

		if _, err := qtx.FindByID(ctx, id); err != nil {
			return mapNotFound(err)
		}
		return qtx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionDelete,
		EntityType: "designation",
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

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDesignationNotFound
	}
	return err
}

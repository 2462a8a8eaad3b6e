package employee

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-payroll/internal/audit"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/role"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const employeeOptionsKey = "employees:options"

type Service interface {
	Create(ctx context.Context, actor role.Actor, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, actor role.Actor) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, actor role.Actor) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, actor role.Actor, id string) (EmployeeResponse, error)
	Update(ctx context.Context, actor role.Actor, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	counter  counter.Repository
	recorder audit.Recorder
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	counter counter.Repository,
	recorder audit.Recorder,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, counter, recorder, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	counter counter.Repository,
	recorder audit.Recorder,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counter:  counter,
		recorder: recorder,
		outbox:   outbox,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(
	ctx context.Context,
	actor role.Actor,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return EmployeeResponse{}, err
	}
	if err := s.checkRoleAssignment(actor, "", req.Role); err != nil {
		return EmployeeResponse{}, err
	}

	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("designation_id", req.DesignationID),
		zap.String("email", req.Email),
	)

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		s.logger.Warn("create employee invalid hire_date",
			zap.String("hire_date", req.HireDate),
			zap.Error(err),
		)
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}

	empl := &Employee{
		ID:               uuid.New(),
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		EmployeeNumber:   req.EmployeeNumber,
		DesignationID:    uuidPtr(req.DesignationID),
		Role:             defaultRole(req.Role),
		HireDate:         hireDate,
		EmploymentStatus: defaultStatus(req.EmploymentStatus),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		departmentID, err := qtx.GetDepartmentIDByDesignation(ctx, req.DesignationID)
		if err != nil {
			return err
		}
		if departmentID == "" {
			return employeeerrors.ErrDesignationNotFound
		}
		empl.DepartmentID = uuidPtr(departmentID)

		if empl.EmployeeNumber == "" {
			nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
			if err != nil {
				return err
			}
			empl.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
		}

		if err := qtx.Create(ctx, empl); err != nil {
			return mapRepositoryError(err)
		}

		return s.enqueueCreatedEvent(ctx, tx, empl, rid)
	})
	if err != nil {
		s.logger.Error("create employee failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionCreate,
		EntityType: "employee",
		EntityID:   empl.ID.String(),
		Detail:     empl.Email,
	})

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, actor role.Actor) ([]EmployeeResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return nil, err
	}

	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(employees), nil
}

func (s *service) GetOptions(ctx context.Context, actor role.Actor) ([]EmployeeResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, employeeOptionsKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Collapse concurrent misses into one database read.
	v, err, _ := s.sf.Do(employeeOptionsKey, func() (interface{}, error) {
		employees, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(employees)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, employeeOptionsKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, actor role.Actor, id string) (EmployeeResponse, error) {
	if !actor.Authenticated() {
		return EmployeeResponse{}, apperror.ErrUnauthorized
	}

	staff, err := role.HasAccess(actor.Role, role.HRStaff)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if !staff && !actor.Owns(id) {
		return EmployeeResponse{}, apperror.ErrForbidden
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(
	ctx context.Context,
	actor role.Actor,
	id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return EmployeeResponse{}, err
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}

	var updated Employee
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		empl, err := qtx.FindByID(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}

		if err := s.checkRoleAssignment(actor, empl.Role, req.Role); err != nil {
			return err
		}

		departmentID, err := qtx.GetDepartmentIDByDesignation(ctx, req.DesignationID)
		if err != nil {
			return err
		}
		if departmentID == "" {
			return employeeerrors.ErrDesignationNotFound
		}

		empl.FullName = req.FullName
		empl.Email = req.Email
		empl.Phone = req.Phone
		empl.DesignationID = uuidPtr(req.DesignationID)
		empl.DepartmentID = uuidPtr(departmentID)
		if req.Role != "" {
			empl.Role = req.Role
		}
		empl.HireDate = hireDate
		if req.EmploymentStatus != "" {
			empl.EmploymentStatus = req.EmploymentStatus
		}

		if err := qtx.Update(ctx, empl); err != nil {
			return mapRepositoryError(err)
		}

		updated = *empl
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionUpdate,
		EntityType: "employee",
		EntityID:   id,
		Detail:     updated.Email,
	})

	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(updated), nil
}

// checkRoleAssignment lets anyone leave the role untouched but reserves
// granting or changing roles to administrators.
func (s *service) checkRoleAssignment(actor role.Actor, current, requested string) error {
	if requested == "" || requested == current {
		return nil
	}
	if current == "" && requested == string(role.Employee) {
		return nil
	}
	admin, err := role.HasAccess(actor.Role, role.Administrator)
	if err != nil {
		return err
	}
	if !admin {
		return employeeerrors.ErrRoleChangeForbidden
	}
	return nil
}

func (s *service) enqueueCreatedEvent(ctx context.Context, tx *gorm.DB, empl *Employee, rid string) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.EmployeeCreatedEvent{
		EventType:  events.EmployeeCreated,
		EmployeeID: empl.ID.String(),
		FullName:   empl.FullName,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   empl.ID.String(),
		EventType:     events.EmployeeCreated,
		Topic:         events.EmployeeLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, employeeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", employeeOptionsKey),
		)
	}
}

func defaultRole(v string) string {
	if v == "" {
		return string(role.Employee)
	}
	return v
}

func defaultStatus(v string) string {
	if v == "" {
		return "active"
	}
	return v
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

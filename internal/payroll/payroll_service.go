package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/role"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BasicSalaryResolver supplies the basic-salary snapshot at payroll
// creation. Implemented by the salary structure service.
type BasicSalaryResolver interface {
	CurrentBasicSalary(ctx context.Context, employeeID string, asOf time.Time) (int64, error)
}

type Service interface {
	Create(ctx context.Context, actor role.Actor, req CreatePayrollRequest) (PayrollResponse, error)
	AddItem(ctx context.Context, actor role.Actor, payrollID string, req AddItemRequest) (PayrollItemResponse, error)
	Approve(ctx context.Context, actor role.Actor, payrollID string) (PayrollResponse, error)
	MarkPaid(ctx context.Context, actor role.Actor, payrollID string) (PayrollResponse, error)
	GetAll(ctx context.Context, actor role.Actor, req GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, actor role.Actor, id string) (PayrollResponse, error)
	GetItems(ctx context.Context, actor role.Actor, payrollID string) ([]PayrollItemResponse, error)
	Totals(ctx context.Context, actor role.Actor, payrollID string) (TotalsResponse, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	resolver BasicSalaryResolver
	recorder audit.Recorder
	outbox   kafka.OutboxRepository
}

func NewService(
	db *gorm.DB,
	repo Repository,
	resolver BasicSalaryResolver,
	recorder audit.Recorder,
) Service {
	return &service{db: db, repo: repo, resolver: resolver, recorder: recorder}
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	resolver BasicSalaryResolver,
	recorder audit.Recorder,
	outbox kafka.OutboxRepository,
) Service {
	return &service{db: db, repo: repo, resolver: resolver, recorder: recorder, outbox: outbox}
}

func (s *service) Create(
	ctx context.Context,
	actor role.Actor,
	req CreatePayrollRequest,
) (PayrollResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return PayrollResponse{}, err
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidEmployeeID
	}

	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidDateFormat
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidDateFormat
	}
	if periodStart.After(periodEnd) {
		return PayrollResponse{}, payrollerrors.ErrInvalidDateRange
	}

	processDate := time.Now().UTC()

	var basicSalary int64
	if req.BasicSalary != nil {
		if *req.BasicSalary < 0 {
			return PayrollResponse{}, payrollerrors.ErrNegativeBasicSalary
		}
		basicSalary = *req.BasicSalary
	} else {
		basicSalary, err = s.resolver.CurrentBasicSalary(ctx, req.EmployeeID, processDate)
		if err != nil {
			return PayrollResponse{}, err
		}
	}

	payroll := &Payroll{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		ProcessDate: processDate,
		BasicSalary: basicSalary,
		NetSalary:   basicSalary,
		Status:      StatusDraft,
		CreatedBy:   parseActorID(actor),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := qtx.Create(ctx, payroll); err != nil {
			return err
		}

		return s.enqueueStatusEvent(ctx, tx, payroll, events.PayrollCreated)
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionCreate,
		EntityType: "payroll",
		EntityID:   payroll.ID.String(),
		Detail:     fmt.Sprintf("payroll for period %s to %s", req.PeriodStart, req.PeriodEnd),
	})

	return mapToResponse(*payroll), nil
}

func (s *service) AddItem(
	ctx context.Context,
	actor role.Actor,
	payrollID string,
	req AddItemRequest,
) (PayrollItemResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return PayrollItemResponse{}, err
	}

	if req.Name == "" {
		return PayrollItemResponse{}, payrollerrors.ErrItemNameRequired
	}
	if req.Amount < 0 {
		return PayrollItemResponse{}, payrollerrors.ErrNegativeItemAmount
	}
	if req.ItemType != ItemTypeEarning && req.ItemType != ItemTypeDeduction {
		return PayrollItemResponse{}, payrollerrors.ErrInvalidItemType
	}

	item := &PayrollItem{
		ID:          uuid.New(),
		ItemType:    req.ItemType,
		Name:        req.Name,
		Amount:      req.Amount,
		Description: req.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		payroll, err := qtx.FindByIDForUpdate(ctx, payrollID)
		if err != nil {
			return mapNotFound(err)
		}

		if payroll.Status != StatusDraft {
			return payrollerrors.ErrItemsOnlyDraft
		}

		item.PayrollID = payroll.ID
		if err := qtx.CreateItem(ctx, item); err != nil {
			return err
		}

		// Totals come from the full item set under the row lock, so a
		// reader never observes the item without its contribution.
		earnings, deductions, err := qtx.SumItems(ctx, payrollID)
		if err != nil {
			return err
		}

		payroll.TotalEarnings = earnings
		payroll.TotalDeductions = deductions
		payroll.NetSalary = payroll.BasicSalary + earnings - deductions

		return qtx.Update(ctx, payroll)
	})
	if err != nil {
		return PayrollItemResponse{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionAddItem,
		EntityType: "payroll",
		EntityID:   payrollID,
		Detail:     fmt.Sprintf("%s %q amount %d", req.ItemType, req.Name, req.Amount),
	})

	return mapItemToResponse(*item), nil
}

func (s *service) Approve(
	ctx context.Context,
	actor role.Actor,
	payrollID string,
) (PayrollResponse, error) {
	if err := requireRank(actor, role.HRManager); err != nil {
		return PayrollResponse{}, err
	}

	var approved Payroll
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		payroll, err := qtx.FindByIDForUpdate(ctx, payrollID)
		if err != nil {
			return mapNotFound(err)
		}

		if payroll.Status != StatusDraft {
			return payrollerrors.ErrApproveOnlyDraft
		}

		now := time.Now().UTC()
		approverID := parseActorID(actor)
		payroll.Status = StatusApproved
		payroll.ApprovedBy = &approverID
		payroll.ApprovedAt = &now

		if err := qtx.Update(ctx, payroll); err != nil {
			return err
		}

		approved = *payroll
		return s.enqueueStatusEvent(ctx, tx, payroll, events.PayrollApproved)
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionApprove,
		EntityType: "payroll",
		EntityID:   payrollID,
	})

	return mapToResponse(approved), nil
}

func (s *service) MarkPaid(
	ctx context.Context,
	actor role.Actor,
	payrollID string,
) (PayrollResponse, error) {
	if err := requireRank(actor, role.HRManager); err != nil {
		return PayrollResponse{}, err
	}

	var paid Payroll
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		payroll, err := qtx.FindByIDForUpdate(ctx, payrollID)
		if err != nil {
			return mapNotFound(err)
		}

		// Approval is mandatory; paying a draft directly is rejected and
		// a paid payroll is terminal.
		if payroll.Status != StatusApproved {
			return payrollerrors.ErrPayOnlyApproved
		}

		now := time.Now().UTC()
		payroll.Status = StatusPaid
		payroll.PaidAt = &now

		if err := qtx.Update(ctx, payroll); err != nil {
			return err
		}

		paid = *payroll
		return s.enqueueStatusEvent(ctx, tx, payroll, events.PayrollPaid)
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.EmployeeID,
		Action:     audit.ActionPaid,
		EntityType: "payroll",
		EntityID:   payrollID,
	})

	return mapToResponse(paid), nil
}

func (s *service) GetAll(
	ctx context.Context,
	actor role.Actor,
	req GetPayrollsFilterRequest,
) ([]PayrollResponse, error) {
	if err := requireRank(actor, role.HRStaff); err != nil {
		return nil, err
	}

	payrolls, err := s.repo.FindAll(ctx, QueryFilter{
		EmployeeID: req.EmployeeID,
		Status:     req.Status,
	})
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payrolls), nil
}

func (s *service) GetByID(
	ctx context.Context,
	actor role.Actor,
	id string,
) (PayrollResponse, error) {
	payroll, err := s.findReadable(ctx, actor, id)
	if err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

func (s *service) GetItems(
	ctx context.Context,
	actor role.Actor,
	payrollID string,
) ([]PayrollItemResponse, error) {
	if _, err := s.findReadable(ctx, actor, payrollID); err != nil {
		return nil, err
	}

	items, err := s.repo.FindItems(ctx, payrollID)
	if err != nil {
		return nil, err
	}

	return mapItemsToListResponse(items), nil
}

func (s *service) Totals(
	ctx context.Context,
	actor role.Actor,
	payrollID string,
) (TotalsResponse, error) {
	if _, err := s.findReadable(ctx, actor, payrollID); err != nil {
		return TotalsResponse{}, err
	}

	earnings, deductions, err := s.repo.SumItems(ctx, payrollID)
	if err != nil {
		return TotalsResponse{}, err
	}

	return TotalsResponse{Earnings: earnings, Deductions: deductions}, nil
}

// findReadable loads a payroll and applies both access rules: the hierarchy
// check and, for employee-role actors, the record-level ownership check.
func (s *service) findReadable(ctx context.Context, actor role.Actor, id string) (*Payroll, error) {
	if !actor.Authenticated() {
		return nil, apperror.ErrUnauthorized
	}

	payroll, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	staff, err := role.HasAccess(actor.Role, role.HRStaff)
	if err != nil {
		return nil, err
	}
	if !staff && !actor.Owns(payroll.EmployeeID.String()) {
		return nil, payrollerrors.ErrNotOwnPayroll
	}

	return payroll, nil
}

func (s *service) enqueueStatusEvent(ctx context.Context, tx *gorm.DB, payroll *Payroll, eventType string) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.PayrollStatusChangedEvent{
		EventType:  eventType,
		PayrollID:  payroll.ID.String(),
		EmployeeID: payroll.EmployeeID.String(),
		Status:     payroll.Status,
		NetSalary:  payroll.NetSalary,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	event := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll",
		AggregateID:   payroll.ID.String(),
		EventType:     eventType,
		Topic:         events.PayrollLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}

	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		zap.L().Error("enqueue payroll event failed", zap.String("event_type", eventType), zap.Error(err))
		return err
	}

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
		return payrollerrors.ErrPayrollNotFound
	}
	return err
}

func parseDate(v string) (time.Time, error) {
	return time.Parse("2006-01-02", v)
}

func parseActorID(actor role.Actor) uuid.UUID {
	id, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

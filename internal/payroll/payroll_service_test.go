package payroll_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/role"
	salarystructureerrors "go-payroll/internal/salarystructure/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn            func(tx *gorm.DB) payroll.Repository
	createFn            func(ctx context.Context, p *payroll.Payroll) error
	findByIDFn          func(ctx context.Context, id string) (*payroll.Payroll, error)
	findByIDForUpdateFn func(ctx context.Context, id string) (*payroll.Payroll, error)
	findAllFn           func(ctx context.Context, filter payroll.QueryFilter) ([]payroll.Payroll, error)
	updateFn            func(ctx context.Context, p *payroll.Payroll) error
	createItemFn        func(ctx context.Context, item *payroll.PayrollItem) error
	findItemsFn         func(ctx context.Context, payrollID string) ([]payroll.PayrollItem, error)
	sumItemsFn          func(ctx context.Context, payrollID string) (int64, int64, error)
}

func (f *fakePayrollRepository) WithTx(tx *gorm.DB) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.Payroll) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindByID(ctx context.Context, id string) (*payroll.Payroll, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByIDForUpdate(ctx context.Context, id string) (*payroll.Payroll, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindAll(ctx context.Context, filter payroll.QueryFilter) ([]payroll.Payroll, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.Payroll) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) CreateItem(ctx context.Context, item *payroll.PayrollItem) error {
	if f.createItemFn != nil {
		return f.createItemFn(ctx, item)
	}
	return nil
}

func (f *fakePayrollRepository) FindItems(ctx context.Context, payrollID string) ([]payroll.PayrollItem, error) {
	if f.findItemsFn != nil {
		return f.findItemsFn(ctx, payrollID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) SumItems(ctx context.Context, payrollID string) (int64, int64, error) {
	if f.sumItemsFn != nil {
		return f.sumItemsFn(ctx, payrollID)
	}
	return 0, 0, nil
}

type fakeResolver struct {
	basicSalary int64
	err         error
}

func (f *fakeResolver) CurrentBasicSalary(ctx context.Context, employeeID string, asOf time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.basicSalary, nil
}

type nopAuditRepository struct{}

func (nopAuditRepository) Create(ctx context.Context, entry *audit.AuditLog) error { return nil }
func (nopAuditRepository) FindRecent(ctx context.Context, limit int) ([]audit.AuditLog, error) {
	return nil, nil
}

type payrollServiceDeps struct {
	sqlMock  sqlmock.Sqlmock
	service  payroll.Service
	repo     *fakePayrollRepository
	resolver *fakeResolver
	close    func()
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	resolver := &fakeResolver{basicSalary: 500000}
	recorder := audit.NewRecorder(nopAuditRepository{}, zap.NewNop())
	svc := payroll.NewService(gormDB, repo, resolver, recorder)

	return &payrollServiceDeps{
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		resolver: resolver,
		close:    func() { db.Close() },
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func hrStaff() role.Actor {
	return role.Actor{EmployeeID: uuid.New().String(), Role: role.HRStaff}
}

func hrManager() role.Actor {
	return role.Actor{EmployeeID: uuid.New().String(), Role: role.HRManager}
}

func TestPayrollService_Create(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("snapshot from resolver", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)

		var created *payroll.Payroll
		deps.repo.createFn = func(ctx context.Context, p *payroll.Payroll) error {
			created = p
			return nil
		}

		resp, err := deps.service.Create(ctx, hrStaff(), payroll.CreatePayrollRequest{
			EmployeeID:  employeeID,
			PeriodStart: "2024-01-01",
			PeriodEnd:   "2024-01-31",
		})

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusDraft, resp.Status)
		assert.Equal(t, int64(500000), resp.BasicSalary)
		assert.Equal(t, int64(0), resp.TotalEarnings)
		assert.Equal(t, int64(0), resp.TotalDeductions)
		assert.Equal(t, int64(500000), resp.NetSalary)
		assert.NotNil(t, created)
		assert.False(t, created.ProcessDate.IsZero())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit override wins", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		override := int64(750000)

		resp, err := deps.service.Create(ctx, hrStaff(), payroll.CreatePayrollRequest{
			EmployeeID:  employeeID,
			PeriodStart: "2024-01-01",
			PeriodEnd:   "2024-01-31",
			BasicSalary: &override,
		})

		assert.NoError(t, err)
		assert.Equal(t, override, resp.BasicSalary)
		assert.Equal(t, override, resp.NetSalary)
	})

	t.Run("no structure and no override", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		deps.resolver.err = salarystructureerrors.ErrStructureNotFound

		_, err := deps.service.Create(ctx, hrStaff(), payroll.CreatePayrollRequest{
			EmployeeID:  employeeID,
			PeriodStart: "2024-01-01",
			PeriodEnd:   "2024-01-31",
		})

		assert.ErrorIs(t, err, salarystructureerrors.ErrStructureNotFound)
	})

	t.Run("period start after end", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		_, err := deps.service.Create(ctx, hrStaff(), payroll.CreatePayrollRequest{
			EmployeeID:  employeeID,
			PeriodStart: "2024-02-01",
			PeriodEnd:   "2024-01-31",
		})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidDateRange)
	})

	t.Run("employee role forbidden", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		_, err := deps.service.Create(ctx,
			role.Actor{EmployeeID: employeeID, Role: role.Employee},
			payroll.CreatePayrollRequest{
				EmployeeID:  employeeID,
				PeriodStart: "2024-01-01",
				PeriodEnd:   "2024-01-31",
			})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		_, err := deps.service.Create(ctx, role.Actor{}, payroll.CreatePayrollRequest{
			EmployeeID:  employeeID,
			PeriodStart: "2024-01-01",
			PeriodEnd:   "2024-01-31",
		})

		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestPayrollService_AddItem(t *testing.T) {
	ctx := context.Background()
	payrollID := uuid.New()

	draftPayroll := func() *payroll.Payroll {
		return &payroll.Payroll{
			ID:          payrollID,
			EmployeeID:  uuid.New(),
			BasicSalary: 500000,
			NetSalary:   500000,
			Status:      payroll.StatusDraft,
		}
	}

	t.Run("recomputes totals from item set", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)

		p := draftPayroll()
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return p, nil
		}
		deps.repo.sumItemsFn = func(ctx context.Context, id string) (int64, int64, error) {
			return 50000, 20000, nil
		}

		var updated *payroll.Payroll
		deps.repo.updateFn = func(ctx context.Context, p *payroll.Payroll) error {
			updated = p
			return nil
		}

		item, err := deps.service.AddItem(ctx, hrStaff(), payrollID.String(), payroll.AddItemRequest{
			ItemType: payroll.ItemTypeEarning,
			Name:     "Bonus",
			Amount:   50000,
		})

		assert.NoError(t, err)
		assert.Equal(t, payrollID.String(), item.PayrollID)
		assert.NotNil(t, updated)
		assert.Equal(t, int64(50000), updated.TotalEarnings)
		assert.Equal(t, int64(20000), updated.TotalDeductions)
		assert.Equal(t, int64(530000), updated.NetSalary)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejected once not draft", func(t *testing.T) {
		for _, status := range []string{payroll.StatusApproved, payroll.StatusPaid} {
			deps := setupPayrollServiceTest(t)

			expectTx(t, deps.sqlMock, false)
			deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
				p := draftPayroll()
				p.Status = status
				return p, nil
			}

			_, err := deps.service.AddItem(ctx, hrStaff(), payrollID.String(), payroll.AddItemRequest{
				ItemType: payroll.ItemTypeEarning,
				Name:     "Bonus",
				Amount:   100,
			})

			assert.ErrorIs(t, err, payrollerrors.ErrItemsOnlyDraft, "status %s", status)
			assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
			deps.close()
		}
	})

	t.Run("validation short-circuits before any write", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			t.Fatal("repository must not be touched on invalid input")
			return nil, nil
		}

		_, err := deps.service.AddItem(ctx, hrStaff(), payrollID.String(), payroll.AddItemRequest{
			ItemType: payroll.ItemTypeEarning,
			Name:     "",
			Amount:   100,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrItemNameRequired)

		_, err = deps.service.AddItem(ctx, hrStaff(), payrollID.String(), payroll.AddItemRequest{
			ItemType: payroll.ItemTypeDeduction,
			Name:     "Tax",
			Amount:   -1,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrNegativeItemAmount)

		_, err = deps.service.AddItem(ctx, hrStaff(), payrollID.String(), payroll.AddItemRequest{
			ItemType: "refund",
			Name:     "Refund",
			Amount:   100,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidItemType)
	})

	t.Run("unknown payroll", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.AddItem(ctx, hrStaff(), uuid.New().String(), payroll.AddItemRequest{
			ItemType: payroll.ItemTypeEarning,
			Name:     "Bonus",
			Amount:   100,
		})

		assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
	})
}

// Totals must not depend on the order items arrive in: the same multiset of
// items yields identical earnings, deductions and net salary.
func TestPayrollService_AddItem_OrderIndependent(t *testing.T) {
	ctx := context.Background()

	type ledgerItem struct {
		itemType string
		name     string
		amount   int64
	}

	multiset := []ledgerItem{
		{payroll.ItemTypeEarning, "Bonus", 50075},
		{payroll.ItemTypeEarning, "Overtime", 12550},
		{payroll.ItemTypeDeduction, "Tax", 20025},
	}

	permutations := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	var nets []int64
	for _, perm := range permutations {
		deps := setupPayrollServiceTest(t)

		p := &payroll.Payroll{
			ID:          uuid.New(),
			EmployeeID:  uuid.New(),
			BasicSalary: 500000,
			NetSalary:   500000,
			Status:      payroll.StatusDraft,
		}

		var stored []payroll.PayrollItem
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return p, nil
		}
		deps.repo.createItemFn = func(ctx context.Context, item *payroll.PayrollItem) error {
			stored = append(stored, *item)
			return nil
		}
		deps.repo.sumItemsFn = func(ctx context.Context, id string) (int64, int64, error) {
			var earnings, deductions int64
			for _, item := range stored {
				switch item.ItemType {
				case payroll.ItemTypeEarning:
					earnings += item.Amount
				case payroll.ItemTypeDeduction:
					deductions += item.Amount
				}
			}
			return earnings, deductions, nil
		}

		for range perm {
			expectTx(t, deps.sqlMock, true)
		}

		for _, idx := range perm {
			item := multiset[idx]
			_, err := deps.service.AddItem(ctx, hrStaff(), p.ID.String(), payroll.AddItemRequest{
				ItemType: item.itemType,
				Name:     item.name,
				Amount:   item.amount,
			})
			assert.NoError(t, err)
		}

		assert.Equal(t, int64(62625), p.TotalEarnings)
		assert.Equal(t, int64(20025), p.TotalDeductions)
		nets = append(nets, p.NetSalary)
		deps.close()
	}

	for _, net := range nets {
		assert.Equal(t, int64(542600), net)
	}
}

func TestPayrollService_Approve(t *testing.T) {
	ctx := context.Background()
	payrollID := uuid.New()

	t.Run("draft approves", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: payrollID, EmployeeID: uuid.New(), Status: payroll.StatusDraft}, nil
		}

		approver := hrManager()
		resp, err := deps.service.Approve(ctx, approver, payrollID.String())

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, approver.EmployeeID, *resp.ApprovedBy)
		assert.NotNil(t, resp.ApprovedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved and paid are rejected", func(t *testing.T) {
		for _, status := range []string{payroll.StatusApproved, payroll.StatusPaid} {
			deps := setupPayrollServiceTest(t)

			expectTx(t, deps.sqlMock, false)
			deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
				return &payroll.Payroll{ID: payrollID, EmployeeID: uuid.New(), Status: status}, nil
			}

			_, err := deps.service.Approve(ctx, hrManager(), payrollID.String())
			assert.ErrorIs(t, err, payrollerrors.ErrApproveOnlyDraft, "status %s", status)
			deps.close()
		}
	})

	t.Run("hr_staff forbidden", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		_, err := deps.service.Approve(ctx, hrStaff(), payrollID.String())
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestPayrollService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	payrollID := uuid.New()

	t.Run("approved pays", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: payrollID, EmployeeID: uuid.New(), Status: payroll.StatusApproved}, nil
		}

		resp, err := deps.service.MarkPaid(ctx, hrManager(), payrollID.String())

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		assert.NotNil(t, resp.PaidAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("draft and paid are rejected", func(t *testing.T) {
		for _, status := range []string{payroll.StatusDraft, payroll.StatusPaid} {
			deps := setupPayrollServiceTest(t)

			expectTx(t, deps.sqlMock, false)
			deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
				return &payroll.Payroll{ID: payrollID, EmployeeID: uuid.New(), Status: status}, nil
			}

			_, err := deps.service.MarkPaid(ctx, hrManager(), payrollID.String())
			assert.ErrorIs(t, err, payrollerrors.ErrPayOnlyApproved, "status %s", status)
			deps.close()
		}
	})
}

func TestPayrollService_GetByID_Ownership(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	payrollID := uuid.New()

	setup := func(t *testing.T) *payrollServiceDeps {
		deps := setupPayrollServiceTest(t)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &payroll.Payroll{ID: payrollID, EmployeeID: ownerID, Status: payroll.StatusDraft}, nil
		}
		return deps
	}

	t.Run("employee reads own", func(t *testing.T) {
		deps := setup(t)
		defer deps.close()

		self := role.Actor{EmployeeID: ownerID.String(), Role: role.Employee}
		resp, err := deps.service.GetByID(ctx, self, payrollID.String())

		assert.NoError(t, err)
		assert.Equal(t, ownerID.String(), resp.EmployeeID)
	})

	t.Run("employee cannot read another's", func(t *testing.T) {
		deps := setup(t)
		defer deps.close()

		other := role.Actor{EmployeeID: uuid.New().String(), Role: role.Employee}
		_, err := deps.service.GetByID(ctx, other, payrollID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrNotOwnPayroll)
	})

	t.Run("hr_staff reads any", func(t *testing.T) {
		deps := setup(t)
		defer deps.close()

		_, err := deps.service.GetByID(ctx, hrStaff(), payrollID.String())
		assert.NoError(t, err)
	})
}

// Full lifecycle: create with 5000.00 basic, add a 500.00 bonus and a 200.00
// tax, approve, verify the ledger is frozen, pay, verify paid is terminal.
func TestPayrollService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.close()

	var p *payroll.Payroll
	var items []payroll.PayrollItem

	deps.repo.createFn = func(ctx context.Context, created *payroll.Payroll) error {
		p = created
		return nil
	}
	deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return p, nil
	}
	deps.repo.createItemFn = func(ctx context.Context, item *payroll.PayrollItem) error {
		items = append(items, *item)
		return nil
	}
	deps.repo.sumItemsFn = func(ctx context.Context, id string) (int64, int64, error) {
		var earnings, deductions int64
		for _, item := range items {
			if item.ItemType == payroll.ItemTypeEarning {
				earnings += item.Amount
			} else {
				deductions += item.Amount
			}
		}
		return earnings, deductions, nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.Create(ctx, hrStaff(), payroll.CreatePayrollRequest{
		EmployeeID:  employeeID,
		PeriodStart: "2024-01-01",
		PeriodEnd:   "2024-01-31",
	})
	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusDraft, resp.Status)
	assert.Equal(t, int64(500000), resp.NetSalary)

	expectTx(t, deps.sqlMock, true)
	_, err = deps.service.AddItem(ctx, hrStaff(), p.ID.String(), payroll.AddItemRequest{
		ItemType: payroll.ItemTypeEarning, Name: "Bonus", Amount: 50000,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(550000), p.NetSalary)

	expectTx(t, deps.sqlMock, true)
	_, err = deps.service.AddItem(ctx, hrStaff(), p.ID.String(), payroll.AddItemRequest{
		ItemType: payroll.ItemTypeDeduction, Name: "Tax", Amount: 20000,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(530000), p.NetSalary)

	expectTx(t, deps.sqlMock, true)
	approved, err := deps.service.Approve(ctx, hrManager(), p.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedBy)

	expectTx(t, deps.sqlMock, false)
	_, err = deps.service.AddItem(ctx, hrStaff(), p.ID.String(), payroll.AddItemRequest{
		ItemType: payroll.ItemTypeEarning, Name: "Late Bonus", Amount: 100,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrItemsOnlyDraft)
	assert.Equal(t, int64(530000), p.NetSalary)

	expectTx(t, deps.sqlMock, true)
	paid, err := deps.service.MarkPaid(ctx, hrManager(), p.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, paid.Status)

	expectTx(t, deps.sqlMock, false)
	_, err = deps.service.MarkPaid(ctx, hrManager(), p.ID.String())
	assert.ErrorIs(t, err, payrollerrors.ErrPayOnlyApproved)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

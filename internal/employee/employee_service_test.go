package employee_test

import (
	"context"
	"testing"

	"go-payroll/internal/audit"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/role"
	"go-payroll/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	withTxFn           func(tx *gorm.DB) employee.Repository
	createFn           func(ctx context.Context, empl *employee.Employee) error
	findAllFn          func(ctx context.Context) ([]employee.Employee, error)
	findOptionsFn      func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn         func(ctx context.Context, id string) (*employee.Employee, error)
	departmentByDesgFn func(ctx context.Context, designationID string) (string, error)
	updateFn           func(ctx context.Context, empl *employee.Employee) error
}

func (f *fakeEmployeeRepository) WithTx(tx *gorm.DB) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindOptions(ctx context.Context) ([]employee.Employee, error) {
	if f.findOptionsFn != nil {
		return f.findOptionsFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) GetDepartmentIDByDesignation(ctx context.Context, designationID string) (string, error) {
	if f.departmentByDesgFn != nil {
		return f.departmentByDesgFn(ctx, designationID)
	}
	return "", nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, empl)
	}
	return nil
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type nopAuditRepository struct{}

func (nopAuditRepository) Create(ctx context.Context, entry *audit.AuditLog) error { return nil }
func (nopAuditRepository) FindRecent(ctx context.Context, limit int) ([]audit.AuditLog, error) {
	return nil, nil
}

type employeeServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *fakeEmployeeRepository
	close   func()
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	repo := &fakeEmployeeRepository{}
	recorder := audit.NewRecorder(nopAuditRepository{}, zap.NewNop())
	svc := employee.NewService(gormDB, repo, &fakeCounter{}, recorder, nil, zap.NewNop())

	return &employeeServiceDeps{
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		close:   func() { db.Close() },
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

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()
	designationID := uuid.New().String()
	departmentID := uuid.New().String()
	staff := role.Actor{EmployeeID: uuid.New().String(), Role: role.HRStaff}

	validReq := func() employee.CreateEmployeeRequest {
		return employee.CreateEmployeeRequest{
			FullName:      "Ana Lima",
			Email:         "ana@example.com",
			DesignationID: designationID,
			HireDate:      "2024-03-01",
		}
	}

	t.Run("derives department and number", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.departmentByDesgFn = func(ctx context.Context, id string) (string, error) {
			assert.Equal(t, designationID, id)
			return departmentID, nil
		}

		var created *employee.Employee
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			created = empl
			return nil
		}

		resp, err := deps.service.Create(ctx, staff, validReq())

		assert.NoError(t, err)
		assert.Equal(t, departmentID, resp.DepartmentID)
		assert.Equal(t, "EMP-000001", resp.EmployeeNumber)
		assert.Equal(t, string(role.Employee), resp.Role)
		assert.NotNil(t, created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown designation", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.departmentByDesgFn = func(ctx context.Context, id string) (string, error) {
			return "", nil
		}

		_, err := deps.service.Create(ctx, staff, validReq())
		assert.ErrorIs(t, err, employeeerrors.ErrDesignationNotFound)
	})

	t.Run("invalid hire date", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.close()

		req := validReq()
		req.HireDate = "03/01/2024"

		_, err := deps.service.Create(ctx, staff, req)
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
	})

	t.Run("role grant reserved to administrator", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.close()

		req := validReq()
		req.Role = string(role.HRManager)

		_, err := deps.service.Create(ctx, staff, req)
		assert.ErrorIs(t, err, employeeerrors.ErrRoleChangeForbidden)
	})

	t.Run("administrator may grant roles", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.departmentByDesgFn = func(ctx context.Context, id string) (string, error) {
			return departmentID, nil
		}

		req := validReq()
		req.Role = string(role.HRManager)

		resp, err := deps.service.Create(ctx,
			role.Actor{EmployeeID: uuid.New().String(), Role: role.Administrator}, req)

		assert.NoError(t, err)
		assert.Equal(t, string(role.HRManager), resp.Role)
	})

	t.Run("employee role forbidden", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.close()

		_, err := deps.service.Create(ctx,
			role.Actor{EmployeeID: uuid.New().String(), Role: role.Employee}, validReq())
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	setup := func(t *testing.T) *employeeServiceDeps {
		deps := setupEmployeeServiceTest(t)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return &employee.Employee{ID: employeeID, FullName: "Ana Lima", Role: "employee"}, nil
		}
		return deps
	}

	t.Run("employee reads own record", func(t *testing.T) {
		deps := setup(t)
		defer deps.close()

		self := role.Actor{EmployeeID: employeeID.String(), Role: role.Employee}
		resp, err := deps.service.GetByID(ctx, self, employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, employeeID.String(), resp.ID)
	})

	t.Run("employee cannot read another record", func(t *testing.T) {
		deps := setup(t)
		defer deps.close()

		other := role.Actor{EmployeeID: uuid.New().String(), Role: role.Employee}
		_, err := deps.service.GetByID(ctx, other, employeeID.String())

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("hr_staff reads any record", func(t *testing.T) {
		deps := setup(t)
		defer deps.close()

		staff := role.Actor{EmployeeID: uuid.New().String(), Role: role.HRStaff}
		_, err := deps.service.GetByID(ctx, staff, employeeID.String())

		assert.NoError(t, err)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.close()

		staff := role.Actor{EmployeeID: uuid.New().String(), Role: role.HRStaff}
		_, err := deps.service.GetByID(ctx, staff, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	designationID := uuid.New().String()
	departmentID := uuid.New().String()
	staff := role.Actor{EmployeeID: uuid.New().String(), Role: role.HRStaff}

	validReq := func() employee.UpdateEmployeeRequest {
		return employee.UpdateEmployeeRequest{
			FullName:      "Ana Lima",
			Email:         "ana@example.com",
			DesignationID: designationID,
			HireDate:      "2024-03-01",
		}
	}

	setup := func(t *testing.T) *employeeServiceDeps {
		deps := setupEmployeeServiceTest(t)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return &employee.Employee{ID: employeeID, Role: "employee"}, nil
		}
		deps.repo.departmentByDesgFn = func(ctx context.Context, id string) (string, error) {
			return departmentID, nil
		}
		return deps
	}

	t.Run("success", func(t *testing.T) {
		deps := setup(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Update(ctx, staff, employeeID.String(), validReq())

		assert.NoError(t, err)
		assert.Equal(t, departmentID, resp.DepartmentID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("role change reserved to administrator", func(t *testing.T) {
		deps := setup(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, false)
		req := validReq()
		req.Role = string(role.HRStaff)

		_, err := deps.service.Update(ctx, staff, employeeID.String(), req)
		assert.ErrorIs(t, err, employeeerrors.ErrRoleChangeForbidden)
	})

	t.Run("same role passes for non-admin", func(t *testing.T) {
		deps := setup(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		req := validReq()
		req.Role = "employee"

		_, err := deps.service.Update(ctx, staff, employeeID.String(), req)
		assert.NoError(t, err)
	})
}

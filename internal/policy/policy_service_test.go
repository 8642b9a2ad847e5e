package policy_test

import (
	"context"
	"database/sql"
	"testing"

	"go-pto/internal/balance"
	"go-pto/internal/directory"
	"go-pto/internal/events"
	"go-pto/internal/policy"
	policyerrors "go-pto/internal/policy/errors"
	"go-pto/internal/ptotype"
	ptotypeerrors "go-pto/internal/ptotype/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePolicyRepository struct {
	createFn              func(ctx context.Context, p *policy.PtoPolicy) error
	findAllByCompanyFn    func(ctx context.Context, companyID string) ([]policy.PtoPolicy, error)
	findByIDAndCompanyFn  func(ctx context.Context, companyID, id string) (*policy.PtoPolicy, error)
	findActiveFn          func(ctx context.Context, companyID, userID, ptoTypeID string) (*policy.PtoPolicy, error)
	listActiveByCompanyFn func(ctx context.Context, companyID string) ([]policy.PtoPolicy, error)
	updateFn              func(ctx context.Context, p *policy.PtoPolicy) error
}

func (f *fakePolicyRepository) Create(ctx context.Context, p *policy.PtoPolicy) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePolicyRepository) FindAllByCompany(ctx context.Context, companyID string) ([]policy.PtoPolicy, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePolicyRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*policy.PtoPolicy, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePolicyRepository) FindActive(ctx context.Context, companyID, userID, ptoTypeID string) (*policy.PtoPolicy, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, companyID, userID, ptoTypeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePolicyRepository) ListActiveByCompany(ctx context.Context, companyID string) ([]policy.PtoPolicy, error) {
	if f.listActiveByCompanyFn != nil {
		return f.listActiveByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePolicyRepository) Update(ctx context.Context, p *policy.PtoPolicy) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

type fakeTypeRepository struct {
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*ptotype.PtoType, error)
}

func (f *fakeTypeRepository) WithTx(tx *sql.Tx) ptotype.Repository { return f }

func (f *fakeTypeRepository) Create(ctx context.Context, t *ptotype.PtoType) error { return nil }

func (f *fakeTypeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]ptotype.PtoType, error) {
	return nil, nil
}

func (f *fakeTypeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*ptotype.PtoType, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) Update(ctx context.Context, t *ptotype.PtoType) error { return nil }

func (f *fakeTypeRepository) Delete(ctx context.Context, companyID, id string) error { return nil }

func (f *fakeTypeRepository) ReplaceApprovers(ctx context.Context, typeID string, approvers []ptotype.TypeApprover) error {
	return nil
}

func (f *fakeTypeRepository) InUse(ctx context.Context, companyID, id string) (bool, error) {
	return false, nil
}

type fakeBalanceRepository struct {
	findFn func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error)
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository { return f }

func (f *fakeBalanceRepository) FindForUpdate(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeBalanceRepository) Find(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
	if f.findFn != nil {
		return f.findFn(ctx, companyID, userID, ptoTypeID, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) ListForUser(ctx context.Context, companyID, userID string, year int) ([]balance.PtoBalance, error) {
	return nil, nil
}

func (f *fakeBalanceRepository) Create(ctx context.Context, b *balance.PtoBalance) error { return nil }

func (f *fakeBalanceRepository) Save(ctx context.Context, b *balance.PtoBalance) error { return nil }

func (f *fakeBalanceRepository) AppendTransaction(ctx context.Context, t *balance.PtoTransaction) error {
	return nil
}

func (f *fakeBalanceRepository) ListTransactions(ctx context.Context, companyID, userID, ptoTypeID string, year int) ([]balance.PtoTransaction, error) {
	return nil, nil
}

type fakeLedger struct {
	grantFn func(ctx context.Context, tx *sql.Tx, m balance.Mutation, kind string, amount decimal.Decimal) error
}

func (f *fakeLedger) Reserve(ctx context.Context, tx *sql.Tx, m balance.Mutation, rule balance.TypeRule) error {
	return nil
}

func (f *fakeLedger) Release(ctx context.Context, tx *sql.Tx, m balance.Mutation) error { return nil }

func (f *fakeLedger) Consume(ctx context.Context, tx *sql.Tx, m balance.Mutation) error { return nil }

func (f *fakeLedger) Restore(ctx context.Context, tx *sql.Tx, m balance.Mutation) error { return nil }

func (f *fakeLedger) Adjust(ctx context.Context, tx *sql.Tx, m balance.Mutation, delta decimal.Decimal) error {
	return nil
}

func (f *fakeLedger) Grant(ctx context.Context, tx *sql.Tx, m balance.Mutation, kind string, amount decimal.Decimal) error {
	if f.grantFn != nil {
		return f.grantFn(ctx, tx, m, kind, amount)
	}
	return nil
}

type fakeDirectory struct {
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*directory.Employee, error)
	belongsToCompanyFn   func(ctx context.Context, companyID, employeeID string) (bool, error)
}

func (f *fakeDirectory) FindByIDAndCompany(ctx context.Context, companyID, id string) (*directory.Employee, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return &directory.Employee{ID: uuid.MustParse(id)}, nil
}

func (f *fakeDirectory) BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	if f.belongsToCompanyFn != nil {
		return f.belongsToCompanyFn(ctx, companyID, employeeID)
	}
	return true, nil
}

func (f *fakeDirectory) ManagerOf(ctx context.Context, companyID, employeeID string) (*directory.Employee, error) {
	return nil, nil
}

func (f *fakeDirectory) ManagementChain(ctx context.Context, companyID, employeeID string) ([]directory.Employee, error) {
	return nil, nil
}

type fakeRecorder struct {
	resets []events.PtoBalanceResetEvent
}

func (f *fakeRecorder) RecordRequestLifecycle(ctx context.Context, tx *sql.Tx, event events.PtoRequestLifecycleEvent) error {
	return nil
}

func (f *fakeRecorder) RecordBalanceReset(ctx context.Context, tx *sql.Tx, event events.PtoBalanceResetEvent) error {
	f.resets = append(f.resets, event)
	return nil
}

type policyFixture struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	repo     *fakePolicyRepository
	types    *fakeTypeRepository
	balances *fakeBalanceRepository
	ledger   *fakeLedger
	dir      *fakeDirectory
	recorder *fakeRecorder
	svc      policy.Service
}

func newPolicyFixture(t *testing.T) *policyFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &policyFixture{
		db:       db,
		mock:     mock,
		repo:     &fakePolicyRepository{},
		types:    &fakeTypeRepository{},
		balances: &fakeBalanceRepository{},
		ledger:   &fakeLedger{},
		dir:      &fakeDirectory{},
		recorder: &fakeRecorder{},
	}
	f.svc = policy.NewService(db, f.repo, f.types, f.balances, f.ledger, f.dir, f.recorder)
	return f
}

func activeType() *ptotype.PtoType {
	return &ptotype.PtoType{
		ID:          uuid.New(),
		Name:        "Vacation",
		Code:        "VAC",
		UsesBalance: true,
		IsActive:    true,
	}
}

func TestPolicyService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	validReq := policy.CreatePolicyRequest{
		UserID:              uuid.New().String(),
		PtoTypeID:           uuid.New().String(),
		InitialDays:         "10",
		AnnualAccrualAmount: "12",
		BonusDaysPerYear:    "1",
		EffectiveDate:       "2026-01-01",
	}

	t.Run("success seeds the initial balance", func(t *testing.T) {
		f := newPolicyFixture(t)
		f.types.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*ptotype.PtoType, error) {
			return activeType(), nil
		}

		var grantedKind string
		var grantedAmount decimal.Decimal
		f.ledger.grantFn = func(ctx context.Context, tx *sql.Tx, m balance.Mutation, kind string, amount decimal.Decimal) error {
			grantedKind = kind
			grantedAmount = amount
			return nil
		}

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		resp, err := f.svc.Create(ctx, companyID, actorID, validReq)

		assert.NoError(t, err)
		assert.Equal(t, "10", resp.InitialDays)
		assert.Equal(t, "annual", resp.AccrualFrequency)
		assert.True(t, resp.IsActive)
		assert.Equal(t, balance.TxInitial, grantedKind)
		assert.Equal(t, "10", grantedAmount.String())
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("success without initial days skips the grant", func(t *testing.T) {
		f := newPolicyFixture(t)
		f.types.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*ptotype.PtoType, error) {
			return activeType(), nil
		}

		granted := false
		f.ledger.grantFn = func(ctx context.Context, tx *sql.Tx, m balance.Mutation, kind string, amount decimal.Decimal) error {
			granted = true
			return nil
		}

		req := validReq
		req.InitialDays = ""

		_, err := f.svc.Create(ctx, companyID, actorID, req)

		assert.NoError(t, err)
		assert.False(t, granted)
	})

	t.Run("negative second active policy for the same pair", func(t *testing.T) {
		f := newPolicyFixture(t)
		f.types.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*ptotype.PtoType, error) {
			return activeType(), nil
		}
		f.repo.createFn = func(ctx context.Context, p *policy.PtoPolicy) error {
			return &pgconn.PgError{Code: "23505"}
		}

		_, err := f.svc.Create(ctx, companyID, actorID, validReq)
		assert.ErrorIs(t, err, policyerrors.ErrDuplicateActivePolicy)
	})

	t.Run("negative user outside the company", func(t *testing.T) {
		f := newPolicyFixture(t)
		f.dir.belongsToCompanyFn = func(ctx context.Context, companyID, employeeID string) (bool, error) {
			return false, nil
		}

		_, err := f.svc.Create(ctx, companyID, actorID, validReq)
		assert.ErrorIs(t, err, policyerrors.ErrUserNotInCompany)
	})

	t.Run("negative inactive type", func(t *testing.T) {
		f := newPolicyFixture(t)
		f.types.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*ptotype.PtoType, error) {
			inactive := activeType()
			inactive.IsActive = false
			return inactive, nil
		}

		_, err := f.svc.Create(ctx, companyID, actorID, validReq)
		assert.ErrorIs(t, err, ptotypeerrors.ErrTypeInactive)
	})

	t.Run("negative accrual amount off the half-day grid", func(t *testing.T) {
		f := newPolicyFixture(t)
		f.types.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*ptotype.PtoType, error) {
			return activeType(), nil
		}

		req := validReq
		req.AnnualAccrualAmount = "12.3"

		_, err := f.svc.Create(ctx, companyID, actorID, req)
		assert.ErrorIs(t, err, policyerrors.ErrInvalidAccrualAmount)
	})
}

func TestPolicyService_ResetForNewYear(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	actorID := uuid.New().String()

	newPolicy := func(userID uuid.UUID, typeID uuid.UUID) policy.PtoPolicy {
		return policy.PtoPolicy{
			ID:                  uuid.New(),
			CompanyID:           companyID,
			UserID:              userID,
			PtoTypeID:           typeID,
			AnnualAccrualAmount: decimal.RequireFromString("12"),
			EffectiveDate:       date("2024-01-01"),
			IsActive:            true,
		}
	}

	t.Run("grants a fresh year and skips users already reset", func(t *testing.T) {
		f := newPolicyFixture(t)
		ptoType := activeType()

		freshUser := uuid.New()
		resetUser := uuid.New()

		f.repo.listActiveByCompanyFn = func(ctx context.Context, companyID string) ([]policy.PtoPolicy, error) {
			return []policy.PtoPolicy{
				newPolicy(freshUser, ptoType.ID),
				newPolicy(resetUser, ptoType.ID),
			}, nil
		}
		f.types.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*ptotype.PtoType, error) {
			return ptoType, nil
		}
		f.dir.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*directory.Employee, error) {
			return &directory.Employee{ID: uuid.MustParse(id), StartDate: date("2024-01-01")}, nil
		}
		f.balances.findFn = func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
			if userID == resetUser.String() && year == 2027 {
				return &balance.PtoBalance{Year: year}, nil
			}
			return nil, gorm.ErrRecordNotFound
		}

		var granted []string
		f.ledger.grantFn = func(ctx context.Context, tx *sql.Tx, m balance.Mutation, kind string, amount decimal.Decimal) error {
			granted = append(granted, m.UserID+":"+amount.String())
			assert.Equal(t, balance.TxAnnualReset, kind)
			return nil
		}

		// One grant transaction plus the outbox event transaction.
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		summary, err := f.svc.ResetForNewYear(ctx, companyID.String(), actorID, 2027)

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.PoliciesReset)
		assert.Equal(t, 1, summary.PoliciesSkipped)
		assert.Equal(t, []string{freshUser.String() + ":12"}, granted)

		assert.Len(t, f.recorder.resets, 1)
		assert.Equal(t, events.PtoBalanceAnnualReset, f.recorder.resets[0].EventType)
		assert.Equal(t, 2027, f.recorder.resets[0].Year)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("skips types that carry no balance", func(t *testing.T) {
		f := newPolicyFixture(t)
		ptoType := activeType()
		ptoType.UsesBalance = false

		f.repo.listActiveByCompanyFn = func(ctx context.Context, companyID string) ([]policy.PtoPolicy, error) {
			return []policy.PtoPolicy{newPolicy(uuid.New(), ptoType.ID)}, nil
		}
		f.types.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*ptotype.PtoType, error) {
			return ptoType, nil
		}

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		summary, err := f.svc.ResetForNewYear(ctx, companyID.String(), actorID, 2027)

		assert.NoError(t, err)
		assert.Equal(t, 0, summary.PoliciesReset)
		assert.Equal(t, 1, summary.PoliciesSkipped)
	})

	t.Run("negative year outside the accepted range", func(t *testing.T) {
		f := newPolicyFixture(t)

		_, err := f.svc.ResetForNewYear(ctx, companyID.String(), actorID, 1999)
		assert.ErrorIs(t, err, policyerrors.ErrInvalidResetYear)
	})
}

func TestPolicyService_HasActivePolicy(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("true when an active policy exists", func(t *testing.T) {
		f := newPolicyFixture(t)
		f.repo.findActiveFn = func(ctx context.Context, companyID, userID, ptoTypeID string) (*policy.PtoPolicy, error) {
			return &policy.PtoPolicy{}, nil
		}

		ok, err := f.svc.HasActivePolicy(ctx, companyID, uuid.New().String(), uuid.New().String())
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("false when none exists", func(t *testing.T) {
		f := newPolicyFixture(t)

		ok, err := f.svc.HasActivePolicy(ctx, companyID, uuid.New().String(), uuid.New().String())
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

package policy_test

import (
	"testing"
	"time"

	"go-pto/internal/balance"
	"go-pto/internal/policy"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func prevBalance(remaining string) *balance.PtoBalance {
	return &balance.PtoBalance{Balance: dec(remaining)}
}

func TestProjectAnnual(t *testing.T) {
	t.Run("accrual plus tenure bonus plus capped rollover", func(t *testing.T) {
		p := policy.PtoPolicy{
			AnnualAccrualAmount: dec("10"),
			BonusDaysPerYear:    dec("1"),
			RolloverEnabled:     true,
			MaxRolloverDays:     ptr(dec("2")),
		}

		// Three full years of service by 2026-01-01, four days left over.
		got := policy.ProjectAnnual(p, true, date("2022-06-15"), prevBalance("4"), 2026)
		assert.Equal(t, "15", got.String())
	})

	t.Run("bonus waits for the tenure threshold", func(t *testing.T) {
		p := policy.PtoPolicy{
			AnnualAccrualAmount: dec("10"),
			BonusDaysPerYear:    dec("1"),
			YearsForBonus:       5,
		}

		got := policy.ProjectAnnual(p, true, date("2022-06-15"), nil, 2026)
		assert.Equal(t, "10", got.String())

		got = policy.ProjectAnnual(p, true, date("2020-06-15"), nil, 2026)
		assert.Equal(t, "15", got.String())
	})

	t.Run("no bonus in the first year", func(t *testing.T) {
		p := policy.PtoPolicy{
			AnnualAccrualAmount: dec("10"),
			BonusDaysPerYear:    dec("1"),
		}

		got := policy.ProjectAnnual(p, true, date("2025-03-01"), nil, 2026)
		assert.Equal(t, "10", got.String())
	})

	t.Run("uncapped rollover carries the full remainder", func(t *testing.T) {
		p := policy.PtoPolicy{
			AnnualAccrualAmount: dec("10"),
			RolloverEnabled:     true,
		}

		got := policy.ProjectAnnual(p, true, date("2025-03-01"), prevBalance("7.5"), 2026)
		assert.Equal(t, "17.5", got.String())
	})

	t.Run("rollover needs both policy and type consent", func(t *testing.T) {
		p := policy.PtoPolicy{
			AnnualAccrualAmount: dec("10"),
			RolloverEnabled:     true,
		}

		got := policy.ProjectAnnual(p, false, date("2025-03-01"), prevBalance("4"), 2026)
		assert.Equal(t, "10", got.String())

		p.RolloverEnabled = false
		got = policy.ProjectAnnual(p, true, date("2025-03-01"), prevBalance("4"), 2026)
		assert.Equal(t, "10", got.String())
	})

	t.Run("negative previous balance never carries", func(t *testing.T) {
		p := policy.PtoPolicy{
			AnnualAccrualAmount: dec("10"),
			RolloverEnabled:     true,
		}

		got := policy.ProjectAnnual(p, true, date("2025-03-01"), prevBalance("-2"), 2026)
		assert.Equal(t, "10", got.String())
	})

	t.Run("no previous year balance", func(t *testing.T) {
		p := policy.PtoPolicy{
			AnnualAccrualAmount: dec("12"),
			RolloverEnabled:     true,
		}

		got := policy.ProjectAnnual(p, true, date("2025-03-01"), nil, 2026)
		assert.Equal(t, "12", got.String())
	})

	t.Run("start date on january first counts the full year", func(t *testing.T) {
		p := policy.PtoPolicy{
			AnnualAccrualAmount: dec("10"),
			BonusDaysPerYear:    dec("2"),
		}

		got := policy.ProjectAnnual(p, true, date("2025-01-01"), nil, 2026)
		assert.Equal(t, "12", got.String())
	})

	t.Run("future start date yields the bare accrual", func(t *testing.T) {
		p := policy.PtoPolicy{
			AnnualAccrualAmount: dec("10"),
			BonusDaysPerYear:    dec("2"),
		}

		got := policy.ProjectAnnual(p, true, date("2026-06-01"), nil, 2026)
		assert.Equal(t, "10", got.String())
	})
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

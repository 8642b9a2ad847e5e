package policy

import (
	"time"

	"go-pto/internal/balance"

	"github.com/shopspring/decimal"
)

// ProjectAnnual computes the entitlement a user should start toYear with:
// the policy's annual accrual, plus the tenure bonus per completed year of
// service, plus rollover from the previous year's remaining balance when
// both the policy and the type allow carryover.
func ProjectAnnual(p PtoPolicy, carryoverAllowed bool, startDate time.Time, previous *balance.PtoBalance, toYear int) decimal.Decimal {
	amount := p.AnnualAccrualAmount

	years := yearsOfService(startDate, toYear)
	if years > 0 && years >= p.YearsForBonus {
		amount = amount.Add(p.BonusDaysPerYear.Mul(decimal.NewFromInt(int64(years))))
	}

	if p.RolloverEnabled && carryoverAllowed && previous != nil {
		carry := previous.Balance
		if p.MaxRolloverDays != nil && carry.GreaterThan(*p.MaxRolloverDays) {
			carry = *p.MaxRolloverDays
		}
		if carry.IsPositive() {
			amount = amount.Add(carry)
		}
	}

	return amount
}

// yearsOfService counts full years between the employee's start date and
// January 1st of toYear.
func yearsOfService(startDate time.Time, toYear int) int {
	target := time.Date(toYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !startDate.Before(target) {
		return 0
	}

	years := toYear - startDate.Year()
	if startDate.AddDate(years, 0, 0).After(target) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

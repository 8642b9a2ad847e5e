package policy

type CreatePolicyRequest struct {
	UserID              string  `json:"user_id" binding:"required,uuid"`
	PtoTypeID           string  `json:"pto_type_id" binding:"required,uuid"`
	InitialDays         string  `json:"initial_days"`
	AnnualAccrualAmount string  `json:"annual_accrual_amount" binding:"required"`
	BonusDaysPerYear    string  `json:"bonus_days_per_year"`
	YearsForBonus       int     `json:"years_for_bonus" binding:"min=0"`
	RolloverEnabled     bool    `json:"rollover_enabled"`
	MaxRolloverDays     *string `json:"max_rollover_days"`
	MaxNegativeBalance  string  `json:"max_negative_balance"`
	AccrualFrequency    string  `json:"accrual_frequency" binding:"omitempty,oneof=annual monthly"`
	EffectiveDate       string  `json:"effective_date" binding:"required"`
	EndDate             *string `json:"end_date"`
}

type UpdatePolicyRequest struct {
	AnnualAccrualAmount string  `json:"annual_accrual_amount" binding:"required"`
	BonusDaysPerYear    string  `json:"bonus_days_per_year"`
	YearsForBonus       int     `json:"years_for_bonus" binding:"min=0"`
	RolloverEnabled     bool    `json:"rollover_enabled"`
	MaxRolloverDays     *string `json:"max_rollover_days"`
	MaxNegativeBalance  string  `json:"max_negative_balance"`
	AccrualFrequency    string  `json:"accrual_frequency" binding:"omitempty,oneof=annual monthly"`
	EndDate             *string `json:"end_date"`
	IsActive            *bool   `json:"is_active"`
}

type PolicyResponse struct {
	ID                  string  `json:"id"`
	UserID              string  `json:"user_id"`
	PtoTypeID           string  `json:"pto_type_id"`
	InitialDays         string  `json:"initial_days"`
	AnnualAccrualAmount string  `json:"annual_accrual_amount"`
	BonusDaysPerYear    string  `json:"bonus_days_per_year"`
	YearsForBonus       int     `json:"years_for_bonus"`
	RolloverEnabled     bool    `json:"rollover_enabled"`
	MaxRolloverDays     *string `json:"max_rollover_days,omitempty"`
	MaxNegativeBalance  string  `json:"max_negative_balance"`
	AccrualFrequency    string  `json:"accrual_frequency"`
	EffectiveDate       string  `json:"effective_date"`
	EndDate             *string `json:"end_date,omitempty"`
	IsActive            bool    `json:"is_active"`
}

type ResetForNewYearRequest struct {
	Year int `json:"year" binding:"required"`
}

// ResetSummary reports the outcome of one annual projection run.
type ResetSummary struct {
	Year            int `json:"year"`
	PoliciesReset   int `json:"policies_reset"`
	PoliciesSkipped int `json:"policies_skipped"`
}

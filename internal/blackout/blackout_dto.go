package blackout

type CreateBlackoutRequest struct {
	Name                   string  `json:"name" binding:"required,max=150"`
	Description            string  `json:"description"`
	StartDate              string  `json:"start_date" binding:"required"`
	EndDate                string  `json:"end_date" binding:"required"`
	IsCompanyWide          *bool   `json:"is_company_wide"`
	PositionID             *string `json:"position_id" binding:"omitempty,uuid"`
	IsHoliday              bool    `json:"is_holiday"`
	IsStrict               bool    `json:"is_strict"`
	AllowEmergencyOverride bool    `json:"allow_emergency_override"`
	RestrictionType        string  `json:"restriction_type"`
	MaxRequestsAllowed     int     `json:"max_requests_allowed"`
}

type UpdateBlackoutRequest struct {
	Name                   string  `json:"name" binding:"required,max=150"`
	Description            string  `json:"description"`
	StartDate              string  `json:"start_date" binding:"required"`
	EndDate                string  `json:"end_date" binding:"required"`
	IsCompanyWide          *bool   `json:"is_company_wide"`
	PositionID             *string `json:"position_id" binding:"omitempty,uuid"`
	IsHoliday              bool    `json:"is_holiday"`
	IsStrict               bool    `json:"is_strict"`
	AllowEmergencyOverride bool    `json:"allow_emergency_override"`
	RestrictionType        string  `json:"restriction_type"`
	MaxRequestsAllowed     int     `json:"max_requests_allowed"`
	IsActive               *bool   `json:"is_active"`
}

type BlackoutResponse struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Description            string  `json:"description,omitempty"`
	StartDate              string  `json:"start_date"`
	EndDate                string  `json:"end_date"`
	IsCompanyWide          bool    `json:"is_company_wide"`
	PositionID             *string `json:"position_id,omitempty"`
	IsHoliday              bool    `json:"is_holiday"`
	IsStrict               bool    `json:"is_strict"`
	AllowEmergencyOverride bool    `json:"allow_emergency_override"`
	RestrictionType        string  `json:"restriction_type,omitempty"`
	MaxRequestsAllowed     int     `json:"max_requests_allowed"`
	IsActive               bool    `json:"is_active"`
}

// Conflict is one blackout hit returned to the caller on submit; non-strict
// hits come back as warnings attached to the created request.
type Conflict struct {
	BlackoutID  string `json:"blackout_id"`
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsStrict    bool   `json:"is_strict"`
	Overridable bool   `json:"overridable"`
}

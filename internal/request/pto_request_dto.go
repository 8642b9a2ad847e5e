package request

import "go-pto/internal/blackout"

type SubmitRequestRequest struct {
	PtoTypeID        string `json:"pto_type_id" binding:"required,uuid"`
	StartDate        string `json:"start_date" binding:"required"`
	EndDate          string `json:"end_date" binding:"required"`
	StartDayPart     string `json:"start_day_part" binding:"omitempty,oneof=full_day morning afternoon"`
	EndDayPart       string `json:"end_day_part" binding:"omitempty,oneof=full_day morning afternoon"`
	Reason           string `json:"reason"`
	OverrideBlackout bool   `json:"override_blackout"`
}

// SubmitHistoricalRequest records an already-taken absence for any user,
// entered by an admin. It skips the approval chain entirely.
type SubmitHistoricalRequest struct {
	UserID       string `json:"user_id" binding:"required,uuid"`
	PtoTypeID    string `json:"pto_type_id" binding:"required,uuid"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	StartDayPart string `json:"start_day_part" binding:"omitempty,oneof=full_day morning afternoon"`
	EndDayPart   string `json:"end_day_part" binding:"omitempty,oneof=full_day morning afternoon"`
	Reason       string `json:"reason"`
}

type ApproveRequestRequest struct {
	Comments string `json:"comments"`
}

type DenyRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CancelRequestRequest struct {
	Reason string `json:"reason"`
}

type UpdateRequestRequest struct {
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	StartDayPart string `json:"start_day_part" binding:"omitempty,oneof=full_day morning afternoon"`
	EndDayPart   string `json:"end_day_part" binding:"omitempty,oneof=full_day morning afternoon"`
	Reason       string `json:"reason"`
}

type ApprovalResponse struct {
	ID          string  `json:"id"`
	ApproverID  string  `json:"approver_id"`
	Level       int     `json:"level"`
	Sequence    int     `json:"sequence"`
	Status      string  `json:"status"`
	Comments    string  `json:"comments,omitempty"`
	RespondedAt *string `json:"responded_at,omitempty"`
}

type RequestResponse struct {
	ID            string  `json:"id"`
	RequestNumber string  `json:"request_number"`
	UserID        string  `json:"user_id"`
	PtoTypeID     string  `json:"pto_type_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	StartDayPart  string  `json:"start_day_part"`
	EndDayPart    string  `json:"end_day_part"`
	TotalDays     string  `json:"total_days"`
	Status        string  `json:"status"`
	Reason        string  `json:"reason,omitempty"`
	DenialReason  *string `json:"denial_reason,omitempty"`
	SubmittedAt   string  `json:"submitted_at"`
	ApprovedAt    *string `json:"approved_at,omitempty"`
	DeniedAt      *string `json:"denied_at,omitempty"`
	CancelledAt   *string `json:"cancelled_at,omitempty"`

	Approvals []ApprovalResponse `json:"approvals,omitempty"`

	// BlackoutWarnings carries non-strict blackout hits from submission.
	// They are returned to the caller, never stored.
	BlackoutWarnings []blackout.Conflict `json:"blackout_warnings,omitempty"`
}

// PendingApprovalResponse is one row of an approver's inbox.
type PendingApprovalResponse struct {
	ApprovalID string          `json:"approval_id"`
	Level      int             `json:"level"`
	Request    RequestResponse `json:"request"`
}

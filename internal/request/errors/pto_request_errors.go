package requesterrors

import (
	"net/http"

	"go-pto/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"pto request not found",
		http.StatusNotFound,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"the requested range and day parts amount to zero days",
		http.StatusUnprocessableEntity,
	)
	ErrBlackoutConflict = apperror.New(
		apperror.CodeBlackoutConflict,
		"the requested range falls inside a restricted period",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidStateTransition = apperror.New(
		apperror.CodeInvalidState,
		"the request is not in a state that allows this action",
		http.StatusUnprocessableEntity,
	)
	ErrNoPendingApproval = apperror.New(
		apperror.CodeInvalidState,
		"no pending approval exists for this approver",
		http.StatusUnprocessableEntity,
	)
	ErrNoApproverResolved = apperror.New(
		apperror.CodeConfigurationError,
		"no approver could be resolved for this request",
		http.StatusUnprocessableEntity,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the request owner may perform this action",
		http.StatusForbidden,
	)
	ErrCancelWindowPassed = apperror.New(
		apperror.CodeInvalidState,
		"approved requests can only be cancelled at least 24 hours before the start date",
		http.StatusUnprocessableEntity,
	)
	ErrTypeNotUsable = apperror.New(
		apperror.CodeInvalidState,
		"pto type is inactive or not available for requests",
		http.StatusUnprocessableEntity,
	)
)

package blackouterrors

import (
	"net/http"

	"go-pto/internal/shared/apperror"
)

var (
	ErrBlackoutNotFound = apperror.New(
		apperror.CodeNotFound,
		"blackout not found",
		http.StatusNotFound,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrScopeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"position_id is required for a blackout that is not company-wide",
		http.StatusBadRequest,
	)
)

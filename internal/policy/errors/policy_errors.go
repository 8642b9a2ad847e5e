package policyerrors

import (
	"net/http"

	"go-pto/internal/shared/apperror"
)

var (
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"pto policy not found",
		http.StatusNotFound,
	)
	ErrDuplicateActivePolicy = apperror.New(
		apperror.CodeConflict,
		"an active policy already exists for this user and pto type",
		http.StatusConflict,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid pto type id",
		http.StatusBadRequest,
	)
	ErrUserNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"user does not belong to this company",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidAccrualAmount = apperror.New(
		apperror.CodeInvalidInput,
		"accrual amounts must be non-negative multiples of 0.5",
		http.StatusBadRequest,
	)
	ErrInvalidResetYear = apperror.New(
		apperror.CodeInvalidInput,
		"reset year must be a valid calendar year",
		http.StatusBadRequest,
	)
)

package ptotypeerrors

import (
	"net/http"

	"go-pto/internal/shared/apperror"
)

var (
	ErrTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"pto type not found",
		http.StatusNotFound,
	)
	ErrDuplicateCode = apperror.New(
		apperror.CodeConflict,
		"a pto type with this code already exists",
		http.StatusConflict,
	)
	ErrTypeInUse = apperror.New(
		apperror.CodeConflict,
		"pto type is referenced by policies, balances or requests and cannot be deleted",
		http.StatusConflict,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidMaxNegative = apperror.New(
		apperror.CodeInvalidInput,
		"max_negative_balance must be a non-negative multiple of 0.5",
		http.StatusBadRequest,
	)
	ErrTypeInactive = apperror.New(
		apperror.CodeInvalidState,
		"pto type is inactive",
		http.StatusUnprocessableEntity,
	)
)

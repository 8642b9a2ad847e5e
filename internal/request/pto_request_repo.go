package request

import (
	"context"
	"database/sql"
	"time"

	"go-pto/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=pto_request_repo.go -destination=mock/pto_request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, req *PtoRequest) error
	// FindByIDForUpdate locks the request row for the length of the caller's
	// transaction, serializing concurrent approve/deny/cancel on one request.
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*PtoRequest, error)
	Save(ctx context.Context, req *PtoRequest) error

	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PtoRequest, error)
	ListForUser(ctx context.Context, companyID, userID string) ([]PtoRequest, error)
	ListByCompany(ctx context.Context, companyID string) ([]PtoRequest, error)

	CreateApprovals(ctx context.Context, approvals []PtoApproval) error
	ListApprovals(ctx context.Context, requestID string) ([]PtoApproval, error)
	SaveApproval(ctx context.Context, a *PtoApproval) error
	// CancelPendingApprovals soft-cancels every remaining pending row of the
	// request, optionally sparing one (the row just acted on).
	CancelPendingApprovals(ctx context.Context, requestID string, exceptID *uuid.UUID) error
	CountPendingApprovals(ctx context.Context, requestID string) (int, error)
	ListPendingForApprover(ctx context.Context, companyID, approverID string) ([]PtoApproval, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	sqlDB, _ := db.DB()
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

const requestColumns = `
	id::text, company_id::text, user_id::text, pto_type_id::text,
	request_number, start_date, end_date, start_day_part, end_day_part,
	total_days, status, COALESCE(reason, ''), denial_reason,
	submitted_at, approved_at, denied_at, cancelled_at,
	approved_by::text, denied_by::text, cancelled_by::text,
	created_at, updated_at
`

func (r *repository) Create(ctx context.Context, req *PtoRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `
INSERT INTO pto_requests (
	id, company_id, user_id, pto_type_id, request_number,
	start_date, end_date, start_day_part, end_day_part, total_days,
	status, reason, denial_reason, submitted_at,
	approved_at, denied_at, cancelled_at,
	approved_by, denied_by, cancelled_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
`
	_, err := r.execer().ExecContext(
		ctx, query,
		req.ID, req.CompanyID, req.UserID, req.PtoTypeID, req.RequestNumber,
		req.StartDate, req.EndDate, req.StartDayPart, req.EndDayPart, req.TotalDays,
		req.Status, req.Reason, req.DenialReason, req.SubmittedAt,
		req.ApprovedAt, req.DeniedAt, req.CancelledAt,
		req.ApprovedBy, req.DeniedBy, req.CancelledBy, req.CreatedAt, req.UpdatedAt,
	)
	return err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*PtoRequest, error) {
	query := `
SELECT ` + requestColumns + `
FROM pto_requests
WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
FOR UPDATE
`
	row := r.queryer().QueryRowContext(ctx, query, companyID, id)
	return scanRequest(row)
}

func (r *repository) Save(ctx context.Context, req *PtoRequest) error {
	query := `
UPDATE pto_requests
SET start_date = $2, end_date = $3, start_day_part = $4, end_day_part = $5,
	total_days = $6, status = $7, reason = $8, denial_reason = $9,
	approved_at = $10, denied_at = $11, cancelled_at = $12,
	approved_by = $13, denied_by = $14, cancelled_by = $15,
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(
		ctx, query,
		req.ID, req.StartDate, req.EndDate, req.StartDayPart, req.EndDayPart,
		req.TotalDays, req.Status, req.Reason, req.DenialReason,
		req.ApprovedAt, req.DeniedAt, req.CancelledAt,
		req.ApprovedBy, req.DeniedBy, req.CancelledBy,
	)
	return err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PtoRequest, error) {
	var req PtoRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListForUser(ctx context.Context, companyID, userID string) ([]PtoRequest, error) {
	var requests []PtoRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID string) ([]PtoRequest, error) {
	var requests []PtoRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) CreateApprovals(ctx context.Context, approvals []PtoApproval) error {
	query := `
INSERT INTO pto_approvals (
	id, company_id, request_id, approver_id, level, sequence,
	status, comments, responded_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	now := time.Now().UTC()
	for i := range approvals {
		a := &approvals[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.CreatedAt = now
		a.UpdatedAt = now

		_, err := r.execer().ExecContext(
			ctx, query,
			a.ID, a.CompanyID, a.RequestID, a.ApproverID, a.Level, a.Sequence,
			a.Status, a.Comments, a.RespondedAt, a.CreatedAt, a.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) ListApprovals(ctx context.Context, requestID string) ([]PtoApproval, error) {
	var approvals []PtoApproval
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("sequence ASC").
		Find(&approvals).Error
	return approvals, err
}

func (r *repository) SaveApproval(ctx context.Context, a *PtoApproval) error {
	query := `
UPDATE pto_approvals
SET status = $2, comments = $3, responded_at = $4, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query, a.ID, a.Status, a.Comments, a.RespondedAt)
	return err
}

func (r *repository) CancelPendingApprovals(ctx context.Context, requestID string, exceptID *uuid.UUID) error {
	query := `
UPDATE pto_approvals
SET status = $2, updated_at = NOW()
WHERE request_id = $1 AND status = $3 AND ($4::uuid IS NULL OR id <> $4)
`
	_, err := r.execer().ExecContext(ctx, query, requestID, StatusCancelled, StatusPending, exceptID)
	return err
}

func (r *repository) CountPendingApprovals(ctx context.Context, requestID string) (int, error) {
	query := `
SELECT COUNT(*) FROM pto_approvals WHERE request_id = $1 AND status = $2
`
	var count int
	err := r.queryer().QueryRowContext(ctx, query, requestID, StatusPending).Scan(&count)
	return count, err
}

func (r *repository) ListPendingForApprover(ctx context.Context, companyID, approverID string) ([]PtoApproval, error) {
	var approvals []PtoApproval
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("approver_id = ? AND status = ?", approverID, StatusPending).
		Order("created_at ASC").
		Find(&approvals).Error
	return approvals, err
}

func scanRequest(row *sql.Row) (*PtoRequest, error) {
	var (
		req                           PtoRequest
		id, companyID, userID, typeID string
		approvedBy, deniedBy          sql.NullString
		cancelledBy                   sql.NullString
	)
	err := row.Scan(
		&id, &companyID, &userID, &typeID,
		&req.RequestNumber, &req.StartDate, &req.EndDate, &req.StartDayPart, &req.EndDayPart,
		&req.TotalDays, &req.Status, &req.Reason, &req.DenialReason,
		&req.SubmittedAt, &req.ApprovedAt, &req.DeniedAt, &req.CancelledAt,
		&approvedBy, &deniedBy, &cancelledBy,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.ID = uuid.MustParse(id)
	req.CompanyID = uuid.MustParse(companyID)
	req.UserID = uuid.MustParse(userID)
	req.PtoTypeID = uuid.MustParse(typeID)
	req.ApprovedBy = parseNullUUID(approvedBy)
	req.DeniedBy = parseNullUUID(deniedBy)
	req.CancelledBy = parseNullUUID(cancelledBy)
	return &req, nil
}

func parseNullUUID(v sql.NullString) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.MustParse(v.String)
	return &id
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *repository) queryer() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

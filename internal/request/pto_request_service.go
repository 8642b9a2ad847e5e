package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-pto/internal/balance"
	"go-pto/internal/blackout"
	"go-pto/internal/directory"
	"go-pto/internal/events"
	kafkamsg "go-pto/internal/messaging/kafka"
	"go-pto/internal/policy"
	"go-pto/internal/ptotype"
	ptotypeerrors "go-pto/internal/ptotype/errors"
	requesterrors "go-pto/internal/request/errors"
	"go-pto/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout         = "2006-01-02"
	timeLayout         = time.RFC3339
	requestCounterType = "pto_request"

	// Approved requests may only be self-cancelled up to this long before
	// the start date's day start.
	selfCancelNotice = 24 * time.Hour
)

//go:generate mockgen -source=pto_request_service.go -destination=mock/pto_request_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID, userID string, req SubmitRequestRequest) (RequestResponse, error)
	// SubmitHistorical records an absence that already happened, entered by
	// an admin. The request is created approved and consumes balance
	// immediately; no approval chain is built.
	SubmitHistorical(ctx context.Context, companyID, actorID string, req SubmitHistoricalRequest) (RequestResponse, error)

	Approve(ctx context.Context, companyID, approverID, requestID string, req ApproveRequestRequest) (RequestResponse, error)
	Deny(ctx context.Context, companyID, approverID, requestID string, req DenyRequestRequest) (RequestResponse, error)
	Cancel(ctx context.Context, companyID, actorID, requestID string, req CancelRequestRequest) (RequestResponse, error)
	Update(ctx context.Context, companyID, userID, requestID string, req UpdateRequestRequest) (RequestResponse, error)

	GetByID(ctx context.Context, companyID, id string) (RequestResponse, error)
	ListForUser(ctx context.Context, companyID, userID string) ([]RequestResponse, error)
	ListPendingForApprover(ctx context.Context, companyID, approverID string) ([]PendingApprovalResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    balance.Ledger
	types     ptotype.Repository
	policies  policy.Repository
	blackouts blackout.Service
	dir       directory.Directory
	chain     ChainBuilder
	counters  counter.Repository
	outbox    kafkamsg.Recorder
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledger balance.Ledger,
	types ptotype.Repository,
	policies policy.Repository,
	blackouts blackout.Service,
	dir directory.Directory,
	chain ChainBuilder,
	counters counter.Repository,
	outbox kafkamsg.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		ledger:    ledger,
		types:     types,
		policies:  policies,
		blackouts: blackouts,
		dir:       dir,
		chain:     chain,
		counters:  counters,
		outbox:    outbox,
		logger:    l,
	}
}

func defaultPart(p string) string {
	if p == "" {
		return DayPartFull
	}
	return p
}

func parseDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	return startDate, endDate, nil
}

func (s *service) loadUsableType(ctx context.Context, companyID, typeID string) (*ptotype.PtoType, error) {
	t, err := s.types.FindByIDAndCompany(ctx, companyID, typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ptotypeerrors.ErrTypeNotFound
		}
		return nil, err
	}
	if !t.IsActive {
		return nil, requesterrors.ErrTypeNotUsable
	}
	return t, nil
}

// typeRule combines the type's negative-balance setting with the active
// policy's cap when one exists; the policy cap wins.
func (s *service) typeRule(ctx context.Context, companyID, userID string, t *ptotype.PtoType) (balance.TypeRule, error) {
	rule := balance.TypeRule{
		NegativeAllowed: t.NegativeAllowed,
		MaxNegative:     t.MaxNegativeBalance,
	}

	p, err := s.policies.FindActive(ctx, companyID, userID, t.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rule, nil
		}
		return balance.TypeRule{}, err
	}
	if p.MaxNegativeBalance.IsPositive() {
		rule.MaxNegative = p.MaxNegativeBalance
	}
	return rule, nil
}

func (s *service) nextRequestNumber(ctx context.Context, companyID string, year int) (string, error) {
	n, err := s.counters.GetNextValue(ctx, companyID, requestCounterType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PTO-%d-%05d", year, n), nil
}

func (s *service) Submit(ctx context.Context, companyID, userID string, req SubmitRequestRequest) (RequestResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidCompanyID
	}

	startDate, endDate, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		return RequestResponse{}, err
	}
	startPart := defaultPart(req.StartDayPart)
	endPart := defaultPart(req.EndDayPart)

	totalDays := CalculateTotalDays(startDate, endDate, startPart, endPart)
	if !totalDays.IsPositive() {
		return RequestResponse{}, requesterrors.ErrInvalidDateRange
	}

	ptoType, err := s.loadUsableType(ctx, companyID, req.PtoTypeID)
	if err != nil {
		return RequestResponse{}, err
	}

	emp, err := s.dir.FindByIDAndCompany(ctx, companyID, userID)
	if err != nil {
		return RequestResponse{}, err
	}

	check, err := s.blackouts.Check(ctx, companyID, emp.PositionID, startDate, endDate)
	if err != nil {
		return RequestResponse{}, err
	}
	if check.Strict && !(check.Overridable && req.OverrideBlackout) {
		return RequestResponse{}, requesterrors.ErrBlackoutConflict.WithDetails(check.Conflicts)
	}

	rule, err := s.typeRule(ctx, companyID, userID, ptoType)
	if err != nil {
		return RequestResponse{}, err
	}

	requestNumber, err := s.nextRequestNumber(ctx, companyID, startDate.Year())
	if err != nil {
		return RequestResponse{}, err
	}

	now := time.Now().UTC()
	ptoReq := &PtoRequest{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		UserID:        emp.ID,
		PtoTypeID:     ptoType.ID,
		RequestNumber: requestNumber,
		StartDate:     startDate,
		EndDate:       endDate,
		StartDayPart:  startPart,
		EndDayPart:    endPart,
		TotalDays:     totalDays,
		Status:        StatusPending,
		Reason:        req.Reason,
		SubmittedAt:   now,
	}

	approvals, err := s.chain.Build(ctx, ptoReq, ptoType)
	if err != nil {
		return RequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if ptoType.UsesBalance {
		m := balance.Mutation{
			CompanyID: companyID,
			UserID:    userID,
			PtoTypeID: ptoType.ID.String(),
			Year:      startDate.Year(),
			Days:      totalDays,
			RequestID: &ptoReq.ID,
			ActorID:   userID,
			Reason:    fmt.Sprintf("Reserved for request %s", requestNumber),
		}
		if err := s.ledger.Reserve(ctx, tx, m, rule); err != nil {
			return RequestResponse{}, err
		}
	}

	if err := qtx.Create(ctx, ptoReq); err != nil {
		return RequestResponse{}, err
	}
	if err := qtx.CreateApprovals(ctx, approvals); err != nil {
		return RequestResponse{}, err
	}

	if err := s.recordLifecycleEvent(ctx, tx, ptoReq, events.PtoRequestSubmitted, userID); err != nil {
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("submit request success",
		zap.String("request_id", ptoReq.ID.String()),
		zap.String("request_number", requestNumber),
		zap.String("user_id", userID),
		zap.String("total_days", totalDays.String()),
		zap.Int("approvers", len(approvals)),
	)

	resp := mapToRequestResponse(*ptoReq, approvals)
	resp.BlackoutWarnings = check.Conflicts
	return resp, nil
}

func (s *service) SubmitHistorical(ctx context.Context, companyID, actorID string, req SubmitHistoricalRequest) (RequestResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidCompanyID
	}

	startDate, endDate, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		return RequestResponse{}, err
	}
	startPart := defaultPart(req.StartDayPart)
	endPart := defaultPart(req.EndDayPart)

	totalDays := CalculateTotalDays(startDate, endDate, startPart, endPart)
	if !totalDays.IsPositive() {
		return RequestResponse{}, requesterrors.ErrInvalidDateRange
	}

	ptoType, err := s.loadUsableType(ctx, companyID, req.PtoTypeID)
	if err != nil {
		return RequestResponse{}, err
	}

	emp, err := s.dir.FindByIDAndCompany(ctx, companyID, req.UserID)
	if err != nil {
		return RequestResponse{}, err
	}

	requestNumber, err := s.nextRequestNumber(ctx, companyID, startDate.Year())
	if err != nil {
		return RequestResponse{}, err
	}

	now := time.Now().UTC()
	actorUUID := uuid.MustParse(actorID)
	ptoReq := &PtoRequest{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		UserID:        emp.ID,
		PtoTypeID:     ptoType.ID,
		RequestNumber: requestNumber,
		StartDate:     startDate,
		EndDate:       endDate,
		StartDayPart:  startPart,
		EndDayPart:    endPart,
		TotalDays:     totalDays,
		Status:        StatusApproved,
		Reason:        req.Reason,
		SubmittedAt:   now,
		ApprovedAt:    &now,
		ApprovedBy:    &actorUUID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if ptoType.UsesBalance {
		m := balance.Mutation{
			CompanyID: companyID,
			UserID:    req.UserID,
			PtoTypeID: ptoType.ID.String(),
			Year:      startDate.Year(),
			Days:      totalDays,
			RequestID: &ptoReq.ID,
			ActorID:   actorID,
			Reason:    fmt.Sprintf("Historical entry %s", requestNumber),
		}
		if err := s.ledger.Consume(ctx, tx, m); err != nil {
			return RequestResponse{}, err
		}
	}

	if err := qtx.Create(ctx, ptoReq); err != nil {
		return RequestResponse{}, err
	}
	if err := s.recordLifecycleEvent(ctx, tx, ptoReq, events.PtoRequestApproved, actorID); err != nil {
		return RequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("submit historical request success",
		zap.String("request_id", ptoReq.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("actor_id", actorID),
	)
	return mapToRequestResponse(*ptoReq, nil), nil
}

// lockRequest loads the request row under FOR UPDATE. Every status
// transition goes through this lock, so approval reads done afterwards in
// the same transaction scope see a settled chain.
func (s *service) lockRequest(ctx context.Context, qtx Repository, companyID, requestID string) (*PtoRequest, error) {
	req, err := qtx.FindByIDForUpdate(ctx, companyID, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, requesterrors.ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func findPendingForApprover(approvals []PtoApproval, approverID string) *PtoApproval {
	for i := range approvals {
		if approvals[i].ApproverID.String() == approverID && approvals[i].Status == StatusPending {
			return &approvals[i]
		}
	}
	return nil
}

func cancelRemaining(approvals []PtoApproval) {
	for i := range approvals {
		if approvals[i].Status == StatusPending {
			approvals[i].Status = StatusCancelled
		}
	}
}

func (s *service) Approve(ctx context.Context, companyID, approverID, requestID string, req ApproveRequestRequest) (RequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ptoReq, err := s.lockRequest(ctx, qtx, companyID, requestID)
	if err != nil {
		return RequestResponse{}, err
	}
	if ptoReq.Status != StatusPending {
		return RequestResponse{}, requesterrors.ErrInvalidStateTransition
	}

	approvals, err := s.repo.ListApprovals(ctx, requestID)
	if err != nil {
		return RequestResponse{}, err
	}

	mine := findPendingForApprover(approvals, approverID)
	if mine == nil {
		return RequestResponse{}, requesterrors.ErrNoPendingApproval
	}

	now := time.Now().UTC()
	mine.Status = StatusApproved
	mine.Comments = req.Comments
	mine.RespondedAt = &now
	if err := qtx.SaveApproval(ctx, mine); err != nil {
		return RequestResponse{}, err
	}

	remaining, err := qtx.CountPendingApprovals(ctx, requestID)
	if err != nil {
		return RequestResponse{}, err
	}
	if remaining == 0 {
		approverUUID := uuid.MustParse(approverID)
		ptoReq.Status = StatusApproved
		ptoReq.ApprovedAt = &now
		ptoReq.ApprovedBy = &approverUUID

		usesBalance, err := s.typeUsesBalance(ctx, companyID, ptoReq.PtoTypeID.String())
		if err != nil {
			return RequestResponse{}, err
		}
		if usesBalance {
			m := s.mutationFor(ptoReq, approverID, fmt.Sprintf("Approved request %s", ptoReq.RequestNumber))
			if err := s.ledger.Consume(ctx, tx, m); err != nil {
				return RequestResponse{}, err
			}
		}

		if err := qtx.Save(ctx, ptoReq); err != nil {
			return RequestResponse{}, err
		}
		if err := s.recordLifecycleEvent(ctx, tx, ptoReq, events.PtoRequestApproved, approverID); err != nil {
			return RequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("approve success",
		zap.String("request_id", requestID),
		zap.String("approver_id", approverID),
		zap.String("status", ptoReq.Status),
	)
	return mapToRequestResponse(*ptoReq, approvals), nil
}

func (s *service) Deny(ctx context.Context, companyID, approverID, requestID string, req DenyRequestRequest) (RequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ptoReq, err := s.lockRequest(ctx, qtx, companyID, requestID)
	if err != nil {
		return RequestResponse{}, err
	}
	if ptoReq.Status != StatusPending {
		return RequestResponse{}, requesterrors.ErrInvalidStateTransition
	}

	approvals, err := s.repo.ListApprovals(ctx, requestID)
	if err != nil {
		return RequestResponse{}, err
	}

	mine := findPendingForApprover(approvals, approverID)
	if mine == nil {
		return RequestResponse{}, requesterrors.ErrNoPendingApproval
	}

	now := time.Now().UTC()
	mine.Status = StatusDenied
	mine.Comments = req.Reason
	mine.RespondedAt = &now
	if err := qtx.SaveApproval(ctx, mine); err != nil {
		return RequestResponse{}, err
	}

	// One denial settles the whole chain.
	if err := qtx.CancelPendingApprovals(ctx, requestID, &mine.ID); err != nil {
		return RequestResponse{}, err
	}
	cancelRemaining(approvals)

	approverUUID := uuid.MustParse(approverID)
	ptoReq.Status = StatusDenied
	ptoReq.DenialReason = &req.Reason
	ptoReq.DeniedAt = &now
	ptoReq.DeniedBy = &approverUUID

	usesBalance, err := s.typeUsesBalance(ctx, companyID, ptoReq.PtoTypeID.String())
	if err != nil {
		return RequestResponse{}, err
	}
	if usesBalance {
		m := s.mutationFor(ptoReq, approverID, fmt.Sprintf("Denied request %s", ptoReq.RequestNumber))
		if err := s.ledger.Release(ctx, tx, m); err != nil {
			return RequestResponse{}, err
		}
	}

	if err := qtx.Save(ctx, ptoReq); err != nil {
		return RequestResponse{}, err
	}
	if err := s.recordLifecycleEvent(ctx, tx, ptoReq, events.PtoRequestDenied, approverID); err != nil {
		return RequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("deny success",
		zap.String("request_id", requestID),
		zap.String("approver_id", approverID),
	)
	return mapToRequestResponse(*ptoReq, approvals), nil
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, requestID string, req CancelRequestRequest) (RequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ptoReq, err := s.lockRequest(ctx, qtx, companyID, requestID)
	if err != nil {
		return RequestResponse{}, err
	}

	approvals, err := s.repo.ListApprovals(ctx, requestID)
	if err != nil {
		return RequestResponse{}, err
	}

	isOwner := ptoReq.UserID.String() == actorID
	if !isOwner {
		if err := s.authorizeApproverCancel(approvals, actorID); err != nil {
			return RequestResponse{}, err
		}
		if ptoReq.Status != StatusPending {
			return RequestResponse{}, requesterrors.ErrInvalidStateTransition
		}
	}

	usesBalance, err := s.typeUsesBalance(ctx, companyID, ptoReq.PtoTypeID.String())
	if err != nil {
		return RequestResponse{}, err
	}

	now := time.Now().UTC()
	switch ptoReq.Status {
	case StatusPending:
		if usesBalance {
			m := s.mutationFor(ptoReq, actorID, fmt.Sprintf("Cancelled request %s", ptoReq.RequestNumber))
			if err := s.ledger.Release(ctx, tx, m); err != nil {
				return RequestResponse{}, err
			}
		}
		if err := qtx.CancelPendingApprovals(ctx, requestID, nil); err != nil {
			return RequestResponse{}, err
		}
		cancelRemaining(approvals)

	case StatusApproved:
		if !withinSelfCancelWindow(ptoReq.StartDate, now) {
			return RequestResponse{}, requesterrors.ErrCancelWindowPassed
		}
		if usesBalance {
			m := s.mutationFor(ptoReq, actorID, fmt.Sprintf("Cancelled approved request %s", ptoReq.RequestNumber))
			if err := s.ledger.Restore(ctx, tx, m); err != nil {
				return RequestResponse{}, err
			}
		}

	default:
		return RequestResponse{}, requesterrors.ErrInvalidStateTransition
	}

	actorUUID := uuid.MustParse(actorID)
	ptoReq.Status = StatusCancelled
	ptoReq.CancelledAt = &now
	ptoReq.CancelledBy = &actorUUID

	if err := qtx.Save(ctx, ptoReq); err != nil {
		return RequestResponse{}, err
	}
	if err := s.recordLifecycleEvent(ctx, tx, ptoReq, events.PtoRequestCancelled, actorID); err != nil {
		return RequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("cancel success",
		zap.String("request_id", requestID),
		zap.String("actor_id", actorID),
		zap.Bool("by_owner", isOwner),
	)
	return mapToRequestResponse(*ptoReq, approvals), nil
}

// authorizeApproverCancel allows a non-owner to cancel only when they hold a
// slot in the request's approval chain.
func (s *service) authorizeApproverCancel(approvals []PtoApproval, actorID string) error {
	for _, a := range approvals {
		if a.ApproverID.String() == actorID {
			return nil
		}
	}
	return requesterrors.ErrNotRequestOwner
}

// withinSelfCancelWindow compares against the start date's day start rather
// than an exact timestamp: cancelling at 23h59m before the day starts is
// rejected, at exactly 24h it is allowed.
func withinSelfCancelWindow(startDate, now time.Time) bool {
	dayStart := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	return !now.After(dayStart.Add(-selfCancelNotice))
}

func (s *service) Update(ctx context.Context, companyID, userID, requestID string, req UpdateRequestRequest) (RequestResponse, error) {
	startDate, endDate, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		return RequestResponse{}, err
	}
	startPart := defaultPart(req.StartDayPart)
	endPart := defaultPart(req.EndDayPart)

	newDays := CalculateTotalDays(startDate, endDate, startPart, endPart)
	if !newDays.IsPositive() {
		return RequestResponse{}, requesterrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ptoReq, err := s.lockRequest(ctx, qtx, companyID, requestID)
	if err != nil {
		return RequestResponse{}, err
	}
	if ptoReq.UserID.String() != userID {
		return RequestResponse{}, requesterrors.ErrNotRequestOwner
	}
	if ptoReq.Status != StatusPending {
		return RequestResponse{}, requesterrors.ErrInvalidStateTransition
	}

	ptoType, err := s.loadUsableType(ctx, companyID, ptoReq.PtoTypeID.String())
	if err != nil {
		return RequestResponse{}, err
	}

	if ptoType.UsesBalance {
		// Returning the old reservation first means the new one is checked
		// against the balance as if this request did not exist yet.
		release := s.mutationFor(ptoReq, userID, fmt.Sprintf("Rescheduled request %s", ptoReq.RequestNumber))
		if err := s.ledger.Release(ctx, tx, release); err != nil {
			return RequestResponse{}, err
		}

		rule, err := s.typeRule(ctx, companyID, userID, ptoType)
		if err != nil {
			return RequestResponse{}, err
		}
		reserve := balance.Mutation{
			CompanyID: companyID,
			UserID:    userID,
			PtoTypeID: ptoReq.PtoTypeID.String(),
			Year:      startDate.Year(),
			Days:      newDays,
			RequestID: &ptoReq.ID,
			ActorID:   userID,
			Reason:    fmt.Sprintf("Reserved for request %s", ptoReq.RequestNumber),
		}
		if err := s.ledger.Reserve(ctx, tx, reserve, rule); err != nil {
			return RequestResponse{}, err
		}
	}

	ptoReq.StartDate = startDate
	ptoReq.EndDate = endDate
	ptoReq.StartDayPart = startPart
	ptoReq.EndDayPart = endPart
	ptoReq.TotalDays = newDays
	if req.Reason != "" {
		ptoReq.Reason = req.Reason
	}

	if err := qtx.Save(ctx, ptoReq); err != nil {
		return RequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("update request success",
		zap.String("request_id", requestID),
		zap.String("total_days", newDays.String()),
	)

	approvals, err := s.repo.ListApprovals(ctx, requestID)
	if err != nil {
		return RequestResponse{}, err
	}
	return mapToRequestResponse(*ptoReq, approvals), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (RequestResponse, error) {
	req, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return RequestResponse{}, err
	}
	return mapToRequestResponse(*req, req.Approvals), nil
}

func (s *service) ListForUser(ctx context.Context, companyID, userID string) ([]RequestResponse, error) {
	requests, err := s.repo.ListForUser(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]RequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapToRequestResponse(r, nil)
	}
	return resp, nil
}

func (s *service) ListPendingForApprover(ctx context.Context, companyID, approverID string) ([]PendingApprovalResponse, error) {
	approvals, err := s.repo.ListPendingForApprover(ctx, companyID, approverID)
	if err != nil {
		return nil, err
	}

	resp := make([]PendingApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		req, err := s.repo.FindByIDAndCompany(ctx, companyID, a.RequestID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		resp = append(resp, PendingApprovalResponse{
			ApprovalID: a.ID.String(),
			Level:      a.Level,
			Request:    mapToRequestResponse(*req, req.Approvals),
		})
	}
	return resp, nil
}

func (s *service) typeUsesBalance(ctx context.Context, companyID, typeID string) (bool, error) {
	t, err := s.types.FindByIDAndCompany(ctx, companyID, typeID)
	if err != nil {
		return false, err
	}
	return t.UsesBalance, nil
}

func (s *service) mutationFor(req *PtoRequest, actorID, reason string) balance.Mutation {
	return balance.Mutation{
		CompanyID: req.CompanyID.String(),
		UserID:    req.UserID.String(),
		PtoTypeID: req.PtoTypeID.String(),
		Year:      req.StartDate.Year(),
		Days:      req.TotalDays,
		RequestID: &req.ID,
		ActorID:   actorID,
		Reason:    reason,
	}
}

func (s *service) recordLifecycleEvent(ctx context.Context, tx *sql.Tx, req *PtoRequest, eventType, actorID string) error {
	return s.outbox.RecordRequestLifecycle(ctx, tx, events.PtoRequestLifecycleEvent{
		EventType:     eventType,
		RequestID:     req.ID.String(),
		RequestNumber: req.RequestNumber,
		CompanyID:     req.CompanyID.String(),
		UserID:        req.UserID.String(),
		PtoTypeID:     req.PtoTypeID.String(),
		Status:        req.Status,
		TotalDays:     req.TotalDays.String(),
		StartDate:     req.StartDate.Format(dateLayout),
		EndDate:       req.EndDate.Format(dateLayout),
		ActorID:       actorID,
		OccurredAt:    time.Now().UTC(),
	})
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(timeLayout)
	return &v
}

func mapToRequestResponse(req PtoRequest, approvals []PtoApproval) RequestResponse {
	resp := RequestResponse{
		ID:            req.ID.String(),
		RequestNumber: req.RequestNumber,
		UserID:        req.UserID.String(),
		PtoTypeID:     req.PtoTypeID.String(),
		StartDate:     req.StartDate.Format(dateLayout),
		EndDate:       req.EndDate.Format(dateLayout),
		StartDayPart:  req.StartDayPart,
		EndDayPart:    req.EndDayPart,
		TotalDays:     req.TotalDays.String(),
		Status:        req.Status,
		Reason:        req.Reason,
		DenialReason:  req.DenialReason,
		SubmittedAt:   req.SubmittedAt.UTC().Format(timeLayout),
		ApprovedAt:    formatTimePtr(req.ApprovedAt),
		DeniedAt:      formatTimePtr(req.DeniedAt),
		CancelledAt:   formatTimePtr(req.CancelledAt),
	}

	for _, a := range approvals {
		resp.Approvals = append(resp.Approvals, ApprovalResponse{
			ID:          a.ID.String(),
			ApproverID:  a.ApproverID.String(),
			Level:       a.Level,
			Sequence:    a.Sequence,
			Status:      a.Status,
			Comments:    a.Comments,
			RespondedAt: formatTimePtr(a.RespondedAt),
		})
	}
	return resp
}

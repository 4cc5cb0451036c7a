package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/model"
	"github.com/sushitlalpan/sushi-be/internal/reconcile"
	"github.com/sushitlalpan/sushi-be/internal/repository"
	"github.com/sushitlalpan/sushi-be/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const closureDateLayout = "2006-01-02"

// AlertDispatcher is the slice of the job dispatcher the closure service
// needs. Satisfied by *worker.Dispatcher.
type AlertDispatcher interface {
	EnqueueAlertEmail(ctx context.Context, payload worker.AlertEmailPayload) error
}

// ClosureService owns the closure lifecycle: validation, derivation,
// persistence, the review workflow and the discrepancy alert side effect.
type ClosureService interface {
	Create(ctx context.Context, req dto.CreateClosureRequest) (*dto.ClosureResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ClosureResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateClosureRequest) (*dto.ClosureResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter dto.ClosureFilter) (*dto.ClosureListResponse, error)
	UpdateReview(ctx context.Context, id uuid.UUID, req dto.ReviewUpdateRequest) (*dto.ClosureResponse, error)
	ListPendingReview(ctx context.Context, offset, limit int) ([]dto.ClosureResponse, error)
	ListByReviewState(ctx context.Context, state string, offset, limit int) ([]dto.ClosureResponse, error)
}

type closureService struct {
	closures   repository.ClosureRepository
	users      repository.UserRepository
	branches   repository.BranchRepository
	dispatcher AlertDispatcher
	rdb        *redis.Client

	alertThreshold decimal.Decimal
	alertRecipient string
}

func NewClosureService(
	closures repository.ClosureRepository,
	users repository.UserRepository,
	branches repository.BranchRepository,
	dispatcher AlertDispatcher,
	rdb *redis.Client,
	alertThreshold decimal.Decimal,
	alertRecipient string,
) ClosureService {
	return &closureService{
		closures:       closures,
		users:          users,
		branches:       branches,
		dispatcher:     dispatcher,
		rdb:            rdb,
		alertThreshold: alertThreshold,
		alertRecipient: alertRecipient,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────

func (s *closureService) Create(ctx context.Context, req dto.CreateClosureRequest) (*dto.ClosureResponse, error) {
	closureDate, err := time.Parse(closureDateLayout, req.ClosureDate)
	if err != nil {
		return nil, &reconcile.ValidationError{Field: "closure_date", Reason: "formato invalido, se espera YYYY-MM-DD"}
	}
	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		return nil, &reconcile.ValidationError{Field: "worker_id", Reason: "uuid invalido"}
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, &reconcile.ValidationError{Field: "branch_id", Reason: "uuid invalido"}
	}

	// A well-formed uuid pointing at no record is a missing referent, not a
	// malformed request: surface it as not-found.
	if _, err := s.users.FindByID(ctx, workerID); err != nil {
		return nil, fmt.Errorf("worker_id: %w", err)
	}
	if _, err := s.branches.FindByID(ctx, branchID); err != nil {
		return nil, fmt.Errorf("branch_id: %w", err)
	}

	inputs := reconcile.Inputs{
		ClosureNumber: req.ClosureNumber,
		PaymentsNbr:   req.PaymentsNbr,
		SalesTotal:    req.SalesTotal,
		CardITPV:      req.CardITPV,
		CardRefund:    req.CardRefund,
		CardKiwi:      req.CardKiwi,
		TransferAmt:   req.TransferAmt,
		CashAmt:       req.CashAmt,
		CashRefund:    req.CashRefund,
		KiwiFeeTotal:  req.KiwiFeeTotal,
	}
	derived, err := reconcile.Compute(inputs)
	if err != nil {
		return nil, err
	}

	closure := &model.Closure{
		WorkerID:      workerID,
		BranchID:      branchID,
		ClosureDate:   closureDate,
		ClosureNumber: req.ClosureNumber,
		PaymentsNbr:   req.PaymentsNbr,

		SalesTotal:   req.SalesTotal,
		CardITPV:     req.CardITPV,
		CardRefund:   req.CardRefund,
		CardKiwi:     req.CardKiwi,
		TransferAmt:  req.TransferAmt,
		CashAmt:      req.CashAmt,
		CashRefund:   req.CashRefund,
		KiwiFeeTotal: req.KiwiFeeTotal,

		CardTotal:        derived.CardTotal,
		CashTotal:        derived.CashTotal,
		Discrepancy:      derived.Discrepancy,
		AvgSale:          derived.AvgSale,
		CardKiwiMinusFee: derived.CardKiwiMinusFee,
		RevenueTotal:     derived.RevenueTotal,

		Notes:       req.Notes,
		ReviewState: model.ReviewPending,
	}

	// The unique index is the authority on duplicates: two concurrent
	// submissions of the same triple reach Create and exactly one wins.
	if err := s.closures.Create(ctx, closure); err != nil {
		return nil, err
	}

	s.maybeAlert(ctx, closure)
	invalidateReportCache(ctx, s.rdb)

	return s.GetByID(ctx, closure.ID)
}

// maybeAlert enqueues a discrepancy alert mail when the absolute discrepancy
// reaches the configured threshold. Best effort: a full queue never blocks
// the closure submission.
func (s *closureService) maybeAlert(ctx context.Context, c *model.Closure) {
	if c.Discrepancy.Abs().LessThan(s.alertThreshold) {
		return
	}

	direction := "faltante"
	if c.Discrepancy.IsPositive() {
		direction = "sobrante"
	}
	payload := worker.AlertEmailPayload{
		ToEmail: s.alertRecipient,
		Subject: fmt.Sprintf("Discrepancia en cierre %d del %s", c.ClosureNumber, c.ClosureDate.Format(closureDateLayout)),
		Body: fmt.Sprintf(
			"El cierre %d del %s registra una discrepancia de %s (%s).\nVentas: %s | Tarjeta: %s | Efectivo: %s",
			c.ClosureNumber, c.ClosureDate.Format(closureDateLayout),
			c.Discrepancy.StringFixed(2), direction,
			c.SalesTotal.StringFixed(2), c.CardTotal.StringFixed(2), c.CashTotal.StringFixed(2)),
	}
	if err := s.dispatcher.EnqueueAlertEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("closure_id", c.ID.String()).Msg("failed to enqueue discrepancy alert")
	}
}

// ── Read ──────────────────────────────────────────────────────────────────────

func (s *closureService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ClosureResponse, error) {
	closure, err := s.closures.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toClosureResponse(closure)
	return &resp, nil
}

func (s *closureService) List(ctx context.Context, filter dto.ClosureFilter) (*dto.ClosureListResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	closures, total, err := s.closures.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ClosureListResponse{
		Closures:   make([]dto.ClosureResponse, 0, len(closures)),
		TotalCount: total,
		Offset:     filter.Offset,
		Limit:      filter.Limit,
		HasNext:    int64(filter.Offset+len(closures)) < total,
	}
	for i := range closures {
		resp.Closures = append(resp.Closures, toClosureResponse(&closures[i]))
	}
	return resp, nil
}

// ── Update ────────────────────────────────────────────────────────────────────

// Update merges the amendment into the stored raw fields, re-validates and
// recomputes every derived field. Derived fields are never patched in place.
func (s *closureService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateClosureRequest) (*dto.ClosureResponse, error) {
	closure, err := s.closures.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClosureDate != nil {
		d, err := time.Parse(closureDateLayout, *req.ClosureDate)
		if err != nil {
			return nil, &reconcile.ValidationError{Field: "closure_date", Reason: "formato invalido, se espera YYYY-MM-DD"}
		}
		closure.ClosureDate = d
	}
	if req.ClosureNumber != nil {
		closure.ClosureNumber = *req.ClosureNumber
	}
	if req.WorkerID != nil {
		workerID, err := uuid.Parse(*req.WorkerID)
		if err != nil {
			return nil, &reconcile.ValidationError{Field: "worker_id", Reason: "uuid invalido"}
		}
		if _, err := s.users.FindByID(ctx, workerID); err != nil {
			return nil, fmt.Errorf("worker_id: %w", err)
		}
		closure.WorkerID = workerID
	}
	if req.BranchID != nil {
		branchID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, &reconcile.ValidationError{Field: "branch_id", Reason: "uuid invalido"}
		}
		if _, err := s.branches.FindByID(ctx, branchID); err != nil {
			return nil, fmt.Errorf("branch_id: %w", err)
		}
		closure.BranchID = branchID
	}
	if req.PaymentsNbr != nil {
		closure.PaymentsNbr = *req.PaymentsNbr
	}
	if req.SalesTotal != nil {
		closure.SalesTotal = *req.SalesTotal
	}
	if req.CardITPV != nil {
		closure.CardITPV = *req.CardITPV
	}
	if req.CardRefund != nil {
		closure.CardRefund = *req.CardRefund
	}
	if req.CardKiwi != nil {
		closure.CardKiwi = *req.CardKiwi
	}
	if req.TransferAmt != nil {
		closure.TransferAmt = *req.TransferAmt
	}
	if req.CashAmt != nil {
		closure.CashAmt = *req.CashAmt
	}
	if req.CashRefund != nil {
		closure.CashRefund = *req.CashRefund
	}
	if req.KiwiFeeTotal != nil {
		closure.KiwiFeeTotal = *req.KiwiFeeTotal
	}
	if req.Notes != nil {
		closure.Notes = req.Notes
	}

	inputs := reconcile.Inputs{
		ClosureNumber: closure.ClosureNumber,
		PaymentsNbr:   closure.PaymentsNbr,
		SalesTotal:    closure.SalesTotal,
		CardITPV:      closure.CardITPV,
		CardRefund:    closure.CardRefund,
		CardKiwi:      closure.CardKiwi,
		TransferAmt:   closure.TransferAmt,
		CashAmt:       closure.CashAmt,
		CashRefund:    closure.CashRefund,
		KiwiFeeTotal:  closure.KiwiFeeTotal,
	}
	derived, err := reconcile.Compute(inputs)
	if err != nil {
		return nil, err
	}
	closure.CardTotal = derived.CardTotal
	closure.CashTotal = derived.CashTotal
	closure.Discrepancy = derived.Discrepancy
	closure.AvgSale = derived.AvgSale
	closure.CardKiwiMinusFee = derived.CardKiwiMinusFee
	closure.RevenueTotal = derived.RevenueTotal

	taken, err := s.closures.TripleTaken(ctx, closure.BranchID, closure.ClosureDate, closure.ClosureNumber, closure.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrConflict
	}

	if err := s.closures.Update(ctx, closure); err != nil {
		return nil, err
	}
	invalidateReportCache(ctx, s.rdb)

	return s.GetByID(ctx, closure.ID)
}

func (s *closureService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.closures.Delete(ctx, id); err != nil {
		return err
	}
	invalidateReportCache(ctx, s.rdb)
	return nil
}

// ── Review workflow ───────────────────────────────────────────────────────────

// UpdateReview applies an explicit review decision. A decided record can only
// be re-opened to pending; flipping approved to rejected directly is not a
// valid transition.
func (s *closureService) UpdateReview(ctx context.Context, id uuid.UUID, req dto.ReviewUpdateRequest) (*dto.ClosureResponse, error) {
	closure, err := s.closures.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateReviewTransition(closure.ReviewState, req.ReviewState); err != nil {
		return nil, err
	}

	closure.ReviewState = req.ReviewState
	if req.ReviewObservations != nil {
		closure.ReviewObservations = req.ReviewObservations
	}
	if err := s.closures.Update(ctx, closure); err != nil {
		return nil, err
	}

	resp := toClosureResponse(closure)
	return &resp, nil
}

func validateReviewTransition(from, to string) error {
	if from == to {
		return nil
	}
	switch {
	case from == model.ReviewPending:
		return nil // pending can go anywhere
	case to == model.ReviewPending:
		return nil // re-review
	default:
		return &reconcile.ValidationError{
			Field:  "review_state",
			Reason: fmt.Sprintf("transicion %s -> %s no permitida, regrese a pending primero", from, to),
		}
	}
}

func (s *closureService) ListPendingReview(ctx context.Context, offset, limit int) ([]dto.ClosureResponse, error) {
	return s.ListByReviewState(ctx, model.ReviewPending, offset, limit)
}

func (s *closureService) ListByReviewState(ctx context.Context, state string, offset, limit int) ([]dto.ClosureResponse, error) {
	if state != model.ReviewPending && state != model.ReviewApproved && state != model.ReviewRejected {
		return nil, &reconcile.ValidationError{Field: "review_state", Reason: "estado desconocido"}
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	closures, err := s.closures.ListByReviewState(ctx, state, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClosureResponse, 0, len(closures))
	for i := range closures {
		out = append(out, toClosureResponse(&closures[i]))
	}
	return out, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func toClosureResponse(c *model.Closure) dto.ClosureResponse {
	resp := dto.ClosureResponse{
		ID:            c.ID.String(),
		ClosureDate:   c.ClosureDate.Format(closureDateLayout),
		ClosureNumber: c.ClosureNumber,
		WorkerID:      c.WorkerID.String(),
		BranchID:      c.BranchID.String(),
		PaymentsNbr:   c.PaymentsNbr,

		SalesTotal:   c.SalesTotal,
		CardITPV:     c.CardITPV,
		CardRefund:   c.CardRefund,
		CardKiwi:     c.CardKiwi,
		TransferAmt:  c.TransferAmt,
		CashAmt:      c.CashAmt,
		CashRefund:   c.CashRefund,
		KiwiFeeTotal: c.KiwiFeeTotal,

		CardTotal:        c.CardTotal,
		CashTotal:        c.CashTotal,
		Discrepancy:      c.Discrepancy,
		AvgSale:          c.AvgSale,
		CardKiwiMinusFee: c.CardKiwiMinusFee,
		RevenueTotal:     c.RevenueTotal,
		HasDiscrepancy:   reconcile.HasDiscrepancy(c.Discrepancy),

		Notes:              c.Notes,
		ReviewState:        c.ReviewState,
		ReviewObservations: c.ReviewObservations,
		CreatedAt:          c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.Worker != nil {
		resp.WorkerUsername = c.Worker.Username
	}
	if c.Branch != nil {
		resp.BranchName = c.Branch.Name
	}
	return resp
}

package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// LossUseCase registra y consulta mermas.
type LossUseCase struct {
	repos    repository.Repositories
	txRunner repository.TxRunner
	log      *logger.Logger
}

func NewLossUseCase(repos repository.Repositories, txRunner repository.TxRunner, log *logger.Logger) *LossUseCase {
	return &LossUseCase{repos: repos, txRunner: txRunner, log: log}
}

// Create registra la merma y sus salidas OUT_LOSS en una sola transacción.
func (uc *LossUseCase) Create(ctx context.Context, userID string, in dto.CreateLossEventRequest) (*dto.LossEventResponse, error) {
	if !entity.ValidLossReason(in.Reason) || len(in.Details) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, d := range in.Details {
		if d.ItemID == "" || !d.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	when := time.Now()
	if date != nil {
		when = *date
	}

	var event *entity.LossEvent
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		event, err = RegisterLoss(ctx, repos, userID, in.Reason, in.Notes, when, in.Details)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("event_id", event.ID).
		Str("reason", event.Reason).
		Str("total_cost", event.TotalCost.String()).
		Msg("merma registrada")
	resp := toLossResponse(event)
	return &resp, nil
}

// RegisterLoss crea la merma con los repositorios de la transacción del caller.
// Cada línea con BatchID consume ese lote; sin él, FEFO.
func RegisterLoss(ctx context.Context, repos repository.Repositories, userID, reason, notes string, when time.Time, lines []dto.LossDetailRequest) (*entity.LossEvent, error) {
	event := &entity.LossEvent{
		ID:        uuid.New().String(),
		Reason:    reason,
		Date:      when,
		Notes:     notes,
		TotalCost: decimal.Zero,
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}
	txID := uuid.New().String()
	for _, l := range lines {
		res, err := Outbound(ctx, repos, OutboundInput{
			ItemID:        l.ItemID,
			BatchID:       l.BatchID,
			Quantity:      l.Quantity,
			MovementType:  entity.MovementTypeOutLoss,
			Reason:        reason,
			ReferenceType: entity.ReferenceLoss,
			ReferenceID:   event.ID,
			TransactionID: txID,
			UserID:        userID,
			Date:          when,
		})
		if err != nil {
			return nil, err
		}
		batchID := l.BatchID
		if batchID == "" && len(res.Allocations) == 1 {
			batchID = res.Allocations[0].Batch.ID
		}
		event.TotalCost = event.TotalCost.Add(res.TotalCost)
		event.Details = append(event.Details, &entity.LossEventDetail{
			ID:        uuid.New().String(),
			EventID:   event.ID,
			ItemID:    l.ItemID,
			BatchID:   batchID,
			Quantity:  l.Quantity,
			UnitCost:  res.UnitCost,
			TotalCost: res.TotalCost,
			Notes:     l.Notes,
		})
	}
	if err := repos.Losses.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetByID devuelve una merma con sus líneas.
func (uc *LossUseCase) GetByID(ctx context.Context, id string) (*dto.LossEventResponse, error) {
	e, err := uc.repos.Losses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	resp := toLossResponse(e)
	return &resp, nil
}

// List filtra mermas por rango de fechas y motivo.
func (uc *LossUseCase) List(ctx context.Context, f entity.LossFilter) ([]dto.LossEventResponse, error) {
	if f.Reason != "" && !entity.ValidLossReason(f.Reason) {
		return nil, domain.ErrInvalidInput
	}
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset
	list, err := uc.repos.Losses.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LossEventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toLossResponse(e))
	}
	return out, nil
}

func toLossResponse(e *entity.LossEvent) dto.LossEventResponse {
	resp := dto.LossEventResponse{
		ID:        e.ID,
		Reason:    e.Reason,
		Date:      e.Date,
		Notes:     e.Notes,
		TotalCost: e.TotalCost,
		CreatedBy: e.CreatedBy,
	}
	for _, d := range e.Details {
		resp.Details = append(resp.Details, dto.LossDetailResponse{
			ItemID:    d.ItemID,
			BatchID:   d.BatchID,
			Quantity:  d.Quantity,
			UnitCost:  d.UnitCost,
			TotalCost: d.TotalCost,
			Notes:     d.Notes,
		})
	}
	return resp
}

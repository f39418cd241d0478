package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Panaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ProductionUseCase registra eventos de producción: consume insumos y da entrada al producto.
type ProductionUseCase struct {
	repos    repository.Repositories
	txRunner repository.TxRunner
	log      *logger.Logger
}

func NewProductionUseCase(repos repository.Repositories, txRunner repository.TxRunner, log *logger.Logger) *ProductionUseCase {
	return &ProductionUseCase{repos: repos, txRunner: txRunner, log: log}
}

// Create ejecuta el evento en una sola transacción. Si algún insumo no alcanza, no se persiste nada.
func (uc *ProductionUseCase) Create(ctx context.Context, userID string, in dto.CreateProductionEventRequest) (*dto.ProductionEventResponse, error) {
	if in.ProductItemID == "" || !in.Quantity.GreaterThan(decimal.Zero) || len(in.Ingredients) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, ing := range in.Ingredients {
		if ing.ItemID == "" || ing.ItemID == in.ProductItemID || !ing.Quantity.GreaterThan(decimal.Zero) {
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

	event := &entity.ProductionEvent{
		ID:            uuid.New().String(),
		ProductItemID: in.ProductItemID,
		Quantity:      in.Quantity,
		Date:          when,
		Notes:         in.Notes,
		CreatedBy:     userID,
		CreatedAt:     time.Now(),
	}
	txID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		product, err := repos.Items.GetByID(ctx, in.ProductItemID)
		if err != nil {
			return err
		}
		if product == nil || !product.Active {
			return fmt.Errorf("producto %s: %w", in.ProductItemID, domain.ErrNotFound)
		}

		total := decimal.Zero
		for _, ing := range in.Ingredients {
			res, err := Outbound(ctx, repos, OutboundInput{
				ItemID:        ing.ItemID,
				Quantity:      ing.Quantity,
				MovementType:  entity.MovementTypeOutProduction,
				ReferenceType: entity.ReferenceProduction,
				ReferenceID:   event.ID,
				TransactionID: txID,
				UserID:        userID,
				Date:          when,
			})
			if err != nil {
				return err
			}
			total = total.Add(res.TotalCost)
			event.Details = append(event.Details, &entity.ProductionEventDetail{
				ID:        uuid.New().String(),
				EventID:   event.ID,
				ItemID:    ing.ItemID,
				Quantity:  ing.Quantity,
				UnitCost:  res.UnitCost,
				TotalCost: res.TotalCost,
			})
		}

		event.TotalCost = total
		event.UnitCost = invdomain.UnitCost(total, in.Quantity)
		batch, err := Inbound(ctx, repos, InboundInput{
			ItemID:        in.ProductItemID,
			Quantity:      in.Quantity,
			UnitCost:      event.UnitCost,
			MovementType:  entity.MovementTypeInProduction,
			SourceType:    entity.BatchSourceProduction,
			ReferenceType: entity.ReferenceProduction,
			ReferenceID:   event.ID,
			TransactionID: txID,
			UserID:        userID,
			Date:          when,
		})
		if err != nil {
			return err
		}
		event.BatchID = batch.ID
		return repos.Production.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("event_id", event.ID).
		Str("product_item_id", event.ProductItemID).
		Str("quantity", event.Quantity.String()).
		Str("total_cost", event.TotalCost.String()).
		Msg("evento de producción registrado")
	resp := toProductionResponse(event)
	return &resp, nil
}

// GetByID devuelve un evento con sus insumos.
func (uc *ProductionUseCase) GetByID(ctx context.Context, id string) (*dto.ProductionEventResponse, error) {
	e, err := uc.repos.Production.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	resp := toProductionResponse(e)
	return &resp, nil
}

// List devuelve eventos entre from y to (ambos opcionales), más recientes primero.
func (uc *ProductionUseCase) List(ctx context.Context, from, to *time.Time, page dto.PageRequest) ([]dto.ProductionEventResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Production.List(ctx, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionEventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toProductionResponse(e))
	}
	return out, nil
}

func toProductionResponse(e *entity.ProductionEvent) dto.ProductionEventResponse {
	resp := dto.ProductionEventResponse{
		ID:            e.ID,
		ProductItemID: e.ProductItemID,
		Quantity:      e.Quantity,
		UnitCost:      e.UnitCost,
		TotalCost:     e.TotalCost,
		BatchID:       e.BatchID,
		Date:          e.Date,
		Notes:         e.Notes,
		CreatedBy:     e.CreatedBy,
	}
	for _, d := range e.Details {
		resp.Ingredients = append(resp.Ingredients, dto.ProductionEventDetailResponse{
			ItemID:    d.ItemID,
			Quantity:  d.Quantity,
			UnitCost:  d.UnitCost,
			TotalCost: d.TotalCost,
		})
	}
	return resp
}

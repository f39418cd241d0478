package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// CountUseCase gestiona conteos físicos de inventario.
type CountUseCase struct {
	repos    repository.Repositories
	txRunner repository.TxRunner
	exporter SheetExporter
	log      *logger.Logger
}

func NewCountUseCase(repos repository.Repositories, txRunner repository.TxRunner, exporter SheetExporter, log *logger.Logger) *CountUseCase {
	return &CountUseCase{repos: repos, txRunner: txRunner, exporter: exporter, log: log}
}

// Open crea un conteo abierto con una línea por ítem activo (del área, si se indica).
// La cantidad esperada es una foto del stock al abrir.
func (uc *CountUseCase) Open(ctx context.Context, userID string, in dto.CreateCountRequest) (*dto.CountResponse, error) {
	if in.StorageAreaID != "" {
		area, err := uc.repos.StorageAreas.GetByID(ctx, in.StorageAreaID)
		if err != nil {
			return nil, err
		}
		if area == nil {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	count := &entity.InventoryCount{
		ID:            uuid.New().String(),
		StorageAreaID: in.StorageAreaID,
		Status:        entity.CountStatusOpen,
		Notes:         in.Notes,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		items, _, err := repos.Items.List(ctx, entity.ItemFilter{StorageAreaID: in.StorageAreaID, ActiveOnly: true})
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrInvalidInput
		}
		for _, it := range items {
			stock, err := repos.Stock.Get(ctx, it.ID)
			if err != nil {
				return err
			}
			count.Details = append(count.Details, &entity.CountDetail{
				ID:               uuid.New().String(),
				CountID:          count.ID,
				ItemID:           it.ID,
				ExpectedQuantity: stock.Quantity,
				UpdatedAt:        now,
			})
		}
		return repos.Counts.Create(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("count_id", count.ID).Int("lines", len(count.Details)).Msg("conteo abierto")
	return uc.GetByID(ctx, count.ID)
}

// UpdateDetail registra la cantidad contada de una línea. Solo conteos abiertos.
func (uc *CountUseCase) UpdateDetail(ctx context.Context, countID, detailID string, in dto.UpdateCountDetailRequest) (*dto.CountResponse, error) {
	if in.CountedQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		count, err := repos.Counts.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return domain.ErrNotFound
		}
		if count.Status != entity.CountStatusOpen {
			return domain.ErrInvalidState
		}
		for _, d := range count.Details {
			if d.ID == detailID {
				counted := in.CountedQuantity
				d.CountedQuantity = &counted
				d.UpdatedAt = time.Now()
				return repos.Counts.UpdateDetail(ctx, d)
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, countID)
}

// Close genera un ADJUSTMENT por cada línea contada cuyo stock difiere de lo contado
// y cierra el conteo. Las líneas sin contar se ignoran. Todo en una transacción.
// La diferencia se calcula contra el stock vigente, no contra la foto de apertura,
// para que el stock final coincida con lo contado aunque haya habido movimientos.
func (uc *CountUseCase) Close(ctx context.Context, userID, countID string) (*dto.CountResponse, error) {
	adjustments := 0
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		count, err := repos.Counts.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return domain.ErrNotFound
		}
		if count.Status != entity.CountStatusOpen {
			return domain.ErrInvalidState
		}
		txID := uuid.New().String()
		now := time.Now()
		for _, d := range count.Details {
			if d.CountedQuantity == nil {
				continue
			}
			stock, err := repos.Stock.GetForUpdate(ctx, d.ItemID)
			if err != nil {
				return err
			}
			diff := d.CountedQuantity.Sub(stock.Quantity)
			switch {
			case diff.GreaterThan(decimal.Zero):
				item, err := repos.Items.GetByID(ctx, d.ItemID)
				if err != nil {
					return err
				}
				if item == nil {
					return domain.ErrNotFound
				}
				_, err = Inbound(ctx, repos, InboundInput{
					ItemID:        d.ItemID,
					Quantity:      diff,
					UnitCost:      item.Cost,
					MovementType:  entity.MovementTypeAdjustment,
					SourceType:    entity.BatchSourceAdjustment,
					Reason:        "conteo físico",
					ReferenceType: entity.ReferenceCount,
					ReferenceID:   count.ID,
					TransactionID: txID,
					UserID:        userID,
					Date:          now,
				})
				if err != nil {
					return err
				}
			case diff.LessThan(decimal.Zero):
				_, err = Outbound(ctx, repos, OutboundInput{
					ItemID:        d.ItemID,
					Quantity:      diff.Neg(),
					MovementType:  entity.MovementTypeAdjustment,
					Reason:        "conteo físico",
					ReferenceType: entity.ReferenceCount,
					ReferenceID:   count.ID,
					TransactionID: txID,
					UserID:        userID,
					Date:          now,
				})
				if err != nil {
					return err
				}
			default:
				continue
			}
			adjustments++
		}
		count.Status = entity.CountStatusClosed
		count.ClosedAt = &now
		return repos.Counts.Update(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("count_id", countID).Int("adjustments", adjustments).Msg("conteo cerrado")
	resp, err := uc.GetByID(ctx, countID)
	if err != nil {
		return nil, err
	}
	resp.Adjustments = adjustments
	return resp, nil
}

// Cancel descarta un conteo abierto sin tocar el stock.
func (uc *CountUseCase) Cancel(ctx context.Context, countID string) (*dto.CountResponse, error) {
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		count, err := repos.Counts.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return domain.ErrNotFound
		}
		if count.Status != entity.CountStatusOpen {
			return domain.ErrInvalidState
		}
		now := time.Now()
		count.Status = entity.CountStatusCancelled
		count.ClosedAt = &now
		return repos.Counts.Update(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, countID)
}

// GetByID devuelve el conteo con sus líneas enriquecidas con los datos del ítem.
func (uc *CountUseCase) GetByID(ctx context.Context, id string) (*dto.CountResponse, error) {
	c, err := uc.repos.Counts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCountResponse(c)
	for i := range resp.Details {
		item, err := uc.repos.Items.GetByID(ctx, resp.Details[i].ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			resp.Details[i].SKU = item.SKU
			resp.Details[i].ItemName = item.Name
			resp.Details[i].BaseUnit = item.BaseUnit
		}
	}
	return &resp, nil
}

// List devuelve conteos sin detalle.
func (uc *CountUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.CountResponse, error) {
	switch status {
	case "", entity.CountStatusOpen, entity.CountStatusClosed, entity.CountStatusCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.repos.Counts.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CountResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCountResponse(c))
	}
	return out, nil
}

// Sheet genera la planilla .xlsx del conteo para contar en papel.
func (uc *CountUseCase) Sheet(ctx context.Context, id string) ([]byte, error) {
	resp, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.exporter.CountSheet(resp)
}

func toCountResponse(c *entity.InventoryCount) dto.CountResponse {
	resp := dto.CountResponse{
		ID:            c.ID,
		StorageAreaID: c.StorageAreaID,
		Status:        c.Status,
		Notes:         c.Notes,
		CreatedBy:     c.CreatedBy,
		CreatedAt:     c.CreatedAt,
		ClosedAt:      c.ClosedAt,
	}
	for _, d := range c.Details {
		resp.Details = append(resp.Details, dto.CountDetailResponse{
			ID:               d.ID,
			ItemID:           d.ItemID,
			ExpectedQuantity: d.ExpectedQuantity,
			CountedQuantity:  d.CountedQuantity,
			Difference:       d.Difference(),
		})
	}
	return resp
}

package inventory

import (
	"context"
	"fmt"
	"strings"
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

// StockUseCase consultas de stock, lotes y movimientos, y ajustes manuales.
type StockUseCase struct {
	repos    repository.Repositories
	txRunner repository.TxRunner
	exporter SheetExporter
	log      *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repos repository.Repositories, txRunner repository.TxRunner, exporter SheetExporter, log *logger.Logger) *StockUseCase {
	return &StockUseCase{repos: repos, txRunner: txRunner, exporter: exporter, log: log}
}

// Levels devuelve la vista de stock con estado y valorización, filtrada.
func (uc *StockUseCase) Levels(ctx context.Context, f dto.StockFilter) ([]dto.StockLevelResponse, error) {
	if f.Status != "" && f.Status != entity.StockStatusOK && f.Status != entity.StockStatusLow && f.Status != entity.StockStatusOut {
		return nil, domain.ErrInvalidInput
	}
	levels, err := uc.repos.Stock.ListLevels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		r := ToStockLevelResponse(l)
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.CategoryID != "" && l.CategoryID != f.CategoryID {
			continue
		}
		if f.StorageAreaID != "" && l.StorageAreaID != f.StorageAreaID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ExportLevels genera el reporte de stock en .xlsx.
func (uc *StockUseCase) ExportLevels(ctx context.Context, f dto.StockFilter) ([]byte, error) {
	levels, err := uc.Levels(ctx, f)
	if err != nil {
		return nil, err
	}
	return uc.exporter.StockReport(levels)
}

// Movements lista movimientos filtrados por ítem, tipo y rango de fechas.
func (uc *StockUseCase) Movements(ctx context.Context, f entity.MovementFilter) ([]dto.MovementResponse, error) {
	if f.Type != "" && !entity.ValidMovementType(f.Type) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repos.Movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// Batches lista los lotes con saldo de un ítem en orden FEFO.
func (uc *StockUseCase) Batches(ctx context.Context, itemID string) ([]dto.BatchResponse, error) {
	item, err := uc.repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repos.Batches.ListAvailable(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, ToBatchResponse(b))
	}
	return out, nil
}

// Adjust registra un ajuste manual. Positivo entra como lote nuevo; negativo sale FEFO.
func (uc *StockUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustmentRequest) (*dto.StockLevelResponse, error) {
	if in.ItemID == "" || in.Quantity.IsZero() || strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	exp, err := dto.ParseDate(in.ExpirationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	txID := uuid.New().String()
	now := time.Now()
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		item, err := repos.Items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.Quantity.GreaterThan(decimal.Zero) {
			cost := item.Cost
			if in.UnitCost != nil {
				cost = *in.UnitCost
			}
			_, err := Inbound(ctx, repos, InboundInput{
				ItemID:         in.ItemID,
				Quantity:       in.Quantity,
				UnitCost:       cost,
				ExpirationDate: exp,
				MovementType:   entity.MovementTypeAdjustment,
				SourceType:     entity.BatchSourceAdjustment,
				Reason:         in.Reason,
				ReferenceType:  entity.ReferenceManual,
				TransactionID:  txID,
				UserID:         userID,
				Date:           now,
			})
			return err
		}
		_, err = Outbound(ctx, repos, OutboundInput{
			ItemID:        in.ItemID,
			Quantity:      in.Quantity.Neg(),
			MovementType:  entity.MovementTypeAdjustment,
			Reason:        in.Reason,
			ReferenceType: entity.ReferenceManual,
			TransactionID: txID,
			UserID:        userID,
			Date:          now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", in.ItemID).Str("quantity", in.Quantity.String()).Str("user_id", userID).Msg("ajuste de inventario registrado")
	return uc.level(ctx, in.ItemID)
}

func (uc *StockUseCase) level(ctx context.Context, itemID string) (*dto.StockLevelResponse, error) {
	levels, err := uc.repos.Stock.ListLevels(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range levels {
		if l.ItemID == itemID {
			r := ToStockLevelResponse(l)
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ToStockLevelResponse calcula estado y valor de una fila de stock.
func ToStockLevelResponse(l *entity.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ItemID:          l.ItemID,
		SKU:             l.SKU,
		ItemName:        l.ItemName,
		BaseUnit:        l.BaseUnit,
		CategoryID:      l.CategoryID,
		CategoryName:    l.CategoryName,
		StorageAreaID:   l.StorageAreaID,
		StorageAreaName: l.StorageAreaName,
		Quantity:        l.Quantity,
		MinStock:        l.MinStock,
		MaxStock:        l.MaxStock,
		Status:          invdomain.StockStatus(l.Quantity, l.MinStock),
		Cost:            l.Cost,
		Value:           l.Quantity.Mul(l.Cost).Round(2),
	}
}

// ToBatchResponse convierte un lote a DTO.
func ToBatchResponse(b *entity.ItemBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:             b.ID,
		ItemID:         b.ItemID,
		LotCode:        b.LotCode,
		Quantity:       b.Quantity,
		Remaining:      b.Remaining,
		UnitCost:       b.UnitCost,
		ExpirationDate: dto.FormatDate(b.ExpirationDate),
		ReceivedAt:     b.ReceivedAt,
		SourceType:     b.SourceType,
		SourceID:       b.SourceID,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ItemID:        m.ItemID,
		BatchID:       m.BatchID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		Reason:        m.Reason,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Date:          m.Date,
		CreatedBy:     m.CreatedBy,
	}
}

// Package alerts contiene el cálculo y la resolución de alertas de vencimiento de lotes.
package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	appinventory "github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Panaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

// ExpirationUseCase recalcula y resuelve alertas de vencimiento.
type ExpirationUseCase struct {
	repos        repository.Repositories
	txRunner     repository.TxRunner
	warningDays  int
	criticalDays int
	log          *logger.Logger
	now          func() time.Time
}

// NewExpirationUseCase construye el caso de uso con las ventanas de aviso en días.
func NewExpirationUseCase(repos repository.Repositories, txRunner repository.TxRunner, warningDays, criticalDays int, log *logger.Logger) *ExpirationUseCase {
	return &ExpirationUseCase{
		repos:        repos,
		txRunner:     txRunner,
		warningDays:  warningDays,
		criticalDays: criticalDays,
		log:          log,
		now:          time.Now,
	}
}

// Scan revisa los lotes con saldo y vencimiento: crea una alerta pendiente por lote que
// entra en la ventana, o actualiza la severidad (y fecha) de la pendiente existente.
// Las pendientes cuyo lote ya no tiene saldo se cierran como depleted.
func (uc *ExpirationUseCase) Scan(ctx context.Context) (*dto.ScanAlertsResponse, error) {
	res := &dto.ScanAlertsResponse{}
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		res.Created, res.Updated, res.Closed = 0, 0, 0
		pending, err := repos.Alerts.List(ctx, entity.AlertFilter{Status: entity.AlertStatusPending})
		if err != nil {
			return err
		}
		for _, a := range pending {
			b, err := repos.Batches.GetByID(ctx, a.BatchID)
			if err != nil {
				return err
			}
			if b != nil && b.Remaining.IsPositive() {
				continue
			}
			if err := appinventory.CloseDepletedAlert(ctx, repos, a.BatchID, now); err != nil {
				return err
			}
			res.Closed++
		}

		batches, err := repos.Batches.ListExpiring(ctx)
		if err != nil {
			return err
		}
		for _, b := range batches {
			severity, ok := invdomain.ExpirationSeverity(*b.ExpirationDate, now, uc.warningDays, uc.criticalDays)
			if !ok {
				continue
			}
			existing, err := repos.Alerts.GetPendingByBatch(ctx, b.ID)
			if err != nil {
				return err
			}
			if existing == nil {
				err = repos.Alerts.Create(ctx, &entity.ExpirationAlert{
					ID:             uuid.New().String(),
					BatchID:        b.ID,
					ItemID:         b.ItemID,
					ExpirationDate: *b.ExpirationDate,
					Severity:       severity,
					Status:         entity.AlertStatusPending,
					CreatedAt:      now,
					UpdatedAt:      now,
				})
				if err != nil {
					return err
				}
				res.Created++
				continue
			}
			if existing.Severity == severity && existing.ExpirationDate.Equal(*b.ExpirationDate) {
				continue
			}
			existing.Severity = severity
			existing.ExpirationDate = *b.ExpirationDate
			existing.UpdatedAt = now
			if err := repos.Alerts.Update(ctx, existing); err != nil {
				return err
			}
			res.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("created", res.Created).Int("updated", res.Updated).Int("closed", res.Closed).Msg("alertas de vencimiento recalculadas")
	return res, nil
}

// List filtra alertas por estado y severidad.
func (uc *ExpirationUseCase) List(ctx context.Context, f entity.AlertFilter) ([]dto.ExpirationAlertResponse, error) {
	switch f.Status {
	case "", entity.AlertStatusPending, entity.AlertStatusResolved:
	default:
		return nil, domain.ErrInvalidInput
	}
	switch f.Severity {
	case "", entity.SeverityWarning, entity.SeverityCritical, entity.SeverityExpired:
	default:
		return nil, domain.ErrInvalidInput
	}
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset
	list, err := uc.repos.Alerts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpirationAlertResponse, 0, len(list))
	for _, a := range list {
		r, err := uc.toResponse(ctx, uc.repos, a)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// GetByID devuelve una alerta.
func (uc *ExpirationUseCase) GetByID(ctx context.Context, id string) (*dto.ExpirationAlertResponse, error) {
	a, err := uc.repos.Alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, uc.repos, a)
}

// Resolve cierra una alerta pendiente en una sola transacción:
//   - discard: merma (motivo expired) por todo el saldo del lote.
//   - use: solo marca la alerta como resuelta.
//   - extend: mueve el vencimiento del lote a una fecha posterior.
//
// Resolver una alerta ya resuelta devuelve ErrConflict.
func (uc *ExpirationUseCase) Resolve(ctx context.Context, userID, id string, in dto.ResolveAlertRequest) (*dto.ExpirationAlertResponse, error) {
	switch in.Action {
	case entity.AlertActionDiscard, entity.AlertActionUse, entity.AlertActionExtend:
	default:
		return nil, fmt.Errorf("acción %q: %w", in.Action, domain.ErrInvalidInput)
	}
	newExp, err := dto.ParseDate(in.NewExpirationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.Action == entity.AlertActionExtend && newExp == nil {
		return nil, fmt.Errorf("new_expiration_date requerido: %w", domain.ErrInvalidInput)
	}

	now := uc.now()
	var resolved *entity.ExpirationAlert
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		alert, err := repos.Alerts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if alert == nil {
			return domain.ErrNotFound
		}
		if alert.Status != entity.AlertStatusPending {
			return fmt.Errorf("alerta ya resuelta: %w", domain.ErrConflict)
		}
		batch, err := repos.Batches.GetForUpdate(ctx, alert.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return fmt.Errorf("lote %s: %w", alert.BatchID, domain.ErrNotFound)
		}

		switch in.Action {
		case entity.AlertActionDiscard:
			if batch.Remaining.IsPositive() {
				loss, err := appinventory.RegisterLoss(ctx, repos, userID, entity.LossReasonExpired,
					strings.TrimSpace("Descarte por vencimiento. "+in.Notes), now,
					[]dto.LossDetailRequest{{ItemID: batch.ItemID, BatchID: batch.ID, Quantity: batch.Remaining}})
				if err != nil {
					return err
				}
				alert.LossEventID = loss.ID
			}
		case entity.AlertActionExtend:
			current := batch.ExpirationDate
			if current != nil && !newExp.After(*current) {
				return fmt.Errorf("la nueva fecha debe ser posterior al vencimiento actual: %w", domain.ErrInvalidInput)
			}
			batch.ExpirationDate = newExp
			batch.UpdatedAt = now
			if err := repos.Batches.Update(ctx, batch); err != nil {
				return err
			}
			alert.ExpirationDate = *newExp
		}

		alert.Status = entity.AlertStatusResolved
		alert.Resolution = in.Action
		alert.Notes = in.Notes
		alert.ResolvedBy = userID
		alert.ResolvedAt = &now
		alert.UpdatedAt = now
		if err := repos.Alerts.Update(ctx, alert); err != nil {
			return err
		}
		resolved = alert
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("alert_id", id).
		Str("action", in.Action).
		Str("user_id", userID).
		Msg("alerta de vencimiento resuelta")
	return uc.toResponse(ctx, uc.repos, resolved)
}

func (uc *ExpirationUseCase) toResponse(ctx context.Context, repos repository.Repositories, a *entity.ExpirationAlert) (*dto.ExpirationAlertResponse, error) {
	exp := a.ExpirationDate
	resp := &dto.ExpirationAlertResponse{
		ID:             a.ID,
		BatchID:        a.BatchID,
		ItemID:         a.ItemID,
		ExpirationDate: dto.FormatDate(&exp),
		Severity:       a.Severity,
		Status:         a.Status,
		Resolution:     a.Resolution,
		Notes:          a.Notes,
		LossEventID:    a.LossEventID,
		ResolvedBy:     a.ResolvedBy,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
	}
	item, err := repos.Items.GetByID(ctx, a.ItemID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		resp.ItemName = item.Name
	}
	batch, err := repos.Batches.GetByID(ctx, a.BatchID)
	if err != nil {
		return nil, err
	}
	if batch != nil {
		resp.Remaining = batch.Remaining
	}
	return resp, nil
}

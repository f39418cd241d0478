package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ItemUseCase CRUD de ítems y sus presentaciones. Cost y stock se manejan vía movimientos.
type ItemUseCase struct {
	repos    repository.Repositories
	txRunner repository.TxRunner
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repos repository.Repositories, txRunner repository.TxRunner) *ItemUseCase {
	return &ItemUseCase{repos: repos, txRunner: txRunner}
}

// Create crea un ítem activo. Cost inicia en 0.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	now := time.Now()
	item := &entity.Item{
		ID:                uuid.New().String(),
		SKU:               strings.TrimSpace(in.SKU),
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		CategoryID:        in.CategoryID,
		ItemTypeID:        in.ItemTypeID,
		StorageAreaID:     in.StorageAreaID,
		DefaultSupplierID: in.DefaultSupplierID,
		BaseUnit:          strings.ToLower(strings.TrimSpace(in.BaseUnit)),
		MinStock:          in.MinStock,
		MaxStock:          in.MaxStock,
		Cost:              decimal.Zero,
		IsPerishable:      in.IsPerishable,
		ShelfLifeDays:     in.ShelfLifeDays,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.validate(ctx, item); err != nil {
		return nil, err
	}
	existing, err := uc.repos.Items.GetBySKU(ctx, item.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repos.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repos.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update aplica los campos presentes. No permite modificar Cost.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repos.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil {
		item.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.ItemTypeID != nil {
		item.ItemTypeID = *in.ItemTypeID
	}
	if in.StorageAreaID != nil {
		item.StorageAreaID = *in.StorageAreaID
	}
	if in.DefaultSupplierID != nil {
		item.DefaultSupplierID = *in.DefaultSupplierID
	}
	if in.BaseUnit != nil {
		item.BaseUnit = strings.ToLower(strings.TrimSpace(*in.BaseUnit))
	}
	if in.MinStock != nil {
		item.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		item.MaxStock = *in.MaxStock
	}
	if in.IsPerishable != nil {
		item.IsPerishable = *in.IsPerishable
	}
	if in.ShelfLifeDays != nil {
		item.ShelfLifeDays = *in.ShelfLifeDays
	}
	if in.Active != nil {
		item.Active = *in.Active
	}
	if err := uc.validate(ctx, item); err != nil {
		return nil, err
	}
	item.UpdatedAt = time.Now()
	if err := uc.repos.Items.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista ítems con filtros y paginación.
func (uc *ItemUseCase) List(ctx context.Context, f entity.ItemFilter) (*dto.ItemListResponse, error) {
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset
	list, total, err := uc.repos.Items.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

// Delete elimina el ítem; si ya tiene movimientos, lotes o pedidos lo desactiva.
// Devuelve true si el borrado fue lógico.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) (bool, error) {
	item, err := uc.repos.Items.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, domain.ErrNotFound
	}
	hasHistory, err := uc.repos.Items.HasHistory(ctx, id)
	if err != nil {
		return false, err
	}
	if !hasHistory {
		return false, uc.repos.Items.Delete(ctx, id)
	}
	item.Active = false
	item.UpdatedAt = time.Now()
	return true, uc.repos.Items.Update(ctx, item)
}

func (uc *ItemUseCase) validate(ctx context.Context, item *entity.Item) error {
	if item.SKU == "" || item.Name == "" || !entity.ValidBaseUnit(item.BaseUnit) {
		return domain.ErrInvalidInput
	}
	if item.MinStock.LessThan(decimal.Zero) || item.MaxStock.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if item.MaxStock.GreaterThan(decimal.Zero) && item.MaxStock.LessThan(item.MinStock) {
		return fmt.Errorf("max_stock menor que min_stock: %w", domain.ErrInvalidInput)
	}
	if item.ShelfLifeDays < 0 || (item.IsPerishable && item.ShelfLifeDays == 0) {
		return fmt.Errorf("shelf_life_days requerido para perecederos: %w", domain.ErrInvalidInput)
	}
	if item.CategoryID != "" {
		c, err := uc.repos.Categories.GetByID(ctx, item.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("categoría %s: %w", item.CategoryID, domain.ErrInvalidInput)
		}
	}
	if item.ItemTypeID != "" {
		t, err := uc.repos.ItemTypes.GetByID(ctx, item.ItemTypeID)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("tipo de ítem %s: %w", item.ItemTypeID, domain.ErrInvalidInput)
		}
	}
	if item.StorageAreaID != "" {
		a, err := uc.repos.StorageAreas.GetByID(ctx, item.StorageAreaID)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("área %s: %w", item.StorageAreaID, domain.ErrInvalidInput)
		}
	}
	if item.DefaultSupplierID != "" {
		s, err := uc.repos.Suppliers.GetByID(ctx, item.DefaultSupplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("proveedor %s: %w", item.DefaultSupplierID, domain.ErrInvalidInput)
		}
	}
	return nil
}

// ── Presentaciones ────────────────────────────────────────────────────────────

// ListPresentations devuelve las presentaciones del ítem.
func (uc *ItemUseCase) ListPresentations(ctx context.Context, itemID string) ([]dto.PresentationResponse, error) {
	item, err := uc.repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repos.Presentations.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PresentationResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPresentationResponse(p))
	}
	return out, nil
}

// CreatePresentation agrega una presentación. Si es predeterminada, desmarca las otras
// del mismo (ítem, proveedor) en la misma transacción.
func (uc *ItemUseCase) CreatePresentation(ctx context.Context, itemID string, in dto.PresentationRequest) (*dto.PresentationResponse, error) {
	if err := validatePresentation(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Presentation{
		ID:               uuid.New().String(),
		ItemID:           itemID,
		SupplierID:       in.SupplierID,
		Name:             in.Name,
		Unit:             in.Unit,
		ConversionFactor: in.ConversionFactor,
		Price:            in.Price,
		IsDefault:        in.IsDefault,
		Active:           in.Active == nil || *in.Active,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		if err := checkPresentationRefs(ctx, repos, p); err != nil {
			return err
		}
		if p.IsDefault {
			if err := repos.Presentations.ClearDefault(ctx, p.ItemID, p.SupplierID, p.ID); err != nil {
				return err
			}
		}
		return repos.Presentations.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return toPresentationResponse(p), nil
}

// UpdatePresentation reemplaza los datos de la presentación. El ítem no cambia.
func (uc *ItemUseCase) UpdatePresentation(ctx context.Context, id string, in dto.PresentationRequest) (*dto.PresentationResponse, error) {
	if err := validatePresentation(&in); err != nil {
		return nil, err
	}
	var p *entity.Presentation
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		p, err = repos.Presentations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		p.SupplierID = in.SupplierID
		p.Name = in.Name
		p.Unit = in.Unit
		p.ConversionFactor = in.ConversionFactor
		p.Price = in.Price
		p.IsDefault = in.IsDefault
		if in.Active != nil {
			p.Active = *in.Active
		}
		p.UpdatedAt = time.Now()
		if err := checkPresentationRefs(ctx, repos, p); err != nil {
			return err
		}
		if p.IsDefault {
			if err := repos.Presentations.ClearDefault(ctx, p.ItemID, p.SupplierID, p.ID); err != nil {
				return err
			}
		}
		return repos.Presentations.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return toPresentationResponse(p), nil
}

// DeletePresentation borra la presentación; si ya figura en pedidos la desactiva.
func (uc *ItemUseCase) DeletePresentation(ctx context.Context, id string) (bool, error) {
	p, err := uc.repos.Presentations.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, domain.ErrNotFound
	}
	inUse, err := uc.repos.Presentations.InUse(ctx, id)
	if err != nil {
		return false, err
	}
	if !inUse {
		return false, uc.repos.Presentations.Delete(ctx, id)
	}
	p.Active = false
	p.IsDefault = false
	p.UpdatedAt = time.Now()
	return true, uc.repos.Presentations.Update(ctx, p)
}

func validatePresentation(in *dto.PresentationRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.Name == "" || !in.ConversionFactor.GreaterThan(decimal.Zero) || in.Price.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

func checkPresentationRefs(ctx context.Context, repos repository.Repositories, p *entity.Presentation) error {
	item, err := repos.Items.GetByID(ctx, p.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if p.SupplierID == "" {
		return nil
	}
	s, err := repos.Suppliers.GetByID(ctx, p.SupplierID)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("proveedor %s: %w", p.SupplierID, domain.ErrInvalidInput)
	}
	return nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:                it.ID,
		SKU:               it.SKU,
		Name:              it.Name,
		Description:       it.Description,
		CategoryID:        it.CategoryID,
		ItemTypeID:        it.ItemTypeID,
		StorageAreaID:     it.StorageAreaID,
		DefaultSupplierID: it.DefaultSupplierID,
		BaseUnit:          it.BaseUnit,
		MinStock:          it.MinStock,
		MaxStock:          it.MaxStock,
		Cost:              it.Cost,
		IsPerishable:      it.IsPerishable,
		ShelfLifeDays:     it.ShelfLifeDays,
		Active:            it.Active,
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}
}

func toPresentationResponse(p *entity.Presentation) *dto.PresentationResponse {
	return &dto.PresentationResponse{
		ID:               p.ID,
		ItemID:           p.ItemID,
		SupplierID:       p.SupplierID,
		Name:             p.Name,
		Unit:             p.Unit,
		ConversionFactor: p.ConversionFactor,
		Price:            p.Price,
		UnitPrice:        p.Price.Div(p.ConversionFactor).Round(4),
		IsDefault:        p.IsDefault,
		Active:           p.Active,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

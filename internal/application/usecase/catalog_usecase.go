package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

// CatalogUseCase CRUD de categorías, tipos de ítem y áreas de almacenamiento.
// El nombre es obligatorio y único; no se elimina un registro referenciado por ítems.
type CatalogUseCase struct {
	categories   repository.CategoryRepository
	itemTypes    repository.ItemTypeRepository
	storageAreas repository.StorageAreaRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(categories repository.CategoryRepository, itemTypes repository.ItemTypeRepository, storageAreas repository.StorageAreaRepository) *CatalogUseCase {
	return &CatalogUseCase{categories: categories, itemTypes: itemTypes, storageAreas: storageAreas}
}

func normalizeCatalog(in *dto.CatalogRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// ── Categorías ────────────────────────────────────────────────────────────────

func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CatalogRequest) (*dto.CatalogResponse, error) {
	if err := normalizeCatalog(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Category{ID: uuid.New().String(), Name: in.Name, Description: in.Description, CreatedAt: now, UpdatedAt: now}
	if err := uc.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return categoryResponse(c), nil
}

func (uc *CatalogUseCase) GetCategory(ctx context.Context, id string) (*dto.CatalogResponse, error) {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return categoryResponse(c), nil
}

func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CatalogResponse, error) {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *categoryResponse(c))
	}
	return out, nil
}

func (uc *CatalogUseCase) UpdateCategory(ctx context.Context, id string, in dto.CatalogRequest) (*dto.CatalogResponse, error) {
	if err := normalizeCatalog(&in); err != nil {
		return nil, err
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	c.Name, c.Description, c.UpdatedAt = in.Name, in.Description, time.Now()
	if err := uc.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return categoryResponse(c), nil
}

// DeleteCategory devuelve ErrConflict si algún ítem usa la categoría.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, id string) error {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	inUse, err := uc.categories.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrConflict
	}
	return uc.categories.Delete(ctx, id)
}

// ── Tipos de ítem ─────────────────────────────────────────────────────────────

func (uc *CatalogUseCase) CreateItemType(ctx context.Context, in dto.CatalogRequest) (*dto.CatalogResponse, error) {
	if err := normalizeCatalog(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	t := &entity.ItemType{ID: uuid.New().String(), Name: in.Name, Description: in.Description, CreatedAt: now, UpdatedAt: now}
	if err := uc.itemTypes.Create(ctx, t); err != nil {
		return nil, err
	}
	return itemTypeResponse(t), nil
}

func (uc *CatalogUseCase) GetItemType(ctx context.Context, id string) (*dto.CatalogResponse, error) {
	t, err := uc.itemTypes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return itemTypeResponse(t), nil
}

func (uc *CatalogUseCase) ListItemTypes(ctx context.Context) ([]dto.CatalogResponse, error) {
	list, err := uc.itemTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *itemTypeResponse(t))
	}
	return out, nil
}

func (uc *CatalogUseCase) UpdateItemType(ctx context.Context, id string, in dto.CatalogRequest) (*dto.CatalogResponse, error) {
	if err := normalizeCatalog(&in); err != nil {
		return nil, err
	}
	t, err := uc.itemTypes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	t.Name, t.Description, t.UpdatedAt = in.Name, in.Description, time.Now()
	if err := uc.itemTypes.Update(ctx, t); err != nil {
		return nil, err
	}
	return itemTypeResponse(t), nil
}

func (uc *CatalogUseCase) DeleteItemType(ctx context.Context, id string) error {
	t, err := uc.itemTypes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrNotFound
	}
	inUse, err := uc.itemTypes.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrConflict
	}
	return uc.itemTypes.Delete(ctx, id)
}

// ── Áreas de almacenamiento ───────────────────────────────────────────────────

func normalizeTemperature(t string) (string, error) {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return entity.TemperatureAmbient, nil
	}
	if !entity.ValidTemperature(t) {
		return "", domain.ErrInvalidInput
	}
	return t, nil
}

func (uc *CatalogUseCase) CreateStorageArea(ctx context.Context, in dto.CatalogRequest) (*dto.CatalogResponse, error) {
	if err := normalizeCatalog(&in); err != nil {
		return nil, err
	}
	temp, err := normalizeTemperature(in.Temperature)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	a := &entity.StorageArea{ID: uuid.New().String(), Name: in.Name, Description: in.Description, Temperature: temp, CreatedAt: now, UpdatedAt: now}
	if err := uc.storageAreas.Create(ctx, a); err != nil {
		return nil, err
	}
	return storageAreaResponse(a), nil
}

func (uc *CatalogUseCase) GetStorageArea(ctx context.Context, id string) (*dto.CatalogResponse, error) {
	a, err := uc.storageAreas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return storageAreaResponse(a), nil
}

func (uc *CatalogUseCase) ListStorageAreas(ctx context.Context) ([]dto.CatalogResponse, error) {
	list, err := uc.storageAreas.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *storageAreaResponse(a))
	}
	return out, nil
}

// UpdateStorageArea conserva la temperatura actual si no se envía.
func (uc *CatalogUseCase) UpdateStorageArea(ctx context.Context, id string, in dto.CatalogRequest) (*dto.CatalogResponse, error) {
	if err := normalizeCatalog(&in); err != nil {
		return nil, err
	}
	a, err := uc.storageAreas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if strings.TrimSpace(in.Temperature) != "" {
		temp, err := normalizeTemperature(in.Temperature)
		if err != nil {
			return nil, err
		}
		a.Temperature = temp
	}
	a.Name, a.Description, a.UpdatedAt = in.Name, in.Description, time.Now()
	if err := uc.storageAreas.Update(ctx, a); err != nil {
		return nil, err
	}
	return storageAreaResponse(a), nil
}

func (uc *CatalogUseCase) DeleteStorageArea(ctx context.Context, id string) error {
	a, err := uc.storageAreas.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	inUse, err := uc.storageAreas.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrConflict
	}
	return uc.storageAreas.Delete(ctx, id)
}

func categoryResponse(c *entity.Category) *dto.CatalogResponse {
	return &dto.CatalogResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func itemTypeResponse(t *entity.ItemType) *dto.CatalogResponse {
	return &dto.CatalogResponse{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func storageAreaResponse(a *entity.StorageArea) *dto.CatalogResponse {
	return &dto.CatalogResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Temperature: a.Temperature,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

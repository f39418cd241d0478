package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/rbac"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// data estado completo del almacén. Cada mapa guarda copias propias; los repos entregan clones.
type data struct {
	roles         map[string]*entity.Role
	permissions   []entity.Permission
	profiles      map[string]*entity.Profile
	categories    map[string]*entity.Category
	itemTypes     map[string]*entity.ItemType
	storageAreas  map[string]*entity.StorageArea
	suppliers     map[string]*entity.Supplier
	items         map[string]*entity.Item
	presentations map[string]*entity.Presentation
	stock         map[string]*entity.Stock
	batches       map[string]*entity.ItemBatch
	movements     []*entity.InventoryMovement
	orders        map[string]*entity.Order // cabeceras sin Details
	orderDetails  map[string]*entity.OrderDetail
	production    map[string]*entity.ProductionEvent
	losses        map[string]*entity.LossEvent
	counts        map[string]*entity.InventoryCount // cabeceras sin Details
	countDetails  map[string]*entity.CountDetail
	alerts        map[string]*entity.ExpirationAlert
}

func newData() *data {
	return &data{
		roles:         map[string]*entity.Role{},
		profiles:      map[string]*entity.Profile{},
		categories:    map[string]*entity.Category{},
		itemTypes:     map[string]*entity.ItemType{},
		storageAreas:  map[string]*entity.StorageArea{},
		suppliers:     map[string]*entity.Supplier{},
		items:         map[string]*entity.Item{},
		presentations: map[string]*entity.Presentation{},
		stock:         map[string]*entity.Stock{},
		batches:       map[string]*entity.ItemBatch{},
		orders:        map[string]*entity.Order{},
		orderDetails:  map[string]*entity.OrderDetail{},
		production:    map[string]*entity.ProductionEvent{},
		losses:        map[string]*entity.LossEvent{},
		counts:        map[string]*entity.InventoryCount{},
		countDetails:  map[string]*entity.CountDetail{},
		alerts:        map[string]*entity.ExpirationAlert{},
	}
}

// clone copia profunda del estado para poder restaurarlo si la transacción falla.
func (d *data) clone() *data {
	c := newData()
	for k, v := range d.roles {
		c.roles[k] = cloneRole(v)
	}
	c.permissions = append([]entity.Permission(nil), d.permissions...)
	copyMap(c.profiles, d.profiles)
	copyMap(c.categories, d.categories)
	copyMap(c.itemTypes, d.itemTypes)
	copyMap(c.storageAreas, d.storageAreas)
	copyMap(c.suppliers, d.suppliers)
	copyMap(c.items, d.items)
	copyMap(c.presentations, d.presentations)
	copyMap(c.stock, d.stock)
	copyMap(c.batches, d.batches)
	c.movements = make([]*entity.InventoryMovement, len(d.movements))
	for i, m := range d.movements {
		c.movements[i] = cp(m)
	}
	copyMap(c.orders, d.orders)
	copyMap(c.orderDetails, d.orderDetails)
	for k, v := range d.production {
		c.production[k] = cloneProduction(v)
	}
	for k, v := range d.losses {
		c.losses[k] = cloneLoss(v)
	}
	copyMap(c.counts, d.counts)
	copyMap(c.countDetails, d.countDetails)
	copyMap(c.alerts, d.alerts)
	return c
}

// Store almacén en memoria que implementa todos los puertos de persistencia.
// Se usa en tests y con STORAGE_DRIVER=memory; no persiste entre reinicios.
type Store struct {
	mu   sync.RWMutex // protege d en cada operación
	txMu sync.Mutex   // serializa transacciones
	d    *data
}

// NewStore crea un almacén vacío con los roles y permisos de sistema.
func NewStore() *Store {
	s := &Store{d: newData()}
	s.d.permissions = append([]entity.Permission(nil), rbac.Catalog...)
	now := time.Now()
	for _, r := range rbac.SeedRoles {
		s.d.roles[r.ID] = &entity.Role{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			IsSystem:    true,
			Permissions: append([]string(nil), r.Permissions...),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return s
}

// Repositories devuelve los repositorios sobre el almacén.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Roles:         &RoleRepo{s: s},
		Profiles:      &ProfileRepo{s: s},
		Categories:    &CategoryRepo{s: s},
		ItemTypes:     &ItemTypeRepo{s: s},
		StorageAreas:  &StorageAreaRepo{s: s},
		Suppliers:     &SupplierRepo{s: s},
		Items:         &ItemRepo{s: s},
		Presentations: &PresentationRepo{s: s},
		Stock:         &StockRepo{s: s},
		Batches:       &BatchRepo{s: s},
		Movements:     &MovementRepo{s: s},
		Orders:        &OrderRepo{s: s},
		Production:    &ProductionEventRepo{s: s},
		Losses:        &LossEventRepo{s: s},
		Counts:        &CountRepo{s: s},
		Alerts:        &AlertRepo{s: s},
	}
}

// Run ejecuta fn como una transacción: si fn falla, el estado vuelve a la foto tomada al inicio.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snap := s.d.clone()
	s.mu.RUnlock()

	if err := fn(s.Repositories()); err != nil {
		s.mu.Lock()
		s.d = snap
		s.mu.Unlock()
		return err
	}
	return nil
}

func cp[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyMap[T any](dst, src map[string]*T) {
	for k, v := range src {
		dst[k] = cp(v)
	}
}

func cloneRole(r *entity.Role) *entity.Role {
	c := cp(r)
	c.Permissions = append([]string(nil), r.Permissions...)
	return c
}

func cloneProduction(e *entity.ProductionEvent) *entity.ProductionEvent {
	c := cp(e)
	c.Details = make([]*entity.ProductionEventDetail, len(e.Details))
	for i, d := range e.Details {
		c.Details[i] = cp(d)
	}
	return c
}

func cloneLoss(e *entity.LossEvent) *entity.LossEvent {
	c := cp(e)
	c.Details = make([]*entity.LossEventDetail, len(e.Details))
	for i, d := range e.Details {
		c.Details[i] = cp(d)
	}
	return c
}

// page aplica limit/offset a un listado ya ordenado. limit <= 0 devuelve todo desde offset.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

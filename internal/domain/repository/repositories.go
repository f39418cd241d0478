package repository

import "context"

// Repositories agrupa todos los puertos de persistencia atados a una misma conexión o transacción.
type Repositories struct {
	Roles         RoleRepository
	Profiles      ProfileRepository
	Categories    CategoryRepository
	ItemTypes     ItemTypeRepository
	StorageAreas  StorageAreaRepository
	Suppliers     SupplierRepository
	Items         ItemRepository
	Presentations PresentationRepository
	Stock         StockRepository
	Batches       BatchRepository
	Movements     InventoryMovementRepository
	Orders        OrderRepository
	Production    ProductionEventRepository
	Losses        LossEventRepository
	Counts        InventoryCountRepository
	Alerts        ExpirationAlertRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no se persiste nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

package purchasing

import (
	"context"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// OrderPDFGenerator genera el documento imprimible de un pedido a proveedor.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *dto.OrderResponse, supplier *entity.Supplier) ([]byte, error)
}

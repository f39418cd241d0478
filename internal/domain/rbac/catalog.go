package rbac

import "github.com/jhoicas/Panaderia-api/internal/domain/entity"

// Catalog permisos conocidos por la API. La migración inicial inserta el mismo catálogo.
var Catalog = []entity.Permission{
	{Code: "profiles:read", Description: "Ver usuarios"},
	{Code: "profiles:create", Description: "Registrar usuarios"},
	{Code: "profiles:update", Description: "Cambiar rol o estado de usuarios"},
	{Code: "roles:read", Description: "Ver roles y permisos"},
	{Code: "roles:create", Description: "Crear roles"},
	{Code: "roles:update", Description: "Editar roles"},
	{Code: "roles:delete", Description: "Eliminar roles"},
	{Code: "catalogs:read", Description: "Ver categorías, tipos y áreas"},
	{Code: "catalogs:create", Description: "Crear categorías, tipos y áreas"},
	{Code: "catalogs:update", Description: "Editar categorías, tipos y áreas"},
	{Code: "catalogs:delete", Description: "Eliminar categorías, tipos y áreas"},
	{Code: "suppliers:read", Description: "Ver proveedores"},
	{Code: "suppliers:create", Description: "Crear proveedores"},
	{Code: "suppliers:update", Description: "Editar proveedores"},
	{Code: "suppliers:delete", Description: "Eliminar proveedores"},
	{Code: "items:read", Description: "Ver ítems y presentaciones"},
	{Code: "items:create", Description: "Crear ítems y presentaciones"},
	{Code: "items:update", Description: "Editar ítems y presentaciones"},
	{Code: "items:delete", Description: "Eliminar ítems y presentaciones"},
	{Code: "inventory:read", Description: "Ver stock, lotes y movimientos"},
	{Code: "inventory:adjust", Description: "Registrar ajustes de inventario"},
	{Code: "orders:read", Description: "Ver pedidos"},
	{Code: "orders:create", Description: "Crear pedidos"},
	{Code: "orders:update", Description: "Editar pedidos en borrador"},
	{Code: "orders:delete", Description: "Eliminar pedidos en borrador"},
	{Code: "orders:send", Description: "Enviar pedidos"},
	{Code: "orders:receive", Description: "Recibir pedidos"},
	{Code: "orders:cancel", Description: "Cancelar pedidos"},
	{Code: "orders:generate", Description: "Generar pedidos sugeridos"},
	{Code: "production:read", Description: "Ver producción"},
	{Code: "production:create", Description: "Registrar producción"},
	{Code: "losses:read", Description: "Ver mermas"},
	{Code: "losses:create", Description: "Registrar mermas"},
	{Code: "counts:read", Description: "Ver conteos"},
	{Code: "counts:create", Description: "Abrir conteos"},
	{Code: "counts:update", Description: "Registrar cantidades contadas"},
	{Code: "counts:close", Description: "Cerrar o cancelar conteos"},
	{Code: "alerts:read", Description: "Ver alertas de vencimiento"},
	{Code: "alerts:scan", Description: "Recalcular alertas de vencimiento"},
	{Code: "alerts:resolve", Description: "Resolver alertas de vencimiento"},
	{Code: "dashboard:read", Description: "Ver tablero"},
}

// SeedRole rol creado por la migración inicial.
type SeedRole struct {
	ID          string
	Name        string
	Description string
	Permissions []string
}

// SeedRoles roles de sistema. Los IDs coinciden con los de la migración.
var SeedRoles = []SeedRole{
	{
		ID:          "00000000-0000-0000-0000-0000000000a1",
		Name:        entity.RoleAdmin,
		Description: "Acceso total",
		Permissions: []string{SuperAdmin},
	},
	{
		ID:          "00000000-0000-0000-0000-0000000000a2",
		Name:        entity.RoleManager,
		Description: "Administra inventario, compras y producción",
		Permissions: []string{
			"profiles:read", "roles:read", "catalogs:*", "suppliers:*", "items:*", "inventory:*",
			"orders:*", "production:*", "losses:*", "counts:*", "alerts:*", "dashboard:read",
		},
	},
	{
		ID:          "00000000-0000-0000-0000-0000000000a3",
		Name:        entity.RoleBaker,
		Description: "Registra producción y mermas",
		Permissions: []string{
			"catalogs:read", "items:read", "inventory:read", "production:*", "losses:*",
			"counts:read", "counts:update", "alerts:read", "alerts:resolve", "dashboard:read",
		},
	},
	{
		ID:          "00000000-0000-0000-0000-0000000000a4",
		Name:        entity.RoleStaff,
		Description: "Consulta y conteos",
		Permissions: []string{
			"catalogs:read", "items:read", "suppliers:read", "inventory:read", "orders:read",
			"counts:read", "counts:update", "alerts:read", "dashboard:read",
		},
	},
}

// Known indica si code es "*:*", un código del catálogo o "recurso:*" de un recurso del catálogo.
func Known(code string) bool {
	if code == SuperAdmin {
		return true
	}
	res, act, ok := Split(code)
	if !ok {
		return false
	}
	for _, p := range Catalog {
		if p.Code == code {
			return true
		}
		if act == Wildcard {
			if r, _, _ := Split(p.Code); r == res {
				return true
			}
		}
	}
	return false
}

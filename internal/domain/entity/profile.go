package entity

import "time"

// Nombres de roles sembrados por la migración inicial.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleBaker   = "baker"
	RoleStaff   = "staff"
)

// Profile representa un usuario del sistema.
type Profile struct {
	ID           string
	Email        string // único
	PasswordHash string // bcrypt hash
	FullName     string
	RoleID       string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role agrupa permisos con formato "recurso:acción".
type Role struct {
	ID          string
	Name        string // único
	Description string
	IsSystem    bool // los roles sembrados no se pueden eliminar
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission entrada del catálogo de permisos.
type Permission struct {
	Code        string
	Description string
}

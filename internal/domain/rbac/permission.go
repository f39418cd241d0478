package rbac

import "strings"

// Comodines de permisos.
const (
	Wildcard   = "*"
	SuperAdmin = "*:*"
)

// Split separa un código "recurso:acción". ok=false si el formato no es válido.
func Split(code string) (resource, action string, ok bool) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Valid indica si code tiene el formato "recurso:acción".
func Valid(code string) bool {
	_, _, ok := Split(code)
	return ok
}

// Matches indica si el permiso otorgado cubre el solicitado.
// "*:*" cubre todo; "orders:*" cubre cualquier acción sobre orders.
func Matches(granted, requested string) bool {
	if granted == SuperAdmin || granted == requested {
		return true
	}
	res, act, ok := Split(granted)
	if !ok || act != Wildcard {
		return false
	}
	reqRes, _, ok := Split(requested)
	return ok && res == reqRes
}

// Set conjunto de permisos otorgados a un rol.
type Set []string

// Allows indica si algún permiso del conjunto cubre requested.
func (s Set) Allows(requested string) bool {
	for _, p := range s {
		if Matches(p, requested) {
			return true
		}
	}
	return false
}

package rbac

import (
	"context"
	"sync"
	"time"
)

// Resolver obtiene los permisos de un rol.
type Resolver interface {
	Permissions(ctx context.Context, roleID string) (Set, error)
}

// ResolverFunc adapta una función a Resolver.
type ResolverFunc func(ctx context.Context, roleID string) (Set, error)

// Permissions implementa Resolver.
func (f ResolverFunc) Permissions(ctx context.Context, roleID string) (Set, error) {
	return f(ctx, roleID)
}

// CachedResolver envuelve un Resolver con caché por rol y TTL para no consultar la BD en cada request.
type CachedResolver struct {
	inner Resolver
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	perms     Set
	expiresAt time.Time
}

// NewCachedResolver construye el resolver con caché.
func NewCachedResolver(inner Resolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]cacheEntry),
	}
}

// Permissions devuelve los permisos del rol, desde caché si no expiró.
func (r *CachedResolver) Permissions(ctx context.Context, roleID string) (Set, error) {
	r.mu.RLock()
	entry, ok := r.cache[roleID]
	r.mu.RUnlock()
	if ok && r.now().Before(entry.expiresAt) {
		return entry.perms, nil
	}

	perms, err := r.inner.Permissions(ctx, roleID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[roleID] = cacheEntry{perms: perms, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return perms, nil
}

// Invalidate elimina un rol de la caché. Llamar cuando cambian sus permisos.
func (r *CachedResolver) Invalidate(roleID string) {
	r.mu.Lock()
	delete(r.cache, roleID)
	r.mu.Unlock()
}

// InvalidateAll vacía la caché.
func (r *CachedResolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]cacheEntry)
	r.mu.Unlock()
}

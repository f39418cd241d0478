package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var (
	_ repository.ProfileRepository = (*ProfileRepo)(nil)
	_ repository.RoleRepository    = (*RoleRepo)(nil)
)

// ProfileRepo perfiles en memoria.
type ProfileRepo struct{ s *Store }

func (r *ProfileRepo) Create(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.d.profiles {
		if strings.EqualFold(e.Email, p.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.profiles[p.ID] = cp(p)
	return nil
}

func (r *ProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cp(r.s.d.profiles[id]), nil
}

func (r *ProfileRepo) GetByEmail(_ context.Context, email string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.d.profiles {
		if strings.EqualFold(p.Email, email) {
			return cp(p), nil
		}
	}
	return nil, nil
}

func (r *ProfileRepo) List(_ context.Context, limit, offset int) ([]*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Profile, 0, len(r.s.d.profiles))
	for _, p := range r.s.d.profiles {
		out = append(out, cp(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, limit, offset), nil
}

func (r *ProfileRepo) Update(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.profiles[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.profiles[p.ID] = cp(p)
	return nil
}

// RoleRepo roles en memoria.
type RoleRepo struct{ s *Store }

func (r *RoleRepo) Create(_ context.Context, role *entity.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.d.roles {
		if strings.EqualFold(e.Name, role.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.roles[role.ID] = cloneRole(role)
	return nil
}

func (r *RoleRepo) GetByID(_ context.Context, id string) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.d.roles[id]
	if !ok {
		return nil, nil
	}
	return cloneRole(role), nil
}

func (r *RoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.d.roles {
		if strings.EqualFold(role.Name, name) {
			return cloneRole(role), nil
		}
	}
	return nil, nil
}

func (r *RoleRepo) List(_ context.Context) ([]*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Role, 0, len(r.s.d.roles))
	for _, role := range r.s.d.roles {
		out = append(out, cloneRole(role))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *RoleRepo) Update(_ context.Context, role *entity.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.roles[role.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, e := range r.s.d.roles {
		if e.ID != role.ID && strings.EqualFold(e.Name, role.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.roles[role.ID] = cloneRole(role)
	return nil
}

func (r *RoleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.roles, id)
	return nil
}

func (r *RoleRepo) CountProfiles(_ context.Context, roleID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.d.profiles {
		if p.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

func (r *RoleRepo) ListPermissions(_ context.Context) ([]entity.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]entity.Permission(nil), r.s.d.permissions...), nil
}

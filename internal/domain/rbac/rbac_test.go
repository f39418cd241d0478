package rbac

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	cases := []struct {
		granted, requested string
		want               bool
	}{
		{"*:*", "orders:create", true},
		{"orders:*", "orders:receive", true},
		{"orders:*", "items:read", false},
		{"items:read", "items:read", true},
		{"items:read", "items:update", false},
		{"mal-formado", "items:read", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Matches(tc.granted, tc.requested), "%s vs %s", tc.granted, tc.requested)
	}
}

func TestSetAllows(t *testing.T) {
	s := Set{"items:read", "orders:*"}
	assert.True(t, s.Allows("orders:send"))
	assert.True(t, s.Allows("items:read"))
	assert.False(t, s.Allows("roles:update"))
	assert.False(t, Set(nil).Allows("items:read"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("items:read"))
	assert.False(t, Valid("items"))
	assert.False(t, Valid(":read"))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("*:*"))
	assert.True(t, Known("orders:receive"))
	assert.True(t, Known("orders:*"))
	assert.False(t, Known("orders:fly"))
	assert.False(t, Known("billing:*"))
	assert.False(t, Known("sin-formato"))
}

func TestSeedRoles_UsanPermisosDelCatalogo(t *testing.T) {
	for _, r := range SeedRoles {
		for _, p := range r.Permissions {
			assert.True(t, Known(p), "%s: %s", r.Name, p)
		}
	}
}

func TestCachedResolver(t *testing.T) {
	calls := 0
	inner := ResolverFunc(func(_ context.Context, roleID string) (Set, error) {
		calls++
		return Set{roleID + ":read"}, nil
	})
	r := NewCachedResolver(inner, time.Minute)
	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	ctx := context.Background()
	_, err := r.Permissions(ctx, "baker")
	require.NoError(t, err)
	_, err = r.Permissions(ctx, "baker")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "la segunda consulta sale de caché")

	r.Invalidate("baker")
	_, _ = r.Permissions(ctx, "baker")
	assert.Equal(t, 2, calls)

	now = now.Add(2 * time.Minute)
	_, _ = r.Permissions(ctx, "baker")
	assert.Equal(t, 3, calls, "la entrada expiró")

	r.InvalidateAll()
	_, _ = r.Permissions(ctx, "baker")
	assert.Equal(t, 4, calls)
}

func TestCachedResolver_NoCacheaErrores(t *testing.T) {
	calls := 0
	inner := ResolverFunc(func(context.Context, string) (Set, error) {
		calls++
		return nil, errors.New("db caída")
	})
	r := NewCachedResolver(inner, time.Minute)
	_, err := r.Permissions(context.Background(), "x")
	assert.Error(t, err)
	_, _ = r.Permissions(context.Background(), "x")
	assert.Equal(t, 2, calls)
}

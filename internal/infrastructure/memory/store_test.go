package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
)

func TestStore_RollbackRestauraEstado(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	repos := s.Repositories()
	require.NoError(t, repos.Categories.Create(ctx, &entity.Category{ID: "c1", Name: "Harinas"}))

	boom := errors.New("falla a mitad")
	err := s.Run(ctx, func(tx repository.Repositories) error {
		if err := tx.Categories.Create(ctx, &entity.Category{ID: "c2", Name: "Lácteos"}); err != nil {
			return err
		}
		if err := tx.Stock.Upsert(ctx, &entity.Stock{ItemID: "x", Quantity: decimal.NewFromInt(5)}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := repos.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	st, err := repos.Stock.Get(ctx, "x")
	require.NoError(t, err)
	assert.True(t, st.Quantity.IsZero())
}

func TestStore_CommitPersiste(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	err := s.Run(ctx, func(tx repository.Repositories) error {
		return tx.Categories.Create(ctx, &entity.Category{ID: "c1", Name: "Harinas"})
	})
	require.NoError(t, err)
	c, err := s.Repositories().Categories.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Harinas", c.Name)
}

func TestStore_NombreDuplicado(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	repos := s.Repositories()
	require.NoError(t, repos.Categories.Create(ctx, &entity.Category{ID: "c1", Name: "Harinas"}))
	err := repos.Categories.Create(ctx, &entity.Category{ID: "c2", Name: "harinas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStore_RolesSembrados(t *testing.T) {
	s := memory.NewStore()
	admin, err := s.Repositories().Roles.GetByName(context.Background(), entity.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, []string{"*:*"}, admin.Permissions)
	assert.True(t, admin.IsSystem)
}

func TestBatchRepo_ListAvailableFEFO(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	repos := s.Repositories()
	exp1 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	exp2 := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Batches.Create(ctx, &entity.ItemBatch{ID: "b1", ItemID: "i", Remaining: decimal.NewFromInt(1), ExpirationDate: &exp1}))
	require.NoError(t, repos.Batches.Create(ctx, &entity.ItemBatch{ID: "b2", ItemID: "i", Remaining: decimal.NewFromInt(1), ExpirationDate: &exp2}))
	require.NoError(t, repos.Batches.Create(ctx, &entity.ItemBatch{ID: "b3", ItemID: "i", Remaining: decimal.Zero, ExpirationDate: &exp2}))

	list, err := repos.Batches.ListAvailable(ctx, "i")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b2", list[0].ID)
	assert.Equal(t, "b1", list[1].ID)
}

func TestStockRepo_NoPermiteNegativo(t *testing.T) {
	s := memory.NewStore()
	err := s.Repositories().Stock.Upsert(context.Background(), &entity.Stock{ItemID: "i", Quantity: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

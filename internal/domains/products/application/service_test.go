package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productmemory "github.com/Apurer/go-gin-inventory-server/internal/domains/products/adapters/memory"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/domain"
	"github.com/Apurer/go-gin-inventory-server/internal/domains/products/ports"
	"github.com/Apurer/go-gin-inventory-server/internal/shared/projection"
)

func strPtr(s string) *string { return &s }

func seedProducts(t *testing.T, svc *Service, products ...*domain.Product) []*ports.ProductProjection {
	t.Helper()
	saved := make([]*ports.ProductProjection, 0, len(products))
	for _, p := range products {
		proj, err := svc.CreateProduct(context.Background(), p)
		require.NoError(t, err)
		saved = append(saved, proj)
	}
	return saved
}

func names(list []*ports.ProductProjection) []string {
	out := make([]string, 0, len(list))
	for _, p := range projection.Entities(list) {
		out = append(out, p.Name)
	}
	return out
}

func TestCreateProduct_PersistsAsGiven(t *testing.T) {
	svc := NewService(productmemory.NewRepository())

	created, err := svc.CreateProduct(context.Background(), &domain.Product{
		Name: "Widget", Description: "blue", Price: 9.99, StockQuantity: 4, Category: "tools",
	})
	require.NoError(t, err)
	require.NotZero(t, created.Entity.ID)
	require.Equal(t, 4, created.Entity.StockQuantity)
	require.False(t, created.Metadata.CreatedAt.IsZero())
}

func TestCreateProduct_DuplicateNameIsConflict(t *testing.T) {
	svc := NewService(productmemory.NewRepository())
	seedProducts(t, svc, &domain.Product{Name: "Widget"})

	_, err := svc.CreateProduct(context.Background(), &domain.Product{Name: "Widget"})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, ports.ErrDuplicateName)
}

func TestUpdateProduct_OverwritesDetailsButNotStock(t *testing.T) {
	svc := NewService(productmemory.NewRepository())
	saved := seedProducts(t, svc, &domain.Product{Name: "Widget", Price: 1, StockQuantity: 7, Category: "tools"})

	updated, err := svc.UpdateProduct(context.Background(), &domain.Product{
		ID: saved[0].Entity.ID, Name: "Widget XL", Description: "bigger", Price: 2, StockQuantity: 0, Category: "garden",
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", updated.Entity.Name)
	assert.Equal(t, "bigger", updated.Entity.Description)
	assert.Equal(t, 2.0, updated.Entity.Price)
	assert.Equal(t, "garden", updated.Entity.Category)
	assert.Equal(t, 7, updated.Entity.StockQuantity)
}

func TestMissingProduct_ReturnsNotFoundWithoutMutation(t *testing.T) {
	repo := productmemory.NewRepository()
	svc := NewService(repo)
	seedProducts(t, svc, &domain.Product{Name: "Widget"})
	ctx := context.Background()

	_, err := svc.RetrieveProduct(ctx, 404)
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.UpdateProduct(ctx, &domain.Product{ID: 404, Name: "Ghost"})
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.ErrorIs(t, svc.DeleteProduct(ctx, 404), ports.ErrNotFound)

	_, err = svc.AdjustStock(ctx, 404, 5)
	require.ErrorIs(t, err, ports.ErrNotFound)

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Widget"}, names(all))
}

func TestDeleteProduct_RemovesExisting(t *testing.T) {
	svc := NewService(productmemory.NewRepository())
	saved := seedProducts(t, svc, &domain.Product{Name: "Widget"})

	require.NoError(t, svc.DeleteProduct(context.Background(), saved[0].Entity.ID))
	_, err := svc.RetrieveProduct(context.Background(), saved[0].Entity.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestAdjustStock_AllowsNegativeStock(t *testing.T) {
	svc := NewService(productmemory.NewRepository())
	saved := seedProducts(t, svc, &domain.Product{Name: "Widget", StockQuantity: 3})

	adjusted, err := svc.AdjustStock(context.Background(), saved[0].Entity.ID, -5)
	require.NoError(t, err)
	require.Equal(t, -2, adjusted.Entity.StockQuantity)

	reloaded, err := svc.RetrieveProduct(context.Background(), saved[0].Entity.ID)
	require.NoError(t, err)
	require.Equal(t, -2, reloaded.Entity.StockQuantity)
}

func TestSearchProducts(t *testing.T) {
	svc := NewService(productmemory.NewRepository())
	seedProducts(t, svc,
		&domain.Product{Name: "Widget", Category: "Tools"},
		&domain.Product{Name: "WIDE-SCREEN", Category: "Electronics"},
		&domain.Product{Name: "Gadget", Category: "tools"},
	)
	ctx := context.Background()

	t.Run("name substring ignores case", func(t *testing.T) {
		got, err := svc.SearchProducts(ctx, ports.SearchCriteria{Name: strPtr("wid")})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"Widget", "WIDE-SCREEN"}, names(got))
	})

	t.Run("category substring ignores case", func(t *testing.T) {
		got, err := svc.SearchProducts(ctx, ports.SearchCriteria{Category: strPtr("TOOL")})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"Widget", "Gadget"}, names(got))
	})

	t.Run("criteria are AND-combined", func(t *testing.T) {
		got, err := svc.SearchProducts(ctx, ports.SearchCriteria{Name: strPtr("wid"), Category: strPtr("tools")})
		require.NoError(t, err)
		require.Equal(t, []string{"Widget"}, names(got))
	})

	t.Run("no criteria lists everything", func(t *testing.T) {
		got, err := svc.SearchProducts(ctx, ports.SearchCriteria{})
		require.NoError(t, err)
		all, err := svc.ListProducts(ctx)
		require.NoError(t, err)
		require.Equal(t, names(all), names(got))
		require.Len(t, got, 3)
	})
}

func TestLookupProducts_IsCaseSensitive(t *testing.T) {
	svc := NewService(productmemory.NewRepository())
	seedProducts(t, svc,
		&domain.Product{Name: "Widget", Category: "Tools"},
		&domain.Product{Name: "WIDE-SCREEN", Category: "Electronics"},
	)

	got, err := svc.LookupProducts(context.Background(), "Wid", "")
	require.NoError(t, err)
	require.Equal(t, []string{"Widget"}, names(got))
}

func TestBuildProductFilter(t *testing.T) {
	require.True(t, BuildProductFilter(nil, nil).IsEmpty())

	f := BuildProductFilter(strPtr("wid"), nil)
	criteria := f.Criteria()
	require.Len(t, criteria, 1)
	require.Equal(t, FieldName, criteria[0].Field)
	require.True(t, f.Matches(&domain.Product{Name: "WIDE-SCREEN"}))
	require.False(t, f.Matches(&domain.Product{Name: "Gadget"}))

	both := BuildProductFilter(strPtr("wid"), strPtr("elec"))
	require.Len(t, both.Criteria(), 2)
	require.True(t, both.Matches(&domain.Product{Name: "WIDE-SCREEN", Category: "Electronics"}))
	require.False(t, both.Matches(&domain.Product{Name: "Widget", Category: "Tools"}))
}

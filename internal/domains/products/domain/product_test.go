package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProduct_Validates(t *testing.T) {
	_, err := NewProduct(0, "  ", "", 1, 0, "")
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewProduct(0, "Widget", "", -0.01, 0, "")
	require.ErrorIs(t, err, ErrNegativePrice)

	p, err := NewProduct(0, " Widget ", "blue", 9.5, 3, "tools")
	require.NoError(t, err)
	require.Equal(t, "Widget", p.Name)
}

func TestAdjustStock_HasNoFloor(t *testing.T) {
	p := &Product{StockQuantity: 3}
	p.AdjustStock(-5)
	require.Equal(t, -2, p.StockQuantity)
}

func TestApplyDetails_KeepsStock(t *testing.T) {
	p := &Product{ID: 1, Name: "Old", StockQuantity: 10}
	p.ApplyDetails(&Product{ID: 99, Name: "New", Description: "d", Price: 2, StockQuantity: 0, Category: "c"})
	require.Equal(t, int64(1), p.ID)
	require.Equal(t, "New", p.Name)
	require.Equal(t, 10, p.StockQuantity)
	require.Equal(t, "c", p.Category)
}

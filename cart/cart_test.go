package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"progressgarant/globals"
	"progressgarant/kv"
	"progressgarant/models"
	"progressgarant/mq"
	"progressgarant/products"
)

func newTestCart(t *testing.T) (*Repo, *products.Repo, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()
	productRepo := products.New(store, kv.NewMemory(), mq.NewEmitter())
	return New(store, productRepo), productRepo, store
}

func TestAddLineMergesQuantities(t *testing.T) {
	c, _, _ := newTestCart(t)

	require.NoError(t, c.AddLine("3", 2))
	require.NoError(t, c.AddLine("3", 1))

	items, totalItems, totalPrice, err := c.Materialize()
	require.NoError(t, err)
	require.Len(t, items, 1, "no duplicate lines for the same product")
	require.Equal(t, 3, items[0].Quantity)
	require.Equal(t, 3, totalItems)
	require.Equal(t, 1260.0, totalPrice) // 420 x 3
}

func TestQuantityInvariant(t *testing.T) {
	c, _, _ := newTestCart(t)

	require.NoError(t, c.AddLine("1", 5))
	require.NoError(t, c.AddLine("2", 1))
	require.NoError(t, c.SetQuantity("1", 2))
	require.NoError(t, c.SetQuantity("2", 0)) // removes the line
	require.NoError(t, c.AddLine("", 3))      // ignored
	require.NoError(t, c.AddLine("5", -1))    // ignored

	lines := c.Lines()
	require.Len(t, lines, 1)
	for _, l := range lines {
		require.GreaterOrEqual(t, l.Quantity, 1)
	}
	require.Equal(t, "1", lines[0].ID)
	require.Equal(t, 2, lines[0].Quantity)
}

func TestSetQuantityNegativeRemoves(t *testing.T) {
	c, _, _ := newTestCart(t)

	require.NoError(t, c.AddLine("4", 1))
	require.NoError(t, c.SetQuantity("4", -7))
	require.Empty(t, c.Lines())

	// setting quantity on an absent line is a no-op
	require.NoError(t, c.SetQuantity("4", 3))
	require.Empty(t, c.Lines())
}

func TestMaterializeDropsDanglingLines(t *testing.T) {
	c, productRepo, _ := newTestCart(t)

	require.NoError(t, c.AddLine("3", 2))
	require.NoError(t, c.AddLine("7", 1))

	// product "3" disappears from the catalog; its line is filtered, not an error
	require.NoError(t, productRepo.Remove("3"))

	items, totalItems, totalPrice, err := c.Materialize()
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "7", items[0].ID)
	require.Equal(t, 1, totalItems)
	require.Equal(t, 140.0, totalPrice)

	// the raw line survives; only the materialized view filters it
	require.Len(t, c.Lines(), 2)
}

func TestLoadFiltersMalformedEntries(t *testing.T) {
	store := kv.NewMemory()
	productRepo := products.New(store, kv.NewMemory(), mq.NewEmitter())

	require.NoError(t, kv.WriteJSON(store, globals.KeyCart, []models.CartLine{
		{ID: "1", Quantity: 2},
		{ID: "", Quantity: 3},
		{ID: "4", Quantity: 0},
		{ID: "5", Quantity: -2},
	}))

	c := New(store, productRepo)
	lines := c.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "1", lines[0].ID)
}

func TestLoadSurvivesNonArrayPayload(t *testing.T) {
	store := kv.NewMemory()
	productRepo := products.New(store, kv.NewMemory(), mq.NewEmitter())
	store.Set(globals.KeyCart, []byte(`{"oops":"not an array"}`))

	c := New(store, productRepo)
	require.Empty(t, c.Lines())
}

func TestWriteThroughPersistence(t *testing.T) {
	c, productRepo, store := newTestCart(t)

	require.NoError(t, c.AddLine("2", 4))
	require.NoError(t, c.AddLine("6", 1))
	require.NoError(t, c.RemoveLine("6"))

	// a second consumer constructed over the same substrate sees the state
	c2 := New(store, productRepo)
	lines := c2.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "2", lines[0].ID)
	require.Equal(t, 4, lines[0].Quantity)
}

func TestClear(t *testing.T) {
	c, productRepo, store := newTestCart(t)

	require.NoError(t, c.AddLine("1", 1))
	require.NoError(t, c.Clear())
	require.Empty(t, c.Lines())

	c2 := New(store, productRepo)
	require.Empty(t, c2.Lines())
}

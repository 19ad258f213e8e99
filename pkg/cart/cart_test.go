package cart

import (
	"sync"
	"testing"

	catalog "github.com/jjhbk/Devrang/internal/domain/catalog/model"
	"github.com/jjhbk/Devrang/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name, price string) catalog.Product {
	return catalog.Product{BaseModel: model.BaseModel{ID: id}, Name: name, Price: decimal.RequireFromString(price), Brand: "Devrang"}
}

var (
	amethyst = product("p-1", "Amethyst Cluster", "45.00")
	ruby     = product("p-2", "Ruby", "0.10")
	pearl    = product("p-3", "Pearl", "0.20")
)

func TestCart(t *testing.T) {
	t.Run("Duplicate add merges", func(t *testing.T) {
		c := New()
		c.Add(amethyst, 1)
		c.Add(amethyst, 1)
		require.Equal(t, 1, c.Len())
		assert.Equal(t, 2, c.Lines()[0].Quantity)
		assert.True(t, c.Total().Equal(decimal.RequireFromString("90.00")))
	})

	t.Run("Total is exact", func(t *testing.T) {
		c := New()
		c.Add(ruby, 1)
		c.Add(pearl, 1)
		assert.Equal(t, "0.3", c.Total().String())
	})

	t.Run("Total independent of insertion order", func(t *testing.T) {
		a, b := New(), New()
		a.Add(amethyst, 2)
		a.Add(ruby, 3)
		a.Add(pearl, 7)
		b.Add(pearl, 7)
		b.Add(ruby, 3)
		b.Add(amethyst, 2)
		assert.True(t, a.Total().Equal(b.Total()))
	})

	t.Run("Custom price overrides catalog price", func(t *testing.T) {
		c := New()
		c.Add(amethyst, 1)
		custom := decimal.RequireFromString("40")
		c.UpdateQuantity("p-1", 3, &custom)
		assert.True(t, c.Total().Equal(decimal.NewFromInt(120)))

		c.UpdateQuantity("p-1", 1, nil)
		assert.True(t, c.Total().Equal(decimal.NewFromInt(40)), "override is kept when not supplied")

		items := c.Snapshot()
		require.Len(t, items, 1)
		assert.True(t, items[0].Price.Equal(custom))
		assert.Equal(t, "Devrang", items[0].Brand)
	})

	t.Run("Zero custom price is honoured", func(t *testing.T) {
		c := New()
		c.Add(amethyst, 2)
		zero := decimal.Zero
		c.UpdateQuantity("p-1", 2, &zero)
		assert.True(t, c.Total().IsZero())
	})

	t.Run("Unknown product update is a no-op", func(t *testing.T) {
		c := New()
		c.Add(amethyst, 1)
		c.UpdateQuantity("nope", 5, nil)
		assert.Equal(t, 1, c.Lines()[0].Quantity)
	})

	t.Run("Remove and clear", func(t *testing.T) {
		c := New()
		c.Add(amethyst, 1)
		c.Add(ruby, 1)
		c.Remove("p-1")
		assert.Equal(t, "Ruby", c.Lines()[0].Product.Name)
		c.UpdateQuantity("p-2", 0, nil)
		assert.True(t, c.IsEmpty())

		c.Add(pearl, 1)
		c.Clear()
		assert.True(t, c.IsEmpty())
		assert.True(t, c.Total().IsZero())
	})

	t.Run("Lines is a copy", func(t *testing.T) {
		c := New()
		c.Add(amethyst, 1)
		lines := c.Lines()
		lines[0].Quantity = 99
		assert.Equal(t, 1, c.Lines()[0].Quantity)
	})

	t.Run("Concurrent adds", func(t *testing.T) {
		c := New()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Add(amethyst, 1)
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, c.Lines()[0].Quantity)
	})
}

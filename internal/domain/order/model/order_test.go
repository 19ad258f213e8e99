package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusCreated, StatusPaid},
		{StatusLinkCreated, StatusAdminPaid},
		{StatusOrphaned, StatusPaid},
		{StatusPaid, StatusProcessing},
		{StatusAdminPaid, StatusProcessing},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusDelivered},
		{StatusDelivered, StatusDelivered},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	assert.False(t, CanTransition(StatusDelivered, StatusProcessing))
	assert.False(t, CanTransition(StatusCreated, StatusShipped))
	assert.False(t, CanTransition(StatusLinkCreated, StatusPaid))
}

func TestStatusSets(t *testing.T) {
	assert.True(t, StatusShipped.IsAdmin())
	assert.False(t, StatusPaid.IsAdmin())
	assert.True(t, StatusPaid.Valid())
	assert.False(t, Status("cancelled").Valid())
	assert.True(t, StatusOrphaned.AwaitingPayment())
	assert.False(t, StatusPaid.AwaitingPayment())
}

func TestItems(t *testing.T) {
	items := Items{
		{Name: "Amethyst Cluster", Price: decimal.RequireFromString("45.00"), Quantity: 2},
		{Name: "Rudraksha", Price: decimal.RequireFromString("0.10"), Quantity: 3},
	}
	assert.Equal(t, "90.3", items.Total().String())

	v, err := items.Value()
	require.NoError(t, err)

	var back Items
	require.NoError(t, back.Scan([]byte(v.(string))))
	require.Len(t, back, 2)
	assert.True(t, back[1].Price.Equal(decimal.RequireFromString("0.1")))

	var nilItems Items
	v, err = nilItems.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestHasSnapshots(t *testing.T) {
	o := &Order{}
	assert.False(t, o.HasSnapshots())
	o.Customer.Name = "Aarav"
	assert.True(t, o.HasSnapshots())
}

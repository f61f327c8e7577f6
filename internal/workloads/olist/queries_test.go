package olist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesOrder(t *testing.T) {
	assert.Equal(t, []string{CatalogLookup, CustomerOrders, OrderAnalytics}, Names())
}

func TestLookup(t *testing.T) {
	q, err := Lookup(OrderAnalytics)
	require.NoError(t, err)
	assert.Equal(t, OrderAnalytics, q.Name)
	assert.Contains(t, q.SQL, "GROUP BY p.product_category_name")

	_, err = Lookup("full_table_scan")
	assert.ErrorIs(t, err, ErrUnknownQuery)
}

func TestQueriesReturnsCopy(t *testing.T) {
	qs := Queries()
	qs[0].Name = "mutated"

	assert.Equal(t, CatalogLookup, Queries()[0].Name)
}

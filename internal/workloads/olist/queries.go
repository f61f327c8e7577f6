// Package olist holds the read queries run against the Olist e-commerce
// database during load tests.
package olist

import (
	"errors"
	"fmt"
)

var ErrUnknownQuery = errors.New("unknown query")

const (
	CatalogLookup  = "catalog_lookup"
	CustomerOrders = "customer_orders"
	OrderAnalytics = "order_analytics"
)

type QuerySpec struct {
	Name string
	SQL  string
}

const catalogLookupSQL = `
		SELECT product_id, product_category_name, product_weight_g
		FROM products
		WHERE product_category_name = 'beleza_saude'
		LIMIT 50
	`

const customerOrdersSQL = `
		SELECT o.order_id, o.order_status, o.order_purchase_timestamp
		FROM orders o
		WHERE o.customer_id = (SELECT customer_id FROM customers LIMIT 1 OFFSET 100)
		LIMIT 10
	`

const orderAnalyticsSQL = `
		SELECT
			p.product_category_name,
			COUNT(*) as order_count,
			AVG(oi.price) as avg_price
		FROM order_items oi
		JOIN products p ON oi.product_id = p.product_id
		WHERE oi.price > 20
		GROUP BY p.product_category_name
		ORDER BY order_count DESC
		LIMIT 10
	`

var queries = []QuerySpec{
	{Name: CatalogLookup, SQL: catalogLookupSQL},
	{Name: CustomerOrders, SQL: customerOrdersSQL},
	{Name: OrderAnalytics, SQL: orderAnalyticsSQL},
}

// Queries returns the catalog in its fixed run order.
func Queries() []QuerySpec {
	out := make([]QuerySpec, len(queries))
	copy(out, queries)
	return out
}

func Names() []string {
	names := make([]string, len(queries))
	for i, q := range queries {
		names[i] = q.Name
	}
	return names
}

func Lookup(name string) (QuerySpec, error) {
	for _, q := range queries {
		if q.Name == name {
			return q, nil
		}
	}
	return QuerySpec{}, fmt.Errorf("%w: %q", ErrUnknownQuery, name)
}

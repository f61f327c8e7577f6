package olist

// The tables below carry only the columns the catalog queries read. They are
// used to stand up a small database for integration runs; the real import
// keeps the full Olist column set.

func ProductsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS products (
			product_id VARCHAR(32) PRIMARY KEY,
			product_category_name VARCHAR(64),
			product_weight_g INT
		)
	`
}

func CustomersSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS customers (
			customer_id VARCHAR(32) PRIMARY KEY
		)
	`
}

func OrdersSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS orders (
			order_id VARCHAR(32) PRIMARY KEY,
			customer_id VARCHAR(32) NOT NULL REFERENCES customers (customer_id),
			order_status VARCHAR(16) NOT NULL,
			order_purchase_timestamp TIMESTAMP NOT NULL
		)
	`
}

func OrderItemsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS order_items (
			order_id VARCHAR(32) NOT NULL REFERENCES orders (order_id),
			order_item_id INT NOT NULL,
			product_id VARCHAR(32) NOT NULL REFERENCES products (product_id),
			price NUMERIC(10, 2) NOT NULL,
			PRIMARY KEY (order_id, order_item_id)
		)
	`
}

// Fixture sizes. Every customer places two orders, so the customer at offset
// 100 always has orders to return.
const (
	FixtureProducts  = 200
	FixtureCustomers = 150
)

// FixtureStatements returns DDL and generated rows, in execution order, one
// statement per entry.
func FixtureStatements() []string {
	return []string{
		ProductsSchema(),
		CustomersSchema(),
		OrdersSchema(),
		OrderItemsSchema(),
		`INSERT INTO products
		SELECT 'p' || g,
			CASE g % 4
				WHEN 0 THEN 'beleza_saude'
				WHEN 1 THEN 'esporte_lazer'
				WHEN 2 THEN 'beleza_saude'
				ELSE 'informatica_acessorios'
			END,
			g * 10
		FROM generate_series(1, 200) AS g`,
		`INSERT INTO customers SELECT 'c' || g FROM generate_series(1, 150) AS g`,
		`INSERT INTO orders
		SELECT 'o' || g, 'c' || ((g - 1) % 150 + 1), 'delivered',
			TIMESTAMP '2017-01-01' + g * INTERVAL '1 hour'
		FROM generate_series(1, 300) AS g`,
		`INSERT INTO order_items
		SELECT 'o' || g, 1, 'p' || ((g - 1) % 200 + 1), 5 + (g % 50)
		FROM generate_series(1, 300) AS g`,
	}
}

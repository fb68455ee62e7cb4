package postgres

const schemaSQL = `
CREATE TABLE IF NOT EXISTS stores (
	store_id UUID PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	region TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	product_id UUID PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sales (
	sale_id UUID PRIMARY KEY,
	store_code TEXT NOT NULL REFERENCES stores (code),
	total NUMERIC(10, 2) NOT NULL,
	txn_ts TIMESTAMP NOT NULL,
	promotion TEXT,
	member TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sale_items (
	sale_id UUID NOT NULL REFERENCES sales (sale_id),
	product_id UUID NOT NULL REFERENCES products (product_id),
	qty INT NOT NULL CHECK (qty > 0),
	PRIMARY KEY (sale_id, product_id)
);
`

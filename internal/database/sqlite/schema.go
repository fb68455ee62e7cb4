package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS stores (
	store_id TEXT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	region TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	product_id TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sales (
	sale_id TEXT PRIMARY KEY,
	store_code TEXT NOT NULL REFERENCES stores (code),
	total NUMERIC NOT NULL,
	txn_ts TEXT NOT NULL,
	promotion TEXT,
	member TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sale_items (
	sale_id TEXT NOT NULL REFERENCES sales (sale_id),
	product_id TEXT NOT NULL REFERENCES products (product_id),
	qty INTEGER NOT NULL CHECK (qty > 0),
	PRIMARY KEY (sale_id, product_id)
);
`

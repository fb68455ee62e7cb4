package mysql

const schemaSQL = `
CREATE TABLE IF NOT EXISTS stores (
	store_id CHAR(36) PRIMARY KEY,
	code VARCHAR(64) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	region VARCHAR(64) NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	product_id CHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL
);

CREATE TABLE IF NOT EXISTS sales (
	sale_id CHAR(36) PRIMARY KEY,
	store_code VARCHAR(64) NOT NULL,
	total DECIMAL(10, 2) NOT NULL,
	txn_ts DATETIME NOT NULL,
	promotion VARCHAR(64) NULL,
	member VARCHAR(8) NOT NULL,
	FOREIGN KEY (store_code) REFERENCES stores (code)
);

CREATE TABLE IF NOT EXISTS sale_items (
	sale_id CHAR(36) NOT NULL,
	product_id CHAR(36) NOT NULL,
	qty INT NOT NULL,
	PRIMARY KEY (sale_id, product_id),
	FOREIGN KEY (sale_id) REFERENCES sales (sale_id),
	FOREIGN KEY (product_id) REFERENCES products (product_id)
);
`

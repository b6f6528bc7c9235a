package database

import "database/sql"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role ENUM('admin', 'operator') NOT NULL DEFAULT 'operator',
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id INT AUTO_INCREMENT PRIMARY KEY,
		member_id VARCHAR(100) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		image_url TEXT,
		cost_cny DECIMAL(10, 2) NOT NULL DEFAULT 0.00,
		price_twd INT NOT NULL DEFAULT 0,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		member_id VARCHAR(100) NOT NULL,
		customer_email VARCHAR(255),
		total_amount_twd INT NOT NULL,
		total_cost_cny DECIMAL(10, 2) NOT NULL,
		status ENUM('Pending', 'Processing', 'Shipped_Internal',
			'Warehouse_Received', 'Completed', 'Cancelled')
			NOT NULL DEFAULT 'Pending',
		operator_id INT NULL,
		notes TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_orders_operator FOREIGN KEY (operator_id) REFERENCES users(id),
		INDEX idx_orders_status (status),
		INDEX idx_orders_member (member_id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		snapshot_name VARCHAR(255),
		snapshot_price_twd INT NOT NULL,
		snapshot_cost_cny DECIMAL(10, 2) NOT NULL,
		CONSTRAINT fk_items_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
		CONSTRAINT fk_items_product FOREIGN KEY (product_id) REFERENCES products(id)
	)`,
	`CREATE TABLE IF NOT EXISTS warehouses (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		receiver VARCHAR(100) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		address TEXT NOT NULL
	)`,
}

type seedWarehouse struct {
	name     string
	receiver string
	phone    string
	address  string
}

var seedWarehouses = []seedWarehouse{
	{
		name:     "厦门漳州仓",
		receiver: "跑跑虎轉(會員編號)",
		phone:    "13682536948",
		address:  "中国福建省漳州市龙海区東園鎮倉里路普洛斯物流園A02庫1楼一分區1號門跑跑虎(會員編號)",
	},
	{
		name:     "东莞仓",
		receiver: "跑跑虎轉(會員編號)",
		phone:    "13682536948",
		address:  "中国广东省东莞市洪梅镇振華路688號2號樓跑跑虎(會員編號)",
	},
	{
		name:     "义乌仓",
		receiver: "跑跑虎轉(會員編號)",
		phone:    "13682536948",
		address:  "中国浙江省金华市义乌市江东街道东新路19号1号楼跑跑虎(會員編號)",
	},
}

// EnsureSchema creates all tables idempotently and seeds the static
// warehouse records.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	for _, w := range seedWarehouses {
		_, err := db.Exec(
			`INSERT INTO warehouses (name, receiver, phone, address)
			 VALUES (?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE receiver = VALUES(receiver),
			         phone = VALUES(phone), address = VALUES(address)`,
			w.name, w.receiver, w.phone, w.address,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

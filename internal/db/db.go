package db

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
)

// InitDB opens the MySQL connection. The DSN must include parseTime=true so
// created_at columns scan into time.Time.
func InitDB(dbURL string) *sql.DB {
	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		log.Fatal("could not open database connection:", err)
	}

	err = db.Ping()
	if err != nil {
		log.Fatal("database is not responding:", err)
	}

	log.Println("database connection established")
	return db
}

// RunMigrations creates the schema. The two unique indexes on users carry the
// correctness guarantees the application relies on: uniq_users_email rejects
// duplicate registrations, and uniq_users_seller (a functional index that is
// NULL for every non-seller row) makes a second seller row impossible even
// when concurrent seed calls race past the existence check.
func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'customer',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_users_email (email),
			UNIQUE KEY uniq_users_seller ((CASE WHEN role = 'seller' THEN 1 ELSE NULL END))
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			price DECIMAL(12,2) NOT NULL,
			original_price DECIMAL(12,2) NOT NULL DEFAULT 0,
			image VARCHAR(512) NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL DEFAULT 'General',
			stock INT NOT NULL DEFAULT 0,
			created_by INT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_products_category (category),
			INDEX idx_products_created_at (created_at)
		);`,
		`CREATE TABLE IF NOT EXISTS buy_requests (
			id INT AUTO_INCREMENT PRIMARY KEY,
			product_id INT NOT NULL,
			customer_id INT NOT NULL,
			quantity INT NOT NULL,
			message TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_buy_requests_customer (customer_id),
			INDEX idx_buy_requests_created_at (created_at)
		);`,
	}

	for _, q := range queries {
		_, err := db.Exec(q)
		if err != nil {
			log.Fatal("migration failed:", err)
		}
	}
	log.Println("migrations complete")
}

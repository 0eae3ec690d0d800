// Package warehouse describes the star schema the pipeline loads into:
// table DDL per SQL dialect, the reporting views and the upsert statements.
package warehouse

import "fmt"

type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

func (d Dialect) Valid() bool {
	return d == Postgres || d == MySQL
}

func GetDimUsersSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS dim_users (
			user_id BIGINT PRIMARY KEY,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			age INT,
			gender VARCHAR(16),
			city VARCHAR(255),
			state VARCHAR(255),
			country VARCHAR(255)
		);
	`
}

func GetDimProductsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS dim_products (
			product_id BIGINT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			rating DECIMAL(3, 2),
			brand VARCHAR(255)
		);
	`
}

func GetDimTimeSchema(d Dialect) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS dim_time (
			time_id %s PRIMARY KEY,
			date DATE NOT NULL UNIQUE,
			year INT NOT NULL,
			month INT NOT NULL,
			day INT NOT NULL
		);
	`, surrogateKey(d))
}

func GetFactSalesSchema(d Dialect) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS fact_sales (
			sale_id %s PRIMARY KEY,
			user_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			time_id BIGINT NOT NULL,
			unit_price DECIMAL(10, 2) NOT NULL,
			quantity INT NOT NULL,
			UNIQUE (user_id, product_id, time_id),
			FOREIGN KEY (user_id) REFERENCES dim_users (user_id),
			FOREIGN KEY (product_id) REFERENCES dim_products (product_id),
			FOREIGN KEY (time_id) REFERENCES dim_time (time_id)
		);
	`, surrogateKey(d))
}

func surrogateKey(d Dialect) string {
	if d == MySQL {
		return "BIGINT AUTO_INCREMENT"
	}
	return "BIGSERIAL"
}

// Schema returns the table DDL in dependency order.
func Schema(d Dialect) []string {
	return []string{
		GetDimUsersSchema(),
		GetDimProductsSchema(),
		GetDimTimeSchema(d),
		GetFactSalesSchema(d),
	}
}

package trends

import (
	"database/sql"
	"fmt"
	"ktrend_api/pkg/dbconnect/migration"
	"log"
)

const (
	DialectPostgres = "postgres"
	DialectSqlite   = "sqlite"
)

// typeSet holds the column types that differ between engines.
type typeSet struct {
	identity  string
	json      string
	timestamp string
	numeric   string
	boolean   string
}

func typesFor(dialect string) typeSet {
	if dialect == DialectSqlite {
		return typeSet{
			identity:  "INTEGER PRIMARY KEY",
			json:      "TEXT",
			timestamp: "TIMESTAMP",
			numeric:   "NUMERIC",
			boolean:   "BOOLEAN",
		}
	}
	return typeSet{
		identity:  "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY",
		json:      "JSONB",
		timestamp: "TIMESTAMPTZ",
		numeric:   "NUMERIC",
		boolean:   "BOOLEAN",
	}
}

// All returns the trends schema in dependency order.
func All(dialect string) []migration.MigrationInterface {
	return []migration.MigrationInterface{
		&MigrationsTable{Dialect: dialect},
		&ProductsMaster{Dialect: dialect},
		&DailyRankings{Dialect: dialect},
		&DailySpecials{Dialect: dialect},
		&DealsSnapshots{Dialect: dialect},
		&Categories{Dialect: dialect},
		&TrendingView{Dialect: dialect},
		&ReviewGrowthView{Dialect: dialect},
	}
}

type MigrationsTable struct{ Dialect string }

func (m *MigrationsTable) Name() string { return "schema_migrations" }

func (m *MigrationsTable) UpMigration(db *sql.DB) error {
	t := typesFor(m.Dialect)
	_, err := db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, t.timestamp))
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

type ProductsMaster struct{ Dialect string }

func (m *ProductsMaster) Name() string { return "trends.products_master" }

func (m *ProductsMaster) UpMigration(db *sql.DB) error {
	t := typesFor(m.Dialect)
	return runOnce(db, m.Name(),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS products_master (
			id %s,
			product_id TEXT NOT NULL,
			name TEXT,
			brand TEXT,
			source TEXT NOT NULL,
			price %s,
			image_url TEXT,
			url TEXT,
			category TEXT,
			tags %s,
			ai_summary %s,
			created_at %s DEFAULT CURRENT_TIMESTAMP
		)`, t.identity, t.numeric, t.json, t.json, t.timestamp),
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_master_source_pid ON products_master(source, product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_master_source ON products_master(source)`,
	)
}

type DailyRankings struct{ Dialect string }

func (m *DailyRankings) Name() string { return "trends.daily_rankings_v2" }

func (m *DailyRankings) UpMigration(db *sql.DB) error {
	t := typesFor(m.Dialect)
	return runOnce(db, m.Name(),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS daily_rankings_v2 (
			id %s,
			product_id BIGINT NOT NULL REFERENCES products_master(id),
			rank INT NOT NULL,
			category_code TEXT,
			source TEXT NOT NULL,
			date DATE NOT NULL,
			created_at %s
		)`, t.identity, t.timestamp),
		`CREATE INDEX IF NOT EXISTS idx_daily_rankings_v2_source_date ON daily_rankings_v2(source, date)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_rankings_v2_product ON daily_rankings_v2(product_id, date)`,
	)
}

type DailySpecials struct{ Dialect string }

func (m *DailySpecials) Name() string { return "trends.daily_specials_v2" }

func (m *DailySpecials) UpMigration(db *sql.DB) error {
	t := typesFor(m.Dialect)
	return runOnce(db, m.Name(),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS daily_specials_v2 (
			id %s,
			product_id TEXT NOT NULL,
			source TEXT NOT NULL,
			special_price %s NOT NULL,
			original_price %s,
			discount_rate INT,
			date DATE NOT NULL,
			created_at %s
		)`, t.identity, t.numeric, t.numeric, t.timestamp),
		`CREATE INDEX IF NOT EXISTS idx_daily_specials_v2_source_date ON daily_specials_v2(source, date)`,
	)
}

type DealsSnapshots struct{ Dialect string }

func (m *DealsSnapshots) Name() string { return "trends.deals_snapshots" }

func (m *DealsSnapshots) UpMigration(db *sql.DB) error {
	t := typesFor(m.Dialect)
	return runOnce(db, m.Name(),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS deals_snapshots (
			id %s,
			product_id BIGINT NOT NULL REFERENCES products_master(id),
			deal_price %s,
			original_price %s,
			snapshot_date DATE NOT NULL,
			created_at %s
		)`, t.identity, t.numeric, t.numeric, t.timestamp),
		`CREATE INDEX IF NOT EXISTS idx_deals_snapshots_product_date ON deals_snapshots(product_id, snapshot_date)`,
	)
}

type Categories struct{ Dialect string }

func (m *Categories) Name() string { return "trends.categories" }

func (m *Categories) UpMigration(db *sql.DB) error {
	t := typesFor(m.Dialect)
	return runOnce(db, m.Name(),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS categories (
			id %s,
			platform TEXT NOT NULL DEFAULT 'oliveyoung',
			category_code TEXT NOT NULL,
			name_ko TEXT NOT NULL,
			name_en TEXT,
			name_vi TEXT,
			parent_code TEXT,
			depth INT NOT NULL DEFAULT 0,
			sort_order INT NOT NULL DEFAULT 0,
			is_active %s NOT NULL DEFAULT TRUE,
			UNIQUE (platform, category_code)
		)`, t.identity, t.boolean),
	)
}

// TrendingView is the precomputed 7-day delta source. SQLite has no interval
// arithmetic, so there it is a plain table filled by the caller.
type TrendingView struct{ Dialect string }

func (m *TrendingView) Name() string { return "trends.v_trending_7d" }

func (m *TrendingView) UpMigration(db *sql.DB) error {
	if m.Dialect == DialectSqlite {
		return runOnce(db, m.Name(), `CREATE TABLE IF NOT EXISTS v_trending_7d (
			product_id BIGINT NOT NULL,
			source TEXT NOT NULL,
			name TEXT,
			brand TEXT,
			image_url TEXT,
			url TEXT,
			price NUMERIC,
			current_rank INT NOT NULL,
			previous_rank INT,
			rank_change INT NOT NULL,
			category_code TEXT
		)`)
	}
	return runOnce(db, m.Name(), `CREATE OR REPLACE VIEW v_trending_7d AS
		WITH latest AS (
			SELECT DISTINCT ON (product_id, date) product_id, source, rank, date, category_code
			FROM daily_rankings_v2
			WHERE date >= CURRENT_DATE - INTERVAL '7 days'
			ORDER BY product_id, date, created_at DESC NULLS LAST
		),
		ranked AS (
			SELECT *,
				ROW_NUMBER() OVER (PARTITION BY product_id ORDER BY date DESC) AS rn_recent,
				ROW_NUMBER() OVER (PARTITION BY product_id ORDER BY date ASC)  AS rn_oldest
			FROM latest
		),
		today AS (SELECT product_id, source, rank AS current_rank, category_code FROM ranked WHERE rn_recent = 1),
		week_ago AS (SELECT product_id, rank AS previous_rank FROM ranked WHERE rn_oldest = 1)
		SELECT t.product_id, t.source, pm.name, pm.brand, pm.image_url, pm.url, pm.price,
			t.current_rank, w.previous_rank, (w.previous_rank - t.current_rank) AS rank_change,
			t.category_code
		FROM today t
		JOIN week_ago w ON t.product_id = w.product_id
		JOIN products_master pm ON t.product_id = pm.id
		WHERE w.previous_rank > t.current_rank`)
}

type ReviewGrowthView struct{ Dialect string }

func (m *ReviewGrowthView) Name() string { return "trends.v_review_growth" }

func (m *ReviewGrowthView) UpMigration(db *sql.DB) error {
	if m.Dialect == DialectSqlite {
		return runOnce(db, m.Name(), `CREATE VIEW IF NOT EXISTS v_review_growth AS
			SELECT id AS product_id, source, name, brand, image_url, url, price,
				CAST(json_extract(tags, '$.review_count') AS INTEGER) AS review_count,
				json_extract(tags, '$.review_rating') AS review_rating
			FROM products_master
			WHERE CAST(json_extract(tags, '$.review_count') AS INTEGER) > 100`)
	}
	return runOnce(db, m.Name(), `CREATE OR REPLACE VIEW v_review_growth AS
		SELECT pm.id AS product_id, pm.source, pm.name, pm.brand, pm.image_url, pm.url, pm.price,
			(pm.tags->>'review_count')::INT AS review_count,
			(pm.tags->>'review_rating')::NUMERIC AS review_rating
		FROM products_master pm
		WHERE pm.tags->>'review_count' IS NOT NULL
			AND (pm.tags->>'review_count')::INT > 100`)
}

// runOnce executes statements unless name is already recorded, then records it.
func runOnce(db *sql.DB, name string, statements ...string) error {
	var exists int
	err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM schema_migrations WHERE name = '%s'", name)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}
	if exists > 0 {
		log.Printf("Migration '%s' already completed. Skipping.", name)
		return nil
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute migration '%s': %w", name, err)
		}
	}

	_, err = db.Exec(fmt.Sprintf("INSERT INTO schema_migrations (name) VALUES ('%s')", name))
	if err != nil {
		return fmt.Errorf("failed to mark migration '%s' as complete: %w", name, err)
	}
	log.Printf("Migration '%s' completed successfully.", name)
	return nil
}

// Package storagetest provides an in-memory SQLite store seeded through the real migrations.
package storagetest

import (
	"context"
	"database/sql"
	"fmt"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/migrations/trends"
	"ktrend_api/pkg/dbconnect/migration"
	sqliteconnect "ktrend_api/pkg/dbconnect/sqlite"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

var dbSeq atomic.Int64

type Fixture struct {
	t  testing.TB
	DB *sql.DB
	// Source is the SQL source wrapped with the query counter.
	Source  storage.Source
	Counter *Counter
}

// New opens a private in-memory database with the full schema applied.
func New(t testing.TB) *Fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:ktrend_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	conn := sqliteconnect.NewSqliteConnector(dsn)
	db, err := conn.Connect()
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := migration.Apply(db, trends.All(trends.DialectSqlite)...); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	counter := &Counter{calls: map[string]int{}}
	src := storage.Chain(storage.NewSQLSource(db, storage.SQLiteDialect{}), counter.Middleware())
	return &Fixture{t: t, DB: db, Source: src, Counter: counter}
}

func (f *Fixture) Exec(query string, args ...any) {
	f.t.Helper()
	if _, err := f.DB.Exec(query, args...); err != nil {
		f.t.Fatalf("exec %q: %v", query, err)
	}
}

type Product struct {
	ID       int64
	External string
	Platform string
	Name     string
	Brand    string
	Price    string
	Category string
	// Tags and Summary are raw JSON, empty for NULL.
	Tags      string
	Summary   string
	CreatedAt string
}

func (f *Fixture) AddProduct(p Product) {
	f.t.Helper()
	f.Exec(`INSERT INTO products_master (id, product_id, name, brand, source, price, image_url, url, category, tags, ai_summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.External, p.Name, p.Brand, p.Platform, nullable(p.Price),
		"https://img.example/"+p.External+".jpg", "https://shop.example/"+p.External,
		nullable(p.Category), nullable(p.Tags), nullable(p.Summary), nullable(p.CreatedAt))
}

// AddRanking inserts one snapshot row; an empty capturedAt stores NULL.
func (f *Fixture) AddRanking(productID int64, rank int, category, platform, date, capturedAt string) {
	f.t.Helper()
	f.Exec(`INSERT INTO daily_rankings_v2 (product_id, rank, category_code, source, date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		productID, rank, nullable(category), platform, date, nullable(capturedAt))
}

type Deal struct {
	External     string
	Platform     string
	Special      string
	Original     string
	DiscountRate *int
	Date         string
	CapturedAt   string
}

func (f *Fixture) AddDeal(d Deal) {
	f.t.Helper()
	var rate any
	if d.DiscountRate != nil {
		rate = *d.DiscountRate
	}
	f.Exec(`INSERT INTO daily_specials_v2 (product_id, source, special_price, original_price, discount_rate, date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.External, d.Platform, d.Special, nullable(d.Original), rate, d.Date, nullable(d.CapturedAt))
}

func (f *Fixture) AddPrice(productID int64, dealPrice, original, date, capturedAt string) {
	f.t.Helper()
	f.Exec(`INSERT INTO deals_snapshots (product_id, deal_price, original_price, snapshot_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		productID, nullable(dealPrice), nullable(original), date, nullable(capturedAt))
}

func (f *Fixture) AddCategory(platform, code, nameKo, nameEn string, depth, sortOrder int, active bool) {
	f.t.Helper()
	f.Exec(`INSERT INTO categories (platform, category_code, name_ko, name_en, depth, sort_order, is_active) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		platform, code, nameKo, nullable(nameEn), depth, sortOrder, active)
}

// AddTrendingRow fills the precomputed 7-day view table.
func (f *Fixture) AddTrendingRow(productID int64, platform, name string, current, previous int) {
	f.t.Helper()
	f.Exec(`INSERT INTO v_trending_7d (product_id, source, name, brand, current_rank, previous_rank, rank_change) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		productID, platform, name, "", current, previous, previous-current)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Counter records how many queries hit each table and the largest limit requested.
type Counter struct {
	mu      sync.Mutex
	calls   map[string]int
	queries []storage.Query
}

func (c *Counter) Middleware() storage.QueryMiddleware {
	return func(next storage.SelectFunc) storage.SelectFunc {
		return func(ctx context.Context, q *storage.Query) (*storage.Result, error) {
			c.mu.Lock()
			c.calls[q.Table]++
			c.queries = append(c.queries, *q)
			c.mu.Unlock()
			return next(ctx, q)
		}
	}
}

func (c *Counter) Calls(table string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[table]
}

// Queries returns the recorded queries against table.
func (c *Counter) Queries(table string) []storage.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []storage.Query
	for _, q := range c.queries {
		if q.Table == table {
			out = append(out, q)
		}
	}
	return out
}

func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = map[string]int{}
	c.queries = nil
}

// HasFilter reports whether q filters column with op.
func HasFilter(q storage.Query, column string, op storage.Operator) bool {
	for _, f := range q.Filters {
		if strings.EqualFold(f.Column, column) && f.Op == op {
			return true
		}
	}
	return false
}

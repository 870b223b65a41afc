package business

import (
	"context"
	"errors"
	"ktrend_api/internal/trends/models"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"
)

func TestCategoryResolver_Resolve(t *testing.T) {
	s := newTestServices(t)
	s.fx.AddCategory("oliveyoung", "10", "스킨케어", "Skincare", 1, 1, true)
	ctx := context.Background()

	name, err := s.resolver.Resolve(ctx, "oliveyoung", "10")
	if err != nil || name != "스킨케어" {
		t.Fatalf("Resolve = %q, %v", name, err)
	}

	missing, err := s.resolver.Resolve(ctx, "oliveyoung", "404")
	if err != nil || missing != "" {
		t.Fatalf("Resolve(unknown) = %q, %v", missing, err)
	}

	s.fx.Counter.Reset()
	for _, code := range []string{"", "all", "000"} {
		if name, err := s.resolver.Resolve(ctx, "oliveyoung", code); err != nil || name != "" {
			t.Fatalf("Resolve(%q) = %q, %v", code, name, err)
		}
	}
	if calls := s.fx.Counter.Calls("categories"); calls != 0 {
		t.Fatalf("all-category codes queried the store %d times", calls)
	}
}

func TestDisplayName(t *testing.T) {
	entry := models.CategoryEntry{NameLocalized: map[string]string{"ko": "스킨케어", "en": "Skincare"}}
	cases := []struct {
		prefs []language.Tag
		want  string
	}{
		{nil, "스킨케어"},
		{[]language.Tag{language.English}, "Skincare"},
		{[]language.Tag{language.MustParse("en-GB")}, "Skincare"},
		{[]language.Tag{language.Vietnamese}, "스킨케어"},
	}
	for _, c := range cases {
		if got := DisplayName(entry, c.prefs); got != c.want {
			t.Errorf("DisplayName(%v) = %q, want %q", c.prefs, got, c.want)
		}
	}
	if DisplayName(models.CategoryEntry{}, nil) != "" {
		t.Fatal("entry without names should give empty name")
	}
}

type stubNamer struct {
	names map[string]string
	calls int
}

func (n *stubNamer) Resolve(_ context.Context, platform, code string) (string, error) {
	n.calls++
	return n.names[platform+"/"+code], nil
}

type memoryCache struct {
	data    map[string]string
	readErr error
}

func (m *memoryCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.readErr != nil {
		return redis.NewStringResult("", m.readErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if m.readErr != nil {
		return redis.NewStatusResult("", m.readErr)
	}
	m.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func TestCachedResolver(t *testing.T) {
	inner := &stubNamer{names: map[string]string{"oliveyoung/10": "스킨케어"}}
	cache := &memoryCache{data: map[string]string{}}
	r := NewCachedResolver(inner, cache, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if name, err := r.Resolve(ctx, "oliveyoung", "10"); err != nil || name != "스킨케어" {
			t.Fatalf("Resolve = %q, %v", name, err)
		}
		if name, err := r.Resolve(ctx, "oliveyoung", "99"); err != nil || name != "" {
			t.Fatalf("Resolve(unknown) = %q, %v", name, err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("inner resolver called %d times, want 2", inner.calls)
	}
}

func TestCachedResolver_DegradesWhenCacheFails(t *testing.T) {
	inner := &stubNamer{names: map[string]string{"oliveyoung/10": "스킨케어"}}
	cache := &memoryCache{data: map[string]string{}, readErr: errors.New("connection refused")}
	r := NewCachedResolver(inner, cache, time.Hour, nil)

	name, err := r.Resolve(context.Background(), "oliveyoung", "10")
	if err != nil || name != "스킨케어" {
		t.Fatalf("Resolve = %q, %v", name, err)
	}
}

package storage

import (
	"context"
	"errors"
	"ktrend_api/pkg/clients/postgrest"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEncodeParams(t *testing.T) {
	q := From("products_master").
		Select("id", "name").
		Where(Eq("source", "musinsa"), In("id", []int64{3, 7}), JSONEq("tags", "gender", "female")).
		AnyOf(ILike("name", "toner"), ILike("brand", "toner")).
		OrderBy(Desc("created_at"), Asc("id")).
		Page(20, 40)

	p := EncodeParams(q)
	checks := map[string]string{
		"select":        "id,name",
		"source":        "eq.musinsa",
		"id":            `in.("3","7")`,
		"tags->>gender": "eq.female",
		"or":            `(name.ilike."*toner*",brand.ilike."*toner*")`,
		"order":         "created_at.desc,id.asc",
		"limit":         "20",
		"offset":        "40",
	}
	for key, want := range checks {
		if got := p.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestEncodeParams_RepeatedColumnFilters(t *testing.T) {
	q := From("daily_rankings_v2").Where(Gte("date", "2026-01-01"), Lt("date", "2026-02-01"))
	got := EncodeParams(q)["date"]
	if len(got) != 2 || got[0] != "gte.2026-01-01" || got[1] != "lt.2026-02-01" {
		t.Fatalf("date filters = %v", got)
	}
}

func TestEncodeParams_QuotesReservedCharacters(t *testing.T) {
	q := From("products_master").AnyOf(ILike("name", `a,b"(c)`))
	if got := EncodeParams(q).Get("or"); got != `(name.ilike."*a,b\"(c)*")` {
		t.Fatalf("or = %q", got)
	}
}

func TestEncodeParams_EscapesLikeMetacharacters(t *testing.T) {
	q := From("products_master").
		Where(ILike("name", "50%_off")).
		AnyOf(ILike("brand", "rom&nd*"), ILike("name", "L'Oreal"))

	p := EncodeParams(q)
	if got := p.Get("name"); got != `ilike.*50\%\_off*` {
		t.Errorf("name = %q", got)
	}
	if got := p.Get("or"); got != `(brand.ilike."*rom&nd_*",name.ilike."*L'Oreal*")` {
		t.Errorf("or = %q", got)
	}
}

func TestPostgRESTSource_SelectUsesExactCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "0-1/9")
		w.Write([]byte(`[{"id":1,"price":1200.5},{"id":2,"price":null}]`))
	}))
	defer srv.Close()

	src := NewPostgRESTSource(postgrest.NewBaseClient(srv.URL, nil, nil))
	res, err := src.Select(context.Background(), From("products_master").WithCount())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if res.Count != 9 {
		t.Errorf("Count = %d, want 9", res.Count)
	}
	if len(res.Rows) != 2 || res.Rows[0].Int64("id") != 1 {
		t.Fatalf("rows = %v", res.Rows)
	}
	if res.Rows[1].Decimal("price") != nil {
		t.Errorf("null price should decode to nil")
	}
}

func TestPostgRESTSource_ErrorsBecomeQueryErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"upstream down"}`))
	}))
	defer srv.Close()

	src := NewPostgRESTSource(postgrest.NewBaseClient(srv.URL, nil, nil))
	_, err := src.Select(context.Background(), From("categories"))
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected *QueryError, got %v", err)
	}
	if qe.Table != "categories" || qe.Status != http.StatusServiceUnavailable || qe.Message != "upstream down" {
		t.Fatalf("unexpected error %+v", qe)
	}
}

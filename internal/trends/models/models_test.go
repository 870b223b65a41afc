package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestObservedAt_PrefersCaptureTime(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("KST", 9*3600))
	got := ObservedAt(&at, "2026-03-01")
	if !got.Equal(at) {
		t.Fatalf("ObservedAt = %v, want %v", got, at)
	}
	if got.Location() != time.UTC {
		t.Fatalf("ObservedAt should normalize to UTC, got %v", got.Location())
	}
}

func TestObservedAt_SynthesizesMidnight(t *testing.T) {
	got := ObservedAt(nil, "2026-03-01")
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ObservedAt = %v, want %v", got, want)
	}
	if !ObservedAt(nil, "garbage").IsZero() {
		t.Fatal("unparseable date should give zero time")
	}
}

func TestDiscountPercent(t *testing.T) {
	d := func(s string) *decimal.Decimal { v := decimal.RequireFromString(s); return &v }
	cases := []struct {
		name     string
		special  string
		original *decimal.Decimal
		want     int
		ok       bool
	}{
		{"regular", "15000", d("20000"), 25, true},
		{"fractional", "12345", d("19990"), 38, true},
		{"equal price", "20000", d("20000"), 0, false},
		{"original lower", "20000", d("15000"), 0, false},
		{"no original", "20000", nil, 0, false},
		{"free", "0", d("20000"), 100, true},
		{"zero original", "0", d("0"), 0, false},
		{"negative special", "-1", d("20000"), 0, false},
	}
	for _, c := range cases {
		got, ok := DiscountPercent(decimal.RequireFromString(c.special), c.original)
		if ok != c.ok || got != c.want {
			t.Errorf("%s: DiscountPercent = (%d, %v), want (%d, %v)", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestProductRecord_Gender(t *testing.T) {
	p := ProductRecord{Tags: map[string]any{"gender": "female"}}
	if p.Gender() != "female" {
		t.Fatalf("Gender() = %q", p.Gender())
	}
	if (ProductRecord{}).Gender() != "" {
		t.Fatal("missing tags should give empty gender")
	}
}

package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestBaseLogger_PrefixesLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "[Store]")
	l.Log("fetched %d rows", 3)

	if got := strings.TrimSpace(buf.String()); got != "[Store] fetched 3 rows" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestBaseLogger_WithPrefixChains(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "[App]").WithPrefix("[Trending]")
	l.Log("ok")

	if got := strings.TrimSpace(buf.String()); got != "[App] [Trending] ok" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestNopLogger_WritesNothing(t *testing.T) {
	var buf bytes.Buffer
	l := NewNopLogger()
	l.SetWriter(&buf)
	l.Log("ignored")
	if buf.Len() != 0 {
		t.Fatalf("nop logger wrote %q", buf.String())
	}
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
}

package storage

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Row is one record as delivered by either source. Values may be JSON-decoded
// (float64, string, map) or driver-native (int64, []byte, time.Time).
type Row map[string]any

func (r Row) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

func (r Row) String(key string) string {
	v := r[key]
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return cast.ToString(v)
}

func (r Row) Int(key string) int {
	v := r[key]
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	return cast.ToInt(v)
}

func (r Row) Int64(key string) int64 {
	v := r[key]
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	return cast.ToInt64(v)
}

func (r Row) IntPtr(key string) *int {
	if !r.Has(key) {
		return nil
	}
	v := r.Int(key)
	return &v
}

func (r Row) Bool(key string) bool {
	v := r[key]
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	return cast.ToBool(v)
}

// Decimal parses numerics without float round-trips when the driver hands over text.
func (r Row) Decimal(key string) *decimal.Decimal {
	if !r.Has(key) {
		return nil
	}
	var (
		d   decimal.Decimal
		err error
	)
	switch v := r[key].(type) {
	case float64:
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case int64:
		d = decimal.NewFromInt(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case []byte:
		d, err = decimal.NewFromString(string(v))
	default:
		d, err = decimal.NewFromString(cast.ToString(v))
	}
	if err != nil {
		return nil
	}
	return &d
}

// Time accepts time.Time or RFC3339-ish strings; nil when absent or unparseable.
func (r Row) Time(key string) *time.Time {
	if !r.Has(key) {
		return nil
	}
	v := r[key]
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	t, err := cast.ToTimeE(v)
	if err != nil || t.IsZero() {
		return nil
	}
	return &t
}

// Date returns a YYYY-MM-DD string whether the driver gave a time or text.
func (r Row) Date(key string) string {
	switch v := r[key].(type) {
	case time.Time:
		return v.UTC().Format("2006-01-02")
	case nil:
		return ""
	default:
		s := r.String(key)
		if len(s) >= 10 {
			return s[:10]
		}
		return s
	}
}

// JSON returns the raw JSON of a json/jsonb column; strings holding JSON are passed through.
func (r Row) JSON(key string) json.RawMessage {
	if !r.Has(key) {
		return nil
	}
	switch v := r[key].(type) {
	case []byte:
		return json.RawMessage(v)
	case string:
		if json.Valid([]byte(v)) {
			return json.RawMessage(v)
		}
		b, _ := json.Marshal(v)
		return b
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return b
	}
}

// Map decodes a JSON object column; nil when absent or not an object.
func (r Row) Map(key string) map[string]any {
	if !r.Has(key) {
		return nil
	}
	if m, ok := r[key].(map[string]any); ok {
		return m
	}
	raw := r.JSON(key)
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

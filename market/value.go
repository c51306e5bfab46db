package market

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is a float64 that may be absent. Absent values are never zero on
// the wire: they encode as JSON null and as an empty CSV cell.
type Value struct {
	V     float64
	Valid bool
}

// Absent is the missing marker.
var Absent = Value{}

func Some(v float64) Value {
	return Value{V: v, Valid: true}
}

// Add shifts a present value by d and leaves an absent one absent.
func (v Value) Add(d float64) Value {
	if !v.Valid {
		return Absent
	}
	return Some(v.V + d)
}

// Ptr returns nil for an absent value.
func (v Value) Ptr() *float64 {
	if !v.Valid {
		return nil
	}
	x := v.V
	return &x
}

func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.V, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*v = Absent
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

package domain

import (
	"encoding/json"
	"strconv"
)

// Value is a tagged float that is either defined or undefined with a reason.
// Derived pricing fields that would require dividing by zero or reading an
// absent observation become Undefined values instead of NaN or zero, so the
// marker survives arithmetic and renders as "N/A" at the edges.
type Value struct {
	val     float64
	reason  string
	defined bool
}

// Defined wraps a concrete number.
func Defined(v float64) Value {
	return Value{val: v, defined: true}
}

// Undefined marks a missing quantity with a human-readable reason.
func Undefined(reason string) Value {
	return Value{reason: reason}
}

// IsDefined reports whether the value carries a number.
func (v Value) IsDefined() bool {
	return v.defined
}

// Float64 returns the number and whether it is defined.
func (v Value) Float64() (float64, bool) {
	return v.val, v.defined
}

// Reason returns why the value is undefined; empty for defined values.
func (v Value) Reason() string {
	if v.defined {
		return ""
	}
	return v.reason
}

// String renders the value for tables and flat-file exports.
func (v Value) String() string {
	if !v.defined {
		return "N/A"
	}
	return strconv.FormatFloat(v.val, 'f', 2, 64)
}

// MarshalJSON emits the number for defined values and null otherwise,
// so API consumers can distinguish "no data" from an actual zero.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.defined {
		return []byte("null"), nil
	}
	return json.Marshal(v.val)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Undefined("")
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Defined(f)
	return nil
}

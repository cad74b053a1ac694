package enrichment

import (
	"encoding/json"
	"strconv"
)

// Value is an optional probability. An invalid Value means the score's
// preconditions were not met; it is distinct from a probability of 0 or 1.
type Value struct {
	P     float64
	Valid bool
}

// Some wraps a defined probability.
func Some(p float64) Value {
	return Value{P: p, Valid: true}
}

// Absent is the undefined score.
var Absent = Value{}

// Get returns the probability and whether it is defined.
func (v Value) Get() (float64, bool) {
	return v.P, v.Valid
}

// String formats the value, "NA" when absent.
func (v Value) String() string {
	if !v.Valid {
		return "NA"
	}
	return strconv.FormatFloat(v.P, 'g', 6, 64)
}

// MarshalJSON encodes an absent value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.P)
}

// UnmarshalJSON accepts null or a number.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Absent
		return nil
	}
	var p float64
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*v = Some(p)
	return nil
}

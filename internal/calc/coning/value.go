package coning

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a rate or time that may be non-finite. JSON has no NaN or
// infinity, so those are written as the strings "NaN", "+Inf" and "-Inf".
type Value float64

func (v Value) Finite() bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (v Value) String() string {
	return FormatRate(float64(v))
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Finite() {
		return json.Marshal(float64(v))
	}
	return json.Marshal(FormatRate(float64(v)))
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*v = Value(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("coning value: %w", err)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("coning value: %w", err)
	}
	*v = Value(f)
	return nil
}

// FormatRate prints two decimals, or NaN/+Inf/-Inf.
func FormatRate(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

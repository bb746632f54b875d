package models

import (
	"bytes"
	"math"
	"strconv"
)

// Count is a figure reported by the provider. The zero value is unknown.
type Count struct {
	Value int64
	Known bool
}

func KnownCount(v int64) Count {
	return Count{Value: v, Known: true}
}

// UnmarshalJSON never fails: null, strings and other non-numbers decode to unknown.
func (c *Count) UnmarshalJSON(b []byte) error {
	*c = Count{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' || b[0] == '"' || b[0] == '{' || b[0] == '[' || b[0] == 't' || b[0] == 'f' {
		return nil
	}
	if v, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		*c = KnownCount(v)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	*c = KnownCount(int64(f))
	return nil
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Known {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, c.Value, 10), nil
}

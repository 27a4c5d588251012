package types

import (
	"bytes"
	"math"
	"strconv"
)

// LenientInt reads a JSON number or a numeric string.
// Null, empty strings and anything non-numeric report ok=false.
func LenientInt(data []byte) (n int64, ok bool) {
	raw := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if raw == "" || raw == "null" {
		return 0, false
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// LenientIntPtr is LenientInt as a nullable value
func LenientIntPtr(data []byte) *int64 {
	n, ok := LenientInt(data)
	if !ok {
		return nil
	}
	return &n
}

package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToFloat converts numeric values, numeric strings and byte slices to float64.
// Unparseable input yields 0.
func ToFloat(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int16:
		return float64(v)
	case int8:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case uint32:
		return float64(v)
	case uint16:
		return float64(v)
	case uint8:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return f
	default:
		f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v), 64)
		return f
	}
}

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsNumericType reports whether a driver column type name holds numbers
// (e.g. DECIMAL, NUMERIC(10,2), MONEY) that some drivers hand back as text.
func IsNumericType(databaseType string) bool {
	name, _, _ := strings.Cut(databaseType, "(")
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY", "FLOAT", "REAL", "DOUBLE", "FLOAT4", "FLOAT8":
		return true
	default:
		return false
	}
}

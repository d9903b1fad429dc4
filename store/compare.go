package store

import (
	"strings"
	"time"
)

// typeRank follows document database cross-type ordering:
// null < bool < number < timestamp < string < everything else.
func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int, int32, int64, float32, float64:
		return 2
	case time.Time:
		return 3
	case string:
		return 4
	default:
		return 5
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// compareValues orders two field values. sameType is false when the values
// belong to different type classes, in which case range filters never match.
func compareValues(a, b any) (cmp int, sameType bool) {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1, false
		}
		return 1, false
	}
	switch ra {
	case 0:
		return 0, true
	case 1:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0, true
		case !ab:
			return -1, true
		default:
			return 1, true
		}
	case 2:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	case 3:
		return a.(time.Time).Compare(b.(time.Time)), true
	case 4:
		return strings.Compare(a.(string), b.(string)), true
	}
	return 0, false
}

func matches(data Fields, f Filter) bool {
	v, ok := data[f.Field]
	if !ok {
		return false
	}
	cmp, same := compareValues(v, f.Value)
	if !same {
		return false
	}
	switch f.Op {
	case OpEqual:
		return cmp == 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	}
	return false
}

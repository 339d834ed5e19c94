package calltracker

import (
	"math"
	"reflect"
)

// normalizeCount returns v as a positive int when v is a finite integer
// greater than zero, and 1 for anything else. Floats count as integers only
// when they have no fractional part.
func normalizeCount(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := rv.Int(); n > 0 && n <= math.MaxInt {
			return int(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n := rv.Uint(); n > 0 && n <= math.MaxInt {
			return int(n)
		}
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f > 0 && f < math.MaxInt && f == math.Trunc(f) {
			return int(f)
		}
	}
	return 1
}

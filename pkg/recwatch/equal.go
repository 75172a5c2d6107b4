package recwatch

import (
	"math"
	"reflect"
)

// Equal is the default EqualFunc. Numbers are compared by the exact value
// they denote, so int(1), int64(1), uint8(1) and float64(1) are all equal,
// while int64(1<<53+1) and float64(1<<53) are not. Every other value is
// compared with reflect.DeepEqual.
func Equal(a, b any) bool {
	x, xok := numeric(a)
	y, yok := numeric(b)

	switch {
	case xok && yok:
		return equalNumbers(x, y)
	case xok || yok:
		return false
	default:
		return reflect.DeepEqual(a, b)
	}
}

func numeric(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}

	rv := reflect.ValueOf(v)

	return rv, isInt(rv) || isUint(rv) || isFloat(rv)
}

func equalNumbers(x, y reflect.Value) bool {
	switch {
	case isInt(x) && isInt(y):
		return x.Int() == y.Int()
	case isUint(x) && isUint(y):
		return x.Uint() == y.Uint()
	case isInt(x) && isUint(y):
		return x.Int() >= 0 && uint64(x.Int()) == y.Uint()
	case isUint(x) && isInt(y):
		return y.Int() >= 0 && uint64(y.Int()) == x.Uint()
	case isInt(x) && isFloat(y):
		return intEqualsFloat(x.Int(), y.Float())
	case isFloat(x) && isInt(y):
		return intEqualsFloat(y.Int(), x.Float())
	case isUint(x) && isFloat(y):
		return uintEqualsFloat(x.Uint(), y.Float())
	case isFloat(x) && isUint(y):
		return uintEqualsFloat(y.Uint(), x.Float())
	default:
		return x.Float() == y.Float()
	}
}

// intEqualsFloat converts f to an integer only when it is integral and in
// range, so no precision is lost on either side.
func intEqualsFloat(i int64, f float64) bool {
	if f != math.Trunc(f) || f < -0x1p63 || f >= 0x1p63 {
		return false
	}

	return int64(f) == i
}

func uintEqualsFloat(u uint64, f float64) bool {
	if f != math.Trunc(f) || f < 0 || f >= 0x1p64 {
		return false
	}

	return uint64(f) == u
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

package calltracker

import "reflect"

// wrap returns a function of the same type as fn that counts each call in
// rec before forwarding it. Variadic arguments arrive as a slice and are
// passed on with CallSlice.
func wrap(rec *record, fn reflect.Value) reflect.Value {
	funcType := fn.Type()
	return reflect.MakeFunc(funcType, func(in []reflect.Value) []reflect.Value {
		rec.actual.Add(1)
		if funcType.IsVariadic() {
			return fn.CallSlice(in)
		}
		return fn.Call(in)
	})
}

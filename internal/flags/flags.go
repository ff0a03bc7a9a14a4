// Package flags wraps a host-owned struct whose fields represent onboarding
// outcomes. Events assign into those fields by name; the engine never
// interprets the struct's shape beyond "set named field to value".
//
// Field existence and value assignability are validated when events are
// bound, so type mismatches surface at configuration time rather than during
// a check.
package flags

import (
	"fmt"
	"reflect"
)

// Object is a reflection-backed view over a pointer to a host struct.
type Object struct {
	target reflect.Value // struct value, addressable
}

// New wraps target, which must be a non-nil pointer to a struct. The engine
// holds a non-owning reference; the host remains free to read the struct at
// any time.
func New(target any) (*Object, error) {
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return nil, fmt.Errorf("flags target must be a non-nil struct pointer, got %T", target)
	}
	elem := value.Elem()
	if elem.Kind() != reflect.Struct {
		return nil, fmt.Errorf("flags target must point to a struct, got %T", target)
	}

	return &Object{target: elem}, nil
}

// Validate reports whether value could be assigned to the named field,
// without assigning it.
func (o *Object) Validate(field string, value any) error {
	_, err := o.assignable(field, value)
	return err
}

// Set assigns value to the named field. A nil value sets the field to its
// zero value and is only valid for nil-able field types.
func (o *Object) Set(field string, value any) error {
	target, err := o.assignable(field, value)
	if err != nil {
		return err
	}

	if value == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	target.Set(reflect.ValueOf(value))

	return nil
}

func (o *Object) assignable(field string, value any) (reflect.Value, error) {
	target := o.target.FieldByName(field)
	if !target.IsValid() {
		return reflect.Value{}, fmt.Errorf("flags field %q does not exist on %s", field, o.target.Type())
	}
	if !target.CanSet() {
		return reflect.Value{}, fmt.Errorf("flags field %q on %s is not settable (unexported?)", field, o.target.Type())
	}

	if value == nil {
		if !nilable(target.Kind()) {
			return reflect.Value{}, fmt.Errorf("flags field %q (%s) cannot hold nil", field, target.Type())
		}
		return target, nil
	}

	valueType := reflect.TypeOf(value)
	if !valueType.AssignableTo(target.Type()) {
		return reflect.Value{}, fmt.Errorf("cannot assign %s to flags field %q (%s)", valueType, field, target.Type())
	}

	return target, nil
}

func nilable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

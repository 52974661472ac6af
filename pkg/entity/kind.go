package entity

import (
	"errors"
	"reflect"
	"strings"
)

var (
	// ErrNilType is returned when no type information is available.
	ErrNilType = errors.New("entity: nil type provided")
	// ErrTypeNotNamed indicates the value (after unwrapping pointers) is not a
	// named type, e.g. an anonymous struct or a bare map.
	ErrTypeNotNamed = errors.New("entity: type is not named")
)

const recordKindPrefix = "record:"

// Kind identifies a concrete entity type. Schemas are registered per Kind and
// the encoder looks them up by the Kind of each instance it serializes.
type Kind string

// Kinded lets a value report its own Kind instead of relying on its Go type.
// Record implements it so that records of different entity types sharing one
// Go type still dispatch to different schemas.
type Kinded interface {
	EntityKind() Kind
}

// RecordKind returns the Kind of records carrying the given entity type name.
func RecordKind(name string) Kind {
	return Kind(recordKindPrefix + name)
}

// IsRecord reports whether k was produced by RecordKind.
func (k Kind) IsRecord() bool {
	return strings.HasPrefix(string(k), recordKindPrefix) && len(k) > len(recordKindPrefix)
}

func (k Kind) String() string {
	return string(k)
}

// KindOf returns the Kind of v. Values implementing Kinded report their own
// kind; anything else is identified by its named Go type with pointers
// unwrapped, so Article and *Article share a Kind.
func KindOf(v any) (Kind, bool) {
	if v == nil {
		return "", false
	}
	if k, ok := v.(Kinded); ok {
		kind := k.EntityKind()
		return kind, kind != ""
	}
	kind, err := KindOfType(reflect.TypeOf(v))
	if err != nil {
		return "", false
	}
	return kind, true
}

// KindOfType returns the Kind for a Go type, unwrapping pointers until a named
// type is reached.
func KindOfType(t reflect.Type) (Kind, error) {
	if t == nil {
		return "", ErrNilType
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "", ErrTypeNotNamed
	}
	if t.PkgPath() == "" {
		return Kind(t.Name()), nil
	}
	return Kind(t.PkgPath() + "." + t.Name()), nil
}

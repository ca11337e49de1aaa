package classpath

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
	"strings"
)

// Type is a fixture candidate defined in a Loader.
//
// Identity is the pointer: the same qualified name defined in two loaders
// yields two distinct Types.
type Type struct {
	pkg      string
	name     string
	markers  map[string]struct{}
	location string
	newFn    func() any
	loader   *Loader
}

// TypeSpec describes a type to be defined in a loader.
type TypeSpec struct {
	// Package is the import path of the package declaring the type.
	Package string

	// Name is the simple type name.
	Name string

	// Markers are the capabilities the type carries.
	Markers []string

	// Location is the directory holding the package sources.
	Location string

	// New constructs a fresh instance. Nil means the type cannot be
	// instantiated.
	New func() any
}

// Of describes the Go type T. The location is the directory of the caller's
// source file, so Of should be called from the package declaring T.
func Of[T any](markers ...string) TypeSpec {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	location := ""
	if _, file, _, ok := runtime.Caller(1); ok {
		location = filepath.Dir(file)
	}

	return TypeSpec{
		Package:  rt.PkgPath(),
		Name:     rt.Name(),
		Markers:  markers,
		Location: location,
		New: func() any {
			return reflect.New(rt).Interface()
		},
	}
}

// QualifiedName returns "<package>.<name>".
func QualifiedName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// SplitName splits a qualified name into package and simple name.
func SplitName(qualified string) (pkg, name string) {
	i := strings.LastIndex(qualified, ".")
	if i < 0 {
		return "", qualified
	}
	return qualified[:i], qualified[i+1:]
}

// Name returns the qualified name of the type.
func (t *Type) Name() string {
	return QualifiedName(t.pkg, t.name)
}

// SimpleName returns the unqualified type name.
func (t *Type) SimpleName() string {
	return t.name
}

// Package returns the import path of the declaring package.
func (t *Type) Package() string {
	return t.pkg
}

// Location returns the directory holding the type's package sources.
func (t *Type) Location() string {
	return t.location
}

// Loader returns the context the type was defined in.
func (t *Type) Loader() *Loader {
	return t.loader
}

// HasMarker reports whether the type carries the given marker.
func (t *Type) HasMarker(marker string) bool {
	_, ok := t.markers[marker]
	return ok
}

// Markers returns the type's markers in sorted order.
func (t *Type) Markers() []string {
	out := make([]string, 0, len(t.markers))
	for m := range t.markers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// New constructs a fresh instance of the type.
func (t *Type) New() (any, error) {
	if t.newFn == nil {
		return nil, fmt.Errorf("type %s cannot be instantiated", t.Name())
	}
	return t.newFn(), nil
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	return t.Name()
}

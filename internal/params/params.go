// Package params implements the runtime-tunable parameter registry shared
// by the protocol layer and the engine components.
//
// Components register typed accessor closures under a flat name; the
// protocol layer only ever sees the registry, so no component needs to know
// about command parsing. A failed set never mutates anything.
package params

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Kind is the declared type of a parameter, reported in listings.
type Kind uint8

const (
	Bool Kind = iota
	Int
	Float
	String
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	}
	return "string"
}

type param struct {
	name string
	kind Kind
	get  func() string
	set  func(value string) error
}

// Registry maps parameter names to typed accessor closures. Listing order
// is registration order.
type Registry struct {
	order  []string
	byName map[string]*param
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*param)}
}

func (r *Registry) add(p *param) {
	r.order = append(r.order, p.name)
	r.byName[p.name] = p
}

// BoolVar registers a boolean parameter backed by the given accessors.
func (r *Registry) BoolVar(name string, get func() bool, set func(bool) error) {
	r.add(&param{
		name: name,
		kind: Bool,
		get:  func() string { return strconv.FormatBool(get()) },
		set: func(value string) error {
			v, err := parseBool(value)
			if err != nil {
				return errors.Wrapf(err, "parameter %q", name)
			}
			return set(v)
		},
	})
}

// IntVar registers an integer parameter.
func (r *Registry) IntVar(name string, get func() int, set func(int) error) {
	r.add(&param{
		name: name,
		kind: Int,
		get:  func() string { return strconv.Itoa(get()) },
		set: func(value string) error {
			v, err := strconv.Atoi(value)
			if err != nil {
				return errors.Errorf("parameter %q: %q is not an integer", name, value)
			}
			return set(v)
		},
	})
}

// FloatVar registers a float parameter.
func (r *Registry) FloatVar(name string, get func() float64, set func(float64) error) {
	r.add(&param{
		name: name,
		kind: Float,
		get:  func() string { return strconv.FormatFloat(get(), 'g', -1, 64) },
		set: func(value string) error {
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return errors.Errorf("parameter %q: %q is not a number", name, value)
			}
			return set(v)
		},
	})
}

// StringVar registers a free-form string parameter.
func (r *Registry) StringVar(name string, get func() string, set func(string) error) {
	r.add(&param{name: name, kind: String, get: get, set: set})
}

// List renders every parameter as "[type] name value", one per line, in
// registration order.
func (r *Registry) List() string {
	var sb strings.Builder
	for _, name := range r.order {
		p := r.byName[name]
		fmt.Fprintf(&sb, "[%s] %s %s\n", p.kind, p.name, p.get())
	}
	return sb.String()
}

// Set parses and applies value to the named parameter. Unknown names and
// malformed or out-of-range values fail without mutating anything.
func (r *Registry) Set(name, value string) error {
	p, ok := r.byName[name]
	if !ok {
		return errors.Errorf("unknown parameter: %s", name)
	}
	return p.set(value)
}

// Get returns the current value of the named parameter.
func (r *Registry) Get(name string) (string, error) {
	p, ok := r.byName[name]
	if !ok {
		return "", errors.Errorf("unknown parameter: %s", name)
	}
	return p.get(), nil
}

// AtLeast adapts a setter with a lower-bound check, rejecting values below
// lo before the setter runs.
func AtLeast[T constraints.Ordered](name string, lo T, set func(T) error) func(T) error {
	return func(v T) error {
		if v < lo {
			return errors.Errorf("parameter %q: value %v below minimum %v", name, v, lo)
		}
		return set(v)
	}
}

// InRange adapts a setter with an inclusive range check.
func InRange[T constraints.Ordered](name string, lo, hi T, set func(T) error) func(T) error {
	return func(v T) error {
		if v < lo || v > hi {
			return errors.Errorf("parameter %q: value %v outside [%v, %v]", name, v, lo, hi)
		}
		return set(v)
	}
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "1", "on":
		return true, nil
	case "false", "0", "off":
		return false, nil
	}
	return false, errors.Errorf("%q is not a boolean", value)
}

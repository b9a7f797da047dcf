// Package argmap parses command parameters written as "name:value"
// pairs in any order, e.g. "loud_dB:-35 close_s:0.1".
package argmap

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrInvalidArgument is returned for malformed pairs, unparsable
// values and missing required parameters.
var ErrInvalidArgument = errors.New("invalid argument")

// Map holds parsed parameters.
type Map struct {
	values map[string]string
	used   map[string]bool
}

// Parse splits each arg at its first colon. Both name and value must
// be non-empty. A repeated name keeps the last value.
func Parse(args []string) (*Map, error) {
	m := &Map{values: make(map[string]string, len(args)), used: make(map[string]bool)}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, ":")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("%w: must be of the form \"<name>:<value>\": %q", ErrInvalidArgument, arg)
		}
		m.values[name] = value
	}
	return m, nil
}

// Has reports whether name was given.
func (m *Map) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Int returns the named integer, or def if absent.
func (m *Map) Int(name string, def int) (int, error) {
	s, ok := m.lookup(name)
	if !ok {
		logDefault(name, "int", def)
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not an integer", ErrInvalidArgument, name, s)
	}
	return v, nil
}

// Float returns the named number, or def if absent.
func (m *Map) Float(name string, def float64) (float64, error) {
	s, ok := m.lookup(name)
	if !ok {
		logDefault(name, "float", def)
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a number", ErrInvalidArgument, name, s)
	}
	return v, nil
}

// Bool returns the named boolean, or def if absent. Accepts the forms
// strconv.ParseBool does.
func (m *Map) Bool(name string, def bool) (bool, error) {
	s, ok := m.lookup(name)
	if !ok {
		logDefault(name, "bool", def)
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidArgument, name, s)
	}
	return v, nil
}

// String returns the named string, or def if absent.
func (m *Map) String(name, def string) string {
	s, ok := m.lookup(name)
	if !ok {
		logDefault(name, "string", def)
		return def
	}
	return s
}

// RequiredString returns the named string or an error if absent.
func (m *Map) RequiredString(name string) (string, error) {
	s, ok := m.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: command requires argument %q", ErrInvalidArgument, name)
	}
	return s, nil
}

// Unused returns the names that were given but never read, sorted.
func (m *Map) Unused() []string {
	var names []string
	for name := range m.values {
		if !m.used[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (m *Map) lookup(name string) (string, bool) {
	s, ok := m.values[name]
	if ok {
		m.used[name] = true
	}
	return s, ok
}

func logDefault(name, kind string, def any) {
	logrus.WithFields(logrus.Fields{
		"function": "argmap",
		"name":     name,
		"type":     kind,
		"default":  def,
	}).Infof("using default %q (%s): %v", name, kind, def)
}

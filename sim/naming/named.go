// Package naming defines how simulated objects are named.
package naming

import (
	"regexp"
	"strings"
)

// Named describes an object that has a name.
type Named interface {
	// Name returns the name of the object.
	Name() string
}

// NamedBase is a base implementation of Named.
type NamedBase struct {
	name string
}

// Name returns the name of the object.
func (b *NamedBase) Name() string {
	return b.name
}

// MakeNamedBase creates a new NamedBase
func MakeNamedBase(name string) NamedBase {
	NameMustBeValid(name)

	return NamedBase{name: name}
}

var nameTokenPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*(\[[0-9]+\])*$`)

// NameMustBeValid panics if the name does not follow the naming convention.
//  1. Names are hierarchical, separated by dots ("Chip.SRAM").
//  2. Tokens must not be empty.
//  3. Tokens are capitalized CamelCase.
//  4. Elements in a series use square brackets ("Bank[2]").
func NameMustBeValid(name string) {
	if name == "" {
		panic("name must not be empty")
	}

	for _, token := range strings.Split(name, ".") {
		if !nameTokenPattern.MatchString(token) {
			panic("name " + name + " is not valid: bad token " +
				"\"" + token + "\"")
		}
	}
}

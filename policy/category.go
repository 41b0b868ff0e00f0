package policy

import (
	"fmt"
	"strings"
)

// Category groups the names that allow-lists, deny-lists and predicates
// apply to.
type Category int

const (
	Functions Category = iota
	Variables
	Globals
	Superglobals
	Constants
	MagicConstants
	Namespaces
	Aliases
	Classes
	Interfaces
	Traits
	Keywords
	Operators
	Primitives
	Types

	categoryCount
)

var categoryNames = [categoryCount]string{
	Functions:      "functions",
	Variables:      "variables",
	Globals:        "globals",
	Superglobals:   "superglobals",
	Constants:      "constants",
	MagicConstants: "magic_constants",
	Namespaces:     "namespaces",
	Aliases:        "aliases",
	Classes:        "classes",
	Interfaces:     "interfaces",
	Traits:         "traits",
	Keywords:       "keywords",
	Operators:      "operators",
	Primitives:     "primitives",
	Types:          "types",
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory looks up a category by its configuration name.
func ParseCategory(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for c := Category(0); c < categoryCount; c++ {
		if categoryNames[c] == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// AllCategories returns every category in declaration order.
func AllCategories() []Category {
	cats := make([]Category, 0, categoryCount)
	for c := Category(0); c < categoryCount; c++ {
		cats = append(cats, c)
	}
	return cats
}

// Normalize returns the form of name used for list membership. Function,
// class-like, namespace, alias and keyword names are case-insensitive and
// a leading namespace separator is insignificant.
func (c Category) Normalize(name string) string {
	switch c {
	case Functions, Classes, Interfaces, Traits, Types, Namespaces, Aliases:
		return strings.ToLower(strings.TrimPrefix(name, `\`))
	case Keywords:
		return strings.ToLower(name)
	}
	return name
}

package policy

import (
	"fmt"
	"sort"
	"strings"
)

// Flag is a boolean switch that enables a gateable language feature or a
// rewrite behavior of the sandbox.
type Flag int

const (
	AllowFunctions Flag = iota
	AllowClosures
	AllowVariables
	AllowStaticVariables
	AllowObjects
	AllowConstants
	AllowGlobals
	AllowNamespaces
	AllowAliases
	AllowClasses
	AllowInterfaces
	AllowTraits
	AllowGenerators
	AllowEscaping
	AllowCasting
	AllowErrorSuppressing
	AllowReferences
	AllowBackticks
	AllowHalting

	OverwriteDefinedFuncs
	OverwriteFuncGetArgs
	OverwriteSuperglobals

	AutoWhitelistFunctions
	AutoWhitelistConstants
	AutoWhitelistGlobals
	AutoWhitelistClasses
	AutoWhitelistInterfaces
	AutoWhitelistTraits

	flagCount
)

var flagNames = [flagCount]string{
	AllowFunctions:          "functions",
	AllowClosures:           "closures",
	AllowVariables:          "variables",
	AllowStaticVariables:    "static_variables",
	AllowObjects:            "objects",
	AllowConstants:          "constants",
	AllowGlobals:            "globals",
	AllowNamespaces:         "namespaces",
	AllowAliases:            "aliases",
	AllowClasses:            "classes",
	AllowInterfaces:         "interfaces",
	AllowTraits:             "traits",
	AllowGenerators:         "generators",
	AllowEscaping:           "escaping",
	AllowCasting:            "casting",
	AllowErrorSuppressing:   "error_suppressing",
	AllowReferences:         "references",
	AllowBackticks:          "backticks",
	AllowHalting:            "halting",
	OverwriteDefinedFuncs:   "overwrite_defined_funcs",
	OverwriteFuncGetArgs:    "overwrite_func_get_args",
	OverwriteSuperglobals:   "overwrite_superglobals",
	AutoWhitelistFunctions:  "auto_whitelist_functions",
	AutoWhitelistConstants:  "auto_whitelist_constants",
	AutoWhitelistGlobals:    "auto_whitelist_globals",
	AutoWhitelistClasses:    "auto_whitelist_classes",
	AutoWhitelistInterfaces: "auto_whitelist_interfaces",
	AutoWhitelistTraits:     "auto_whitelist_traits",
}

func (f Flag) String() string {
	if f < 0 || f >= flagCount {
		return fmt.Sprintf("Flag(%d)", int(f))
	}
	return flagNames[f]
}

// ParseFlag looks up a flag by its configuration name, e.g. "closures".
func ParseFlag(name string) (Flag, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for f := Flag(0); f < flagCount; f++ {
		if flagNames[f] == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown flag %q", name)
}

// AllFlags returns every flag in declaration order.
func AllFlags() []Flag {
	flags := make([]Flag, 0, flagCount)
	for f := Flag(0); f < flagCount; f++ {
		flags = append(flags, f)
	}
	return flags
}

// Flags is a set of enabled flags.
type Flags uint64

// Has reports whether f is enabled.
func (s Flags) Has(f Flag) bool { return s&(1<<uint(f)) != 0 }

// With returns a copy of s with the given flags enabled.
func (s Flags) With(flags ...Flag) Flags {
	for _, f := range flags {
		s |= 1 << uint(f)
	}
	return s
}

// Without returns a copy of s with the given flags disabled.
func (s Flags) Without(flags ...Flag) Flags {
	for _, f := range flags {
		s &^= 1 << uint(f)
	}
	return s
}

// Set returns a copy of s with f set to enabled.
func (s Flags) Set(f Flag, enabled bool) Flags {
	if enabled {
		return s.With(f)
	}
	return s.Without(f)
}

// String lists the enabled flag names in alphabetical order.
func (s Flags) String() string {
	var names []string
	for _, f := range AllFlags() {
		if s.Has(f) {
			names = append(names, f.String())
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// DefaultFlags enables variables, references, every runtime rewrite and
// every auto-whitelist. All other features start disabled.
func DefaultFlags() Flags {
	return Flags(0).With(
		AllowVariables,
		AllowReferences,
		OverwriteDefinedFuncs,
		OverwriteFuncGetArgs,
		OverwriteSuperglobals,
		AutoWhitelistFunctions,
		AutoWhitelistConstants,
		AutoWhitelistGlobals,
		AutoWhitelistClasses,
		AutoWhitelistInterfaces,
		AutoWhitelistTraits,
	)
}

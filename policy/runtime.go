package policy

import "strings"

// Methods invoked on the runtime handle by rewritten code.
const (
	// CallFunc dispatches a call to an overridden function by name.
	CallFunc = "call_func"
	// CheckFunc reports whether a dynamically named function may be called.
	CheckFunc = "check_func"
	// GetSuperglobal fetches a superglobal by name.
	GetSuperglobal = "_get_superglobal"
	// GetMagicConst fetches a magic constant by name.
	GetMagicConst = "_get_magic_const"
)

// InterceptMethod returns the handle method intercepting the named
// function, e.g. "_get_defined_vars".
func InterceptMethod(name string) string {
	return "_" + strings.ToLower(name)
}

var superglobals = map[string]struct{}{
	"_GET":     {},
	"_POST":    {},
	"_COOKIE":  {},
	"_FILES":   {},
	"_ENV":     {},
	"_REQUEST": {},
	"_SERVER":  {},
	"_SESSION": {},
	"GLOBALS":  {},
}

var magicConsts = map[string]struct{}{
	"__CLASS__":     {},
	"__DIR__":       {},
	"__FILE__":      {},
	"__FUNCTION__":  {},
	"__LINE__":      {},
	"__METHOD__":    {},
	"__NAMESPACE__": {},
	"__TRAIT__":     {},
}

var interceptedFuncs = map[string]struct{}{
	"get_defined_functions":   {},
	"get_defined_vars":        {},
	"get_defined_constants":   {},
	"get_declared_classes":    {},
	"get_declared_interfaces": {},
	"get_declared_traits":     {},
	"get_included_files":      {},
}

var argFuncs = map[string]struct{}{
	"func_get_args": {},
	"func_get_arg":  {},
	"func_num_args": {},
}

// IsSuperglobal reports whether name, without its leading "$", is a
// superglobal. Superglobal names are case-sensitive.
func IsSuperglobal(name string) bool {
	_, ok := superglobals[name]
	return ok
}

// IsMagicConst reports whether name is a magic constant.
func IsMagicConst(name string) bool {
	_, ok := magicConsts[normalizeMagicConst(name)]
	return ok
}

// IsInterceptedFunc reports whether calls to name are routed to a runtime
// intercept when OverwriteDefinedFuncs is enabled.
func IsInterceptedFunc(name string) bool {
	_, ok := interceptedFuncs[Functions.Normalize(name)]
	return ok
}

// IsArgFunc reports whether name introspects the caller's arguments.
func IsArgFunc(name string) bool {
	_, ok := argFuncs[Functions.Normalize(name)]
	return ok
}

// SuperglobalNames returns the superglobal names, sorted.
func SuperglobalNames() []string { return sortedKeys(superglobals) }

// MagicConstNames returns the magic constant names, sorted.
func MagicConstNames() []string { return sortedKeys(magicConsts) }

func normalizeMagicConst(name string) string {
	return strings.ToUpper(name)
}

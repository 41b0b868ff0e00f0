package errors

import "slices"

// Code identifies the kind of a policy violation. Codes are organized by
// group:
//   - E1xxx: escape attempts
//   - E2xxx: disallowed constructs
//   - E3xxx: dynamic names
//   - E4xxx: custom validation failures
//   - E5xxx: structural errors
type Code string

const (
	// Escape (E1xxx)
	EscapeOutput   Code = "E1001" // Raw output escape (inline HTML)
	EscapeBacktick Code = "E1002" // Shell execution backticks

	// Disallowed constructs (E2xxx)
	DisallowedCast          Code = "E2001" // Type cast
	DisallowedClosure       Code = "E2002" // Closure
	DisallowedFunction      Code = "E2003" // Function definition
	DisallowedClass         Code = "E2004" // Class definition
	DisallowedInterface     Code = "E2005" // Interface definition
	DisallowedTrait         Code = "E2006" // Trait definition
	DisallowedNamespace     Code = "E2007" // Namespace definition
	DisallowedAlias         Code = "E2008" // Namespace import or alias
	DisallowedGenerator     Code = "E2009" // Generator (yield)
	DisallowedGlobal        Code = "E2010" // Global keyword
	DisallowedStaticVar     Code = "E2011" // Static variable
	DisallowedObject        Code = "E2012" // Object creation
	DisallowedErrorSuppress Code = "E2013" // Error suppression
	DisallowedReference     Code = "E2014" // Reference assignment or return
	DisallowedHalt          Code = "E2015" // Compiler halt
	DisallowedVariable      Code = "E2016" // Variable reference

	// Dynamic names (E3xxx)
	DynamicVariable  Code = "E3001" // Variable variable
	DynamicStaticVar Code = "E3002" // Dynamically named static variable
	DynamicConstant  Code = "E3003" // Dynamically named constant
	DynamicClass     Code = "E3004" // Dynamically named class

	// Custom validation failures (E4xxx)
	InvalidFunction    Code = "E4001"
	InvalidClass       Code = "E4002"
	InvalidInterface   Code = "E4003"
	InvalidTrait       Code = "E4004"
	InvalidVariable    Code = "E4005"
	InvalidConstant    Code = "E4006"
	InvalidGlobal      Code = "E4007"
	InvalidSuperglobal Code = "E4008"
	InvalidKeyword     Code = "E4009"
	InvalidOperator    Code = "E4010"
	InvalidPrimitive   Code = "E4011"
	InvalidMagicConst  Code = "E4012"
	InvalidType        Code = "E4013"
	InvalidNamespace   Code = "E4014"
	InvalidAlias       Code = "E4015"

	// Structural errors (E5xxx)
	UnnamedFunction      Code = "E5001"
	UnnamedClass         Code = "E5002" // Class or parent class without a name
	UnnamedInterface     Code = "E5003"
	UnnamedTrait         Code = "E5004"
	GlobalNonVariable    Code = "E5005" // Non-variable passed to the global keyword
	GlobalConst          Code = "E5006" // const keyword outside of a class
	SandboxAccess        Code = "E5007" // Reference to the sandbox runtime handle
	FunctionRedefined    Code = "E5008"
	InvalidNamespaceName Code = "E5009"
	InvalidAliasName     Code = "E5010"
)

// codeDescriptions maps codes to their short descriptions.
var codeDescriptions = map[Code]string{
	EscapeOutput:   "escape to raw output",
	EscapeBacktick: "shell execution backticks",

	DisallowedCast:          "casting is not allowed",
	DisallowedClosure:       "closures are not allowed",
	DisallowedFunction:      "function definitions are not allowed",
	DisallowedClass:         "class definitions are not allowed",
	DisallowedInterface:     "interface definitions are not allowed",
	DisallowedTrait:         "trait definitions are not allowed",
	DisallowedNamespace:     "namespace definitions are not allowed",
	DisallowedAlias:         "aliases are not allowed",
	DisallowedGenerator:     "generators are not allowed",
	DisallowedGlobal:        "globals are not allowed",
	DisallowedStaticVar:     "static variables are not allowed",
	DisallowedObject:        "object creation is not allowed",
	DisallowedErrorSuppress: "error suppression is not allowed",
	DisallowedReference:     "references are not allowed",
	DisallowedHalt:          "halting is not allowed",
	DisallowedVariable:      "variables are not allowed",

	DynamicVariable:  "dynamic variable name",
	DynamicStaticVar: "dynamic static variable name",
	DynamicConstant:  "dynamic constant name",
	DynamicClass:     "dynamic class name",

	InvalidFunction:    "function failed validation",
	InvalidClass:       "class failed validation",
	InvalidInterface:   "interface failed validation",
	InvalidTrait:       "trait failed validation",
	InvalidVariable:    "variable failed validation",
	InvalidConstant:    "constant failed validation",
	InvalidGlobal:      "global failed validation",
	InvalidSuperglobal: "superglobal failed validation",
	InvalidKeyword:     "keyword failed validation",
	InvalidOperator:    "operator failed validation",
	InvalidPrimitive:   "primitive failed validation",
	InvalidMagicConst:  "magic constant failed validation",
	InvalidType:        "type failed validation",
	InvalidNamespace:   "namespace failed validation",
	InvalidAlias:       "alias failed validation",

	UnnamedFunction:      "unnamed function",
	UnnamedClass:         "unnamed class",
	UnnamedInterface:     "unnamed interface",
	UnnamedTrait:         "unnamed trait",
	GlobalNonVariable:    "non-variable global",
	GlobalConst:          "const outside of a class",
	SandboxAccess:        "sandbox access",
	FunctionRedefined:    "function redefined",
	InvalidNamespaceName: "invalid namespace name",
	InvalidAliasName:     "invalid alias name",
}

// Description returns the short description for a code.
func (c Code) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown violation"
}

// String returns the code as a string.
func (c Code) String() string {
	return string(c)
}

// Group identifies a family of related codes.
type Group string

const (
	GroupEscape     Group = "escape"
	GroupDisallowed Group = "disallowed"
	GroupDynamic    Group = "dynamic"
	GroupValidation Group = "validation"
	GroupStructural Group = "structural"
	GroupUnknown    Group = "unknown"
)

// Group returns the group of the code based on its prefix.
func (c Code) Group() Group {
	if len(c) < 2 {
		return GroupUnknown
	}
	switch c[1] {
	case '1':
		return GroupEscape
	case '2':
		return GroupDisallowed
	case '3':
		return GroupDynamic
	case '4':
		return GroupValidation
	case '5':
		return GroupStructural
	default:
		return GroupUnknown
	}
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	codes := make([]Code, 0, len(codeDescriptions))
	for c := range codeDescriptions {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

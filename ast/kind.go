package ast

// Kind identifies the syntactic category of a node.
type Kind int

const (
	KindInvalid Kind = iota
	KindProgram

	// Declarations
	KindFuncDecl
	KindParam
	KindClosure
	KindClosureUse
	KindClassDecl
	KindInterfaceDecl
	KindTraitDecl
	KindTraitUse
	KindClassMethod
	KindProperty
	KindClassConst
	KindConstDecl
	KindConstItem
	KindNamespace
	KindUse
	KindUseItem

	// Statements
	KindInlineHTML
	KindEcho
	KindExprStmt
	KindIf
	KindElseIf
	KindElse
	KindWhile
	KindDo
	KindFor
	KindForeach
	KindSwitch
	KindCase
	KindTry
	KindCatch
	KindFinally
	KindThrow
	KindBreak
	KindContinue
	KindReturn
	KindUnset
	KindStaticVarStmt
	KindStaticVar
	KindGlobal
	KindDeclare
	KindDeclareItem
	KindGoto
	KindLabel
	KindHaltCompiler

	// Expressions
	KindVariable
	KindArrayDimFetch
	KindPropertyFetch
	KindStaticPropertyFetch
	KindConstFetch
	KindClassConstFetch
	KindFuncCall
	KindMethodCall
	KindStaticCall
	KindNew
	KindArg
	KindYield
	KindErrorSuppress
	KindAssign
	KindAssignOp
	KindAssignRef
	KindBinaryOp
	KindUnary
	KindIncDec
	KindTernary
	KindCast
	KindInstanceOf
	KindIsset
	KindEmpty
	KindList
	KindPrint
	KindClone
	KindEval
	KindExit
	KindInclude
	KindShellExec
	KindMagicConst

	// Literals and names
	KindArray
	KindArrayItem
	KindString
	KindInterpolated
	KindInt
	KindFloat
	KindName
	KindIdent

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:             "Invalid",
	KindProgram:             "Program",
	KindFuncDecl:            "FuncDecl",
	KindParam:               "Param",
	KindClosure:             "Closure",
	KindClosureUse:          "ClosureUse",
	KindClassDecl:           "ClassDecl",
	KindInterfaceDecl:       "InterfaceDecl",
	KindTraitDecl:           "TraitDecl",
	KindTraitUse:            "TraitUse",
	KindClassMethod:         "ClassMethod",
	KindProperty:            "Property",
	KindClassConst:          "ClassConst",
	KindConstDecl:           "ConstDecl",
	KindConstItem:           "ConstItem",
	KindNamespace:           "Namespace",
	KindUse:                 "Use",
	KindUseItem:             "UseItem",
	KindInlineHTML:          "InlineHTML",
	KindEcho:                "Echo",
	KindExprStmt:            "ExprStmt",
	KindIf:                  "If",
	KindElseIf:              "ElseIf",
	KindElse:                "Else",
	KindWhile:               "While",
	KindDo:                  "Do",
	KindFor:                 "For",
	KindForeach:             "Foreach",
	KindSwitch:              "Switch",
	KindCase:                "Case",
	KindTry:                 "Try",
	KindCatch:               "Catch",
	KindFinally:             "Finally",
	KindThrow:               "Throw",
	KindBreak:               "Break",
	KindContinue:            "Continue",
	KindReturn:              "Return",
	KindUnset:               "Unset",
	KindStaticVarStmt:       "StaticVarStmt",
	KindStaticVar:           "StaticVar",
	KindGlobal:              "Global",
	KindDeclare:             "Declare",
	KindDeclareItem:         "DeclareItem",
	KindGoto:                "Goto",
	KindLabel:               "Label",
	KindHaltCompiler:        "HaltCompiler",
	KindVariable:            "Variable",
	KindArrayDimFetch:       "ArrayDimFetch",
	KindPropertyFetch:       "PropertyFetch",
	KindStaticPropertyFetch: "StaticPropertyFetch",
	KindConstFetch:          "ConstFetch",
	KindClassConstFetch:     "ClassConstFetch",
	KindFuncCall:            "FuncCall",
	KindMethodCall:          "MethodCall",
	KindStaticCall:          "StaticCall",
	KindNew:                 "New",
	KindArg:                 "Arg",
	KindYield:               "Yield",
	KindErrorSuppress:       "ErrorSuppress",
	KindAssign:              "Assign",
	KindAssignOp:            "AssignOp",
	KindAssignRef:           "AssignRef",
	KindBinaryOp:            "BinaryOp",
	KindUnary:               "Unary",
	KindIncDec:              "IncDec",
	KindTernary:             "Ternary",
	KindCast:                "Cast",
	KindInstanceOf:          "InstanceOf",
	KindIsset:               "Isset",
	KindEmpty:               "Empty",
	KindList:                "List",
	KindPrint:               "Print",
	KindClone:               "Clone",
	KindEval:                "Eval",
	KindExit:                "Exit",
	KindInclude:             "Include",
	KindShellExec:           "ShellExec",
	KindMagicConst:          "MagicConst",
	KindArray:               "Array",
	KindArrayItem:           "ArrayItem",
	KindString:              "String",
	KindInterpolated:        "Interpolated",
	KindInt:                 "Int",
	KindFloat:               "Float",
	KindName:                "Name",
	KindIdent:               "Ident",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Invalid"
	}
	return kindNames[k]
}

// Kinds returns every valid node kind, in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount-1)
	for k := KindProgram; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

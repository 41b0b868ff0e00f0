package ast

import (
	"reflect"
	"strings"
)

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func str(n Node) string {
	if isNil(n) {
		return ""
	}
	return n.String()
}

func join[T Node](nodes []T, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, str(n))
	}
	return strings.Join(parts, sep)
}

func block(stmts []Stmt) string {
	if len(stmts) == 0 {
		return "{}"
	}
	return "{ " + join(stmts, " ") + " }"
}

func args(list []*Arg) string {
	return "(" + join(list, ", ") + ")"
}

func params(list []*Param) string {
	return "(" + join(list, ", ") + ")"
}

func ref(byRef bool) string {
	if byRef {
		return "&"
	}
	return ""
}

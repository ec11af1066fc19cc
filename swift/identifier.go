package swift

import (
	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/render"
)

// Swift keywords, plus the standard library and Foundation names the
// generated files refer to.
var reservedWords = map[string]bool{
	"associatedtype": true,
	"class":          true,
	"deinit":         true,
	"enum":           true,
	"extension":      true,
	"fileprivate":    true,
	"func":           true,
	"import":         true,
	"init":           true,
	"inout":          true,
	"internal":       true,
	"let":            true,
	"open":           true,
	"operator":       true,
	"private":        true,
	"protocol":       true,
	"public":         true,
	"rethrows":       true,
	"static":         true,
	"struct":         true,
	"subscript":      true,
	"typealias":      true,
	"var":            true,
	"break":          true,
	"case":           true,
	"continue":       true,
	"default":        true,
	"defer":          true,
	"do":             true,
	"else":           true,
	"fallthrough":    true,
	"for":            true,
	"guard":          true,
	"if":             true,
	"in":             true,
	"repeat":         true,
	"return":         true,
	"switch":         true,
	"where":          true,
	"while":          true,
	"as":             true,
	"Any":            true,
	"catch":          true,
	"false":          true,
	"is":             true,
	"nil":            true,
	"super":          true,
	"self":           true,
	"Self":           true,
	"throw":          true,
	"throws":         true,
	"true":           true,
	"try":            true,
	"Type":           true,
	"Protocol":       true,

	"Bool":     true,
	"Codable":  true,
	"Data":     true,
	"Decoder":  true,
	"Double":   true,
	"Encoder":  true,
	"Error":    true,
	"Int":      true,
	"JSONAny":  true,
	"Optional": true,
	"String":   true,
	"URL":      true,
}

var typeStyle = render.Style{Case: naming.Type, Reserved: reservedWords}

// member turns a JSON property, parameter or enum value into a lower camel
// case Swift identifier.
func member(name string) string {
	v := naming.Camel(name)
	if v == "" {
		v = "empty"
	}
	return render.Sanitize(v, reservedWords)
}

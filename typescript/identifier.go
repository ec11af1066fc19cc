package typescript

import (
	"strings"
	"unicode"

	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/render"
)

// TypeScript reserved words from Appendix B, plus the names the generated
// client module itself declares.
var reservedWords = map[string]bool{
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"enum":       true,
	"export":     true,
	"extends":    true,
	"false":      true,
	"finally":    true,
	"for":        true,
	"function":   true,
	"if":         true,
	"implements": true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"interface":  true,
	"let":        true,
	"new":        true,
	"null":       true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"return":     true,
	"static":     true,
	"super":      true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"true":       true,
	"try":        true,
	"type":       true,
	"typeof":     true,
	"var":        true,
	"void":       true,
	"while":      true,
	"with":       true,
	"yield":      true,

	"Convert": true,
	"Array":   true,
	"Record":  true,
	"Promise": true,
}

// typeStyle names declared types.
var typeStyle = render.Style{Case: naming.Type, Reserved: reservedWords}

// needsQuoting reports whether a property key must be written as a string
// literal.
func needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			return true
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return true
		}
	}
	return false
}

// propertyKey returns name as an object key, quoted when required.
func propertyKey(name string) string {
	if needsQuoting(name) {
		return quote(name)
	}
	return name
}

// quote writes s as a single-quoted string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}

// variable turns a parameter name into a camel-cased local identifier.
func variable(name string) string {
	v := naming.Camel(name)
	if v == "" {
		v = "param"
	}
	return render.Sanitize(v, reservedWords)
}

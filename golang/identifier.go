package golang

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/render"
)

// initialisms are written in upper case inside exported names, following
// the Go naming convention ("WidgetID", not "WidgetId").
var initialisms = map[string]bool{
	"API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true,
	"EOF": true, "GUID": true, "HTML": true, "HTTP": true, "HTTPS": true,
	"ID": true, "IP": true, "JSON": true, "OS": true, "RPC": true,
	"SQL": true, "SSH": true, "TCP": true, "TLS": true, "TTL": true,
	"UDP": true, "UI": true, "URI": true, "URL": true, "UUID": true,
	"XML": true,
}

// exported converts name to an exported Go identifier. A name that does not
// start with an upper-case letter gets an "X" prefix ("1st-item" becomes
// "X1stItem").
func exported(name string) string {
	var b strings.Builder
	for _, w := range naming.Words(name) {
		if up := strings.ToUpper(w); initialisms[up] {
			b.WriteString(up)
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	s := b.String()
	if r, _ := utf8.DecodeRuneInString(s); !unicode.IsUpper(r) {
		s = "X" + s
	}
	return s
}

// localNames are identifiers the generated methods declare themselves.
var localNames = map[string]bool{
	"c": true, "ctx": true, "path": true, "query": true, "out": true,
	"body": true, "payload": true, "err": true, "v": true,
}

// local converts name to an unexported identifier usable as a parameter.
func local(name string) string {
	v := naming.Camel(name)
	if v == "" {
		v = "param"
	}
	v = render.Sanitize(v, nil)
	if token.IsKeyword(v) || localNames[v] || predeclared[v] {
		return v + "_"
	}
	return v
}

var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "error": true, "float64": true,
	"int": true, "int64": true, "string": true, "nil": true, "true": true,
	"false": true, "len": true, "new": true, "make": true, "fmt": true,
	"url": true, "http": true, "json": true, "strings": true, "bytes": true,
	"io": true, "context": true,
}

// typeStyle names declared types. Exported names never collide with Go
// keywords.
var typeStyle = render.Style{Case: exported}

func unique(name string, taken map[string]bool) string {
	candidate := name
	for i := 2; taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	taken[candidate] = true
	return candidate
}

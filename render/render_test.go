package render

import (
	"testing"

	"github.com/broady/apigen/ir"
	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/schema"
	"github.com/broady/apigen/typegraph"
)

var testStyle = Style{Case: naming.Preserve, Reserved: map[string]bool{"class": true}}

func buildGraph(t *testing.T, defs ...string) *typegraph.Graph {
	t.Helper()
	set := ir.NewSchemaSet()
	for i := 0; i < len(defs); i += 2 {
		if err := set.Add(defs[i], schema.MustParse(defs[i+1]), ir.OriginComponent); err != nil {
			t.Fatal(err)
		}
	}
	g, err := typegraph.Build(set, typegraph.WithAttributeProducers(typegraph.Nullable))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestSource(t *testing.T) {
	s := NewSource("  ", CommentJSDoc)
	s.Blank()
	s.Description("A widget.")
	s.Block("export interface Widget", "", func() {
		s.Description("first line\nsecond line")
		s.Line("name: string;")
		s.Blank()
	})
	s.Blank()
	s.Blank()
	s.Line("export type Id = string;")

	want := `/** A widget. */
export interface Widget {
  /**
   * first line
   * second line
   */
  name: string;
}

export type Id = string;
`
	if got := s.String(); got != want {
		t.Errorf("Source =\n%s\nwant\n%s", got, want)
	}
}

func TestSource_CommentStyles(t *testing.T) {
	swift := NewSource("    ", CommentTripleSlash)
	swift.Description("Doc\n\nmore")
	if got, want := swift.String(), "/// Doc\n///\n/// more\n"; got != want {
		t.Errorf("triple slash = %q, want %q", got, want)
	}

	goSrc := NewSource("\t", CommentLine)
	goSrc.Indent(func() { goSrc.Comment("Widget is a widget.") })
	if got, want := goSrc.String(), "\t// Widget is a widget.\n"; got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Widget", "Widget"},
		{"my-type", "my_type"},
		{"2fa", "_2fa"},
		{"class", "class_"},
		{"", "_"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in, testStyle.Reserved); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAllocator_CollisionsUseKindThenNumber(t *testing.T) {
	g := buildGraph(t, "Widget", `
type: [object, string, integer]
properties:
  name: {type: string}
`, "WidgetClass", `{type: object, properties: {x: {type: string}}}`)

	a := NewAllocator(g, testStyle)
	top := g.TopLevels[0].Node.(*typegraph.Union)
	cls := top.Members[0].(*typegraph.Class)

	if got := a.NameFor(top); got != "Widget" {
		t.Errorf("union name = %q, want Widget", got)
	}
	// WidgetClass is taken by the second top level.
	if got := a.NameFor(cls); got != "WidgetClass2" {
		t.Errorf("class name = %q, want WidgetClass2", got)
	}
	if got, _ := a.TopLevelName("WidgetClass"); got != "WidgetClass" {
		t.Errorf("top-level name = %q, want WidgetClass", got)
	}
}

func TestAllocator_IndependentOfRequestOrder(t *testing.T) {
	defs := []string{
		"Order", `
type: object
properties:
  item: {type: object, properties: {a: {type: string}}}
  status: {type: string, enum: [open, closed]}
`,
		"OrderItem", `{type: object, properties: {b: {type: string}}}`,
	}
	g1 := buildGraph(t, defs...)
	g2 := buildGraph(t, defs...)

	a1 := NewAllocator(g1, testStyle)
	a2 := NewAllocator(g2, testStyle)

	// Ask in opposite orders.
	var first, second []string
	for _, n := range g1.Named {
		first = append(first, a1.NameFor(n))
	}
	for i := len(g2.Named) - 1; i >= 0; i-- {
		second = append([]string{a2.NameFor(g2.Named[i])}, second...)
	}
	if len(first) != len(second) {
		t.Fatalf("name counts differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("name %d: %q vs %q", i, first[i], second[i])
		}
	}

	item := g1.TopLevels[0].Node.(*typegraph.Class).Properties[0].Type.(*typegraph.Class)
	if got := a1.NameFor(item); got != "OrderItemClass" {
		t.Errorf("inline class name = %q, want OrderItemClass", got)
	}
	if a1.NameFor(item) != a1.NameFor(item) {
		t.Error("NameFor is not stable")
	}
}

func TestAllocator_DistinctNodesGetDistinctNames(t *testing.T) {
	g := buildGraph(t,
		"A", `{type: object, properties: {x: {type: object, properties: {p: {type: string}}}}}`,
		"B", `{type: object, properties: {x: {type: object, properties: {q: {type: string}}}}}`,
		"AX", `{type: string, enum: [one]}`,
	)
	a := NewAllocator(g, testStyle)
	seen := map[string]bool{}
	for _, n := range g.Named {
		name := a.NameFor(n)
		if seen[name] {
			t.Errorf("name %q allocated twice", name)
		}
		seen[name] = true
	}
}

func TestAllocator_Aliases(t *testing.T) {
	g := buildGraph(t,
		"Tags", `{type: array, items: {type: string}}`,
		"Pet", `{type: object, properties: {id: {type: string}}}`,
		"Animal", `{$ref: Pet}`,
		"Maybe", `{type: object, nullable: true, properties: {id: {type: string}}}`,
	)
	a := NewAllocator(g, testStyle)

	if _, ok := a.Alias("Tags"); !ok {
		t.Error("Tags should be declared as an alias")
	}
	if _, ok := a.Alias("Pet"); ok {
		t.Error("Pet is a named class, not an alias")
	}
	n, ok := a.Alias("Animal")
	if !ok || n != g.TopLevels[1].Node {
		t.Errorf("Animal alias = %v, %v", n, ok)
	}
	if _, ok := a.Alias("Maybe"); ok {
		t.Error("a nullable class is declared as the class")
	}
	if got, _ := a.TopLevelName("Maybe"); got != "Maybe" {
		t.Errorf("TopLevelName(Maybe) = %q", got)
	}
}

func TestNormalizeUnion(t *testing.T) {
	optional := typegraph.NewUnion("Note", typegraph.StringType, typegraph.NullType)
	three := typegraph.NewUnion("Value", typegraph.StringType, typegraph.DoubleType, typegraph.NullType)

	for _, inline := range []bool{true, false} {
		form, n := NormalizeUnion(optional, inline)
		if form != UnionOptional || n != typegraph.StringType {
			t.Errorf("inline=%v: {string, null} = %v %v, want optional string", inline, form, n)
		}
	}

	if form, n := NormalizeUnion(three, true); form != UnionInline || n != three {
		t.Errorf("inline three-member union = %v", form)
	}
	if form, n := NormalizeUnion(three, false); form != UnionNamed || n != three {
		t.Errorf("named three-member union = %v", form)
	}

	members, hasNull := SplitNull(three)
	if len(members) != 2 || !hasNull {
		t.Errorf("SplitNull = %v, %v", members, hasNull)
	}
	if n, nullable := Unwrap(optional); n != typegraph.StringType || !nullable {
		t.Errorf("Unwrap = %v, %v", n, nullable)
	}
	if n, nullable := Unwrap(three); n != three || nullable {
		t.Errorf("Unwrap(three) = %v, %v", n, nullable)
	}
}

func TestDeclarations(t *testing.T) {
	g := buildGraph(t,
		"Order", `
type: object
properties:
  item: {$ref: Item}
  meta: {type: object, properties: {note: {type: string}}}
`,
		"Item", `{type: object, nullable: true, properties: {sku: {type: string}}}`,
		"Skus", `{type: array, items: {type: string}}`,
	)
	a := NewAllocator(g, testStyle)

	var got []string
	for _, d := range Declarations(g, a) {
		tag := d.Name
		if d.Alias {
			tag += "="
		}
		if d.TopLevel {
			tag += "*"
		}
		got = append(got, tag)
	}
	want := []string{"Order*", "Item*", "OrderMeta", "Skus=*"}
	if len(got) != len(want) {
		t.Fatalf("Declarations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Declarations = %v, want %v", got, want)
			break
		}
	}
}

func TestStyleWith(t *testing.T) {
	s := testStyle.With("WidgetsClient")
	if got := s.Identifier("WidgetsClient"); got != "WidgetsClient_" {
		t.Errorf("Identifier = %q", got)
	}
	if testStyle.Reserved["WidgetsClient"] {
		t.Error("With must not modify the receiver")
	}
	if got := s.Identifier("class"); got != "class_" {
		t.Errorf("Identifier(class) = %q", got)
	}
}

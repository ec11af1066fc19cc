package typegraph

import (
	"strings"
	"testing"
)

func nameCases() Cases[string] {
	return Cases[string]{
		Any:     func(*Any) string { return "any" },
		Null:    func(*Null) string { return "null" },
		Bool:    func(*Bool) string { return "bool" },
		Integer: func(*Integer) string { return "int" },
		Double:  func(*Double) string { return "double" },
		String:  func(*String) string { return "string" },
		Array:   func(a *Array) string { return "array" },
		Map:     func(m *Map) string { return "map" },
		Class:   func(c *Class) string { return "class " + c.ProposedName() },
		Enum:    func(e *Enum) string { return "enum " + e.ProposedName() },
		Union:   func(u *Union) string { return "union " + u.ProposedName() },
	}
}

func TestMatcher_DispatchesEveryKind(t *testing.T) {
	m, err := NewMatcher(nameCases())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		node Node
		want string
	}{
		{AnyType, "any"},
		{NullType, "null"},
		{BoolType, "bool"},
		{IntegerType, "int"},
		{DoubleType, "double"},
		{StringType, "string"},
		{&Array{Items: StringType}, "array"},
		{&Map{Values: AnyType}, "map"},
		{NewClass("Widget"), "class Widget"},
		{NewEnum("Color", "red"), "enum Color"},
		{NewUnion("Value", StringType, IntegerType), "union Value"},
	}
	for _, tt := range tests {
		if got := m.Match(tt.node); got != tt.want {
			t.Errorf("Match(%s) = %q, want %q", tt.node.Kind(), got, tt.want)
		}
	}
}

func TestNewMatcher_NamesMissingHandlers(t *testing.T) {
	c := nameCases()
	c.Map = nil
	c.Union = nil
	_, err := NewMatcher(c)
	if err == nil {
		t.Fatal("expected error for missing handlers")
	}
	for _, want := range []string{"Map", "Union"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not name %s", err, want)
		}
	}
	if strings.Contains(err.Error(), "Class") {
		t.Errorf("error %q names a handler that is present", err)
	}
}

func TestMustMatcher_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustMatcher(Cases[int]{})
}

func TestNullableMember(t *testing.T) {
	if n, ok := NullableMember(NewUnion("", NullType, StringType)); !ok || n != StringType {
		t.Errorf("NullableMember({null, string}) = %v, %v", n, ok)
	}
	if _, ok := NullableMember(NewUnion("", StringType, IntegerType)); ok {
		t.Error("NullableMember({string, int}) should be false")
	}
	if _, ok := NullableMember(NewUnion("", StringType, IntegerType, NullType)); ok {
		t.Error("NullableMember of three members should be false")
	}
}

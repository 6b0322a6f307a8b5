package data

import (
	"reflect"
	"testing"
)

func TestValueNewNormalizesNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
	}{
		{"int", int(42)},
		{"int64", int64(42)},
		{"uint64", uint64(42)},
		{"float64", float64(42)},
	}
	want := ValueNew(float64(42))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueNew(tt.in); !got.Equal(want) {
				t.Fatalf("ValueNew(%v) = %v, want %v", tt.in, got, want)
			}
		})
	}
}

func TestValueNewRejectsUnknownTypes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("ValueNew(struct{}{}) did not panic")
		}
	}()
	ValueNew(struct{}{})
}

func TestValueEqual(t *testing.T) {
	obj := ObjectNew().Assoc("m:a", "x").Assoc("m:b", float64(2))
	tests := []struct {
		name string
		a, b *Value
		want bool
	}{
		{"same scalar", ValueNew("x"), ValueNew("x"), true},
		{"different scalar", ValueNew("x"), ValueNew("y"), false},
		{"bool vs string", ValueNew(true), ValueNew("true"), false},
		{"empty leaves", EmptyLeaf(), EmptyLeaf(), true},
		{"equal objects", ValueNew(obj), ValueNew(ObjectNew().Assoc("m:b", float64(2)).Assoc("m:a", "x")), true},
		{"object member differs", ValueNew(obj), ValueNew(ObjectNew().Assoc("m:a", "x").Assoc("m:b", float64(3))), false},
		{"object member missing", ValueNew(obj), ValueNew(ObjectNew().Assoc("m:a", "x")), false},
		{
			"equal arrays",
			ValueNew(ArrayFrom([]*Value{ValueNew("a"), ValueNew("b")})),
			ValueNew(ArrayFrom([]*Value{ValueNew("a"), ValueNew("b")})),
			true,
		},
		{
			"array order matters",
			ValueNew(ArrayFrom([]*Value{ValueNew("a"), ValueNew("b")})),
			ValueNew(ArrayFrom([]*Value{ValueNew("b"), ValueNew("a")})),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestObjectAssocDoesNotDisturbOriginal(t *testing.T) {
	base := ObjectNew().Assoc("m:a", "x")
	derived := base.Assoc("m:b", "y")
	if base.Contains("m:b") {
		t.Fatalf("Assoc mutated the original object")
	}
	if !derived.Contains("m:a") || !derived.Contains("m:b") {
		t.Fatalf("derived object = %v, want both members", derived)
	}
	replaced := base.Assoc("m:a", "z")
	if v, _ := base.Find("m:a"); v.AsString() != "x" {
		t.Fatalf("base member = %q after replace, want x", v.AsString())
	}
	if v, _ := replaced.Find("m:a"); v.AsString() != "z" {
		t.Fatalf("replaced member = %q, want z", v.AsString())
	}
}

func TestObjectDelete(t *testing.T) {
	base := ObjectNew().Assoc("m:a", "x").Assoc("m:b", "y")
	pruned := base.Delete("m:a")
	if pruned.Contains("m:a") || pruned.Length() != 1 {
		t.Fatalf("Delete left %v", pruned)
	}
	if !base.Contains("m:a") {
		t.Fatalf("Delete mutated the original object")
	}
}

func TestArrayAssocDoesNotDisturbOriginal(t *testing.T) {
	base := ArrayFrom([]*Value{ValueNew("a"), ValueNew("b")})
	derived := base.Assoc(1, "c")
	if base.At(1).AsString() != "b" {
		t.Fatalf("Assoc mutated the original array")
	}
	if derived.At(1).AsString() != "c" {
		t.Fatalf("derived element = %q, want c", derived.At(1).AsString())
	}
}

func TestObjectKeysSorted(t *testing.T) {
	obj := ObjectNew().Assoc("m:c", "3").Assoc("m:a", "1").Assoc("m:b", "2")
	want := []string{"m:a", "m:b", "m:c"}
	if got := obj.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}

func TestToNativeRoundTrip(t *testing.T) {
	obj := ObjectNew().
		Assoc("m:name", "eth0").
		Assoc("m:mtu", float64(1500)).
		Assoc("m:tags", ArrayFrom([]*Value{ValueNew("up"), ValueNew("lan")})).
		Assoc("m:flag", EmptyLeaf())
	want := map[string]interface{}{
		"m:name": "eth0",
		"m:mtu":  float64(1500),
		"m:tags": []interface{}{"up", "lan"},
		"m:flag": []interface{}{nil},
	}
	if got := ValueNew(obj).ToNative(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ToNative() = %#v, want %#v", got, want)
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		want string
	}{
		{"string", ValueNew("x"), `"x"`},
		{"number", ValueNew(float64(1.5)), "1.5"},
		{"bool", ValueNew(true), "true"},
		{"empty leaf", EmptyLeaf(), "[null]"},
		{"nil", ValueNew(nil), "null"},
		{
			"object sorted",
			ValueNew(ObjectNew().Assoc("m:b", "2").Assoc("m:a", "1")),
			`{"m:a":"1","m:b":"2"}`,
		},
		{
			"array ordered",
			ValueNew(ArrayFrom([]*Value{ValueNew(float64(1)), ValueNew(float64(2))})),
			"[1,2]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

package tagged

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

// parse decodes a JSON literal the way the store client does (UseNumber off).
func parse(t *testing.T, s string) any {
	t.Helper()
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("bad fixture %q: %v", s, err)
	}
	return raw
}

func TestDecode_Scalars(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Value
	}{
		{"integer string", `{"integerValue": "42"}`, Integer(42)},
		{"integer negative", `{"integerValue": "-7"}`, Integer(-7)},
		{"integer large", `{"integerValue": "9007199254740993"}`, Integer(9007199254740993)},
		{"double", `{"doubleValue": 3.25}`, Float(3.25)},
		{"double whole", `{"doubleValue": 4}`, Float(4)},
		{"boolean true", `{"booleanValue": true}`, Bool(true)},
		{"boolean false", `{"booleanValue": false}`, Bool(false)},
		{"string", `{"stringValue": "blue"}`, String("blue")},
		{"null", `{"nullValue": null}`, Null()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Decode(parse(t, c.in))
			if !got.Equal(c.want) {
				t.Errorf("Decode(%s) = %v (%v), want %v (%v)", c.in, got, got.Kind(), c.want, c.want.Kind())
			}
		})
	}
}

func TestDecode_NestedCollections(t *testing.T) {
	in := `{"mapValue": {"fields": {
		"cycles": {"arrayValue": {"values": [{"integerValue": "1"}, {"doubleValue": 2.5}, {"booleanValue": true}]}},
		"notes":  {"stringValue": "fast"},
		"inner":  {"mapValue": {"fields": {"x": {"integerValue": "9"}}}}
	}}}`
	got := Decode(parse(t, in))

	want := Map(map[string]Value{
		"cycles": Array([]Value{Integer(1), Float(2.5), Bool(true)}),
		"notes":  String("fast"),
		"inner":  Map(map[string]Value{"x": Integer(9)}),
	})
	if !got.Equal(want) {
		t.Fatalf("nested decode mismatch: got %#v", got.Native())
	}

	native, ok := got.Native().(map[string]any)
	if !ok {
		t.Fatalf("Native() of map: got %T", got.Native())
	}
	cycles := native["cycles"].([]any)
	if cycles[0] != int64(1) || cycles[1] != 2.5 || cycles[2] != true {
		t.Errorf("native cycles: %v", cycles)
	}
}

func TestDecode_EmptyCollections(t *testing.T) {
	if got := Decode(parse(t, `{"arrayValue": {}}`)); got.Kind() != KindArray || len(got.Elems()) != 0 {
		t.Errorf("empty arrayValue: got %v", got)
	}
	if got := Decode(parse(t, `{"mapValue": {}}`)); got.Kind() != KindMap || len(got.Fields()) != 0 {
		t.Errorf("empty mapValue: got %v", got)
	}
}

func TestDecode_MalformedFallsBackToZero(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Value
	}{
		{"integer not numeric", `{"integerValue": "twelve"}`, Integer(0)},
		{"integer wrong type", `{"integerValue": true}`, Integer(0)},
		{"integer fractional", `{"integerValue": 1.5}`, Integer(0)},
		{"double garbage", `{"doubleValue": "abc"}`, Float(0)},
		{"boolean wrong type", `{"booleanValue": "yes"}`, Bool(false)},
		{"string wrong type", `{"stringValue": 12}`, String("")},
		{"array payload not object", `{"arrayValue": [1, 2]}`, Array(nil)},
		{"array values not list", `{"arrayValue": {"values": 3}}`, Array(nil)},
		{"map fields not object", `{"mapValue": {"fields": []}}`, Map(nil)},
		{"unmodelled tag", `{"timestampValue": "2025-03-01T10:00:00Z"}`, Null()},
		{"two tags", `{"integerValue": "1", "doubleValue": 1.0}`, Null()},
		{"double NaN", `{"doubleValue": "NaN"}`, Float(0)},
		{"double infinity", `{"doubleValue": "Infinity"}`, Float(0)},
		{"double negative infinity", `{"doubleValue": "-Infinity"}`, Float(0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Decode(parse(t, c.in))
			if !got.Equal(c.want) {
				t.Errorf("Decode(%s) = %v (%v), want %v (%v)", c.in, got, got.Kind(), c.want, c.want.Kind())
			}
		})
	}
}

func TestDecode_TagIgnoresExtraKeys(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Value
	}{
		{"integer with audit key", `{"integerValue": "3", "updatedBy": "scout7"}`, Integer(3)},
		{"bool with extra", `{"booleanValue": true, "note": null}`, Bool(true)},
		{"nested", `{"mapValue": {"fields": {"n": {"doubleValue": 2.5, "src": "tablet"}}}, "v": 1}`,
			Map(map[string]Value{"n": Float(2.5)})},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Decode(parse(t, c.in)); !got.Equal(c.want) {
				t.Errorf("Decode(%s) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestDecode_NonFinitePlainFloat(t *testing.T) {
	if got := Decode(math.NaN()); !got.Equal(Float(0)) {
		t.Errorf("NaN float64: got %v, want 0", got)
	}
	if got := Decode(math.Inf(1)); !got.Equal(Float(0)) {
		t.Errorf("+Inf float64: got %v, want 0", got)
	}
}

func TestDecode_UnsupportedGoTypeIsNull(t *testing.T) {
	if got := Decode(struct{}{}); !got.IsNull() {
		t.Errorf("struct input: got %v, want null", got)
	}
	if got := Decode(nil); !got.IsNull() {
		t.Errorf("nil input: got %v, want null", got)
	}
}

func TestDecode_PlainInputPassesThrough(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`{"autoFuel": 12, "rate": 1.5, "climbed": true, "who": "a", "list": [1, 2]}`))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		t.Fatal(err)
	}
	got := Decode(raw)
	want := Map(map[string]Value{
		"autoFuel": Integer(12),
		"rate":     Float(1.5),
		"climbed":  Bool(true),
		"who":      String("a"),
		"list":     Array([]Value{Integer(1), Integer(2)}),
	})
	if !got.Equal(want) {
		t.Errorf("plain decode mismatch: got %#v", got.Native())
	}
}

func TestDecodeFields(t *testing.T) {
	raw := parse(t, `{"autoFuel": {"integerValue": "5"}, "shift1HubActive": {"booleanValue": true}}`).(map[string]any)
	fields := DecodeFields(raw)
	if n, ok := fields["autoFuel"].Int(); !ok || n != 5 {
		t.Errorf("autoFuel: got %v", fields["autoFuel"])
	}
	if !fields["shift1HubActive"].Truthy() {
		t.Error("shift1HubActive should be truthy")
	}
}

func TestValue_Number(t *testing.T) {
	cases := []struct {
		v    Value
		want float64
	}{
		{Integer(3), 3},
		{Float(2.5), 2.5},
		{Bool(true), 1},
		{Bool(false), 0},
		{String("7"), 0},
		{Null(), 0},
		{Array([]Value{Integer(1)}), 0},
	}
	for _, c := range cases {
		if got := c.v.Number(); got != c.want {
			t.Errorf("%v.Number() = %v, want %v", c.v, got, c.want)
		}
	}
}

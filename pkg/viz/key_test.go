package viz

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{"5", IntKey(5), false},
		{"-12", IntKey(-12), false},
		{" 7 ", IntKey(7), false},
		{"inf", Inf, false},
		{"INF", Inf, false},
		{"∞", Inf, false},
		{"-∞", NegInf, false},
		{" -∞ ", NegInf, false},
		{"-inf", NegInf, false},
		{"empty", Empty, false},
		{"absent", Absent, false},
		{"null", None, false},
		{"abc", None, true},
		{"1.5", None, true},
		{"", None, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyLabel(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{IntKey(42), "42"},
		{Inf, "∞"},
		{NegInf, "-∞"},
		{Empty, ""},
		{Absent, ""},
		{None, ""},
	}
	for _, tt := range tests {
		if got := tt.key.Label(); got != tt.want {
			t.Errorf("%v.Label() = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestKeyLess(t *testing.T) {
	ordered := []Key{NegInf, IntKey(-3), IntKey(0), IntKey(8), Inf}
	for i := 0; i < len(ordered)-1; i++ {
		if !ordered[i].Less(ordered[i+1]) {
			t.Errorf("%v should be less than %v", ordered[i], ordered[i+1])
		}
		if ordered[i+1].Less(ordered[i]) {
			t.Errorf("%v should not be less than %v", ordered[i+1], ordered[i])
		}
	}
	if IntKey(3).Less(IntKey(3)) {
		t.Error("a key is not less than itself")
	}
}

func TestKeyJSON(t *testing.T) {
	type doc struct {
		A Key `json:"a"`
		B Key `json:"b"`
		C Key `json:"c"`
		D Key `json:"d"`
	}
	in := doc{A: IntKey(3), B: Inf, C: None, D: Empty}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"a":3,"b":"inf","c":"null","d":"empty"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var out doc
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}

	var k Key
	if err := json.Unmarshal([]byte(`null`), &k); err != nil || k != None {
		t.Errorf("Unmarshal(null) = %v, %v", k, err)
	}
	if err := json.Unmarshal([]byte(`"bogus"`), &k); err == nil {
		t.Error("Unmarshal(bogus) should fail")
	}
	if err := json.Unmarshal([]byte(`true`), &k); err == nil {
		t.Error("Unmarshal(true) should fail")
	}
}

func TestKeyYAML(t *testing.T) {
	type doc struct {
		A Key `yaml:"a"`
		B Key `yaml:"b"`
		C Key `yaml:"c"`
	}
	in := doc{A: IntKey(-4), B: NegInf, C: None}
	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out doc
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, data)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}

	var k doc
	if err := yaml.Unmarshal([]byte("a: ~\nb: 5\nc: absent\n"), &k); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if k.A != None || k.B != IntKey(5) || k.C != Absent {
		t.Errorf("Unmarshal() = %+v", k)
	}
}

func TestEnumText(t *testing.T) {
	for _, s := range []State{Up, Alive, Invisible} {
		b, _ := s.MarshalText()
		var got State
		if err := got.UnmarshalText(b); err != nil || got != s {
			t.Errorf("State %v round trip = %v, %v", s, got, err)
		}
	}
	for _, m := range []ArrowMode{ArrowNone, ArrowFixed, ArrowAbove, ArrowTo} {
		b, _ := m.MarshalText()
		var got ArrowMode
		if err := got.UnmarshalText(b); err != nil || got != m {
			t.Errorf("ArrowMode %v round trip = %v, %v", m, got, err)
		}
	}
	for _, s := range []Side{Left, Right} {
		b, _ := s.MarshalText()
		var got Side
		if err := got.UnmarshalText(b); err != nil || got != s {
			t.Errorf("Side %v round trip = %v, %v", s, got, err)
		}
	}

	var s State
	if err := s.UnmarshalText([]byte("sleeping")); err == nil {
		t.Error("unknown state should fail")
	}
	var m ArrowMode
	if err := m.UnmarshalText([]byte("sideways")); err == nil {
		t.Error("unknown arrow mode should fail")
	}
	var side Side
	if err := side.UnmarshalText([]byte("middle")); err == nil {
		t.Error("unknown side should fail")
	}
}

package gddb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Float(1.5)
	var _ Value = Bool(true)
	var _ Value = Array{String("a"), Int(1)}
}

func TestEqualIsTyped(t *testing.T) {
	assert.True(t, Equal(String("t1"), String("t1")))
	assert.False(t, Equal(String("1"), Int(1)))
	assert.False(t, Equal(Int(1), Float(1)))
	assert.False(t, Equal(Bool(true), Int(1)))
	assert.True(t, Equal(Array{Int(1), String("x")}, Array{Int(1), String("x")}))
	assert.False(t, Equal(Array{Int(1)}, Array{Int(1), Int(2)}))
	assert.False(t, Equal(Array{Int(1)}, Array{Float(1)}))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", String("tagSword"), "tagSword"},
		{"int", Int(-12), "-12"},
		{"float shortest", Float(0.1), "0.1"},
		{"float whole", Float(3), "3"},
		{"bool true", Bool(true), "1"},
		{"bool false", Bool(false), "0"},
		{"array", Array{Int(1), Float(2.5), String("x")}, "1;2.5;x"},
		{"empty array", Array{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Format())
		})
	}
}

func TestFieldsSortedKeys(t *testing.T) {
	f := Fields{
		"zebra":  String("z"),
		"Apple":  String("A"),
		"apple":  String("a"),
		"banana": String("b"),
	}
	assert.Equal(t, []string{"Apple", "apple", "banana", "zebra"}, f.SortedKeys())
	assert.Empty(t, Fields{}.SortedKeys())
}

func TestFieldsJSONKeepsNumberKinds(t *testing.T) {
	in := Fields{
		"level":  Int(50),
		"chance": Float(2),
		"scale":  Float(0.25),
		"tag":    String("tagItem"),
		"hidden": Bool(false),
		"list":   Array{Int(1), Float(1)},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"chance":2.0,"hidden":false,"level":50,"list":[1,1.0],"scale":0.25,"tag":"tagItem"}`,
		string(data))

	var out Fields
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, len(in))
	for k, v := range in {
		assert.True(t, Equal(v, out[k]), "field %s: %#v != %#v", k, v, out[k])
	}
}

func TestUnmarshalValueRejects(t *testing.T) {
	for _, input := range []string{`null`, `{"a":1}`, `[[1]]`, `[null]`, ``} {
		_, err := UnmarshalValue([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestUnmarshalValueExponentIsFloat(t *testing.T) {
	v, err := UnmarshalValue([]byte(`1e3`))
	require.NoError(t, err)
	assert.Equal(t, Float(1000), v)
}

func TestPlain(t *testing.T) {
	f := Fields{"a": Array{Int(1), String("b")}, "c": Bool(true)}
	assert.Equal(t, map[string]any{
		"a": []any{int64(1), "b"},
		"c": true,
	}, f.Plain())
}

func TestFieldsClone(t *testing.T) {
	orig := Fields{"a": Int(1), "b": Array{String("x")}}

	cp := orig.Clone()
	assert.Equal(t, orig, cp)

	cp["a"] = Int(2)
	delete(cp, "b")
	assert.Equal(t, Fields{"a": Int(1), "b": Array{String("x")}}, orig)

	assert.Equal(t, Fields{}, Fields(nil).Clone())
}

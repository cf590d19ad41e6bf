package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataBag_KeepsKeyOrder(t *testing.T) {
	input := `{"zeta":"last letter","alpha":1,"memberName":"Jane","paid":true,"fees":150.5}`

	var bag DataBag
	require.NoError(t, json.Unmarshal([]byte(input), &bag))

	assert.Equal(t, []string{"zeta", "alpha", "memberName", "paid", "fees"}, bag.Keys())

	out, err := json.Marshal(bag)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestDataBag_RejectsNonScalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "nested object", input: `{"a":{"b":1}}`},
		{name: "array", input: `{"a":[1,2]}`},
		{name: "null value", input: `{"a":null}`},
		{name: "not an object", input: `["a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bag DataBag
			assert.Error(t, json.Unmarshal([]byte(tt.input), &bag))
		})
	}
}

func TestDataBag_Set(t *testing.T) {
	var bag DataBag
	bag.Set("memberName", String("Jane"))
	bag.Set("fees", Number(150))
	bag.Set("memberName", String("Janet"))

	assert.Equal(t, []string{"memberName", "fees"}, bag.Keys())
	assert.Equal(t, "Janet", bag.Text("memberName"))
	assert.Equal(t, "", bag.Text("address"))
	assert.Equal(t, 2, bag.Len())
}

func TestDataBag_EmptyMarshalsAsObject(t *testing.T) {
	out, err := json.Marshal(DataBag{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestValue_Text(t *testing.T) {
	assert.Equal(t, "150", Number(150).Text())
	assert.Equal(t, "12.5", Number(12.5).Text())
	assert.Equal(t, "true", Bool(true).Text())
	assert.Equal(t, "2026-12-25", Date(time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)).Text())
}

func TestValue_Float(t *testing.T) {
	n, ok := String(" 42 ").Float()
	assert.True(t, ok)
	assert.Equal(t, 42.0, n)

	_, ok = String("forty-two").Float()
	assert.False(t, ok)

	_, ok = Bool(true).Float()
	assert.False(t, ok)
}

func TestValue_IsEmpty(t *testing.T) {
	assert.True(t, String("   ").IsEmpty())
	assert.True(t, Value{}.IsEmpty())
	assert.False(t, Number(0).IsEmpty())
	assert.False(t, Bool(false).IsEmpty())
}

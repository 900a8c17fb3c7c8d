package compact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	codec := testCodec(t)

	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"empty object", `{}`, []byte{}},
		{
			"get request",
			`{"action":"get","path":"Vehicle.Speed","requestId":"5"}`,
			[]byte{0x80, 0x88, 0x84, 0x00, 0x00, 0x81, 0x8E, 0x05},
		},
		{
			"subscription notification",
			`{"action":"subscription","subscriptionId":"300","value":"1.5","timestamp":"2024-03-15T10:15:32Z"}`,
			[]byte{0x80, 0x8C, 0x85, 0x90, 0x01, 0x2C, 0x82, 0x96, 0x00, 0x00, 0xC0, 0x3F, 0x83, 0x10, 0xDE, 0xA3, 0xE0},
		},
		{"whitespace ignored", "{ \"action\" : \"set\" }", []byte{0x80, 0x89}},
		{"slash path", `{"path":"Vehicle/Speed"}`, []byte{0x84, 0x00, 0x00}},
		{"negative value", `{"value":"-5"}`, []byte{0x82, 0x8D, 0x05}},
		{"bool string", `{"value":"true"}`, []byte{0x82, 0x95, 0x01}},
		{"number literal", `{"requestId":5}`, []byte{0x81, '5'}},
		{"null and true", `{"filter":null,"authorization":true}`, []byte{0x86, 'n', 'u', 'l', 'l', 0x87, 't', 'r', 'u', 'e'}},
		{"uncoded key", `{"foo":"bar"}`, append([]byte(`"foo":`), 0x97, 'b', 'a', 'r', 0x00)},
		{"array", `{"value":[1,2,"x"]}`, []byte{0x82, '[', '1', ',', '2', 0x97, 'x', 0x00, ']'}},
		{"nested object", `{"value":{"x":"1"}}`, []byte{0x82, '{', '"', 'x', '"', ':', 0x8E, 0x01, '}'}},
		{
			"unknown path stays text",
			`{"path":"Vehicle.Nope"}`,
			append(append([]byte(`"path":`), 0x97), "Vehicle.Nope\x00"...),
		},
		{
			"timestamp outside decade stays text",
			`{"timestamp":"2019-01-01T00:00:00Z"}`,
			append(append([]byte(`"timestamp":`), 0x97), "2019-01-01T00:00:00Z\x00"...),
		},
		{
			"request type as key stays text",
			`{"get":"x"}`,
			append([]byte(`"get":`), 0x97, 'x', 0x00),
		},
		{"non-ascii key", `{"é":"x"}`, []byte{0x97, 0xC3, 0xA9, 0x00, ':', 0x97, 'x', 0x00}},
		{"escaped value", `{"value":"a\"b"}`, append([]byte{0x82, 0x97}, "a\\\"b\x00"...)},
		{"html kept", `{"value":"<a&b>"}`, append([]byte{0x82, 0x97}, "<a&b>\x00"...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Encode([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	codec := testCodec(t)

	for _, in := range []string{
		``,
		`[1,2]`,
		`"text"`,
		`{"a":`,
		`{"a":1,}`,
		`{"a":1} {}`,
		`{"a":1} x`,
		`not json`,
	} {
		t.Run(in, func(t *testing.T) {
			got, err := codec.Encode([]byte(in))
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrMalformedValue)

			var ce *Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, OpEncode, ce.Op)
		})
	}
}

func TestEncodeWithoutUnknownKeyword(t *testing.T) {
	dict, err := NewDictionary([]string{"action", "value", "get"})
	require.NoError(t, err)
	codec := New(dict, nil)

	got, err := codec.Encode([]byte(`{"action":"get","value":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0x80, 0x82, 0x81}, `"hi"`...), got)

	back, err := codec.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, `{"action":"get","value":"hi"}`, string(back))

	_, err = codec.Encode([]byte(`{"value":"é"}`))
	assert.ErrorIs(t, err, ErrMalformedValue)

	_, err = codec.Encode([]byte(`{"ключ":"x"}`))
	assert.ErrorIs(t, err, ErrMalformedValue)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := testCodec(t)

	for _, msg := range []string{
		`{}`,
		`{"action":"get","path":"Vehicle.Speed","requestId":"5"}`,
		`{"action":"set","path":"Vehicle.Cabin.Door.Row1.Left.IsOpen","value":"true","requestId":"65536"}`,
		`{"action":"subscribe","path":"Vehicle.Speed","filter":{"type":"timebased","parameter":{"period":"100"}},"requestId":"42"}`,
		`{"action":"subscription","subscriptionId":"7","value":"-273.15","timestamp":"2024-03-15T10:15:32Z"}`,
		`{"action":"unsubscribe","subscriptionId":"4294967295","requestId":"-1"}`,
		`{"authorization":"Bearer abc.def","value":[1,2.5,"x",true,null,{"k":[]}]}`,
		`{"path":"Vehicle.Nope","timestamp":"2019-01-01T00:00:00Z"}`,
		`{"value":"","unicode":"žluťoučký kůň","esc":"tab\there"}`,
		`{"value":"007","other":"1.0","big":"4294967296"}`,
		`{"nested":{"a":{"b":{"c":"d"}},"e":[[],[[]]]}}`,
	} {
		t.Run(msg, func(t *testing.T) {
			packed, err := codec.Encode([]byte(msg))
			require.NoError(t, err)
			assert.LessOrEqual(t, len(packed), len(msg))

			back, err := codec.Decode(packed)
			require.NoError(t, err)
			assert.Equal(t, msg, string(back))
		})
	}
}

func TestEncodeSemanticRoundTrip(t *testing.T) {
	codec := testCodec(t)

	// Formatting and escapes differ, content does not.
	msg := "{\n  \"action\": \"get\",\n  \"path\": \"Vehicle/Speed\",\n  \"value\": \"caf\\u00e9\"\n}"
	packed, err := codec.Encode([]byte(msg))
	require.NoError(t, err)

	back, err := codec.Decode(packed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"get","path":"Vehicle.Speed","value":"café"}`, string(back))
}

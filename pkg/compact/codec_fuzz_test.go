//go:build fuzz

package compact

import (
	"encoding/json"
	"reflect"
	"testing"
)

// FuzzDecode checks that arbitrary input never panics and that failures
// are always reported as *Error.
func FuzzDecode(f *testing.F) {
	codec := testCodec(f)

	f.Add([]byte{})
	f.Add([]byte{0x80, 0x88})
	f.Add([]byte{0x80, 0x88, 0x84, 0x00, 0x00, 0x81, 0x8E, 0x05})
	f.Add([]byte{0x83, 0x10, 0xDE, 0xA3, 0xE0})
	f.Add([]byte(`{"action":"get"}`))
	f.Add([]byte{0x82, 0x97, 'a', 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		out, err := codec.Decode(data)
		if err != nil {
			if _, ok := err.(*Error); !ok {
				t.Fatalf("error %v is %T, want *Error", err, err)
			}
			if out != nil {
				t.Fatal("output returned with error")
			}
		}
	})
}

// FuzzRoundTrip checks that any encodable object decodes to equal JSON.
func FuzzRoundTrip(f *testing.F) {
	codec := New(nil, nil, WithClock(fixedClock))

	f.Add(`{}`)
	f.Add(`{"action":"get","requestId":"5"}`)
	f.Add(`{"value":[1,"2",true,null,{"a":[]}]}`)
	f.Add(`{"timestamp":"2024-03-15T10:15:32Z","value":"-1.5"}`)
	f.Add(`{"é":"ü","esc":"a\"b\\c\n"}`)

	f.Fuzz(func(t *testing.T, msg string) {
		if len(msg) > 10000 {
			t.Skip("input too large")
		}
		var want any
		if json.Unmarshal([]byte(msg), &want) != nil {
			t.Skip("not JSON")
		}

		packed, err := codec.Encode([]byte(msg))
		if err != nil {
			// Non-objects are rejected.
			return
		}
		back, err := codec.Decode(packed)
		if err != nil {
			t.Fatalf("decode of %x failed: %v", packed, err)
		}

		var got any
		if err := json.Unmarshal(back, &got); err != nil {
			t.Fatalf("decoded %q is not JSON: %v", back, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip: got %s, want %s", back, msg)
		}
	})
}

package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  string
	}{
		{"status", SimpleString{Value: "OK"}, "OK\n"},
		{"bulk", BlobString{Value: "hello"}, "\"hello\"\n"},
		{"escaped bulk", BlobString{Value: "a\"b\n\x01"}, `"a\"b\n\x01"` + "\n"},
		{"integer", Integer{Value: 1}, "(integer) 1\n"},
		{"double", Double{Value: 1.5}, "(double) 1.5\n"},
		{"boolean", Boolean{Value: true}, "(true)\n"},
		{"error", Error{Message: "ERR oops"}, "(error) ERR oops\n"},
		{"null", Null{}, "(nil)\n"},
		{"null bulk", NullBlobString{}, "(nil)\n"},
		{"empty array", Array{}, "(empty array)\n"},
		{"empty set", Set{}, "(empty set)\n"},
		{"empty map", Map{}, "(empty hash)\n"},
		{
			"nested array",
			Array{Elements: []Frame{
				BlobString{Value: "a"},
				Array{Elements: []Frame{Integer{Value: 1}, BlobString{Value: "b"}}},
			}},
			"1) \"a\"\n2) 1) (integer) 1\n   2) \"b\"\n",
		},
		{
			"set",
			Set{Elements: []Frame{SimpleString{Value: "x"}}},
			"1~ x\n",
		},
		{
			"map",
			Map{Elements: map[string]Frame{"k": Integer{Value: 1}, "j": Null{}}},
			"1# \"j\" => (nil)\n2# \"k\" => (integer) 1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.frame))
		})
	}
}

func TestFormatAlignsIndexes(t *testing.T) {
	elements := make([]Frame, 10)
	for i := range elements {
		elements[i] = Integer{Value: int64(i)}
	}
	out := Format(Array{Elements: elements})
	assert.Contains(t, out, " 1) (integer) 0\n")
	assert.Contains(t, out, "10) (integer) 9\n")
}

func TestFormatRaw(t *testing.T) {
	assert.Equal(t, "hello\n", FormatRaw(BlobString{Value: "hello"}))
	assert.Equal(t, "7\n", FormatRaw(Integer{Value: 7}))
	assert.Equal(t, "\n", FormatRaw(Null{}))
	assert.Equal(t, "ERR oops\n", FormatRaw(Error{Message: "ERR oops"}))
	assert.Equal(t, "a\n2\n", FormatRaw(Array{Elements: []Frame{BlobString{Value: "a"}, Integer{Value: 2}}}))
	assert.Equal(t, "k\nv\n", FormatRaw(Map{Elements: map[string]Frame{"k": BlobString{Value: "v"}}}))
}

package resp

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader hands out its data size bytes at a time.
type chunkReader struct {
	data []byte
	size int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.size
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	n = copy(p[:n], r.data)
	r.data = r.data[n:]
	return n, nil
}

func drain(t *testing.T, s *Stream) []Frame {
	t.Helper()
	var out []Frame
	for {
		f, ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, f)
	}
}

func TestStreamChunkedInput(t *testing.T) {
	frames := sampleFrames()
	var wire []byte
	for _, f := range frames {
		wire = f.AppendTo(wire)
	}

	for _, size := range []int{1, 2, 3, 7, 64, len(wire)} {
		s := NewStream()
		r := &chunkReader{data: wire, size: size}
		var got []Frame
		for {
			_, err := s.Fill(r)
			got = append(got, drain(t, s)...)
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
		}
		assert.Equal(t, 0, s.Buffered(), "chunk size %d", size)
		if diff := cmp.Diff(frames, got, equateEmpty); diff != "" {
			t.Errorf("chunk size %d (-want +got):\n%s", size, diff)
		}
	}
}

func TestStreamWaitsForMore(t *testing.T) {
	s := NewStream()
	s.Feed([]byte("*3\r\n$3\r\nSET\r\n$3\r\nfoo"))

	f, ok, err := s.Next()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, f)
	assert.Equal(t, 20, s.Buffered())

	s.Feed([]byte("\r\n$5\r\nhello\r\n"))
	f, ok, err = s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Command("SET", "foo", "hello"), f)
	assert.Equal(t, 0, s.Buffered())
}

func TestStreamInvalidFrame(t *testing.T) {
	s := NewStream()
	s.Feed([]byte("!oops\r\n"))

	_, ok, err := s.Next()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidFrameType)
	assert.Equal(t, 7, s.Buffered())

	s.Reset()
	assert.Equal(t, 0, s.Buffered())
}

func TestWriterOrderAndFlush(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	require.NoError(t, w.WriteFrame(SimpleString{Value: "OK"}))
	require.NoError(t, w.WriteFrame(BlobString{Value: "hello"}))
	require.NoError(t, w.WriteFrame(Null{}))
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 19, w.Buffered())

	require.NoError(t, w.Flush())
	assert.Equal(t, "+OK\r\n$5\r\nhello\r\n_\r\n", out.String())
	assert.Equal(t, 0, w.Buffered())
}

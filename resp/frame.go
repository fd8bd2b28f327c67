package resp

import (
	"bytes"
	"fmt"
)

// Decode removes one complete frame from the front of buf. When buf does not
// yet hold a whole frame it returns ErrNotComplete and leaves buf unchanged;
// the same holds for any other error.
func Decode(buf *bytes.Buffer) (Frame, error) {
	f, n, err := decodeFrame(buf.Bytes(), 0)
	if err != nil {
		return nil, err
	}
	buf.Next(n)
	return f, nil
}

// DecodeBytes decodes the frame at the front of b and returns it with the
// number of bytes it occupied.
func DecodeBytes(b []byte) (Frame, int, error) {
	return decodeFrame(b, 0)
}

// Encode returns the wire form of f.
func Encode(f Frame) []byte {
	return f.AppendTo(nil)
}

func decodeFrame(b []byte, depth int) (Frame, int, error) {
	if len(b) == 0 {
		return nil, 0, ErrNotComplete
	}
	switch b[0] {
	case TypeSimple:
		return wrap(decodeSimpleString(b))
	case TypeError:
		return wrap(decodeError(b))
	case TypeInteger:
		return wrap(decodeInteger(b))
	case TypeDouble:
		return wrap(decodeDouble(b))
	case TypeBoolean:
		return wrap(decodeBoolean(b))
	case TypeNull:
		return wrap(decodeNull(b))
	case TypeBlob:
		switch err := matchFixed(b, nullBlobLiteral); err {
		case nil:
			return wrap(decodeNullBlobString(b))
		case ErrNotComplete:
			return nil, 0, err
		}
		return wrap(decodeBlobString(b))
	case TypeArray:
		switch err := matchFixed(b, nullArrLiteral); err {
		case nil:
			return wrap(decodeNullArray(b))
		case ErrNotComplete:
			return nil, 0, err
		}
		return wrap(decodeArray(b, depth))
	case TypeMap:
		return wrap(decodeMap(b, depth))
	case TypeSet:
		return wrap(decodeSet(b, depth))
	}
	return nil, 0, fmt.Errorf("%w: %q", ErrInvalidFrameType, b[0])
}

func wrap[F Frame](f F, n int, err error) (Frame, int, error) {
	if err != nil {
		return nil, 0, err
	}
	return f, n, nil
}

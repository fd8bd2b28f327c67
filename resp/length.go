package resp

import (
	"bytes"
	"fmt"
	"strconv"
)

var crlf = []byte(CRLF)

// findCRLF returns the index of the nth CRLF at or after from. A terminator
// that is not buffered yet is ErrNotComplete.
func findCRLF(b []byte, from, nth int) (int, error) {
	for i := from; i <= len(b); {
		j := bytes.Index(b[i:], crlf)
		if j < 0 {
			break
		}
		if nth--; nth <= 0 {
			return i + j, nil
		}
		i += j + crlfLen
	}
	return 0, ErrNotComplete
}

// lineEnd checks the marker and returns the index of the CR ending the first
// line. The line text is b[1:end] and the frame occupies b[:end+2].
func lineEnd(b []byte, marker byte) (int, error) {
	if len(b) == 0 {
		return 0, ErrNotComplete
	}
	if b[0] != marker {
		return 0, invalidType(marker, b[0])
	}
	return findCRLF(b, 1, 1)
}

// matchFixed reports whether b starts with lit. A strict prefix of lit is
// ErrNotComplete, anything else is ErrInvalidFrame.
func matchFixed(b []byte, lit string) error {
	n := len(lit)
	if len(b) < n {
		if string(b) == lit[:len(b)] {
			return ErrNotComplete
		}
		return invalidf("want %q", lit)
	}
	if string(b[:n]) != lit {
		return invalidf("want %q", lit)
	}
	return nil
}

// parseLength parses the declared length or element count following marker.
// It returns the index of the header's CR and the parsed value.
func parseLength(b []byte, marker byte, max int) (int, int, error) {
	end, err := lineEnd(b, marker)
	if err != nil {
		return 0, 0, err
	}
	text := string(b[1:end])
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, 0, &ParseError{Kind: "length", Input: text, Err: err}
	}
	if n < 0 || n > max {
		return 0, 0, fmt.Errorf("%w: %c%d", ErrInvalidFrameLength, marker, n)
	}
	return end, n, nil
}

// blobLength is the total size of a bulk string whose header ends at end and
// declares n payload bytes.
func blobLength(b []byte, end, n int) (int, error) {
	total := end + crlfLen + n + crlfLen
	if len(b) < total {
		return 0, ErrNotComplete
	}
	return total, nil
}

// compositeLength is the total size of a composite whose header ends at end
// followed by children frames, summing each child's predicted size.
func compositeLength(b []byte, end, children, depth int) (int, error) {
	if depth >= MaxDepth {
		return 0, invalidf("nesting deeper than %d", MaxDepth)
	}
	off := end + crlfLen
	for i := 0; i < children; i++ {
		if off >= len(b) {
			return 0, ErrNotComplete
		}
		n, err := expectLength(b[off:], depth+1)
		if err != nil {
			return 0, err
		}
		off += n
	}
	if off > len(b) {
		return 0, ErrNotComplete
	}
	return off, nil
}

// ExpectLength returns the total wire size of the frame at the front of b
// without decoding it, or ErrNotComplete when b does not hold all of it yet.
func ExpectLength(b []byte) (int, error) {
	return expectLength(b, 0)
}

func expectLength(b []byte, depth int) (int, error) {
	if len(b) == 0 {
		return 0, ErrNotComplete
	}
	switch b[0] {
	case TypeSimple, TypeError, TypeInteger, TypeDouble, TypeBoolean:
		end, err := findCRLF(b, 1, 1)
		if err != nil {
			return 0, err
		}
		return end + crlfLen, nil
	case TypeNull:
		if err := matchFixed(b, nullLiteral); err != nil {
			return 0, err
		}
		return len(nullLiteral), nil
	case TypeBlob:
		switch err := matchFixed(b, nullBlobLiteral); err {
		case nil:
			return len(nullBlobLiteral), nil
		case ErrNotComplete:
			return 0, err
		}
		end, n, err := parseLength(b, TypeBlob, MaxBulkLen)
		if err != nil {
			return 0, err
		}
		return blobLength(b, end, n)
	case TypeArray:
		switch err := matchFixed(b, nullArrLiteral); err {
		case nil:
			return len(nullArrLiteral), nil
		case ErrNotComplete:
			return 0, err
		}
		end, n, err := parseLength(b, TypeArray, MaxMultiBulkLen)
		if err != nil {
			return 0, err
		}
		return compositeLength(b, end, n, depth)
	case TypeSet:
		end, n, err := parseLength(b, TypeSet, MaxMultiBulkLen)
		if err != nil {
			return 0, err
		}
		return compositeLength(b, end, n, depth)
	case TypeMap:
		end, n, err := parseLength(b, TypeMap, MaxMultiBulkLen)
		if err != nil {
			return 0, err
		}
		return compositeLength(b, end, 2*n, depth)
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFrameType, b[0])
}

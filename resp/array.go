package resp

import "strconv"

// appendHeader writes <marker><count>\r\n.
func appendHeader(dst []byte, marker byte, count int) []byte {
	dst = append(dst, marker)
	dst = strconv.AppendInt(dst, int64(count), 10)
	return append(dst, CRLF...)
}

func (a Array) AppendTo(dst []byte) []byte {
	dst = appendHeader(dst, TypeArray, len(a.Elements))
	for _, e := range a.Elements {
		dst = e.AppendTo(dst)
	}
	return dst
}

func (NullArray) AppendTo(dst []byte) []byte {
	return append(dst, nullArrLiteral...)
}

func decodeArray(b []byte, depth int) (Array, int, error) {
	elements, n, err := decodeAggregate(b, TypeArray, 1, depth)
	if err != nil {
		return Array{}, 0, err
	}
	return Array{Elements: elements}, n, nil
}

func decodeNullArray(b []byte) (NullArray, int, error) {
	if err := matchFixed(b, nullArrLiteral); err != nil {
		return NullArray{}, 0, err
	}
	return NullArray{}, len(nullArrLiteral), nil
}

// decodeAggregate decodes the children of an array, set or map (per is 2 for
// maps). The whole composite is sized first: nothing is decoded or allocated
// until every declared child is known to be buffered, and the children are
// then decoded from that confirmed span only.
func decodeAggregate(b []byte, marker byte, per, depth int) ([]Frame, int, error) {
	end, count, err := parseLength(b, marker, MaxMultiBulkLen)
	if err != nil {
		return nil, 0, err
	}
	children := count * per
	total, err := compositeLength(b, end, children, depth)
	if err != nil {
		return nil, 0, err
	}
	if children == 0 {
		return nil, total, nil
	}

	frames := make([]Frame, 0, children)
	span := b[:total]
	off := end + crlfLen
	for i := 0; i < children; i++ {
		f, n, err := decodeFrame(span[off:], depth+1)
		if err != nil {
			return nil, 0, err
		}
		frames = append(frames, f)
		off += n
	}
	return frames, total, nil
}

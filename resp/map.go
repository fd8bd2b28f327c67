package resp

import "sort"

// Maps are %<count>\r\n followed by count key/value pairs. Keys are written
// as simple strings, or as bulk strings when the key text holds CR or LF.
func (m Map) AppendTo(dst []byte) []byte {
	dst = appendHeader(dst, TypeMap, len(m.Elements))
	keys := make([]string, 0, len(m.Elements))
	for k := range m.Elements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if isLineSafe(k) {
			dst = SimpleString{Value: k}.AppendTo(dst)
		} else {
			dst = BlobString{Value: k}.AppendTo(dst)
		}
		dst = m.Elements[k].AppendTo(dst)
	}
	return dst
}

// decodeMap keeps the last value seen for a repeated key.
func decodeMap(b []byte, depth int) (Map, int, error) {
	frames, n, err := decodeAggregate(b, TypeMap, 2, depth)
	if err != nil {
		return Map{}, 0, err
	}
	if len(frames) == 0 {
		return Map{}, n, nil
	}
	elements := make(map[string]Frame, len(frames)/2)
	for i := 0; i < len(frames); i += 2 {
		var key string
		switch k := frames[i].(type) {
		case SimpleString:
			key = k.Value
		case BlobString:
			key = k.Value
		default:
			return Map{}, 0, invalidf("map key must be a string, got %s", TypeName(k))
		}
		elements[key] = frames[i+1]
	}
	return Map{Elements: elements}, n, nil
}

package resp

// Sets are ~<count>\r\n followed by count elements, same as arrays.
func (s Set) AppendTo(dst []byte) []byte {
	dst = appendHeader(dst, TypeSet, len(s.Elements))
	for _, e := range s.Elements {
		dst = e.AppendTo(dst)
	}
	return dst
}

func decodeSet(b []byte, depth int) (Set, int, error) {
	elements, n, err := decodeAggregate(b, TypeSet, 1, depth)
	if err != nil {
		return Set{}, 0, err
	}
	return Set{Elements: elements}, n, nil
}

package resp

func (b Boolean) AppendTo(dst []byte) []byte {
	if b.Value {
		return append(dst, trueLiteral...)
	}
	return append(dst, falseLiteral...)
}

func decodeBoolean(b []byte) (Boolean, int, error) {
	end, err := lineEnd(b, TypeBoolean)
	if err != nil {
		return Boolean{}, 0, err
	}
	if end != 2 {
		return Boolean{}, 0, invalidf("boolean %q", b[1:end])
	}
	switch b[1] {
	case 't':
		return Boolean{Value: true}, end + crlfLen, nil
	case 'f':
		return Boolean{Value: false}, end + crlfLen, nil
	}
	return Boolean{}, 0, invalidf("boolean %q", b[1:end])
}

func (Null) AppendTo(dst []byte) []byte {
	return append(dst, nullLiteral...)
}

func decodeNull(b []byte) (Null, int, error) {
	if err := matchFixed(b, nullLiteral); err != nil {
		return Null{}, 0, err
	}
	return Null{}, len(nullLiteral), nil
}

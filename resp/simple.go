package resp

// Simple strings and errors share the line form <marker><text>\r\n. The text
// must not contain CR or LF.

func (s SimpleString) AppendTo(dst []byte) []byte {
	dst = append(dst, TypeSimple)
	dst = append(dst, s.Value...)
	return append(dst, CRLF...)
}

func (e Error) AppendTo(dst []byte) []byte {
	dst = append(dst, TypeError)
	dst = append(dst, e.Message...)
	return append(dst, CRLF...)
}

func decodeSimpleString(b []byte) (SimpleString, int, error) {
	end, err := lineEnd(b, TypeSimple)
	if err != nil {
		return SimpleString{}, 0, err
	}
	return SimpleString{Value: string(b[1:end])}, end + crlfLen, nil
}

func decodeError(b []byte) (Error, int, error) {
	end, err := lineEnd(b, TypeError)
	if err != nil {
		return Error{}, 0, err
	}
	return Error{Message: string(b[1:end])}, end + crlfLen, nil
}

package resp

import "strconv"

// Bulk strings are $<length>\r\n<data>\r\n and may carry any byte, CRLF
// included, inside data.
func (s BlobString) AppendTo(dst []byte) []byte {
	dst = append(dst, TypeBlob)
	dst = strconv.AppendInt(dst, int64(len(s.Value)), 10)
	dst = append(dst, CRLF...)
	dst = append(dst, s.Value...)
	return append(dst, CRLF...)
}

func (NullBlobString) AppendTo(dst []byte) []byte {
	return append(dst, nullBlobLiteral...)
}

func decodeBlobString(b []byte) (BlobString, int, error) {
	end, n, err := parseLength(b, TypeBlob, MaxBulkLen)
	if err != nil {
		return BlobString{}, 0, err
	}
	total, err := blobLength(b, end, n)
	if err != nil {
		return BlobString{}, 0, err
	}
	start := end + crlfLen
	if string(b[start+n:total]) != CRLF {
		return BlobString{}, 0, invalidf("bulk string of %d bytes not terminated by CRLF", n)
	}
	return BlobString{Value: string(b[start : start+n])}, total, nil
}

func decodeNullBlobString(b []byte) (NullBlobString, int, error) {
	if err := matchFixed(b, nullBlobLiteral); err != nil {
		return NullBlobString{}, 0, err
	}
	return NullBlobString{}, len(nullBlobLiteral), nil
}

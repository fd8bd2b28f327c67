package resp

import (
	"math"
	"strconv"
)

// Integers are :[<+|->]<value>\r\n. The encoder always writes the sign.
func (i Integer) AppendTo(dst []byte) []byte {
	dst = append(dst, TypeInteger)
	if i.Value >= 0 {
		dst = append(dst, '+')
	}
	dst = strconv.AppendInt(dst, i.Value, 10)
	return append(dst, CRLF...)
}

func decodeInteger(b []byte) (Integer, int, error) {
	end, err := lineEnd(b, TypeInteger)
	if err != nil {
		return Integer{}, 0, err
	}
	text := string(b[1:end])
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Integer{}, 0, &ParseError{Kind: "integer", Input: text, Err: err}
	}
	return Integer{Value: v}, end + crlfLen, nil
}

// Doubles are written in fixed notation with an explicit sign, switching to
// scientific notation for magnitudes >= 1e8 or < 1e-8. Zero stays fixed.
// Infinities and NaN use the RESP3 spellings inf, -inf and nan.
func (d Double) AppendTo(dst []byte) []byte {
	dst = append(dst, TypeDouble)
	v := d.Value
	switch {
	case math.IsInf(v, 1):
		dst = append(dst, "inf"...)
	case math.IsInf(v, -1):
		dst = append(dst, "-inf"...)
	case math.IsNaN(v):
		dst = append(dst, "nan"...)
	default:
		if !math.Signbit(v) {
			dst = append(dst, '+')
		}
		if abs := math.Abs(v); abs != 0 && (abs >= 1e8 || abs < 1e-8) {
			dst = strconv.AppendFloat(dst, v, 'e', -1, 64)
		} else {
			dst = strconv.AppendFloat(dst, v, 'f', -1, 64)
		}
	}
	return append(dst, CRLF...)
}

func decodeDouble(b []byte) (Double, int, error) {
	end, err := lineEnd(b, TypeDouble)
	if err != nil {
		return Double{}, 0, err
	}
	text := string(b[1:end])
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Double{}, 0, &ParseError{Kind: "double", Input: text, Err: err}
	}
	return Double{Value: v}, end + crlfLen, nil
}

package resp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Format renders f the way an interactive redis-cli session prints a reply:
// quoted strings, typed scalars and numbered nested lists. The result ends
// with a newline.
func Format(f Frame) string {
	var sb strings.Builder
	formatTTY(&sb, f, "")
	return sb.String()
}

func formatTTY(sb *strings.Builder, f Frame, prefix string) {
	switch n := f.(type) {
	case SimpleString:
		sb.WriteString(n.Value)
	case Error:
		sb.WriteString("(error) ")
		sb.WriteString(n.Message)
	case Integer:
		fmt.Fprintf(sb, "(integer) %d", n.Value)
	case Double:
		sb.WriteString("(double) ")
		sb.WriteString(formatDouble(n.Value))
	case Boolean:
		if n.Value {
			sb.WriteString("(true)")
		} else {
			sb.WriteString("(false)")
		}
	case Null, NullBlobString, NullArray:
		sb.WriteString("(nil)")
	case BlobString:
		sb.WriteString(quote(n.Value))
	case Array:
		formatList(sb, n.Elements, ')', "(empty array)", prefix)
		return
	case Set:
		formatList(sb, n.Elements, '~', "(empty set)", prefix)
		return
	case Map:
		formatMap(sb, n, prefix)
		return
	default:
		sb.WriteString("(unknown reply)")
	}
	sb.WriteByte('\n')
}

// formatList numbers elements from 1, right aligning the indexes. Nested
// elements are indented past their parent's index column.
func formatList(sb *strings.Builder, elements []Frame, sep byte, empty, prefix string) {
	if len(elements) == 0 {
		sb.WriteString(empty)
		sb.WriteByte('\n')
		return
	}
	width := len(strconv.Itoa(len(elements)))
	pad := prefix + strings.Repeat(" ", width+2)
	for i, e := range elements {
		if i > 0 {
			sb.WriteString(prefix)
		}
		fmt.Fprintf(sb, "%*d%c ", width, i+1, sep)
		formatTTY(sb, e, pad)
	}
}

func formatMap(sb *strings.Builder, m Map, prefix string) {
	if len(m.Elements) == 0 {
		sb.WriteString("(empty hash)\n")
		return
	}
	keys := sortedKeys(m)
	width := len(strconv.Itoa(len(keys)))
	pad := prefix + strings.Repeat(" ", width+2)
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(prefix)
		}
		fmt.Fprintf(sb, "%*d# %s => ", width, i+1, quote(k))
		formatTTY(sb, m.Elements[k], pad)
	}
}

// FormatRaw renders f the way redis-cli prints replies when its output is
// not a terminal: bare values, one per line, without type annotations.
func FormatRaw(f Frame) string {
	var sb strings.Builder
	formatRaw(&sb, f)
	sb.WriteByte('\n')
	return sb.String()
}

func formatRaw(sb *strings.Builder, f Frame) {
	switch n := f.(type) {
	case SimpleString:
		sb.WriteString(n.Value)
	case Error:
		sb.WriteString(n.Message)
	case Integer:
		sb.WriteString(strconv.FormatInt(n.Value, 10))
	case Double:
		sb.WriteString(formatDouble(n.Value))
	case Boolean:
		if n.Value {
			sb.WriteString("(true)")
		} else {
			sb.WriteString("(false)")
		}
	case Null, NullBlobString, NullArray:
	case BlobString:
		sb.WriteString(n.Value)
	case Array:
		rawList(sb, n.Elements)
	case Set:
		rawList(sb, n.Elements)
	case Map:
		for i, k := range sortedKeys(n) {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(k)
			sb.WriteByte('\n')
			formatRaw(sb, n.Elements[k])
		}
	}
}

func rawList(sb *strings.Builder, elements []Frame) {
	for i, e := range elements {
		if i > 0 {
			sb.WriteByte('\n')
		}
		formatRaw(sb, e)
	}
}

func sortedKeys(m Map) []string {
	keys := make([]string, 0, len(m.Elements))
	for k := range m.Elements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatDouble(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// quote wraps s in double quotes, escaping quotes, backslashes, the usual
// control characters and any other non-printable byte as \xHH.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '"':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&sb, `\x%02x`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

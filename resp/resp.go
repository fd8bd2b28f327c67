package resp

import "strings"

// RESP3 is a RESP3 protocol parser and serializer.
// https://github.com/redis/redis-specifications/blob/master/protocol/RESP3.md

const CRLF string = "\r\n"

const crlfLen = len(CRLF)

// Types equivalent to RESP version 2
const (
	TypeArray   byte = '*'
	TypeBlob    byte = '$'
	TypeSimple  byte = '+'
	TypeError   byte = '-'
	TypeInteger byte = ':'
)

// Types introduced by RESP3
const (
	TypeNull    byte = '_'
	TypeDouble  byte = ','
	TypeBoolean byte = '#'
	TypeMap     byte = '%'
	TypeSet     byte = '~'
)

const (
	ProtoIOLen      = 1024 * 16         // bytes read from the transport per call
	MaxBulkLen      = 512 * 1024 * 1024 // proto-max-bulk-len
	MaxMultiBulkLen = 1024 * 1024       // max elements declared by one composite
	MaxDepth        = 512               // max composite nesting
)

// Fixed literals for the sentinel and unit frames.
const (
	nullLiteral     = "_\r\n"
	nullBlobLiteral = "$-1\r\n"
	nullArrLiteral  = "*-1\r\n"
	trueLiteral     = "#t\r\n"
	falseLiteral    = "#f\r\n"
)

// Frame is one complete RESP value. The set of implementations is closed;
// every variant knows how to append its own wire form.
type Frame interface {
	// Marker returns the leading byte of the frame's wire form.
	Marker() byte
	// AppendTo appends the wire form of the frame to dst.
	AppendTo(dst []byte) []byte

	frame()
}

type SimpleString struct {
	Value string
}

type Error struct {
	Message string
}

type Integer struct {
	Value int64
}

type Double struct {
	Value float64
}

type Boolean struct {
	Value bool
}

type Null struct {
}

// BlobString is the binary-safe bulk string. Value may hold any byte.
type BlobString struct {
	Value string
}

// NullBlobString is the RESP2 null bulk string `$-1\r\n`.
type NullBlobString struct {
}

// Array represents an array in RESP. Elements is nil for an empty array.
type Array struct {
	Elements []Frame
}

// NullArray is the RESP2 null array `*-1\r\n`.
type NullArray struct {
}

// Map is keyed by the key's text. Entries are encoded in ascending key
// order; arrival order is not kept.
type Map struct {
	Elements map[string]Frame
}

// Set keeps elements in arrival order and does not deduplicate them, so two
// sets compare equal only when their elements match position by position.
type Set struct {
	Elements []Frame
}

func (SimpleString) frame()   {}
func (Error) frame()          {}
func (Integer) frame()        {}
func (Double) frame()         {}
func (Boolean) frame()        {}
func (Null) frame()           {}
func (BlobString) frame()     {}
func (NullBlobString) frame() {}
func (Array) frame()          {}
func (NullArray) frame()      {}
func (Map) frame()            {}
func (Set) frame()            {}

func (SimpleString) Marker() byte   { return TypeSimple }
func (Error) Marker() byte          { return TypeError }
func (Integer) Marker() byte        { return TypeInteger }
func (Double) Marker() byte         { return TypeDouble }
func (Boolean) Marker() byte        { return TypeBoolean }
func (Null) Marker() byte           { return TypeNull }
func (BlobString) Marker() byte     { return TypeBlob }
func (NullBlobString) Marker() byte { return TypeBlob }
func (Array) Marker() byte          { return TypeArray }
func (NullArray) Marker() byte      { return TypeArray }
func (Map) Marker() byte            { return TypeMap }
func (Set) Marker() byte            { return TypeSet }

// NewSimpleString returns a text line frame, rejecting text that would break
// the line framing.
func NewSimpleString(s string) (SimpleString, error) {
	if !isLineSafe(s) {
		return SimpleString{}, invalidf("simple string contains CR or LF: %q", s)
	}
	return SimpleString{Value: s}, nil
}

// NewError returns an error line frame, rejecting text that would break the
// line framing.
func NewError(msg string) (Error, error) {
	if !isLineSafe(msg) {
		return Error{}, invalidf("error contains CR or LF: %q", msg)
	}
	return Error{Message: msg}, nil
}

func isLineSafe(s string) bool {
	return !strings.ContainsAny(s, "\r\n")
}

// Command builds the array of bulk strings a client sends for a command.
func Command(command string, arguments ...string) Array {
	elements := make([]Frame, 0, len(arguments)+1)
	elements = append(elements, BlobString{Value: command})
	for _, arg := range arguments {
		elements = append(elements, BlobString{Value: arg})
	}
	return Array{Elements: elements}
}

// TypeName returns a short human name for the frame's kind.
func TypeName(f Frame) string {
	switch f.(type) {
	case SimpleString:
		return "simple string"
	case Error:
		return "error"
	case Integer:
		return "integer"
	case Double:
		return "double"
	case Boolean:
		return "boolean"
	case Null:
		return "null"
	case BlobString:
		return "bulk string"
	case NullBlobString:
		return "null bulk string"
	case Array:
		return "array"
	case NullArray:
		return "null array"
	case Map:
		return "map"
	case Set:
		return "set"
	case nil:
		return "nil"
	}
	return "unknown"
}

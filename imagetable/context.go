package imagetable

import "fmt"

// ErrorCode classifies a diagnostic reported while reading an object.
type ErrorCode uint32

// Diagnostic codes shared by every reader of object data.
const (
	ErrOK ErrorCode = iota
	ErrUnknown
	ErrBadEncoding
	ErrInvalidProperty
	ErrBadStringTable
	ErrBadImageTable
	ErrUnexpectedEOF
)

var errorCodeNames = map[ErrorCode]string{
	ErrOK:              "ok",
	ErrUnknown:         "unknown",
	ErrBadEncoding:     "bad encoding",
	ErrInvalidProperty: "invalid property",
	ErrBadStringTable:  "bad string table",
	ErrBadImageTable:   "bad image table",
	ErrUnexpectedEOF:   "unexpected eof",
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", uint32(c))
}

// ReadContext receives the diagnostics raised while reading an object. It is
// only ever told about problems, it is never asked anything.
type ReadContext interface {
	LogWarning(code ErrorCode, text string)
	LogError(code ErrorCode, text string)
}

package core

import "fmt"

// CorruptDocumentError reports input bytes that cannot be parsed as the
// expected format. The operation is not recoverable; the caller must supply
// a different file.
type CorruptDocumentError struct {
	Format string
	Err    error
}

func (e *CorruptDocumentError) Error() string {
	return fmt.Sprintf("corrupt %s document: %v", e.Format, e.Err)
}

func (e *CorruptDocumentError) Unwrap() error { return e.Err }

// InvalidDateError reports a reserved date field whose text value cannot be
// parsed as a date. It is fatal to the whole transfer: no partial write is
// performed and no output bytes are produced.
type InvalidDateError struct {
	Key   string
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date value for %s: %q", e.Key, e.Value)
}

// CodecError wraps a lower-level failure from a codec's parse, setter, or
// serialize call. The engine performs no recovery; the underlying error is
// reported verbatim.
type CodecError struct {
	Op  string // "parse", "set Title", "serialize", ...
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("codec %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

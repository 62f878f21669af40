// Package pdfform inspects and fills AcroForm fields in PDF documents.
//
// Filling appends an incremental update: the original bytes are untouched and
// updated field dictionaries, a new cross-reference section and a trailer are
// appended, which keeps output deterministic for identical inputs.
package pdfform

import (
	"errors"
	"fmt"
)

// Field flag bits (PDF 1.7, table 8.70).
const flagReadOnly = 1

// Field types.
const (
	FieldTypeText      = "Tx"
	FieldTypeButton    = "Btn"
	FieldTypeChoice    = "Ch"
	FieldTypeSignature = "Sig"
)

// ErrMalformed indicates the input bytes are not a readable PDF.
var ErrMalformed = errors.New("malformed pdf")

// ErrNoFields indicates the document declares no fillable form fields.
var ErrNoFields = errors.New("no form fields detected")

// UnencodableValueError reports a field value that cannot be written as PDF
// text.
type UnencodableValueError struct {
	Field string
}

func (e *UnencodableValueError) Error() string {
	return fmt.Sprintf("value for field %q cannot be encoded as text", e.Field)
}

// Field describes one fillable AcroForm field.
type Field struct {
	// Name is the decoded partial field name (/T).
	Name string
	// RawName is the name token exactly as it appears in the PDF, e.g. a
	// <FEFF...> hex string for UTF-16BE-encoded names.
	RawName string
	// Type is the field type without the leading slash: Tx, Btn, Ch, Sig.
	Type string
	// Value is the decoded current value (/V), empty when unset.
	Value string
	// Flags is the /Ff bit field.
	Flags int64

	objNum int
	gen    int
}

// ReadOnly reports whether the field carries the read-only flag.
func (f Field) ReadOnly() bool {
	return f.Flags&flagReadOnly != 0
}

// DecodeFieldName decodes a field-name token. Hex-string tokens prefixed with
// the UTF-16BE byte-order mark (<FEFF...>) decode to their text form; all
// other tokens pass through unchanged.
func DecodeFieldName(tok string) string {
	if len(tok) >= 2 && (tok[0] == '<' || tok[0] == '(') {
		return decodeStringToken(tok)
	}
	return tok
}

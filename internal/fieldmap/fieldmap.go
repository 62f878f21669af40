// Package fieldmap translates business field names supplied by clients into
// the PDF's internal AcroForm field identifiers.
package fieldmap

import (
	"errors"

	"formfill-backend/internal/pdfform"
)

// ErrNoFields indicates the template's form declares no fillable fields, so
// no submitted value has anywhere to go. This is a template configuration
// problem, not a caller error.
var ErrNoFields = errors.New("template declares no form fields")

// tables maps template types to their fixed business-name → PDF-name table.
// Template types without a table pass business names through unchanged.
var tables = map[string]map[string]string{
	"w2": w2FieldMap,
}

// Resolve produces the PDF-field-name → value mapping for a fill.
//
// When the template type has a known table, business names translate through
// it; unknown business names are dropped silently so partial or evolving
// client payloads never fail a request. Values keyed directly by a PDF field
// name are honored in either mode. Field names encoded as UTF-16BE hex
// tokens are compared by their decoded text.
func Resolve(templateType string, data map[string]string, fields []pdfform.Field) (map[string]string, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	table := tables[templateType]
	out := make(map[string]string)

	for _, f := range fields {
		name := f.Name // already decoded by the inspector

		if table != nil {
			if business, ok := businessNameFor(table, name); ok {
				if v, present := data[business]; present {
					out[name] = v
					continue
				}
			}
		}
		if v, present := data[name]; present {
			out[name] = v
		}
	}

	return out, nil
}

// BusinessName reports the business name a PDF field answers to for the
// given template type, when a table declares one.
func BusinessName(templateType, pdfName string) (string, bool) {
	table := tables[templateType]
	if table == nil {
		return "", false
	}
	return businessNameFor(table, pdfName)
}

func businessNameFor(table map[string]string, pdfName string) (string, bool) {
	for business, mapped := range table {
		if mapped == pdfName {
			return business, true
		}
	}
	return "", false
}

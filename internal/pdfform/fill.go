package pdfform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Fill sets the given values on a PDF's form fields and flattens the form.
// Values are keyed by decoded field name; declared fields absent from values
// keep their defaults. Flattening marks every field read-only and asks
// viewers to regenerate appearances, so the document can no longer be edited
// through a standard viewer.
//
// Output is produced as an incremental update, so identical (data, values)
// inputs yield identical bytes.
func Fill(data []byte, values map[string]string) ([]byte, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	fields := collectFields(doc)
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	var updates []rawObject
	for _, f := range fields {
		obj := doc.objects[doc.byNum[f.objNum]]
		body := obj.body

		if v, ok := values[f.Name]; ok {
			tok, err := encodeValue(f, v)
			if err != nil {
				return nil, err
			}
			body, err = setDictEntry(body, "/V", tok)
			if err != nil {
				return nil, err
			}
		}

		body, err = setDictEntry(body, "/Ff", strconv.FormatInt(f.Flags|flagReadOnly, 10))
		if err != nil {
			return nil, err
		}

		updates = append(updates, rawObject{num: obj.num, gen: obj.gen, body: body})
	}

	if upd, ok, err := needAppearancesUpdate(doc); err != nil {
		return nil, err
	} else if ok {
		updates = append(updates, upd)
	}

	sort.Slice(updates, func(i, j int) bool { return updates[i].num < updates[j].num })

	return appendIncrementalUpdate(data, doc, updates), nil
}

// needAppearancesUpdate rewrites the AcroForm dictionary with
// /NeedAppearances true so viewers render the new values.
func needAppearancesUpdate(doc *document) (rawObject, bool, error) {
	idx, ok := doc.byNum[doc.rootNum]
	if !ok {
		return rawObject{}, false, nil
	}
	catalog := doc.objects[idx]

	tok, ok := dictValue(catalog.body, "/AcroForm")
	if !ok {
		return rawObject{}, false, nil
	}

	if strings.HasSuffix(tok, "R") {
		parts := strings.Fields(tok)
		if len(parts) != 3 {
			return rawObject{}, false, nil
		}
		num, err := strconv.Atoi(parts[0])
		if err != nil {
			return rawObject{}, false, nil
		}
		i, ok := doc.byNum[num]
		if !ok {
			return rawObject{}, false, nil
		}
		form := doc.objects[i]
		body, err := setDictEntry(form.body, "/NeedAppearances", "true")
		if err != nil {
			return rawObject{}, false, err
		}
		return rawObject{num: form.num, gen: form.gen, body: body}, true, nil
	}

	// Inline AcroForm dictionary: rewrite the catalog itself.
	inner, err := setDictEntry(tok, "/NeedAppearances", "true")
	if err != nil {
		return rawObject{}, false, err
	}
	body, err := setDictEntry(catalog.body, "/AcroForm", inner)
	if err != nil {
		return rawObject{}, false, err
	}
	return rawObject{num: catalog.num, gen: catalog.gen, body: body}, true, nil
}

func appendIncrementalUpdate(data []byte, doc *document, updates []rawObject) []byte {
	var out strings.Builder
	out.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		out.WriteByte('\n')
	}

	offsets := make(map[int]int64, len(updates))
	for _, u := range updates {
		offsets[u.num] = int64(out.Len())
		fmt.Fprintf(&out, "%d %d obj\n%s\nendobj\n", u.num, u.gen, strings.TrimSpace(u.body))
	}

	xrefStart := int64(out.Len())
	out.WriteString("xref\n0 1\n0000000000 65535 f \n")
	for _, u := range updates {
		fmt.Fprintf(&out, "%d 1\n%010d %05d n \n", u.num, offsets[u.num], u.gen)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root %d %d R /Prev %d >>\nstartxref\n%d\n%%%%EOF\n",
		doc.maxObjNum+1, doc.rootNum, doc.rootGen, doc.prevXref, xrefStart)

	return []byte(out.String())
}

// encodeValue renders a field value as a PDF token. Text and choice fields
// take strings; button fields (checkboxes, radio groups) take an appearance
// state name. Values holding invalid UTF-8 or NUL bytes are rejected as
// unencodable, naming the field.
func encodeValue(f Field, value string) (string, error) {
	if !utf8.ValidString(value) || strings.ContainsRune(value, 0) {
		return "", &UnencodableValueError{Field: f.Name}
	}

	if f.Type == FieldTypeButton {
		if value == "" {
			return "/Off", nil
		}
		return "/" + encodeName(value), nil
	}

	if isASCIIPrintable(value) {
		return "(" + escapeLiteral(value) + ")", nil
	}

	// UTF-16BE hex string with a byte-order mark, the same shape the
	// form's own Unicode field names use.
	u := utf16.Encode([]rune(value))
	var b strings.Builder
	b.WriteString("<FEFF")
	for _, cp := range u {
		fmt.Fprintf(&b, "%04X", cp)
	}
	b.WriteString(">")
	return b.String(), nil
}

func isASCIIPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

func escapeLiteral(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '(', ')':
			out.WriteByte('\\')
		}
		out.WriteByte(s[i])
	}
	return out.String()
}

func encodeName(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c > 0x21 && c < 0x7f && !isDelimiter(c) && c != '#' {
			out.WriteByte(c)
			continue
		}
		fmt.Fprintf(&out, "#%02X", c)
	}
	return out.String()
}

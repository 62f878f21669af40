package pdfform

import (
	"strconv"
	"strings"
)

// Inspect enumerates the fillable AcroForm fields declared in a PDF. Parent
// container nodes without a field type (/FT) are skipped, matching what a
// form-fill can actually write to.
func Inspect(data []byte) ([]Field, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	return collectFields(doc), nil
}

func collectFields(doc *document) []Field {
	// Incremental updates can redefine an object; keep the newest definition
	// of each field, in first-seen order.
	var order []int
	latest := make(map[int]Field)
	for _, obj := range doc.objects {
		f, ok := fieldFromObject(obj)
		if !ok {
			continue
		}
		if _, seen := latest[f.objNum]; !seen {
			order = append(order, f.objNum)
		}
		latest[f.objNum] = f
	}

	out := make([]Field, 0, len(order))
	for _, num := range order {
		out = append(out, latest[num])
	}
	return out
}

func fieldFromObject(obj rawObject) (Field, bool) {
	rawName, ok := dictValue(obj.body, "/T")
	if !ok {
		return Field{}, false
	}
	ftTok, ok := dictValue(obj.body, "/FT")
	if !ok || !strings.HasPrefix(ftTok, "/") {
		return Field{}, false
	}

	f := Field{
		Name:    decodeStringToken(rawName),
		RawName: rawName,
		Type:    ftTok[1:],
		objNum:  obj.num,
		gen:     obj.gen,
	}
	if vTok, ok := dictValue(obj.body, "/V"); ok {
		f.Value = decodeStringToken(vTok)
	}
	if ffTok, ok := dictValue(obj.body, "/Ff"); ok {
		if v, err := strconv.ParseInt(ffTok, 10, 64); err == nil {
			f.Flags = v
		}
	}
	return f, true
}

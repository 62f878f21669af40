package pdfform_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"formfill-backend/internal/pdfform"
)

// buildFormPDF assembles a small single-page PDF with four widget fields:
// two text fields, a text field carrying a default value, and a checkbox
// whose /T name is a UTF-16BE hex string for "c1_1[0]".
func buildFormPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R /AcroForm 8 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [4 0 R 5 0 R 6 0 R 7 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (EmployeeName) /Rect [72 700 300 720] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (GrossPay) /Rect [72 660 300 680] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (Department) /V (Engineering) /Rect [72 620 300 640] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Btn /T <FEFF00630031005F0031005B0030005D> /Rect [72 580 86 594] >>",
		"<< /Fields [4 0 R 5 0 R 6 0 R 7 0 R] >>",
	}
	return assemblePDF(objects)
}

// buildFieldlessPDF assembles a valid PDF that declares no form fields.
func buildFieldlessPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	return assemblePDF(objects)
}

func assemblePDF(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for i := range objects {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i+1])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestInspectListsDeclaredFields(t *testing.T) {
	fields, err := pdfform.Inspect(buildFormPDF())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	wantNames := []string{"EmployeeName", "GrossPay", "Department", "c1_1[0]"}
	if len(fields) != len(wantNames) {
		t.Fatalf("expected %d fields, got %d", len(wantNames), len(fields))
	}
	for i, want := range wantNames {
		if fields[i].Name != want {
			t.Errorf("field %d: expected name %q, got %q", i, want, fields[i].Name)
		}
	}
	if fields[0].Type != pdfform.FieldTypeText {
		t.Errorf("expected Tx type, got %q", fields[0].Type)
	}
	if fields[3].Type != pdfform.FieldTypeButton {
		t.Errorf("expected Btn type, got %q", fields[3].Type)
	}
	if fields[2].Value != "Engineering" {
		t.Errorf("expected default value Engineering, got %q", fields[2].Value)
	}
}

func TestFillWritesValuesAndFlattens(t *testing.T) {
	filled, err := pdfform.Fill(buildFormPDF(), map[string]string{
		"EmployeeName": "Jane Q. Public",
		"GrossPay":     "$5,250.00",
		"c1_1[0]":      "Yes",
	})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}

	fields, err := pdfform.Inspect(filled)
	if err != nil {
		t.Fatalf("Inspect filled: %v", err)
	}

	byName := make(map[string]pdfform.Field)
	for _, f := range fields {
		byName[f.Name] = f
	}

	if got := byName["EmployeeName"].Value; got != "Jane Q. Public" {
		t.Errorf("EmployeeName: expected %q, got %q", "Jane Q. Public", got)
	}
	if got := byName["GrossPay"].Value; got != "$5,250.00" {
		t.Errorf("GrossPay: expected %q, got %q", "$5,250.00", got)
	}
	if got := byName["c1_1[0]"].Value; got != "Yes" {
		t.Errorf("c1_1[0]: expected %q, got %q", "Yes", got)
	}

	// Unfilled fields keep their defaults.
	if got := byName["Department"].Value; got != "Engineering" {
		t.Errorf("Department: expected default %q, got %q", "Engineering", got)
	}

	// Flattening marks every field read-only, filled or not.
	for _, f := range fields {
		if !f.ReadOnly() {
			t.Errorf("field %q: expected read-only flag after fill", f.Name)
		}
	}
}

func TestFillPreservesOriginalBytes(t *testing.T) {
	blank := buildFormPDF()
	filled, err := pdfform.Fill(blank, map[string]string{"EmployeeName": "Jane"})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if !bytes.HasPrefix(filled, blank) {
		t.Fatal("expected filled output to start with the original bytes")
	}
}

func TestFillDeterministic(t *testing.T) {
	values := map[string]string{
		"EmployeeName": "Jane Q. Public",
		"GrossPay":     "$5,250.00",
	}
	a, err := pdfform.Fill(buildFormPDF(), values)
	if err != nil {
		t.Fatalf("first Fill: %v", err)
	}
	b, err := pdfform.Fill(buildFormPDF(), values)
	if err != nil {
		t.Fatalf("second Fill: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("expected identical inputs to produce identical output bytes")
	}
}

func TestFillRoundTripsSpecialCharacters(t *testing.T) {
	filled, err := pdfform.Fill(buildFormPDF(), map[string]string{
		"EmployeeName": "Zoë Müller",
		"GrossPay":     "a(b)\\c",
	})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}

	fields, err := pdfform.Inspect(filled)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	byName := make(map[string]pdfform.Field)
	for _, f := range fields {
		byName[f.Name] = f
	}
	if got := byName["EmployeeName"].Value; got != "Zoë Müller" {
		t.Errorf("expected %q, got %q", "Zoë Müller", got)
	}
	if got := byName["GrossPay"].Value; got != "a(b)\\c" {
		t.Errorf("expected %q, got %q", "a(b)\\c", got)
	}
}

func TestFillEmptyButtonValueTurnsOff(t *testing.T) {
	filled, err := pdfform.Fill(buildFormPDF(), map[string]string{"c1_1[0]": ""})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	fields, err := pdfform.Inspect(filled)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	for _, f := range fields {
		if f.Name == "c1_1[0]" && f.Value != "Off" {
			t.Errorf("expected Off, got %q", f.Value)
		}
	}
}

func TestFillRejectsUnencodableValue(t *testing.T) {
	_, err := pdfform.Fill(buildFormPDF(), map[string]string{"EmployeeName": "bad\x00value"})
	var unencodable *pdfform.UnencodableValueError
	if !errors.As(err, &unencodable) {
		t.Fatalf("expected UnencodableValueError, got %v", err)
	}
	if unencodable.Field != "EmployeeName" {
		t.Errorf("expected field EmployeeName, got %q", unencodable.Field)
	}

	_, err = pdfform.Fill(buildFormPDF(), map[string]string{"GrossPay": "\xff\xfe"})
	if !errors.As(err, &unencodable) {
		t.Fatalf("expected UnencodableValueError for invalid UTF-8, got %v", err)
	}
}

func TestFillMalformedInput(t *testing.T) {
	for _, input := range [][]byte{
		[]byte("not a pdf at all"),
		[]byte("%PDF-1.7\nno objects here"),
	} {
		if _, err := pdfform.Fill(input, nil); !errors.Is(err, pdfform.ErrMalformed) {
			t.Errorf("input %q: expected ErrMalformed, got %v", input, err)
		}
	}
}

func TestFillFieldlessDocument(t *testing.T) {
	if _, err := pdfform.Fill(buildFieldlessPDF(), map[string]string{"x": "y"}); !errors.Is(err, pdfform.ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}

func TestDecodeFieldName(t *testing.T) {
	if got := pdfform.DecodeFieldName("<FEFF00630031005F0031005B0030005D>"); got != "c1_1[0]" {
		t.Errorf("expected c1_1[0], got %q", got)
	}
	if got := pdfform.DecodeFieldName("plain"); got != "plain" {
		t.Errorf("expected plain, got %q", got)
	}
}

package fieldmap

import (
	"errors"
	"testing"

	"formfill-backend/internal/pdfform"
)

func textField(name string) pdfform.Field {
	return pdfform.Field{Name: name, Type: pdfform.FieldTypeText}
}

func TestResolveTranslatesBusinessNames(t *testing.T) {
	fields := []pdfform.Field{
		textField("f1_01[0]"),
		textField("f1_09[0]"),
		textField("f1_10[0]"),
	}
	data := map[string]string{
		"employee_ssn":            "123-45-6789",
		"wages_tips":              "52000.00",
		"fed_income_tax_withheld": "6100.00",
	}

	out, err := Resolve("w2", data, fields)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := map[string]string{
		"f1_01[0]": "123-45-6789",
		"f1_09[0]": "52000.00",
		"f1_10[0]": "6100.00",
	}
	if len(out) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(out))
	}
	for k, v := range want {
		if out[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, out[k])
		}
	}
}

func TestResolveDropsUnknownBusinessNames(t *testing.T) {
	fields := []pdfform.Field{textField("f1_01[0]")}
	data := map[string]string{
		"employee_ssn":    "123-45-6789",
		"no_such_field":   "ignored",
		"another_unknown": "also ignored",
	}

	out, err := Resolve("w2", data, fields)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d: %v", len(out), out)
	}
	if out["f1_01[0]"] != "123-45-6789" {
		t.Errorf("expected translated entry, got %v", out)
	}
}

func TestResolveChecksBoxByDecodedName(t *testing.T) {
	// Field names stored as UTF-16BE hex tokens compare by decoded text.
	fields := []pdfform.Field{
		{
			Name:    pdfform.DecodeFieldName("<FEFF00630031005F0031005B0030005D>"),
			RawName: "<FEFF00630031005F0031005B0030005D>",
			Type:    pdfform.FieldTypeButton,
		},
	}
	data := map[string]string{"void": "Yes"}

	out, err := Resolve("w2", data, fields)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out["c1_1[0]"] != "Yes" {
		t.Errorf("expected checkbox keyed by decoded name, got %v", out)
	}
}

func TestResolvePassthroughWithoutTable(t *testing.T) {
	fields := []pdfform.Field{
		textField("EmployeeName"),
		textField("GrossPay"),
	}
	data := map[string]string{
		"EmployeeName": "Jane Q. Public",
		"GrossPay":     "$5,250.00",
		"Unknown":      "dropped",
	}

	out, err := Resolve("paystub", data, fields)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(out), out)
	}
	if out["EmployeeName"] != "Jane Q. Public" || out["GrossPay"] != "$5,250.00" {
		t.Errorf("unexpected mapping: %v", out)
	}
}

func TestResolveNoFields(t *testing.T) {
	_, err := Resolve("w2", map[string]string{"employee_ssn": "x"}, nil)
	if !errors.Is(err, ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}

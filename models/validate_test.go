package models

import (
	"strings"
	"testing"
)

func TestValidateStructConformsInput(t *testing.T) {
	req := &CreateReportRequest{
		Location:  "  12 Oak Street  ",
		WasteType: " plastic ",
		Amount:    "2 bags",
	}
	if errs := ValidateStruct(req); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if req.Location != "12 Oak Street" || req.WasteType != "plastic" {
		t.Fatalf("expected whitespace conformed, got %+v", req)
	}
}

func TestValidateStructTranslatedErrors(t *testing.T) {
	errs := ValidateStruct(&CreateReportRequest{WasteType: "plastic"})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	var joined strings.Builder
	for _, err := range errs {
		joined.WriteString(err.Error())
	}
	for _, want := range []string{"Location is a required field", "Amount is a required field"} {
		if !strings.Contains(joined.String(), want) {
			t.Fatalf("expected %q in %q", want, joined.String())
		}
	}
}

func TestValidateStructWhitespaceOnlyField(t *testing.T) {
	// Conforming runs first, so an all-whitespace field fails required.
	errs := ValidateStruct(&CreateReportRequest{
		Location:  "   ",
		WasteType: "plastic",
		Amount:    "2 bags",
	})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "Location is a required field") {
		t.Fatalf("unexpected error: %v", errs[0])
	}
}

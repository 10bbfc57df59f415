package transport

import "testing"

func TestNormalizeAppliesDefaults(t *testing.T) {
	req := SubmitLeadRequest{
		Name:    "  Jamie Rivera ",
		Email:   " Jamie@Example.COM ",
		ZipCode: " 78701 ",
		City:    " Austin ",
		State:   "tx",
	}

	req.Normalize()

	if req.Name != "Jamie Rivera" {
		t.Fatalf("name not trimmed: %q", req.Name)
	}
	if req.Email != "jamie@example.com" {
		t.Fatalf("email not normalized: %q", req.Email)
	}
	if req.State != "TX" {
		t.Fatalf("state not upper-cased: %q", req.State)
	}
	if req.Timeline != TimelinePlanning {
		t.Fatalf("timeline default %q, want planning", req.Timeline)
	}
	if req.PropertyType != PropertySingleFamily {
		t.Fatalf("propertyType default %q, want single_family", req.PropertyType)
	}
	if req.ChargerType != ChargerUnsure {
		t.Fatalf("chargerType default %q, want unsure", req.ChargerType)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	req := SubmitLeadRequest{
		Name:         "Jamie",
		Email:        "jamie@example.com",
		ZipCode:      "78701",
		Timeline:     TimelineImmediate,
		PropertyType: PropertyCommercial,
		ChargerType:  ChargerTesla,
	}

	req.Normalize()

	if req.Timeline != TimelineImmediate || req.PropertyType != PropertyCommercial || req.ChargerType != ChargerTesla {
		t.Fatalf("explicit enums overwritten: %+v", req)
	}
}

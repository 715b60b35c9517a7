package value

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseEnums(t *testing.T) {
	if got, err := ParseProjectType(" Software-Development "); err != nil || got != ProjectTypeSoftwareDevelopment {
		t.Fatalf("ParseProjectType: got=%q err=%v", got, err)
	}
	for _, raw := range []string{"marketing", "mainframe"} {
		if _, err := ParseProjectType(raw); !IsKind(err, KindUnsupportedType) {
			t.Fatalf("ParseProjectType(%q): err=%v want unsupported_type", raw, err)
		}
	}
	if got, err := ParseProjectStatus("ON_HOLD"); err != nil || got != ProjectStatusOnHold {
		t.Fatalf("ParseProjectStatus: got=%q err=%v", got, err)
	}
	for _, raw := range []string{"archived", "done"} {
		if _, err := ParseProjectStatus(raw); !IsKind(err, KindInvalidValue) {
			t.Fatalf("ParseProjectStatus(%q): err=%v want invalid_value", raw, err)
		}
	}
	if got, err := ParseValueCategory("risk_mitigation"); err != nil || got != CategoryRiskMitigation {
		t.Fatalf("ParseValueCategory: got=%q err=%v", got, err)
	}
	if _, err := ParseMetricType("ratio"); !IsKind(err, KindInvalidValue) {
		t.Fatalf("ParseMetricType: err=%v want invalid_value", err)
	}
	if got, err := ParseMeasurementFrequency(""); err != nil || got != FrequencyMonthly {
		t.Fatalf("ParseMeasurementFrequency empty: got=%q err=%v", got, err)
	}
	if got, err := ParseDeliverableStatus("in-progress"); err != nil || got != DeliverableInProgress {
		t.Fatalf("ParseDeliverableStatus: got=%q err=%v", got, err)
	}
	if got, err := ParseDeliverableStatus(" "); err != nil || got != DeliverablePlanned {
		t.Fatalf("ParseDeliverableStatus empty: got=%q err=%v", got, err)
	}
}

func TestErrorKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("load: %w", NotFound("load project", "project %s not found", "p1"))
	if !errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidValue) {
		t.Fatalf("errors.Is: err=%v", err)
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("KindOf: got=%q", KindOf(err))
	}
	if KindOf(errors.New("boom")) != "" {
		t.Fatalf("KindOf: plain error should have no kind")
	}
	var vErr *Error
	if !errors.As(err, &vErr) || vErr.Op != "load project" {
		t.Fatalf("errors.As: got=%+v", vErr)
	}
}

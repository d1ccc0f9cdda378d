package utils

import (
	"testing"
)

type scenarioBody struct {
	ForkliftCount *int     `json:"forkliftSayisi"`
	AGVCount      *int     `json:"agvSayisi"`
	Efficiency    *float64 `json:"agvVerimlilik"`
}

func TestSmartParseStandardJSON(t *testing.T) {
	var body scenarioBody
	out, err := SmartParse(`{"forkliftSayisi": 8, "agvSayisi": 7}`, &body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "" {
		t.Error("expected normalized JSON back")
	}
	if body.ForkliftCount == nil || *body.ForkliftCount != 8 {
		t.Errorf("expected forklift count 8, got %v", body.ForkliftCount)
	}
	if body.Efficiency != nil {
		t.Error("absent field must stay nil")
	}
}

func TestSmartParseRepairsTrailingComma(t *testing.T) {
	var body scenarioBody
	if _, err := SmartParse(`{"agvSayisi": 9, "agvVerimlilik": 1.5,}`, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.AGVCount == nil || *body.AGVCount != 9 {
		t.Errorf("expected AGV count 9, got %v", body.AGVCount)
	}
	if body.Efficiency == nil || *body.Efficiency != 1.5 {
		t.Errorf("expected efficiency 1.5, got %v", body.Efficiency)
	}
}

func TestSmartParseRejectsUnknownField(t *testing.T) {
	var body scenarioBody
	if _, err := SmartParse(`{"forkliftCount": 8}`, &body); err == nil {
		t.Error("expected an error for an unknown parameter")
	}
}

func TestParseHJSON(t *testing.T) {
	out, err := ParseHJSON("# comment\n{\n  agvSayisi: 4\n}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"agvSayisi":4}` {
		t.Errorf("unexpected JSON: %s", out)
	}
}

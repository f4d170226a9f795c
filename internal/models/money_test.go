package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyJSON(t *testing.T) {
	var payload struct {
		Price Money `json:"price"`
	}
	if err := json.Unmarshal([]byte(`{"price":12.5}`), &payload); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if payload.Price.String() != "12.50" {
		t.Fatalf("unexpected price: %s", payload.Price.String())
	}
	if err := json.Unmarshal([]byte(`{"price":"3.456"}`), &payload); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"price":"3.46"}` {
		t.Fatalf("unexpected json: %s", out)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	unit := MustMoney("2.35")
	total := unit.Times(3).Plus(MustMoney("5"))
	if total.String() != "12.05" {
		t.Fatalf("unexpected total: %s", total.String())
	}
}

func TestParseMoneyRejectsNegative(t *testing.T) {
	if _, err := ParseMoney("-1"); err == nil {
		t.Fatalf("expected negative amount to fail")
	}
	if _, err := ParseMoney("abc"); err == nil {
		t.Fatalf("expected invalid amount to fail")
	}
}

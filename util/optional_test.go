package util

import (
	"encoding/json"
	"testing"
)

type payload struct {
	Name     string           `json:"name"`
	Color    Optional[string] `json:"color,omitzero"`
	Favorite Optional[bool]   `json:"is_favorite,omitzero"`
}

func TestOptional_SomeNone(t *testing.T) {
	s := Some("red")
	if v, ok := s.Get(); !ok || v != "red" {
		t.Errorf("expected Some(red), got %v, %v", v, ok)
	}
	n := None[string]()
	if n.IsSet() || !n.IsZero() {
		t.Error("expected None to be unset")
	}
	if n.OrElse("blue") != "blue" {
		t.Error("expected OrElse fallback")
	}
	if n.Ptr() != nil {
		t.Error("expected nil Ptr for None")
	}
	if *s.Ptr() != "red" {
		t.Error("expected Ptr to point at value")
	}
}

func TestOptional_FromPtr(t *testing.T) {
	if FromPtr[int](nil).IsSet() {
		t.Error("expected FromPtr(nil) to be None")
	}
	if v, _ := FromPtr(Ptr(7)).Get(); v != 7 {
		t.Errorf("expected 7, got %d", v)
	}
}

func TestOptional_OmitZero(t *testing.T) {
	data, err := json.Marshal(payload{Name: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"name":"x"}` {
		t.Errorf("expected unset optionals to be omitted, got %s", data)
	}

	data, err = json.Marshal(payload{Name: "x", Favorite: Some(false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"name":"x","is_favorite":false}` {
		t.Errorf("expected explicit false to be sent, got %s", data)
	}
}

func TestOptional_Unmarshal(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"name":"x","color":null,"is_favorite":true}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Color.IsSet() {
		t.Error("expected null to decode as None")
	}
	if v, ok := p.Favorite.Get(); !ok || !v {
		t.Error("expected is_favorite=Some(true)")
	}

	if err := json.Unmarshal([]byte(`{"color":5}`), &p); err == nil {
		t.Error("expected type mismatch error")
	}
}

func TestOptional_Comparable(t *testing.T) {
	if Some("a") != Some("a") {
		t.Error("expected equal optionals to compare equal")
	}
	if Some("a") == None[string]() {
		t.Error("expected Some and None to differ")
	}
	if None[string]().String() != "None" || Some(1).String() != "Some(1)" {
		t.Error("unexpected String output")
	}
}

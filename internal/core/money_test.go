package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1235, true},
		{"12.344", 1234, true},
		{"0.5", 50, true},
		{"7", 700, true},
		{"-3.10", -310, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseMoney(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("ParseMoney(%q) expected error", tc.in)
			}
			continue
		}
		if got.Cents != tc.want {
			t.Errorf("ParseMoney(%q) = %d, want %d", tc.in, got.Cents, tc.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var v struct {
		A Money  `json:"a"`
		B Money  `json:"b"`
		C *Money `json:"c"`
		D *Money `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a": 19.99, "b": "5", "d": null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A.Cents != 1999 || v.B.Cents != 500 {
		t.Fatalf("got a=%d b=%d", v.A.Cents, v.B.Cents)
	}
	if v.C != nil || v.D != nil {
		t.Fatalf("absent amounts should stay nil")
	}

	out, err := json.Marshal(Money{Cents: 1050})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "10.50" {
		t.Errorf("Marshal = %s, want 10.50", out)
	}
}

func TestMoneyValueOfNil(t *testing.T) {
	var m *Money
	if got := m.Value(); got.Cents != 0 {
		t.Errorf("nil Value() = %d, want 0", got.Cents)
	}
}

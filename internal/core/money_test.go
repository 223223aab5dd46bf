package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{"1000", 100000, true},
		{"0", 0, true},
		{".5", 50, true},
		{"", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
	}
	for i, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q): expected ok, got %v", i, tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("case %d (%q): expected error", i, tc.in)
			}
			continue
		}
		if m.Cents != tc.cents {
			t.Fatalf("case %d (%q): got %d cents, want %d", i, tc.in, m.Cents, tc.cents)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{100000, "₹1,000"},
		{123456789, "₹1,234,567.89"},
		{50, "₹0.50"},
		{0, "₹0"},
		{-100000, "-₹1,000"},
	}
	for i, tc := range cases {
		if got := (Money{Cents: tc.cents}).Format("₹"); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 500}
	b := Money{Cents: 200}
	if a.Add(b).Cents != 700 {
		t.Fatalf("add failed")
	}
	if a.Sub(b).Cents != 300 {
		t.Fatalf("sub failed")
	}
	if b.Sub(a).Cents != -300 {
		t.Fatalf("sub must allow negative results")
	}
}

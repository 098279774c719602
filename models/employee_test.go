package models

import "testing"

func TestEmployeeFullName(t *testing.T) {
	cases := []struct {
		first, last string
		expected    string
	}{
		{"Priya", "Nair", "Priya Nair"},
		{"Priya", "", "Priya"},
		{"", "Nair", "Nair"},
		{"", "", ""},
	}
	for _, tc := range cases {
		e := Employee{FirstName: tc.first, LastName: tc.last}
		if got := e.FullName(); got != tc.expected {
			t.Fatalf("FullName(%q, %q) = %q; want %q", tc.first, tc.last, got, tc.expected)
		}
	}
}

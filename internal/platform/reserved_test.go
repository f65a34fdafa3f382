// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestIsReservedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"con", true},
		{"CON", true},
		{"Nul.txt", true},
		{"com1.log", true},
		{"lpt9", true},
		{"com10", false},
		{"confile", false},
		{".pydevenv", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := IsReservedName(tt.input); got != tt.want {
				t.Errorf("IsReservedName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestReservedElement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{".pydevenv", ""},
		{"envs/.pytest", ""},
		{"envs/aux/dev", "aux"},
		{"PRN", "PRN"},
		{"/tmp/build", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := ReservedElement(tt.path); got != tt.want {
				t.Errorf("ReservedElement(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

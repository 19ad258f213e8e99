package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ruby", "%ruby%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\gems`, `%c:\\gems%`},
		{"", "%%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsPattern(tt.in), tt.in)
	}
}

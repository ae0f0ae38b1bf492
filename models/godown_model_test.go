package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Main Godown":     "main_godown",
		"  main  godown ": "main_godown",
		"MAIN\tGODOWN":    "main_godown",
		"cityshop":        "cityshop",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "MAIN GODOWN", DisplayName("main_godown"))
	assert.Equal(t, "CITYSHOP", DisplayName("cityshop"))
}

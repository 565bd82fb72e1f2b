package codes_test

import (
	"testing"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/utils/codes"
	"github.com/stretchr/testify/assert"
)

func TestAccountCode(t *testing.T) {
	got := codes.AccountCode(" tpf ", "1000", "gen", domain.Unrestricted)
	assert.Equal(t, "TPF-1000-GEN-U", got)
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "tpf1000genu", codes.Canonicalize("TPF-1000-GEN-U"))
	assert.Equal(t, "tpf1000genu", codes.Canonicalize("tpf 1000 gen u"))
	assert.Equal(t, "tpf1000genu", codes.Canonicalize("Tpf.1000/GEN_u"))
}

func TestEqual(t *testing.T) {
	assert.True(t, codes.Equal("TPF-1000-GEN-U", "tpf 1000 gen u"))
	assert.False(t, codes.Equal("TPF-1000-GEN-U", "TPF-1000-GEN-R"))
}

func TestMismatchedPart(t *testing.T) {
	tests := []struct {
		name     string
		supplied string
		expected string
	}{
		{"exact match", "TPF-1000-GEN-U", ""},
		{"punctuation variant still matches", "tpf.1000.gen.u", ""},
		{"wrong entity", "XYZ-1000-GEN-U", "entity"},
		{"wrong gl code", "TPF-2000-GEN-U", "gl"},
		{"wrong fund", "TPF-1000-BLD-U", "fund"},
		{"wrong restriction", "TPF-1000-GEN-R", "restriction"},
		{"not enough tokens", "TPF-1000", "code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codes.MismatchedPart(tt.supplied, "TPF", "1000", "GEN", domain.Unrestricted)
			assert.Equal(t, tt.expected, got)
		})
	}
}

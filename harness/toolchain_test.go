package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairings(t *testing.T) {
	var names []string
	for _, p := range Pairings(ToolchainA, ToolchainB) {
		names = append(names, p.String())
	}
	assert.Equal(t, []string{"A->A", "B->B", "A->B", "B->A"}, names)
}

func TestParsePairing(t *testing.T) {
	tests := []struct {
		in       string
		flip     string
		inc      string
		mustFail bool
	}{
		{in: "A->B", flip: "A", inc: "B"},
		{in: "b->a", flip: "B", inc: "A"},
		{in: "AA", flip: "A", inc: "A"},
		{in: "B > B", flip: "B", inc: "B"},
		{in: "A->C", mustFail: true},
		{in: "", mustFail: true},
	}
	for _, tt := range tests {
		p, err := ParsePairing(tt.in, ToolchainA, ToolchainB)
		if tt.mustFail {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.flip, p.Flip.Name)
		assert.Equal(t, tt.inc, p.Inc.Name)
	}
}

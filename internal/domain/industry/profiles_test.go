package industry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilesComplete(t *testing.T) {
	for _, p := range All() {
		assert.NotEmpty(t, p.Name, p.Key)
		assert.NotEmpty(t, p.TargetAudience, p.Key)
		assert.NotEmpty(t, p.Myths, p.Key)
		assert.NotEmpty(t, p.Jargon, p.Key)
		assert.NotEmpty(t, p.Contexts, p.Key)
	}
}

func TestGetNormalizesKey(t *testing.T) {
	p, ok := Get(" Self-Help ")
	require.True(t, ok)
	assert.Equal(t, "self-help", p.Key)

	_, ok = Get("astrology")
	assert.False(t, ok)
}

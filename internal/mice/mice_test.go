package mice

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Len(t, c.Brands, 9)
	assert.Equal(t, "Logitech", c.Brands[0].Name)
	assert.Equal(t, "LAMZU", c.Brands[len(c.Brands)-1].Name)

	b, err := c.Brand("zowie")
	require.NoError(t, err)
	assert.Contains(t, b.Models, "EC2-C")

	_, err = c.Brand("acme")
	assert.True(t, errors.Is(err, ErrUnknownBrand))
}

func TestFind(t *testing.T) {
	c := Default()
	b, model, ok := c.Find("razer viper v3 pro")
	require.True(t, ok)
	assert.Equal(t, "Razer", b.Name)
	assert.Equal(t, "Viper V3 Pro", model)

	b, model, ok = c.Find("VGN/VXE Dragonfly F1 Pro")
	require.True(t, ok)
	assert.Equal(t, "VGN/VXE", b.Name)
	assert.Equal(t, "Dragonfly F1 Pro", model)

	_, _, ok = c.Find("Razer")
	assert.False(t, ok)
	_, _, ok = c.Find("Razer Mamba")
	assert.False(t, ok)
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte("brands:\n  - name: A\n  - name: a\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate brand")

	_, err = Parse([]byte("brands:\n  - models: [x]\n"))
	require.Error(t, err)
}

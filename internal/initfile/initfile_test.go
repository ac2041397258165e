package initfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	r := strings.NewReader("# comment\nlat = 3.1\n\nstationheight=2.0\n")
	values, err := Parse(r, nil)
	require.NoError(t, err)
	assert.Equal(t, "3.1", values["lat"])
	assert.Equal(t, "2.0", values["stationheight"])
}

func TestParseRejectsUnknownKey(t *testing.T) {
	r := strings.NewReader("bogus = 1\n")
	_, err := Parse(r, map[string]bool{"lat": true})
	assert.Error(t, err)
}

func TestParseRejectsMissingEquals(t *testing.T) {
	r := strings.NewReader("not a pair\n")
	_, err := Parse(r, nil)
	assert.Error(t, err)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("/no/such/path.init", nil)
	assert.Error(t, err)
}

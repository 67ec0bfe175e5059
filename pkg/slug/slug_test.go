package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Acme Traders":           "acme-traders",
		"  Ñandú & Cía. Ltda  ":  "nandu-cia-ltda",
		"Kathmandu -- Wholesale": "kathmandu-wholesale",
		"Café 24/7":              "cafe-24-7",
		"!!!":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}

func TestMake_Truncado(t *testing.T) {
	got := Make(strings.Repeat("ab ", 60))
	assert.LessOrEqual(t, len(got), MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
}

package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/testimonios-api/pkg/textnorm"
)

func TestDomain(t *testing.T) {
	cases := map[string]string{
		"https://www.Example.com/path?q=1": "example.com",
		"example.com":                      "example.com",
		"WWW.acme.co:8080":                 "acme.co",
		"http://sub.acme.co/":              "sub.acme.co",
	}
	for in, want := range cases {
		got, err := textnorm.Domain(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := textnorm.Domain("   ")
	assert.Error(t, err)
	_, err = textnorm.Domain("http://")
	assert.Error(t, err)
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, textnorm.FoldKey("ACME  Corp"), textnorm.FoldKey(" acme corp "))
	assert.Equal(t, textnorm.FoldKey("Café"), textnorm.FoldKey("Café"))
	assert.NotEqual(t, textnorm.FoldKey("Acme"), textnorm.FoldKey("Acne"))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "é", textnorm.Clean("  é "))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHSCode(t *testing.T) {
	assert.NoError(t, ValidateHSCode("8518.30.00"))
	assert.NoError(t, ValidateHSCode("9999.99.99"))

	for _, code := range []string{"", "8518", "8518.30", "85-18-30-00", "85183000", "abcd.ef.gh"} {
		assert.Error(t, ValidateHSCode(code), "code %q", code)
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Wireless Headphones", SanitizeString("Wireless\x07 Headphones"))
	assert.Equal(t, "plain text", SanitizeString("plain text"))
	assert.Equal(t, "", SanitizeString("\x00\x1f\x7f"))
}

package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateActivityID_Format(t *testing.T) {
	id := GenerateActivityID("Tend Greenhouse", "Ada Lovelace")

	assert.Regexp(t, regexp.MustCompile(`^tend-greenhouse-ada-lovelace-[0-9a-f]{8}$`), id)
}

func TestGenerateActivityID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateActivityID("walk", "r2"), GenerateActivityID("walk", "r2"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "r2-d2", slug("  R2-D2 "))
	assert.Equal(t, "", slug("  "))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, ClampUnit(3))
	assert.Equal(t, 0.0, ClampUnit(-1))
	assert.Equal(t, 100.0, Clamp(250, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}

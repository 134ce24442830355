package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", MaskCardNumber("4111 1111 1111 1111"))
	assert.Equal(t, "123", MaskCardNumber("123"))
	assert.Equal(t, "", MaskCardNumber(""))
}

func TestCardNormalizeMasks(t *testing.T) {
	c := Card{Number: "5500 0000 0000 0004"}
	c.Normalize(time.UTC)
	assert.Equal(t, "**** **** **** 0004", c.Masked)
	assert.Equal(t, "5500 0000 0000 0004", c.Number)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidYear(t *testing.T) {
	assert.True(t, ValidYear("2019"))
	assert.True(t, ValidYear("1001"))
	assert.True(t, ValidYear("2999"))

	assert.False(t, ValidYear("1000"))
	assert.False(t, ValidYear("3000"))
	assert.False(t, ValidYear("19"))
	assert.False(t, ValidYear("20199"))
	assert.False(t, ValidYear("abcd"))
	assert.False(t, ValidYear(""))
}

func TestValidMonth(t *testing.T) {
	for _, m := range []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"} {
		assert.True(t, ValidMonth(m), m)
	}

	assert.False(t, ValidMonth("00"))
	assert.False(t, ValidMonth("13"))
	assert.False(t, ValidMonth("1"))
	assert.False(t, ValidMonth(""))
}

func TestValidDay(t *testing.T) {
	assert.True(t, ValidDay("01"))
	assert.True(t, ValidDay("09"))
	assert.True(t, ValidDay("10"))
	assert.True(t, ValidDay("31"))

	assert.False(t, ValidDay("00"))
	assert.False(t, ValidDay("32"))
	assert.False(t, ValidDay("5"))
	assert.False(t, ValidDay(""))
}

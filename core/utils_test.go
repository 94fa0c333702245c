package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Hola", CleanString("  Hola \n"))
	assert.Equal(t, "hola", CleanString("  HOLA ", true))
	assert.Equal(t, "", CleanString("   "))
}

func TestStartOfDay(t *testing.T) {
	lima := time.FixedZone("America/Lima", -5*3600)
	morning := time.Date(2024, 5, 10, 8, 15, 30, 999, lima)
	evening := time.Date(2024, 5, 10, 22, 45, 0, 0, lima)

	assert.Equal(t, StartOfDay(morning), StartOfDay(evening), "same calendar day truncates to the same instant")
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, lima), StartOfDay(morning))
	assert.Equal(t, lima, StartOfDay(morning).Location(), "the location is kept")

	nextDay := time.Date(2024, 5, 11, 0, 0, 0, 0, lima)
	assert.NotEqual(t, StartOfDay(morning), StartOfDay(nextDay))
}

func TestEndOfDay(t *testing.T) {
	day := time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC)
	end := EndOfDay(day)

	assert.True(t, end.After(day))
	assert.True(t, end.Before(time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)))
}

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "b"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
	assert.False(t, ContainsString(nil, "a"))
}

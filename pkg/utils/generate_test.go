package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	number := GenerateOrderNumber()

	assert.Len(t, number, 23)
	for _, r := range number {
		assert.True(t, r >= '0' && r <= '9', "order number must be digits only, got %q", number)
	}
}

func TestGenerateOrderNumberUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		number := GenerateOrderNumber()
		_, dup := seen[number]
		assert.False(t, dup, "duplicate order number %s", number)
		seen[number] = struct{}{}
	}
}

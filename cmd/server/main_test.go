package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sevaportal/internal/config"
)

func TestInstanceScope(t *testing.T) {
	first := instanceScope(config.StorageMemory)
	second := instanceScope(config.StorageMemory)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second, "each memory-backed boot gets its own scope")
	assert.Empty(t, instanceScope(config.StorageMySQL))
}

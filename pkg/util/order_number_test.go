package util

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderNumberGenerator(t *testing.T) {
	generate, err := NewOrderNumberGenerator()
	require.NoError(t, err)

	now := time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC)
	pattern := regexp.MustCompile(`^ORD-20260309-[A-Z0-9]{4}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		number := generate(now)
		assert.Regexp(t, pattern, number)
		seen[number] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestOrderNumberGeneratorReturnsPromptly(t *testing.T) {
	generate, err := NewOrderNumberGenerator()
	require.NoError(t, err)

	done := make(chan string, 1)
	go func() {
		done <- generate(time.Now())
	}()

	select {
	case number := <-done:
		assert.Len(t, number, len("ORD-20060102-XXXX"))
	case <-time.After(3 * time.Second):
		t.Fatal("order number generator did not return within 3s")
	}
}

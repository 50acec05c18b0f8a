package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/obralink/client/internal/domain/shared"
)

func TestSplitAdvisory(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		advisory, hard := splitAdvisory(nil)
		assert.NoError(t, advisory)
		assert.NoError(t, hard)
	})

	t.Run("partial fetch is advisory, not fatal", func(t *testing.T) {
		err := shared.NewPartialFetchError("tenders/bids-for", []string{"3"})
		advisory, hard := splitAdvisory(err)
		assert.NoError(t, hard)
		var partial *shared.PartialFetchError
		assert.ErrorAs(t, advisory, &partial)
	})

	t.Run("wrapped partial fetch still splits", func(t *testing.T) {
		err := fmt.Errorf("refresh: %w", shared.NewPartialFetchError("projects", []string{"2"}))
		advisory, hard := splitAdvisory(err)
		assert.NoError(t, hard)
		assert.Error(t, advisory)
	})

	t.Run("hard failures abort", func(t *testing.T) {
		cause := errors.New("connection refused")
		advisory, hard := splitAdvisory(cause)
		assert.NoError(t, advisory)
		assert.ErrorIs(t, hard, cause)
	})
}

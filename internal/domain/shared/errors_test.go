package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	specific := NewDomainError("INVALID_DATE_FORMAT", `invalid date "32-13-2024"`)

	assert.True(t, errors.Is(specific, ErrInvalidDateFormat))
	assert.False(t, errors.Is(specific, ErrMissingDateRange))
	assert.True(t, errors.Is(fmt.Errorf("parse filter: %w", specific), ErrInvalidDateFormat))
	assert.False(t, errors.Is(errors.New("INVALID_DATE_FORMAT"), ErrInvalidDateFormat))
}

func TestAsDomainError(t *testing.T) {
	de, ok := AsDomainError(fmt.Errorf("wrapped: %w", ErrMissingDateRange))
	assert.True(t, ok)
	assert.Equal(t, "MISSING_DATE_RANGE", de.Code)

	_, ok = AsDomainError(errors.New("plain"))
	assert.False(t, ok)
}

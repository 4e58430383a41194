package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchErrorUnwrap(t *testing.T) {
	var err error = &FetchError{URL: "https://example.com", StatusCode: 503, Err: ErrBadStatus}

	assert.True(t, errors.Is(err, ErrBadStatus))
	assert.False(t, errors.Is(err, ErrFetchTimeout))
	assert.Contains(t, err.Error(), "status 503")

	var fe *FetchError
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, "https://example.com", fe.URL)
}

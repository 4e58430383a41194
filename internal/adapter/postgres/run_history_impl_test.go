package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	cases := map[int]int{
		-1:   defaultRecentLimit,
		0:    defaultRecentLimit,
		1:    1,
		120:  120,
		9999: maxRecentLimit,
	}
	for in, want := range cases {
		assert.Equal(t, want, clampLimit(in), "limit %d", in)
	}
}

func TestMsToDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, msToDuration(1500))
	assert.Equal(t, time.Duration(0), msToDuration(0))
}

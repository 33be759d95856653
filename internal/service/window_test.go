package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2024-03-07", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseTime("2024-03-07", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 7, 23, 59, 59, 999999999, time.UTC), got)

	got, err = ParseTime("2024-03-07T10:00:00+05:30", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 7, 4, 30, 0, 0, time.UTC), got.UTC())

	_, err = ParseTime("07/03/2024", false)
	assert.Error(t, err)
}

package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *Table {
	t.Helper()
	data := header +
		"Hub A,S1,D1,VIN1,10,45m,Completed,20,80,2024-01-15 08:00,2024-01-15 08:45\n" +
		"Hub B,S2,D2,VIN2,5,30m,Completed,30,70,2024-01-16 09:00,2024-01-16 09:30\n" +
		"Hub A,S3,D3,VIN3,2,10m,Faulted,50,55,2024-01-15 22:00,bad\n"
	table, err := Load(strings.NewReader(data), FormatCSV, Options{})
	require.NoError(t, err)
	return table
}

func TestFilterSelectsDateAndCopies(t *testing.T) {
	table := loadFixture(t)

	slice, err := Filter(table, "2024-01-15")
	require.NoError(t, err)
	require.Equal(t, 2, slice.Len())
	assert.Equal(t, []string{"S1", "S3"}, []string{slice.Sessions[0].SessionID, slice.Sessions[1].SessionID})
	assert.Equal(t, "D1", slice.Sessions[0].DriverName)

	slice.Sessions[0].HubName = "mutated"
	*slice.Sessions[0].StartTime = slice.Sessions[0].StartTime.AddDate(1, 0, 0)
	assert.Equal(t, "Hub A", table.Sessions[0].HubName)
	assert.Equal(t, 2024, table.Sessions[0].StartTime.Year())
	assert.Empty(t, table.Sessions[0].DriverName)
}

func TestFilterIsIdempotent(t *testing.T) {
	table := loadFixture(t)

	once, err := Filter(table, "2024-01-15")
	require.NoError(t, err)
	twice, err := FilterSlice(once, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestFilterEmptySlice(t *testing.T) {
	table := loadFixture(t)

	_, err := Filter(table, "2024-02-01")
	var empty *EmptySliceError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "2024-02-01", empty.Date)
	assert.Contains(t, err.Error(), "no data")

	_, err = Filter(table, "")
	assert.True(t, errors.As(err, &empty))
}

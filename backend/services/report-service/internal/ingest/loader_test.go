package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const header = " Hub Name ,Session ID,Device ID,VIN NUMBER,Usage (kWh),Duration,Status,SOC In (%),End SOC,Start Time ,End Time\n"

func TestLoadCSVTrimsHeadersAndParsesRows(t *testing.T) {
	data := header +
		"Hub A,S1,D1,VIN1,12.5,45m,Completed,20,80,2024-01-15 08:00:00,2024-01-15 08:45:00\n" +
		"Hub B,S2,D2,VIN2,7,30m,Completed,30,70,2024-01-16 09:15,2024-01-16 09:45\n"

	table, err := Load(strings.NewReader(data), FormatCSV, Options{})
	require.NoError(t, err)
	require.Len(t, table.Sessions, 2)
	assert.Empty(t, table.Warnings)

	first := table.Sessions[0]
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, "Hub A", first.HubName)
	assert.Equal(t, "D1", first.DeviceID)
	assert.Equal(t, 12.5, first.EnergyKWh)
	assert.Equal(t, "12.5", first.EnergyRaw)
	assert.Equal(t, "2024-01-15", first.Date)
	require.NotNil(t, first.EndTime)
	assert.Equal(t, 45*time.Minute, first.EndTime.Sub(*first.StartTime))
	assert.Empty(t, first.DriverName)

	assert.Equal(t, []string{"2024-01-15", "2024-01-16"}, table.Dates())
}

func TestLoadCoercesBadValues(t *testing.T) {
	data := header +
		"Hub A,S1,D1,VIN1,abc,45m,Completed,20,80,not a date,2024-01-15 08:45\n" +
		"Hub A,S2,D1,VIN1,,45m,Completed,20,80,2024-01-15 10:00,2024-01-15 09:00\n" +
		"Hub A,S3,D1,VIN1,NaN,45m,Completed,20,80,2024-01-15 11:00,\n"

	table, err := Load(strings.NewReader(data), FormatCSV, Options{})
	require.NoError(t, err)
	require.Len(t, table.Sessions, 3)

	bad := table.Sessions[0]
	assert.Zero(t, bad.EnergyKWh)
	assert.Nil(t, bad.StartTime)
	assert.Empty(t, bad.Date)

	assert.Zero(t, table.Sessions[2].EnergyKWh)
	assert.Nil(t, table.Sessions[2].EndTime)

	columns := make([]string, 0, len(table.Warnings))
	for _, w := range table.Warnings {
		columns = append(columns, w.Column)
	}
	// Empty energy is silent; reversed start/end is flagged but kept.
	assert.Equal(t, []string{ColUsage, ColStartTime, ColEndTime, ColUsage}, columns)
	assert.Equal(t, []string{"2024-01-15"}, table.Dates())
}

func TestLoadMissingColumns(t *testing.T) {
	data := "Hub Name,Session ID,Start Time\nHub A,S1,2024-01-15 08:00\n"

	_, err := Load(strings.NewReader(data), FormatCSV, Options{})
	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Contains(t, missing.Columns, ColDeviceID)
	assert.Contains(t, missing.Columns, ColEndSOC)
	assert.NotContains(t, missing.Columns, ColHubName)
}

func TestLoadUnreadableInput(t *testing.T) {
	var formatErr *FormatError

	_, err := Load(strings.NewReader(""), FormatCSV, Options{})
	require.True(t, errors.As(err, &formatErr))

	_, err = Load(strings.NewReader("definitely not a zip archive"), FormatXLSX, Options{})
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, FormatXLSX, formatErr.Format)

	_, err = Load(strings.NewReader(header), Format("parquet"), Options{})
	require.True(t, errors.As(err, &formatErr))
}

func TestLoadCSVStripsBOMAndSkipsBlankRows(t *testing.T) {
	data := "\ufeffHub Name,Session ID,Device ID,VIN NUMBER,Usage (kWh),Duration,Status,SOC In (%),End SOC,Start Time,End Time\n" +
		",,,,,,,,,,\n" +
		"Hub A,S1,D1,VIN1,1.5,5m,Completed,20,25,2024-01-15T08:00:00Z,2024-01-15T08:05:00Z\n"

	table, err := Load(strings.NewReader(data), FormatCSV, Options{})
	require.NoError(t, err)
	require.Len(t, table.Sessions, 1)
	assert.Equal(t, "Hub A", table.Sessions[0].HubName)
}

func TestLoadUsesConfiguredLocationAndLayouts(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	data := header + "Hub A,S1,D1,VIN1,1,5m,Completed,20,25,15.01.2024 23:30,16.01.2024 00:10\n"

	table, err := Load(strings.NewReader(data), FormatCSV, Options{
		Location:         loc,
		TimestampLayouts: []string{"02.01.2006 15:04"},
	})
	require.NoError(t, err)
	s := table.Sessions[0]
	require.NotNil(t, s.StartTime)
	assert.Equal(t, "2024-01-15", s.Date)
	assert.Equal(t, loc, s.StartTime.Location())
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{
		"Hub Name", "Session ID", "Device ID", "VIN NUMBER", "Usage (kWh)", "Duration",
		"Status", "SOC In (%)", "End SOC", " Start Time", "End Time",
	}))
	// 45306.5 is 2024-01-15 12:00 as an Excel serial date.
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{
		"Hub A", "S1", 1001, "VIN1", 22.75, "1h", "Completed", 10, 90, 45306.5, "2024-01-15 13:00",
	}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := LoadBytes(buf.Bytes(), FormatXLSX, Options{})
	require.NoError(t, err)
	require.Len(t, table.Sessions, 1)

	s := table.Sessions[0]
	assert.Equal(t, "1001", s.DeviceID)
	assert.InDelta(t, 22.75, s.EnergyKWh, 1e-9)
	require.NotNil(t, s.StartTime)
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), *s.StartTime)
	assert.Equal(t, "2024-01-15", s.Date)
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("sessions.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = DetectFormat("export.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	var formatErr *FormatError
	_, err = DetectFormat("export.pdf")
	assert.True(t, errors.As(err, &formatErr))
	_, err = DetectFormat("export")
	assert.True(t, errors.As(err, &formatErr))
}

package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhnguyen/pillbox/internal/model"
	"github.com/dhnguyen/pillbox/internal/schedule"
)

var noon = time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

func testFormatter() (*Formatter, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	f := NewFormatter()
	f.Writer = buf
	f.ColorMode = ColorNever
	return f, buf
}

func testMedicine() *model.Medicine {
	med := model.NewMedicine("Aspirin", 2, model.UnitPills, model.AdviceBeforeMeal,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), []string{"10:00 AM", "08:00 PM"})
	med.ID = 1
	return med
}

func TestMedicineLine(t *testing.T) {
	f, _ := testFormatter()
	cli := NewCLIFormatter(f)

	line := cli.MedicineLine(testMedicine())
	assert.Contains(t, line, "#1 Aspirin")
	assert.Contains(t, line, "2 pills")
	assert.Contains(t, line, "(Before meal)")
	assert.Contains(t, line, "10:00 AM, 08:00 PM")
	assert.NotContains(t, line, "[paused]")
}

func TestMedicineLinePaused(t *testing.T) {
	f, _ := testFormatter()
	cli := NewCLIFormatter(f)

	med := testMedicine()
	med.Active = false
	assert.Contains(t, cli.MedicineLine(med), "[paused]")
}

func TestPrintDayScheduleSections(t *testing.T) {
	f, buf := testFormatter()
	cli := NewCLIFormatter(f)

	s := schedule.BuildDaySchedule([]*model.Medicine{testMedicine()}, nil, noon)
	cli.PrintDaySchedule(s)

	out := buf.String()
	assert.Contains(t, out, "Overdue")
	assert.Contains(t, out, "10:00 AM")
	assert.Contains(t, out, "Upcoming")
	assert.Contains(t, out, "08:00 PM")
	assert.NotContains(t, out, "Done")
}

func TestPrintDayScheduleEmpty(t *testing.T) {
	f, buf := testFormatter()
	cli := NewCLIFormatter(f)

	cli.PrintDaySchedule(&schedule.DaySchedule{})
	assert.Contains(t, buf.String(), "No doses scheduled")
}

func TestAdherenceBarProportions(t *testing.T) {
	f, _ := testFormatter()
	cli := NewCLIFormatter(f)

	full := cli.AdherenceBar(100, 10)
	assert.Equal(t, 10, strings.Count(full, "█"))
	assert.Equal(t, 0, strings.Count(full, "░"))

	half := cli.AdherenceBar(50, 10)
	assert.Equal(t, 5, strings.Count(half, "█"))
	assert.Equal(t, 5, strings.Count(half, "░"))

	empty := cli.AdherenceBar(0, 10)
	assert.Equal(t, 10, strings.Count(empty, "░"))
}

func TestNewMedicineOutput(t *testing.T) {
	out := NewMedicineOutput(testMedicine())
	assert.Equal(t, uint64(1), out.ID)
	assert.Equal(t, "2026-01-01", out.StartDate)
	assert.Empty(t, out.EndDate)
	assert.Equal(t, "pills", out.Unit)
}

func TestNewScheduleResponse(t *testing.T) {
	s := schedule.BuildDaySchedule([]*model.Medicine{testMedicine()}, nil, noon)
	resp := NewScheduleResponse(noon, s)

	assert.Equal(t, "2026-03-15", resp.Date)
	require.Len(t, resp.Overdue, 1)
	assert.Equal(t, "missed", resp.Overdue[0].Status)
	require.Len(t, resp.Upcoming, 1)
	assert.Equal(t, "Aspirin", resp.Upcoming[0].Name)
}

func TestNewStatsResponseRounding(t *testing.T) {
	overall := &model.OverallStats{Total: 3, Taken: 2}
	resp := NewStatsResponse("week", noon.AddDate(0, 0, -7), noon, nil, nil, overall)
	assert.Equal(t, 66.7, resp.Overall.Adherence)
}

func TestFormatTimeLabel(t *testing.T) {
	assert.Equal(t, "08:00 PM", FormatTimeLabel(time.Date(2026, 3, 15, 20, 0, 0, 0, time.Local)))
	assert.Equal(t, "12:00 AM", FormatTimeLabel(time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)))
}

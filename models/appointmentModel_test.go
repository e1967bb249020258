package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustClock(t *testing.T, day, clock string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(DateLayout+" "+ClockLayout, day+" "+clock, time.Local)
	assert.NoError(t, err)
	return ts
}

func TestWindowsOverlap(t *testing.T) {
	day := "2026-09-01"
	at := func(clock string) time.Time { return mustClock(t, day, clock) }

	tests := []struct {
		name                       string
		start1, end1, start2, end2 time.Time
		want                       bool
	}{
		{"identical", at("10:00"), at("10:30"), at("10:00"), at("10:30"), true},
		{"partial overlap", at("10:00"), at("10:30"), at("10:15"), at("10:45"), true},
		{"containment", at("10:00"), at("11:00"), at("10:15"), at("10:30"), true},
		{"touching boundaries", at("10:00"), at("10:30"), at("10:30"), at("11:00"), false},
		{"disjoint", at("10:00"), at("10:30"), at("11:00"), at("11:30"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowsOverlap(tt.start1, tt.end1, tt.start2, tt.end2))
			assert.Equal(t, tt.want, WindowsOverlap(tt.start2, tt.end2, tt.start1, tt.end1))
		})
	}
}

func TestWindowDefaultsDuration(t *testing.T) {
	apt := &Appointment{AppointmentDate: "2026-09-01", AppointmentTime: "09:00"}
	start, end, err := apt.Window()
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(DefaultDurationMinutes)*time.Minute, end.Sub(start))

	apt.DurationMinutes = 45
	start, end, err = apt.Window()
	assert.NoError(t, err)
	assert.Equal(t, 45*time.Minute, end.Sub(start))
}

func TestWindowUnparsableInstant(t *testing.T) {
	apt := &Appointment{AppointmentDate: "not-a-date", AppointmentTime: "09:00"}
	_, _, err := apt.Window()
	assert.Error(t, err)
}

func TestCanBeCancelled(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(DateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(DateLayout)

	future := &Appointment{AppointmentDate: tomorrow, AppointmentTime: "10:00", Status: AppointmentScheduled}
	assert.True(t, future.CanBeCancelled())

	confirmed := &Appointment{AppointmentDate: tomorrow, AppointmentTime: "10:00", Status: AppointmentConfirmed}
	assert.True(t, confirmed.CanBeCancelled())

	past := &Appointment{AppointmentDate: yesterday, AppointmentTime: "10:00", Status: AppointmentScheduled}
	assert.False(t, past.CanBeCancelled())

	completed := &Appointment{AppointmentDate: tomorrow, AppointmentTime: "10:00", Status: AppointmentCompleted}
	assert.False(t, completed.CanBeCancelled())
}

func TestOccupiesSlot(t *testing.T) {
	assert.False(t, (&Appointment{Status: AppointmentCancelled}).OccupiesSlot())
	assert.True(t, (&Appointment{Status: AppointmentScheduled}).OccupiesSlot())
	assert.True(t, (&Appointment{Status: AppointmentCompleted}).OccupiesSlot())
}

func TestAppointmentStatusIsTerminal(t *testing.T) {
	assert.True(t, AppointmentCompleted.IsTerminal())
	assert.True(t, AppointmentCancelled.IsTerminal())
	assert.True(t, AppointmentNoShow.IsTerminal())
	assert.False(t, AppointmentScheduled.IsTerminal())
	assert.False(t, AppointmentInProgress.IsTerminal())
}

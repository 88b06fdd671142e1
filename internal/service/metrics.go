package service

import (
	"time"

	"hris_backend/internal/model"
	"hris_backend/internal/utils"
)

// LateThresholdHour is the hour after which a first clock-in counts as late
const LateThresholdHour = 8

// BuildFirstInByDay maps each weekday, keyed by its date in loc, to the earliest
// IN event recorded on it. OUT events and weekend events are ignored.
func BuildFirstInByDay(absences []model.Absence, loc *time.Location) map[string]time.Time {
	firstIn := make(map[string]time.Time)
	for _, a := range absences {
		if a.Status != model.AbsenceStatusIn {
			continue
		}
		day := utils.StartOfDay(a.CreatedAt, loc)
		if isWeekend(day) {
			continue
		}
		key := dayKey(day)
		if cur, ok := firstIn[key]; !ok || a.CreatedAt.Before(cur) {
			firstIn[key] = a.CreatedAt
		}
	}
	return firstIn
}

// ComputeAttendanceMetrics walks every weekday from the day of createdAt to the
// day of now, inclusive, and classifies it as absent, present or late.
func ComputeAttendanceMetrics(createdAt time.Time, firstIn map[string]time.Time, now time.Time, loc *time.Location) model.AttendanceMetrics {
	var m model.AttendanceMetrics
	end := utils.StartOfDay(now, loc)

	for day := utils.StartOfDay(createdAt, loc); !day.After(end); day = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc) {
		if isWeekend(day) {
			continue
		}
		m.TotalWorkDay++

		in, ok := firstIn[dayKey(day)]
		if !ok {
			m.TotalAbsent++
			continue
		}
		m.TotalPresence++
		threshold := time.Date(day.Year(), day.Month(), day.Day(), LateThresholdHour, 0, 0, 0, loc)
		if in.After(threshold) {
			m.TotalLate++
		}
	}
	return m
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func dayKey(day time.Time) string {
	return day.Format(time.DateOnly)
}

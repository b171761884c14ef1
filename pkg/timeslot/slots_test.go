package timeslot

import (
	"testing"
	"time"

	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
)

func enabledRule(start, end string, duration int) model.WeeklyRule {
	return model.WeeklyRule{
		Enabled:         true,
		StartTime:       start,
		EndTime:         end,
		SlotDurationMin: duration,
		MaxConcurrent:   1,
	}
}

func TestExpandRule(t *testing.T) {
	t.Run("business day in half hour slots", func(t *testing.T) {
		slots, err := ExpandRule(enabledRule("09:00", "17:00", 30))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(slots) != 16 {
			t.Fatalf("got %d slots, want 16", len(slots))
		}
		if slots[0].StartTime != "09:00" || slots[0].EndTime != "09:30" {
			t.Errorf("first slot = %s-%s, want 09:00-09:30", slots[0].StartTime, slots[0].EndTime)
		}
		if slots[15].StartTime != "16:30" || slots[15].EndTime != "17:00" {
			t.Errorf("last slot = %s-%s, want 16:30-17:00", slots[15].StartTime, slots[15].EndTime)
		}

		for i := 1; i < len(slots); i++ {
			if slots[i-1].StartTime >= slots[i].StartTime {
				t.Errorf("slots out of order at %d: %s >= %s", i, slots[i-1].StartTime, slots[i].StartTime)
			}
		}
	})

	t.Run("trailing partial interval dropped", func(t *testing.T) {
		slots, err := ExpandRule(enabledRule("09:00", "10:45", 30))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 3 {
			t.Fatalf("got %d slots, want 3", len(slots))
		}
		if slots[2].EndTime != "10:30" {
			t.Errorf("last slot ends %s, want 10:30 (10:30-10:45 must not be emitted)", slots[2].EndTime)
		}
	})

	t.Run("duration longer than window rejected", func(t *testing.T) {
		_, err := ExpandRule(enabledRule("09:00", "09:30", 60))
		if !apperrors.IsCode(err, apperrors.CodeInvalidConfig) {
			t.Errorf("got %v, want %s", err, apperrors.CodeInvalidConfig)
		}
	})

	t.Run("duration exactly filling the window yields one slot", func(t *testing.T) {
		slots, err := ExpandRule(enabledRule("09:00", "10:00", 60))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 1 {
			t.Errorf("got %d slots, want 1", len(slots))
		}
	})

	t.Run("disabled rule yields nothing", func(t *testing.T) {
		rule := enabledRule("09:00", "17:00", 30)
		rule.Enabled = false
		slots, err := ExpandRule(rule)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if slots != nil {
			t.Errorf("got %v, want nil", slots)
		}
	})

	t.Run("empty window rejected", func(t *testing.T) {
		_, err := ExpandRule(enabledRule("17:00", "09:00", 30))
		if !apperrors.IsCode(err, apperrors.CodeInvalidConfig) {
			t.Errorf("got %v, want %s", err, apperrors.CodeInvalidConfig)
		}
	})

	t.Run("non-positive duration rejected", func(t *testing.T) {
		_, err := ExpandRule(enabledRule("09:00", "17:00", 0))
		if !apperrors.IsCode(err, apperrors.CodeInvalidConfig) {
			t.Errorf("got %v, want %s", err, apperrors.CodeInvalidConfig)
		}
	})

	t.Run("invalid start time rejected", func(t *testing.T) {
		_, err := ExpandRule(enabledRule("9am", "17:00", 30))
		if !apperrors.IsCode(err, apperrors.CodeInvalidTimeFormat) {
			t.Errorf("got %v, want %s", err, apperrors.CodeInvalidTimeFormat)
		}
	})
}

func TestMergeOverrides(t *testing.T) {
	weekly := []model.Slot{
		{StartTime: "09:00", EndTime: "09:30", DurationMin: 30, MaxConcurrent: 1},
		{StartTime: "09:30", EndTime: "10:00", DurationMin: 30, MaxConcurrent: 1},
		{StartTime: "10:00", EndTime: "10:30", DurationMin: 30, MaxConcurrent: 1},
	}

	t.Run("no overrides keeps weekly list", func(t *testing.T) {
		merged, err := MergeOverrides(weekly, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(merged) != 3 {
			t.Fatalf("got %d slots, want 3", len(merged))
		}
	})

	t.Run("override replaces weekly slot with same start", func(t *testing.T) {
		merged, err := MergeOverrides(weekly, []model.DateOverride{
			{ID: "ov1", StartTime: "09:30", EndTime: "10:15"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(merged) != 3 {
			t.Fatalf("got %d slots, want 3", len(merged))
		}

		replaced := merged[1]
		if !replaced.IsCustom || replaced.EndTime != "10:15" || replaced.SourceID != "ov1" {
			t.Errorf("replacement slot = %+v, want custom 09:30-10:15 from ov1", replaced)
		}
	})

	t.Run("override with new start is appended in order", func(t *testing.T) {
		merged, err := MergeOverrides(weekly, []model.DateOverride{
			{StartTime: "08:00", EndTime: "08:45"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(merged) != 4 {
			t.Fatalf("got %d slots, want 4", len(merged))
		}
		if merged[0].StartTime != "08:00" || !merged[0].IsCustom {
			t.Errorf("first slot = %+v, want custom 08:00 slot", merged[0])
		}
	})

	t.Run("12h override start is normalized before matching", func(t *testing.T) {
		merged, err := MergeOverrides(weekly, []model.DateOverride{
			{StartTime: "9:30 AM", EndTime: "10:15 AM"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(merged) != 3 {
			t.Fatalf("got %d slots, want 3 (9:30 AM must replace 09:30)", len(merged))
		}
	})

	t.Run("each start appears at most once", func(t *testing.T) {
		merged, err := MergeOverrides(weekly, []model.DateOverride{
			{StartTime: "09:00", EndTime: "09:45"},
			{StartTime: "09:00", EndTime: "10:00"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		seen := make(map[string]int)
		for _, s := range merged {
			seen[s.StartTime]++
		}
		for start, n := range seen {
			if n > 1 {
				t.Errorf("start %s appears %d times", start, n)
			}
		}
	})

	t.Run("empty override window rejected", func(t *testing.T) {
		_, err := MergeOverrides(weekly, []model.DateOverride{
			{StartTime: "10:00", EndTime: "10:00"},
		})
		if !apperrors.IsCode(err, apperrors.CodeInvalidConfig) {
			t.Errorf("got %v, want %s", err, apperrors.CodeInvalidConfig)
		}
	})
}

func booking(start, end, status string) model.Booking {
	return model.Booking{StartTime: start, EndTime: end, Status: status}
}

func TestFilterConflicts(t *testing.T) {
	candidates := []model.Slot{
		{StartTime: "09:00", EndTime: "09:30"},
		{StartTime: "09:30", EndTime: "10:00"},
		{StartTime: "10:00", EndTime: "10:30"},
	}

	t.Run("booked slot removed", func(t *testing.T) {
		got := FilterConflicts(candidates, []model.Booking{
			booking("10:00", "10:30", model.BookingPending),
		}, nil)
		if len(got) != 2 {
			t.Fatalf("got %d slots, want 2", len(got))
		}
		for _, s := range got {
			if s.StartTime == "10:00" {
				t.Errorf("10:00 slot should have been removed")
			}
		}
	})

	t.Run("cancelled booking frees the slot", func(t *testing.T) {
		got := FilterConflicts(candidates, []model.Booking{
			booking("10:00", "10:30", model.BookingCancelled),
		}, nil)
		if len(got) != 3 {
			t.Errorf("got %d slots, want 3", len(got))
		}
	})

	t.Run("partial overlap removes the slot", func(t *testing.T) {
		got := FilterConflicts(candidates, []model.Booking{
			booking("09:15", "09:45", model.BookingConfirmed),
		}, nil)
		if len(got) != 1 || got[0].StartTime != "10:00" {
			t.Errorf("got %+v, want only the 10:00 slot", got)
		}
	})

	t.Run("adjacent booking does not conflict", func(t *testing.T) {
		got := FilterConflicts(candidates, []model.Booking{
			booking("08:30", "09:00", model.BookingConfirmed),
			booking("10:30", "11:00", model.BookingConfirmed),
		}, nil)
		if len(got) != 3 {
			t.Errorf("got %d slots, want 3 (touching endpoints do not overlap)", len(got))
		}
	})

	t.Run("same day cutoff keeps only strictly future slots", func(t *testing.T) {
		now := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
		got := FilterConflicts(candidates, nil, &now)
		// 09:00 is past, 09:30 is not strictly after now, 10:00 survives.
		if len(got) != 1 || got[0].StartTime != "10:00" {
			t.Errorf("got %+v, want only the 10:00 slot", got)
		}
	})
}

func TestOverlaps(t *testing.T) {
	bookings := []model.Booking{
		booking("10:00", "10:30", model.BookingPending),
	}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"exact match", "10:00", "10:30", true},
		{"straddles start", "09:45", "10:15", true},
		{"inside", "10:10", "10:20", true},
		{"before", "09:00", "10:00", false},
		{"after", "10:30", "11:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Overlaps(tt.start, tt.end, bookings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}

	if _, err := Overlaps("bad", "10:00", bookings); err == nil {
		t.Error("invalid start should fail")
	}
}

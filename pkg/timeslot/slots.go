package timeslot

import (
	"fmt"
	"sort"
	"time"

	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
)

// ExpandRule cuts a weekday rule into fixed-length slots. Expansion walks
// from the rule's start and emits a slot whenever a full interval still fits
// before the end; a trailing partial interval is dropped. Rules that would
// cross midnight, have a non-positive window, or whose duration does not
// fit the window even once are rejected.
func ExpandRule(rule model.WeeklyRule) ([]model.Slot, error) {
	if !rule.Enabled {
		return nil, nil
	}

	start, err := ParseClock(rule.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(rule.EndTime)
	if err != nil {
		return nil, err
	}

	if rule.SlotDurationMin <= 0 {
		return nil, apperrors.InvalidConfig(fmt.Sprintf("slot duration must be positive, got %d", rule.SlotDurationMin))
	}
	if start >= end {
		return nil, apperrors.InvalidConfig(fmt.Sprintf("rule window %s-%s is empty", rule.StartTime, rule.EndTime))
	}
	if rule.SlotDurationMin > end-start {
		return nil, apperrors.InvalidConfig(fmt.Sprintf("slot duration %d does not fit the %s-%s window", rule.SlotDurationMin, rule.StartTime, rule.EndTime))
	}

	maxConcurrent := rule.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	var slots []model.Slot
	for t := start; t+rule.SlotDurationMin <= end; t += rule.SlotDurationMin {
		slots = append(slots, model.Slot{
			StartTime:     Format24(t),
			EndTime:       Format24(t + rule.SlotDurationMin),
			DurationMin:   rule.SlotDurationMin,
			MaxConcurrent: maxConcurrent,
		})
	}

	return slots, nil
}

// MergeOverrides folds date overrides into the weekly-expanded list. An
// override replaces any weekly slot sharing its start time and is appended
// as a custom slot; the result is sorted ascending by start and carries
// each start time at most once. Overlap between slots with different starts
// is left as-is.
func MergeOverrides(weekly []model.Slot, overrides []model.DateOverride) ([]model.Slot, error) {
	if len(overrides) == 0 {
		merged := make([]model.Slot, len(weekly))
		copy(merged, weekly)
		sortSlots(merged)
		return merged, nil
	}

	customs := make([]model.Slot, 0, len(overrides))
	replaced := make(map[string]struct{}, len(overrides))
	for _, o := range overrides {
		start, err := To24Hour(o.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := To24Hour(o.EndTime)
		if err != nil {
			return nil, err
		}

		if _, dup := replaced[start]; dup {
			continue
		}
		replaced[start] = struct{}{}

		startMin, _ := ParseClock(start)
		endMin, _ := ParseClock(end)
		if endMin <= startMin {
			return nil, apperrors.InvalidConfig(fmt.Sprintf("override window %s-%s is empty", o.StartTime, o.EndTime))
		}

		maxConcurrent := o.MaxConcurrent
		if maxConcurrent <= 0 {
			maxConcurrent = 1
		}

		customs = append(customs, model.Slot{
			StartTime:     start,
			EndTime:       end,
			DurationMin:   endMin - startMin,
			MaxConcurrent: maxConcurrent,
			IsCustom:      true,
			SourceID:      o.ID,
		})
	}

	merged := make([]model.Slot, 0, len(weekly)+len(customs))
	for _, s := range weekly {
		if _, gone := replaced[s.StartTime]; gone {
			continue
		}
		merged = append(merged, s)
	}
	merged = append(merged, customs...)

	sortSlots(merged)
	return merged, nil
}

// Lexicographic order on zero-padded 24h strings is chronological within
// one day.
func sortSlots(slots []model.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})
}

// FilterConflicts drops candidates that overlap a booking still holding its
// slot, using the half-open test start < b.end && end > b.start. When now
// is non-nil the query is for the caller's current date and only slots
// starting strictly after now's clock time survive.
func FilterConflicts(candidates []model.Slot, bookings []model.Booking, now *time.Time) []model.Slot {
	cutoff := -1
	if now != nil {
		cutoff = now.Hour()*60 + now.Minute()
	}

	available := make([]model.Slot, 0, len(candidates))
	for _, c := range candidates {
		start, err := ParseClock(c.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(c.EndTime)
		if err != nil {
			continue
		}

		if cutoff >= 0 && start <= cutoff {
			continue
		}

		if conflictsAny(start, end, bookings) {
			continue
		}

		available = append(available, c)
	}

	return available
}

func conflictsAny(start, end int, bookings []model.Booking) bool {
	for i := range bookings {
		b := &bookings[i]
		if !b.Occupies() {
			continue
		}

		bStart, err := ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		bEnd, err := ParseClock(b.EndTime)
		if err != nil {
			continue
		}

		if start < bEnd && end > bStart {
			return true
		}
	}
	return false
}

// Overlaps reports whether the [start, end) interval collides with any
// non-cancelled booking in the list. Both ends are 24h clock tokens.
func Overlaps(start, end string, bookings []model.Booking) (bool, error) {
	s, err := ParseClock(start)
	if err != nil {
		return false, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return false, err
	}
	return conflictsAny(s, e, bookings), nil
}

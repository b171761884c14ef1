package model

import "time"

// WeeklyRule is one weekday's recurring availability window. Slots are cut
// from [StartTime, EndTime) at a fixed SlotDurationMin cadence.
type WeeklyRule struct {
	Enabled         bool   `json:"enabled" bson:"enabled"`
	StartTime       string `json:"start_time" bson:"start_time" validate:"omitempty,clock_time"`
	EndTime         string `json:"end_time" bson:"end_time" validate:"omitempty,clock_time"`
	SlotDurationMin int    `json:"slot_duration_min" bson:"slot_duration_min" validate:"omitempty,min=5,max=480"`
	MaxConcurrent   int    `json:"max_concurrent" bson:"max_concurrent" validate:"omitempty,min=1,max=200"`
}

// WeekTemplate is an owner's full recurring week. Each weekday is an explicit
// field so "day not configured" is a zero-value rule, not a missing map key.
type WeekTemplate struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID   string     `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=64"`
	Monday    WeeklyRule `json:"monday" bson:"monday"`
	Tuesday   WeeklyRule `json:"tuesday" bson:"tuesday"`
	Wednesday WeeklyRule `json:"wednesday" bson:"wednesday"`
	Thursday  WeeklyRule `json:"thursday" bson:"thursday"`
	Friday    WeeklyRule `json:"friday" bson:"friday"`
	Saturday  WeeklyRule `json:"saturday" bson:"saturday"`
	Sunday    WeeklyRule `json:"sunday" bson:"sunday"`
	TimeZone  string     `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// RuleFor returns the rule governing the given weekday.
func (t *WeekTemplate) RuleFor(day time.Weekday) WeeklyRule {
	switch day {
	case time.Monday:
		return t.Monday
	case time.Tuesday:
		return t.Tuesday
	case time.Wednesday:
		return t.Wednesday
	case time.Thursday:
		return t.Thursday
	case time.Friday:
		return t.Friday
	case time.Saturday:
		return t.Saturday
	default:
		return t.Sunday
	}
}

// SetRuleFor replaces the rule for the given weekday.
func (t *WeekTemplate) SetRuleFor(day time.Weekday, rule WeeklyRule) {
	switch day {
	case time.Monday:
		t.Monday = rule
	case time.Tuesday:
		t.Tuesday = rule
	case time.Wednesday:
		t.Wednesday = rule
	case time.Thursday:
		t.Thursday = rule
	case time.Friday:
		t.Friday = rule
	case time.Saturday:
		t.Saturday = rule
	default:
		t.Sunday = rule
	}
}

// DateOverride adds one custom slot on a specific calendar date. When its
// start time collides with a weekly-derived slot the override wins; merged
// lists never carry the same start twice.
type DateOverride struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID       string    `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=64"`
	Date          string    `json:"date" bson:"date" validate:"required,calendar_date"`
	StartTime     string    `json:"start_time" bson:"start_time" validate:"required,clock_time"`
	EndTime       string    `json:"end_time" bson:"end_time" validate:"required,clock_time"`
	MaxConcurrent int       `json:"max_concurrent" bson:"max_concurrent" validate:"omitempty,min=1,max=200"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BlockedDate is a full-day blackout. Presence is the whole signal: when a
// row exists for (owner, date) no slots are offered regardless of the
// template or overrides.
type BlockedDate struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID   string    `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=64"`
	Date      string    `json:"date" bson:"date" validate:"required,calendar_date"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

package model

// Slot is one offerable interval on a concrete date. Times are 24h "HH:MM"
// strings; the interval is half-open [StartTime, EndTime).
type Slot struct {
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	DurationMin   int    `json:"duration_min"`
	MaxConcurrent int    `json:"max_concurrent"`
	IsCustom      bool   `json:"is_custom"`
	SourceID      string `json:"source_id,omitempty"`
}

// Availability is the per-date answer: the offerable slots, or an empty
// list with Blocked set when the date is blacked out.
type Availability struct {
	OwnerID string `json:"owner_id"`
	Date    string `json:"date"`
	Slots   []Slot `json:"slots"`
	Blocked bool   `json:"blocked"`
}

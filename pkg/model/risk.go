package model

// RiskFeatures is the feature vector sent to the cancellation-risk scorer.
// Field names are the scorer's wire contract; changing them breaks the
// remote model's input mapping.
type RiskFeatures struct {
	Cancellations        int     `json:"cancellations"`
	DaysSinceLastBooking int     `json:"days_since_last_booking"`
	IsEvening            int     `json:"is_evening"`
	IsRainy              int     `json:"is_rainy"`
	IsHoliday            int     `json:"is_holiday"`
	BookingLeadTime      int     `json:"booking_lead_time"`
	ClientReliability    float64 `json:"client_reliability"`
	IsFirstAppointment   int     `json:"is_first_appointment"`
	Temperature          float64 `json:"temperature"`
	IsPeakTraffic        int     `json:"is_peak_traffic"`
}

// RiskAssessment is the scoring outcome attached to an admission decision.
type RiskAssessment struct {
	Score           float64      `json:"score"`
	DepositRequired bool         `json:"deposit_required"`
	Features        RiskFeatures `json:"features"`
	Degraded        bool         `json:"degraded"`
}

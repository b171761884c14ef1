package risk

import (
	"context"
	"time"

	"bookable/pkg/client"
	"bookable/pkg/config"
	"bookable/pkg/model"
	"bookable/pkg/timeslot"
)

// WeatherProvider is the slice of the weather client the extractor uses.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (client.Weather, error)
}

// Feature extraction defaults for customers with no history and for
// degraded weather lookups.
const (
	defaultDaysSinceLastBooking = 365
	defaultClientReliability    = 1.0
	fallbackTemperature         = 15.0

	eveningHour      = 18
	morningPeakStart = 7
	morningPeakEnd   = 9
	eveningPeakStart = 16
	eveningPeakEnd   = 18
)

// Extractor turns a booking request plus customer history into the feature
// vector the risk model expects.
type Extractor struct {
	weather  WeatherProvider
	holidays *HolidayCalendar
	cfg      *config.Config
	now      func() time.Time
}

func NewExtractor(weather WeatherProvider, holidays *HolidayCalendar, cfg *config.Config) *Extractor {
	return &Extractor{
		weather:  weather,
		holidays: holidays,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Features builds the feature vector for an appointment on date starting at
// startTime (24h form). A failed weather lookup falls back to mild dry
// conditions instead of blocking admission; degraded reports that.
func (e *Extractor) Features(ctx context.Context, history model.CustomerHistory, date, startTime string) (model.RiskFeatures, bool) {
	features := model.RiskFeatures{
		Cancellations:        history.Cancellations,
		DaysSinceLastBooking: defaultDaysSinceLastBooking,
		ClientReliability:    defaultClientReliability,
	}

	now := e.now()

	if history.LastBookingAt != nil {
		days := int(now.Sub(*history.LastBookingAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		features.DaysSinceLastBooking = days
	}

	if history.TotalBookings > 0 {
		features.ClientReliability = float64(history.TotalBookings-history.Cancellations) / float64(history.TotalBookings)
	}
	if history.FirstAppointment {
		features.IsFirstAppointment = 1
	}

	if startMin, err := timeslot.ParseClock(startTime); err == nil {
		hour := startMin / 60
		if hour >= eveningHour {
			features.IsEvening = 1
		}
		if (hour >= morningPeakStart && hour <= morningPeakEnd) ||
			(hour >= eveningPeakStart && hour <= eveningPeakEnd) {
			features.IsPeakTraffic = 1
		}
	}

	if e.holidays.IsHoliday(e.cfg.HolidayRegion, date) {
		features.IsHoliday = 1
	}

	if appointment, err := time.Parse("2006-01-02", date); err == nil {
		lead := int(appointment.Sub(now.Truncate(24*time.Hour)).Hours() / 24)
		if lead < 0 {
			lead = 0
		}
		features.BookingLeadTime = lead
	}

	degraded := false
	weather, err := e.weather.Current(ctx, e.cfg.WeatherServiceCity)
	if err != nil {
		e.cfg.Log.Warn("Weather lookup failed, using fallback conditions",
			"city", e.cfg.WeatherServiceCity,
			"error", err,
		)
		features.Temperature = fallbackTemperature
		degraded = true
	} else {
		features.Temperature = weather.Temperature
		if weather.IsRainy {
			features.IsRainy = 1
		}
	}

	return features, degraded
}

package main

import (
	"context"

	"github.com/joho/godotenv"

	availabilityhandler "bookable/internal/availability/handler"
	availabilityservice "bookable/internal/availability/service"
	bookinghandler "bookable/internal/booking/handler"
	bookingrepo "bookable/internal/booking/repository"
	bookingservice "bookable/internal/booking/service"
	bookingvalidator "bookable/internal/booking/validator"
	"bookable/internal/notify"
	"bookable/internal/risk"
	schedulehandler "bookable/internal/schedule/handler"
	schedulerepo "bookable/internal/schedule/repository"
	scheduleservice "bookable/internal/schedule/service"
	schedulevalidator "bookable/internal/schedule/validator"
	"bookable/internal/storage"
	"bookable/pkg/app"
	"bookable/pkg/client"
	"bookable/pkg/config"
	"bookable/pkg/kafka"
	kafka_config "bookable/pkg/kafka/config"
	kafka_middleware "bookable/pkg/kafka/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load("bookable-server")
	defer cfg.GracefulShutdown()

	cfg.SetMongo()
	if err := storage.EnsureIndexes(context.Background(), cfg); err != nil {
		cfg.Log.Fatal("Failed to ensure database indexes", "error", err)
	}

	templates := schedulerepo.NewMongoTemplateRepository(cfg)
	overrides := schedulerepo.NewMongoOverrideRepository(cfg)
	blocked := schedulerepo.NewMongoBlockedDateRepository(cfg)
	services := schedulerepo.NewMongoServiceRepository(cfg)

	scheduleSvc := scheduleservice.NewScheduleService(
		templates,
		overrides,
		blocked,
		services,
		schedulevalidator.NewScheduleValidator(cfg.Log),
		cfg,
	)

	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	customers := bookingrepo.NewMongoCustomerRepository(cfg)
	locks := bookingrepo.NewMongoSlotLockRepository(cfg)

	availabilitySvc := availabilityservice.NewAvailabilityService(templates, overrides, blocked, bookings, cfg)

	weather := client.NewWeatherClient(cfg.WeatherServiceURL, cfg.WeatherServiceAPIKey, cfg.WeatherServiceTimeout)
	predictor := client.NewRiskClient(cfg.RiskServiceURL, cfg.RiskServiceTimeout)
	extractor := risk.NewExtractor(weather, risk.NewHolidayCalendar(), cfg)
	scorer := risk.NewScorer(predictor, cfg)

	notifier, closeNotifier := buildNotifier(cfg)
	defer closeNotifier()

	bookingSvc := bookingservice.NewBookingService(
		bookings,
		customers,
		locks,
		templates,
		services,
		extractor,
		scorer,
		notifier,
		bookingvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)

	application := app.NewApplication(cfg)
	application.SetApp(
		schedulehandler.NewScheduleHandler(scheduleSvc, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilitySvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
	)
	application.Run()
}

// buildNotifier wires the Kafka producer when brokers are configured and
// falls back to the logging no-op otherwise, so the server runs without a
// broker in development.
func buildNotifier(cfg *config.Config) (notify.Notifier, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, booking events will not be published")
		return notify.NewNoopNotifier(cfg.Log), func() {}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Failed to load Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.ConfirmationTopic, cfg.ConfirmationDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	return notify.NewKafkaNotifier(producer, cfg.Log), func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/application/audit"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/application/fulfillment"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/config"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/event"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/pin"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infra/logging"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infrastructure/eventbus"
	httpapi "github.com/rcarvalho-pb/pin_fulfillment-go/internal/infrastructure/http"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infrastructure/mercadopago"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infrastructure/outbox"
	redisstore "github.com/rcarvalho-pb/pin_fulfillment-go/internal/infrastructure/persistence/redis"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infrastructure/persistence/sqlite"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infrastructure/whatsapp"
)

func main() {
	cfg := config.Load()

	logger := &logging.StdoutLogger{}
	counters := &metrics.Counters{}

	ctx := context.Background()

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatal(err)
	}
	if err := sqlite.RunMigrations(db); err != nil {
		log.Fatal(err)
	}

	rdb, err := redisstore.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal(err)
	}

	resolver := &mercadopago.Client{
		BaseURL:     cfg.MercadoPagoBaseURL,
		AccessToken: cfg.MercadoPagoToken,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Logger:      logger,
		Retry: mercadopago.Policy{
			MaxAttempts: 3,
			Delay:       2 * time.Second,
		},
	}

	notifier := &whatsapp.Client{
		BaseURL:     cfg.WhatsAppBaseURL,
		PhoneID:     cfg.WhatsAppPhoneID,
		AccessToken: cfg.WhatsAppToken,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Logger:      logger,
	}

	outboxRepo := outbox.NewSQLiteRepository(db)

	service := &fulfillment.Service{
		Resolver:  resolver,
		Pins:      redisstore.NewPinRepository(rdb),
		Ledger:    sqlite.NewFulfillmentLedger(db),
		Notifier:  notifier,
		Generator: &pin.RandGenerator{},
		Recorder:  &outbox.Recorder{Repo: outboxRepo},
		Logger:    logger,
		Metrics:   counters,
	}

	bus := eventbus.NewInMemoryBus()

	auditHandler := &audit.Handler{Logger: logger}
	bus.Subscribe(event.PinIssued, auditHandler.Handle)
	bus.Subscribe(event.PinDeliveryFailed, auditHandler.Handle)

	dispatcher := &outbox.Dispatcher{
		Repo:         outboxRepo,
		EventBus:     bus,
		Logger:       logger,
		PollInterval: 5 * time.Second,
		BatchSize:    20,
	}
	go dispatcher.Run(ctx)

	webhookHandler := &httpapi.WebhookHandler{
		Service: service,
		Logger:  logger,
	}

	router := httpapi.NewRouter(webhookHandler)

	log.Println("HTTP server running on port :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}

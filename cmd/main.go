package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-chatbot/internal/auth"
	"github.com/ukydev/fleet-chatbot/internal/bot"
	"github.com/ukydev/fleet-chatbot/internal/config"
	"github.com/ukydev/fleet-chatbot/internal/maintenance"
	"github.com/ukydev/fleet-chatbot/internal/notify"
	"github.com/ukydev/fleet-chatbot/internal/report"
	"github.com/ukydev/fleet-chatbot/internal/server"
	"github.com/ukydev/fleet-chatbot/internal/store"
	"github.com/ukydev/fleet-chatbot/internal/sync"
	"github.com/ukydev/fleet-chatbot/internal/tunnel"
	"github.com/ukydev/fleet-chatbot/internal/twilio"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	cfg := config.Load()

	if err := os.MkdirAll(cfg.ReportsDir, 0o755); err != nil {
		log.WithError(err).Fatal("failed to create reports directory")
	}

	dataStore, mirror := buildStore(cfg)
	tracker := maintenance.NewTracker()
	generator := report.NewGenerator()
	urls := tunnel.NewClient(cfg.NgrokAPIURL, cfg.BaseURL)
	responder := bot.NewResponder(dataStore, generator, urls, cfg.ReportsDir)
	authSvc := auth.NewService(cfg.JWTSecret, cfg.AdminUsername, cfg.AdminPasswordHash)

	var syncer *sync.Syncer
	if cfg.ExcelSourcePath != "" {
		syncer = sync.NewSyncer(
			cfg.ExcelSourcePath,
			cfg.VehicleCatalogPath,
			cfg.MaintenanceRecordsPath,
			cfg.FaultReportsPath,
			cfg.SyncTrackingPath,
			mirror,
		)
	}

	scheduler := startScheduler(cfg, dataStore, tracker, syncer)
	defer scheduler.Stop()

	registerWebhook(cfg, urls)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.New(responder, dataStore, tracker, authSvc, syncer, cfg.ReportsDir).Router(),
	}

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}

// buildStore selects the data backend. The Mongo backend also acts as
// a sync mirror so both representations stay in step.
func buildStore(cfg *config.Config) (store.Store, sync.Mirror) {
	fileStore := store.NewFileStore(cfg.VehicleCatalogPath, cfg.MaintenanceRecordsPath)
	if cfg.StoreBackend != "mongo" {
		return fileStore, nil
	}

	client, err := store.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	mongoStore := store.NewMongoStore(client.Database(cfg.MongoDB))
	log.WithField("database", cfg.MongoDB).Info("using MongoDB backend")
	return mongoStore, mongoStore
}

func startScheduler(cfg *config.Config, dataStore store.Store, tracker *maintenance.Tracker, syncer *sync.Syncer) *cron.Cron {
	scheduler := cron.New()

	if syncer != nil {
		if _, err := scheduler.AddFunc(cfg.SyncSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := syncer.Run(ctx); err != nil {
				log.WithError(err).Error("scheduled sync failed")
			}
		}); err != nil {
			log.WithError(err).Fatal("invalid sync schedule")
		}
		log.WithField("schedule", cfg.SyncSchedule).Info("Excel sync scheduled")
	}

	if cfg.MQTTBroker != "" {
		publisher, err := notify.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTAlertTopic)
		if err != nil {
			log.WithError(err).Warn("MQTT unavailable, alert publishing disabled")
		} else {
			if _, err := scheduler.AddFunc("@daily", func() {
				publishAlerts(dataStore, tracker, publisher)
			}); err != nil {
				log.WithError(err).Fatal("failed to schedule alert scan")
			}
			log.Info("daily alert scan scheduled")
		}
	}

	scheduler.Start()
	return scheduler
}

func publishAlerts(dataStore store.Store, tracker *maintenance.Tracker, publisher notify.Publisher) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	snap, err := dataStore.Load(ctx)
	if err != nil {
		log.WithError(err).Error("alert scan failed to load fleet data")
		return
	}
	alerts := tracker.Alerts(snap, time.Now(), 30)
	if err := publisher.PublishAlerts(ctx, alerts); err != nil {
		log.WithError(err).Error("failed to publish alerts")
	}
}

// registerWebhook points the Twilio sandbox at the current public URL
// so inbound messages reach this instance after a tunnel restart.
func registerWebhook(cfg *config.Config, urls *tunnel.Client) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	base, err := urls.PublicURL(ctx)
	if err != nil {
		log.WithError(err).Warn("no public URL available, skipping webhook registration")
		return
	}

	client := twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
	if err := client.UpdateWebhook(ctx, base+"/webhook"); err != nil {
		log.WithError(err).Warn("failed to register Twilio webhook")
		return
	}
	log.WithField("url", base+"/webhook").Info("Twilio webhook registered")
}

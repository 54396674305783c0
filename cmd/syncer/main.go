// One-shot Excel import. Runs a single sync against the configured
// workbook and prints the result, for cron jobs and manual refreshes.
package main

import (
	"context"
	"flag"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-chatbot/internal/config"
	"github.com/ukydev/fleet-chatbot/internal/sync"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	source := flag.String("source", "", "path to the Excel workbook (overrides EXCEL_SOURCE_PATH)")
	flag.Parse()

	cfg := config.Load()
	if *source != "" {
		cfg.ExcelSourcePath = *source
	}
	if cfg.ExcelSourcePath == "" {
		log.Fatal("no Excel source configured, set EXCEL_SOURCE_PATH or pass -source")
	}

	syncer := sync.NewSyncer(
		cfg.ExcelSourcePath,
		cfg.VehicleCatalogPath,
		cfg.MaintenanceRecordsPath,
		cfg.FaultReportsPath,
		cfg.SyncTrackingPath,
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := syncer.Run(ctx)
	if err != nil {
		log.WithError(err).Fatal("sync failed")
	}
	if !res.Changed {
		log.Info("workbook unchanged, nothing to do")
		return
	}
	log.WithFields(log.Fields{
		"vehicles": res.Vehicles,
		"records":  res.Records,
		"faults":   res.Faults,
	}).Info("sync complete")
}

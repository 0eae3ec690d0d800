package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ecommerce-etl/internal/config"
	"ecommerce-etl/internal/database"
	"ecommerce-etl/internal/logging"
	"ecommerce-etl/internal/runner"
	"ecommerce-etl/internal/warehouse"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	configPath := flag.String("config", "config.yaml", "path to the yaml config file (optional)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		exitCode = 1
		return
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	source := database.NewMongoSource(cfg.Source.Database)
	if err := source.Connect(cfg.MongoURI()); err != nil {
		logger.WithError(err).Error("Failed to connect to the document store")
		exitCode = 1
		return
	}
	defer source.Close()

	sink, err := database.NewSink(warehouse.Dialect(cfg.Sink.Driver))
	if err != nil {
		logger.WithError(err).Error("Unsupported sink")
		exitCode = 1
		return
	}
	if err := sink.Connect(cfg.SinkDSN()); err != nil {
		logger.WithError(err).Errorf("Failed to connect to %s", cfg.Sink.Driver)
		exitCode = 1
		return
	}
	defer sink.Close()

	r := runner.New(source, sink, runner.Options{
		Collections: runner.Collections{
			Users:    cfg.Source.Collections.Users,
			Products: cfg.Source.Collections.Products,
			Carts:    cfg.Source.Collections.Carts,
		},
		BatchSize:     cfg.Sink.BatchSize,
		ParallelClean: cfg.Pipeline.ParallelClean,
	}, logger)

	report, err := r.Run(context.Background())
	if err != nil {
		logger.WithError(err).Error("ETL run failed")
		exitCode = 1
		return
	}

	jsonOutput, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.WithError(err).Error("Failed to marshal report")
		exitCode = 1
		return
	}
	fmt.Println(string(jsonOutput))
}

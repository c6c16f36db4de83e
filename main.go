package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/smferguson/debezium/config"
	"github.com/smferguson/debezium/lib/kafkalib"
	"github.com/smferguson/debezium/lib/logger"
	"github.com/smferguson/debezium/lib/mtr"
	"github.com/smferguson/debezium/sources/mysql"
)

func setUpMetrics(cfg *config.Metrics) (mtr.Client, error) {
	if cfg == nil {
		return mtr.NoopClient{}, nil
	}

	slog.Info("Creating metrics client")
	return mtr.New(cfg.Namespace, cfg.Tags, 0.5)
}

func main() {
	var configFilePath string
	flag.StringVar(&configFilePath, "config", "", "path to config file")
	flag.Parse()

	cfg, err := config.ReadConfig(configFilePath)
	if err != nil {
		logger.Fatal("Failed to read config file", slog.Any("err", err))
	}

	_logger, terminate := logger.NewLogger(cfg)
	slog.SetDefault(_logger)
	defer terminate()

	ctx := context.Background()

	statsD, err := setUpMetrics(cfg.Metrics)
	if err != nil {
		logger.Fatal("Failed to set up metrics", slog.Any("err", err))
	}

	if cfg.Kafka == nil {
		logger.Fatal("Kafka configuration is not set")
	}

	writer := kafkalib.NewWriter(*cfg.Kafka, statsD)
	sink := mysql.NewKafkaSink(writer)

	source, err := mysql.Load(ctx, *cfg, statsD)
	if err != nil {
		logger.Fatal("Failed to load MySQL source", slog.Any("err", err))
	}
	defer source.Close()

	if err := source.Run(ctx, sink); err != nil {
		logger.Fatal("Failed to run MySQL snapshot", slog.Any("err", err))
	}
}

package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/smferguson/debezium/constants"
)

type Kafka struct {
	BootstrapServers string `yaml:"bootstrapServers"`
	TopicPrefix      string `yaml:"topicPrefix"`
	PublishSize      int    `yaml:"publishSize"`
}

func (k *Kafka) GenerateDefault() {
	if k.PublishSize == 0 {
		k.PublishSize = 2_500
	}
}

func (k *Kafka) Validate() error {
	if k == nil {
		return fmt.Errorf("kafka config is nil")
	}

	if k.BootstrapServers == "" {
		return fmt.Errorf("bootstrap servers not passed in")
	}

	if k.TopicPrefix == "" {
		return fmt.Errorf("topic prefix not passed in")
	}

	return nil
}

type Reporting struct {
	Sentry *Sentry `yaml:"sentry"`
}

type Sentry struct {
	DSN string `yaml:"dsn"`
}

type Metrics struct {
	Namespace string   `yaml:"namespace"`
	Tags      []string `yaml:"tags"`
}

type Settings struct {
	MySQL     *MySQL     `yaml:"mysql"`
	Reporting *Reporting `yaml:"reporting"`
	Metrics   *Metrics   `yaml:"metrics"`
	Kafka     *Kafka     `yaml:"kafka"`
}

func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("config is nil")
	}

	if err := s.MySQL.Validate(); err != nil {
		return fmt.Errorf("mysql validation failed: %w", err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.Validate(); err != nil {
			return fmt.Errorf("kafka validation failed: %w", err)
		}
	}

	return nil
}

func ReadConfig(fp string) (*Settings, error) {
	bytes, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var settings Settings
	if err = yaml.Unmarshal(bytes, &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	if err = settings.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config file: %w", err)
	}

	if settings.Kafka != nil {
		settings.Kafka.GenerateDefault()
	}

	slog.Info("Loaded configuration", slog.String("path", fp))
	return &settings, nil
}

func InjectIntoContext(ctx context.Context, settings *Settings) context.Context {
	return context.WithValue(ctx, constants.ConfigKey, settings)
}

func FromContext(ctx context.Context) *Settings {
	val := ctx.Value(constants.ConfigKey)
	if val == nil {
		return nil
	}

	settings, isOk := val.(*Settings)
	if !isOk {
		return nil
	}

	return settings
}

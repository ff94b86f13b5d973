package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "DEFAULT_LANGUAGE", "CREATOR_STATS_CACHE_TTL",
		"RESOLVER_SPECULATIVE", "EVENTS_ENABLED", "EVENTS_PUBLISHER", "KAFKA_BROKERS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, 5*time.Minute, cfg.CreatorStatsCacheTTL)
	assert.False(t, cfg.ResolverSpeculative)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, PublisherKafka, cfg.Events.Publisher)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("CREATOR_STATS_CACHE_TTL", "0s")
	t.Setenv("RESOLVER_SPECULATIVE", "true")
	t.Setenv("EVENTS_PUBLISHER", "CHANNEL")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")
	t.Setenv("COUNTER_EVENTS_TOPIC", "counters")

	cfg := FromEnv()
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Duration(0), cfg.CreatorStatsCacheTTL)
	assert.True(t, cfg.ResolverSpeculative)
	assert.Equal(t, PublisherChannel, cfg.Events.Publisher)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Events.GetKafkaBrokers())
	assert.Equal(t, "counters", cfg.Events.CounterTopic)
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CREATOR_STATS_CACHE_TTL", "soon")
	t.Setenv("RESOLVER_SPECULATIVE", "maybe")

	cfg := FromEnv()
	assert.Equal(t, 5*time.Minute, cfg.CreatorStatsCacheTTL)
	assert.False(t, cfg.ResolverSpeculative)
}

func TestCreateTransport(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("disabled", func(t *testing.T) {
		cfg := EventConfig{Enabled: false, Publisher: PublisherKafka}
		transport, err := cfg.CreateTransport(logger, true)
		require.NoError(t, err)
		assert.IsType(t, &events.MockEventPublisher{}, transport.Publisher)
		assert.Nil(t, transport.Subscriber)
	})

	t.Run("channel", func(t *testing.T) {
		cfg := EventConfig{Enabled: true, Publisher: PublisherChannel, CounterTopic: "counters"}
		transport, err := cfg.CreateTransport(logger, true)
		require.NoError(t, err)
		assert.IsType(t, &events.WatermillEventPublisher{}, transport.Publisher)
		assert.NotNil(t, transport.Subscriber)
		assert.NoError(t, transport.Publisher.Close())
	})

	t.Run("unknown falls back to mock", func(t *testing.T) {
		cfg := EventConfig{Enabled: true, Publisher: "nats"}
		publisher, err := cfg.CreateEventPublisher(logger)
		require.NoError(t, err)
		assert.IsType(t, &events.MockEventPublisher{}, publisher)
	})
}

package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(logrus.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "owner", cfg.OwnerID)
	assert.Zero(t, cfg.InitialBalance)
	assert.Empty(t, cfg.PostgresDSN)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "ledger_events", cfg.KafkaTopic)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LEDGER_LISTEN_ADDR", ":9090")
	t.Setenv("LEDGER_OWNER_ID", "alice")
	t.Setenv("LEDGER_INITIAL_BALANCE", "2500")
	t.Setenv("LEDGER_KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg, err := Load(logrus.New())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "alice", cfg.OwnerID)
	assert.Equal(t, int64(2500), cfg.InitialBalance)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
}

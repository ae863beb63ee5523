package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config holds everything the embedding server needs to wire the ledger:
// who owns it, where the log lives, and where events go.
type Config struct {
	ListenAddr     string   `envconfig:"LEDGER_LISTEN_ADDR" default:":8080"`
	OwnerID        string   `envconfig:"LEDGER_OWNER_ID" default:"owner"`
	InitialBalance int64    `envconfig:"LEDGER_INITIAL_BALANCE" default:"0"`
	PostgresDSN    string   `envconfig:"LEDGER_POSTGRES_DSN"`    // empty: in-memory log
	KafkaBrokers   []string `envconfig:"LEDGER_KAFKA_BROKERS"`   // empty: no kafka publisher
	KafkaTopic     string   `envconfig:"LEDGER_KAFKA_TOPIC" default:"ledger_events"`
	LogLevel       string   `envconfig:"LEDGER_LOG_LEVEL" default:"info"`
}

// Load reads .env when present, then populates Config from the environment.
// A missing .env is not an error; in containers the variables are real.
func Load(log logrus.FieldLogger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using system environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package cmd

import (
	"fmt"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	HTTPPort      string
	StorageDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	PromoCacheTTL time.Duration

	KafkaHost              string
	KafkaNotificationTopic string

	PaymentBaseURL     string
	PaymentSecretKey   string
	PaymentCallbackURL string

	ShippingTariffFile  string
	PromoCodesFile      string
	EscrowSweepSchedule string
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

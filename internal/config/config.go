package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Payment    PaymentConfig    `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PaymentConfig holds the payment-link and webhook settings per gateway
type PaymentConfig struct {
	// DefaultGateway routes payment-link requests that do not name a
	// gateway explicitly
	DefaultGateway types.PaymentGatewayType
	// MerchantVPA is the issuer's UPI virtual payment address used for
	// UPI intent links
	MerchantVPA  string
	MerchantName string
	Gateways     map[string]GatewayConfig
}

// GatewayConfig holds per-gateway credentials. Only the webhook secret is
// consumed in this service; key and secret belong to the outbound gateway
// integration.
type GatewayConfig struct {
	APIKey        string
	APISecret     string
	WebhookSecret string
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/gstflow")

	// Set up environment variables support
	v.SetEnvPrefix("GSTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Payment.DefaultGateway != "" {
		return c.Payment.DefaultGateway.Validate()
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development
// and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Payment: PaymentConfig{
			DefaultGateway: types.PaymentGatewayTypeRazorpay,
			MerchantVPA:    "merchant@upi",
			MerchantName:   "GSTFlow Merchant",
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GatewayConfig returns the credentials for a gateway, if configured
func (c PaymentConfig) GatewayConfig(gateway types.PaymentGatewayType) (GatewayConfig, bool) {
	cfg, ok := c.Gateways[gateway.String()]
	return cfg, ok
}

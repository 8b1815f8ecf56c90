package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// SupplierTimeoutSeconds bounds every outbound supplier call.
	SupplierTimeoutSeconds int `mapstructure:"SUPPLIER_TIMEOUT_SECONDS" default:"15"`
	// HealthProbeTimeoutSeconds bounds each individual health probe.
	HealthProbeTimeoutSeconds int `mapstructure:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"5"`
	// HealthPollSchedule is the cron expression for background health polling.
	HealthPollSchedule string `mapstructure:"HEALTH_POLL_SCHEDULE" default:"0 */5 * * * *"`
	// NetTermsDays is the credit window for net-terms suppliers.
	NetTermsDays int `mapstructure:"NET_TERMS_DAYS" default:"30"`
	// SearchResultCap limits the total item count of a cross-supplier search.
	SearchResultCap int `mapstructure:"SEARCH_RESULT_CAP" default:"100"`
	// SearchCacheTTLSeconds is how long cached catalog searches stay valid.
	SearchCacheTTLSeconds int `mapstructure:"SEARCH_CACHE_TTL_SECONDS" default:"300"`

	// RedisURL is the connection URL for the catalog search cache.
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Suppliers holds the per-supplier API configuration.
	Suppliers SuppliersConfig `mapstructure:",squash"`

	// Storefront holds the storefront sync target configuration.
	Storefront StorefrontConfig `mapstructure:",squash"`
}

// SuppliersConfig holds connection details for every supplier adapter. An
// adapter whose credentials are absent starts disabled.
type SuppliersConfig struct {
	// Printforge is the print-on-demand supplier (prepaid).
	Printforge PrintforgeConfig `mapstructure:",squash"`
	// Oceansource is the general dropship catalog supplier (prepaid).
	Oceansource OceansourceConfig `mapstructure:",squash"`
	// Codexpress is the cash-on-delivery supplier.
	Codexpress CodexpressConfig `mapstructure:",squash"`
	// Nortrade is the B2B net-terms supplier.
	Nortrade NortradeConfig `mapstructure:",squash"`
	// Consignly is the consignment partner.
	Consignly ConsignlyConfig `mapstructure:",squash"`
}

// PrintforgeConfig holds credentials for the print-on-demand supplier.
type PrintforgeConfig struct {
	// BaseURL is the supplier API base URL.
	BaseURL string `mapstructure:"PRINTFORGE_BASE_URL" default:"https://api.printforge.example"`
	// APIToken is the bearer token. Empty token disables the adapter.
	APIToken string `mapstructure:"PRINTFORGE_API_TOKEN"`
}

// OceansourceConfig holds key/secret credentials for the dropship catalog.
type OceansourceConfig struct {
	// BaseURL is the supplier API base URL.
	BaseURL string `mapstructure:"OCEANSOURCE_BASE_URL" default:"https://api.oceansource.example"`
	// APIKey is the public API key.
	APIKey string `mapstructure:"OCEANSOURCE_API_KEY"`
	// APISecret is the secret paired with the key.
	APISecret string `mapstructure:"OCEANSOURCE_API_SECRET"`
	// RequestsPerMinute caps outbound calls; oceansource throttles hard.
	RequestsPerMinute int `mapstructure:"OCEANSOURCE_REQUESTS_PER_MINUTE" default:"60"`
}

// CodexpressConfig holds credentials for the cash-on-delivery supplier.
type CodexpressConfig struct {
	// BaseURL is the supplier API base URL.
	BaseURL string `mapstructure:"CODEXPRESS_BASE_URL" default:"https://api.codexpress.example"`
	// APIToken is the bearer token. Empty token disables the adapter.
	APIToken string `mapstructure:"CODEXPRESS_API_TOKEN"`
}

// NortradeConfig holds credentials for the net-terms supplier.
type NortradeConfig struct {
	// BaseURL is the supplier API base URL.
	BaseURL string `mapstructure:"NORTRADE_BASE_URL" default:"https://api.nortrade.example"`
	// APIToken is the bearer token. Empty token disables the adapter.
	APIToken string `mapstructure:"NORTRADE_API_TOKEN"`
}

// ConsignlyConfig holds credentials for the consignment partner.
type ConsignlyConfig struct {
	// BaseURL is the partner API base URL.
	BaseURL string `mapstructure:"CONSIGNLY_BASE_URL" default:"https://api.consignly.example"`
	// APIToken is the bearer token. Empty token disables the adapter.
	APIToken string `mapstructure:"CONSIGNLY_API_TOKEN"`
}

// StorefrontConfig holds the credentials for the WooCommerce storefront the
// orchestration layer pushes products to and ingests orders from.
type StorefrontConfig struct {
	// URL is the base URL of the WooCommerce store.
	URL string `mapstructure:"WC_URL"`
	// ConsumerKey is the public key for API access.
	ConsumerKey string `mapstructure:"WC_CONSUMER_KEY"`
	// ConsumerSecret is the secret key for API access.
	ConsumerSecret string `mapstructure:"WC_CONSUMER_SECRET"`
}

// Configured reports whether the storefront credentials are present.
func (c StorefrontConfig) Configured() bool {
	return c.URL != "" && c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}

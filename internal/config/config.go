package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"address-search/internal/models"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress         string        `mapstructure:"SERVER_ADDRESS"`
	DBSource              string        `mapstructure:"DB_SOURCE"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
	NominatimURL          string        `mapstructure:"NOMINATIM_URL"`
	NominatimUserAgent    string        `mapstructure:"NOMINATIM_USER_AGENT"`
	GeocoderTimeout       time.Duration `mapstructure:"GEOCODER_TIMEOUT"`
	GeocoderRatePerSecond float64       `mapstructure:"GEOCODER_RATE_PER_SECOND"`
	GeocoderBurst         int           `mapstructure:"GEOCODER_BURST"`
	PostalVariantNames    string        `mapstructure:"POSTAL_VARIANTS"`
	RegionSpanMeters      float64       `mapstructure:"REGION_SPAN_METERS"`
	RegionResultLimit     int           `mapstructure:"REGION_RESULT_LIMIT"`

	// PostalVariants is parsed from PostalVariantNames.
	PostalVariants []models.PostalField `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("NOMINATIM_USER_AGENT", "address-search/1.0")
	v.SetDefault("GEOCODER_TIMEOUT", "10s")
	v.SetDefault("GEOCODER_RATE_PER_SECOND", 1.0)
	v.SetDefault("GEOCODER_BURST", 1)
	v.SetDefault("POSTAL_VARIANTS", "street")
	v.SetDefault("REGION_SPAN_METERS", 10_000_000.0)
	v.SetDefault("REGION_RESULT_LIMIT", 20)
}

// LoadConfig reads app.env from path, then overrides it with environment variables.
// A missing app.env is not an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	var config Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	variants, err := ParsePostalVariants(config.PostalVariantNames)
	if err != nil {
		return config, fmt.Errorf("config: %w", err)
	}
	config.PostalVariants = variants

	return config, nil
}

// ParsePostalVariants parses a comma separated list of postal field names, keeping order.
func ParsePostalVariants(list string) ([]models.PostalField, error) {
	var variants []models.PostalField
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		field, err := models.ParsePostalField(name)
		if err != nil {
			return nil, err
		}
		variants = append(variants, field)
	}
	return variants, nil
}

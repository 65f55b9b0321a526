package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. It is loaded once at
// process start and treated as immutable afterwards.
type Config struct {
	Database       DatabaseConfig           `yaml:"database"`
	Segments       map[string]SegmentConfig `yaml:"customer_segments"`
	BusinessRules  BusinessRulesConfig      `yaml:"business_rules"`
	DataGeneration DataGenerationConfig     `yaml:"data_generation"`
	QualityChecks  QualityChecksConfig      `yaml:"quality_checks"`
	Retention      RetentionConfig          `yaml:"retention"`
	Scheduler      SchedulerConfig          `yaml:"scheduler"`
	Server         ServerConfig             `yaml:"server"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SegmentConfig contains per-segment generation parameters
type SegmentConfig struct {
	AvgNightsPerStay float64 `yaml:"avg_nights_per_stay"`
}

// BusinessRulesConfig contains business-rule probabilities
type BusinessRulesConfig struct {
	CancellationRate float64 `yaml:"cancellation_rate"`
}

// DataGenerationConfig contains generation volumes for both run modes
type DataGenerationConfig struct {
	Historical HistoricalConfig `yaml:"historical"`
	Weekly     WeeklyConfig     `yaml:"weekly"`
}

// HistoricalConfig contains volumes for the one-time historical run
type HistoricalConfig struct {
	NumCustomers int `yaml:"num_customers"`
}

// WeeklyConfig contains volumes for the weekly incremental run
type WeeklyConfig struct {
	NewCustomersPerWeek int `yaml:"new_customers_per_week"`
	BookingsPerWeek     int `yaml:"bookings_per_week"`
}

// QualityChecksConfig contains thresholds for the quality gate
type QualityChecksConfig struct {
	MaxBookingAmount float64 `yaml:"max_booking_amount"`
	MinNightsStay    int     `yaml:"min_nights_stay"`
	MaxNightsStay    int     `yaml:"max_nights_stay"`
}

// RetentionConfig contains the rolling-window retention settings
type RetentionConfig struct {
	Years int `yaml:"years"`
}

// SchedulerConfig contains settings for the cron-driven weekly run
type SchedulerConfig struct {
	WeeklyRunEnabled bool   `yaml:"weekly_run_enabled"`
	WeeklyRunSpec    string `yaml:"weekly_run_spec"`
}

// ServerConfig contains admin HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "hotel_user",
			Password: "hotel_pass",
			Database: "hotel_db",
			SSLMode:  "disable",
		},
		Segments: map[string]SegmentConfig{
			"business_traveler":  {AvgNightsPerStay: 2},
			"vacation_traveler":  {AvgNightsPerStay: 5},
			"occasional_visitor": {AvgNightsPerStay: 3},
		},
		BusinessRules: BusinessRulesConfig{
			CancellationRate: 0.15,
		},
		DataGeneration: DataGenerationConfig{
			Historical: HistoricalConfig{NumCustomers: 500},
			Weekly:     WeeklyConfig{NewCustomersPerWeek: 5, BookingsPerWeek: 50},
		},
		QualityChecks: QualityChecksConfig{
			MaxBookingAmount: 10000,
			MinNightsStay:    1,
			MaxNightsStay:    30,
		},
		Retention: RetentionConfig{Years: 5},
		Scheduler: SchedulerConfig{
			WeeklyRunEnabled: false,
			WeeklyRunSpec:    "0 3 * * 1",
		},
		Server: ServerConfig{Port: 8080},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	// Read file
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// AvgNights returns the mean stay length for a segment, falling back to a
// sensible default when the segment is missing from the config file.
func (c *Config) AvgNights(segment string) float64 {
	if s, ok := c.Segments[segment]; ok && s.AvgNightsPerStay > 0 {
		return s.AvgNightsPerStay
	}
	return 3
}

// RetentionWindow returns the rolling retention window as a duration.
// The window is day-based (years * 365) rather than calendar-based.
func (c *Config) RetentionWindow() time.Duration {
	years := c.Retention.Years
	if years <= 0 {
		years = 5
	}
	return time.Duration(years) * 365 * 24 * time.Hour
}

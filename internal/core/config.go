package core

import (
	"fmt"
	"os"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	"github.com/jo-hoe/publicgallery/internal/backend/database"
	"github.com/jo-hoe/publicgallery/internal/gallery"
)

const (
	defaultPort          = 8080
	defaultBodyLimit     = "32M"
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
	defaultQuotaBytes    = 5 * 1024 * 1024
	defaultDecodeWorkers = 4
)

type Storage struct {
	Type             string `yaml:"type" validate:"oneof=sqlite redis memory"`
	ConnectionString string `yaml:"connectionString"`
	SlotKey          string `yaml:"slotKey" validate:"required"`
	// QuotaBytes caps the size of the persisted snapshot, 0 disables the cap.
	QuotaBytes int `yaml:"quotaBytes" validate:"gte=0"`
}

type Logger struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type GalleryConfig struct {
	// MaxImages caps the number of images, 0 means unbounded.
	MaxImages              int  `yaml:"maxImages" validate:"gte=0"`
	DecodeWorkers          int  `yaml:"decodeWorkers" validate:"gte=0"`
	PreserveSelectionOrder bool `yaml:"preserveSelectionOrder"`
}

type ServiceConfig struct {
	Port      int           `yaml:"port" validate:"gte=0,lte=65535"`
	BodyLimit string        `yaml:"bodyLimit"`
	Logger    Logger        `yaml:"logger"`
	Storage   Storage       `yaml:"storage"`
	Gallery   GalleryConfig `yaml:"gallery"`
}

// DefaultConfig returns the configuration used for every value missing in the config file.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:      defaultPort,
		BodyLimit: defaultBodyLimit,
		Logger: Logger{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Storage: Storage{
			Type:             database.TypeSQLite,
			ConnectionString: "gallery.db",
			SlotKey:          gallery.DefaultSlotKey,
			QuotaBytes:       defaultQuotaBytes,
		},
		Gallery: GalleryConfig{
			DecodeWorkers: defaultDecodeWorkers,
		},
	}
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML on top of the defaults
	config := DefaultConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return config, nil
}

// ValidateConfig checks value ranges and the storage settings.
func ValidateConfig(config *ServiceConfig) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}
	if config.Storage.Type != database.TypeMemory && config.Storage.ConnectionString == "" {
		return fmt.Errorf("storage of type %s requires a connectionString", config.Storage.Type)
	}
	return nil
}

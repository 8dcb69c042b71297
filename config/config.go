// Ininicializing common application configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ModeLambda = "lambda"
	ModeLocal  = "local"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Thumbnail ThumbnailConfig `mapstructure:"thumbnail"`
	Origin    OriginConfig    `mapstructure:"origin"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

type ServerConfig struct {
	AppVersion   string        `mapstructure:"app_version"`
	Mode         string        `mapstructure:"mode"` // lambda | local
	GinMode      string        `mapstructure:"gin_mode"`
	Port         string        `mapstructure:"port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Idle_timeout time.Duration `mapstructure:"idle_timeout"`
}

type ThumbnailConfig struct {
	EdgeLength           int    `mapstructure:"edge_length"`
	MaxDecodedPixels     int64  `mapstructure:"max_decoded_pixels"`
	PublishFailurePolicy string `mapstructure:"publish_failure_policy"` // succeed | fail
}

type OriginConfig struct {
	MaxObjectBytes int64         `mapstructure:"max_object_bytes"`
	Timeout        time.Duration `mapstructure:"timeout"` // 0 keeps transport defaults
}

type AWSConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	ForcePathStyle  bool   `mapstructure:"force_path_style"`
}

type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"` // comma separated, empty disables the outcome stream
	Topic   string `mapstructure:"topic"`
}

type LogConfig struct {
	Level            string `mapstructure:"level"`
	DisableTimestamp bool   `mapstructure:"disable_timestamp"`
}

type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

// LoadConfig reads config/config.yaml when present; every key can be overridden from the
// environment with the THUMBNAILER_ prefix, e.g. THUMBNAILER_THUMBNAIL_EDGE_LENGTH.
func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.AddConfigPath(".")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	viperInstance.SetEnvPrefix("THUMBNAILER")
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	err := viperInstance.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Server.Mode != ModeLambda && c.Server.Mode != ModeLocal:
		return fmt.Errorf("server.mode must be %q or %q, got %q", ModeLambda, ModeLocal, c.Server.Mode)
	case c.Thumbnail.EdgeLength <= 0:
		return fmt.Errorf("thumbnail.edge_length must be positive, got %d", c.Thumbnail.EdgeLength)
	case c.Thumbnail.MaxDecodedPixels <= 0:
		return fmt.Errorf("thumbnail.max_decoded_pixels must be positive, got %d", c.Thumbnail.MaxDecodedPixels)
	case c.Thumbnail.PublishFailurePolicy != "succeed" && c.Thumbnail.PublishFailurePolicy != "fail":
		return fmt.Errorf("thumbnail.publish_failure_policy must be succeed or fail, got %q", c.Thumbnail.PublishFailurePolicy)
	case c.Origin.MaxObjectBytes <= 0:
		return fmt.Errorf("origin.max_object_bytes must be positive, got %d", c.Origin.MaxObjectBytes)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.app_version", "1.0.0")
	v.SetDefault("server.mode", ModeLambda)
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("thumbnail.edge_length", 128)
	v.SetDefault("thumbnail.max_decoded_pixels", 40_000_000)
	v.SetDefault("thumbnail.publish_failure_policy", "succeed")

	v.SetDefault("origin.max_object_bytes", 10_000_000)
	v.SetDefault("origin.timeout", time.Duration(0))

	v.SetDefault("aws.region", GetEnv("AWS_REGION", "us-east-1"))
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("aws.force_path_style", false)

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "thumbnail-outcomes")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.disable_timestamp", true)

	v.SetDefault("storage.base_path", "./storage")
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

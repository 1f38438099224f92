package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/logger"
)

const (
	app       = "jobmatch"
	envPrefix = "JOBMATCH"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	S3       S3Config       `mapstructure:"s3"`
	AI       AIConfig       `mapstructure:"ai"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	CORSOrigins  []string      `mapstructure:"cors-origins"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
	CookieSecure bool          `mapstructure:"cookie-secure"`
}

// StorageConfig selects the backend of each store: memory, redis or mongo.
type StorageConfig struct {
	Jobs     string `mapstructure:"jobs"`
	Users    string `mapstructure:"users"`
	Sessions string `mapstructure:"sessions"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type SessionsConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type S3Config struct {
	Bucket              string `mapstructure:"bucket"`
	Region              string `mapstructure:"region"`
	Endpoint            string `mapstructure:"endpoint"`
	AccessKeyID         string `mapstructure:"access-key-id"`
	SecretAccessKeyFile string `mapstructure:"secret-access-key-file"`
}

type AIConfig struct {
	Provider string       `mapstructure:"provider"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "jobmatch is a job board backend: job search, skill matching and resume storage",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

// setDefaults registers every key so env overrides apply even without a
// config file.
func setDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.cors-origins", []string{})
	viper.SetDefault("server.read-timeout", 15*time.Second)
	viper.SetDefault("server.write-timeout", 15*time.Second)
	viper.SetDefault("server.cookie-secure", false)

	viper.SetDefault("storage.jobs", "memory")
	viper.SetDefault("storage.users", "memory")
	viper.SetDefault("storage.sessions", "memory")

	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", app)

	viper.SetDefault("sessions.ttl", 24*time.Hour)

	viper.SetDefault("s3.bucket", "")
	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("s3.endpoint", "")
	viper.SetDefault("s3.access-key-id", "")
	viper.SetDefault("s3.secret-access-key-file", "")

	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}
}

// loadConfig reads the optional config file and decodes the merged settings.
// An explicitly given file must exist.
func loadConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &config, nil
}

func newLogger() (*zap.Logger, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	return log, nil
}

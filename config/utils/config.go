// Package config loads environment variables & the config.yaml file into the
// application's config structs: app, manager loop, scheduler, queue list,
// logger, database, cache and message broker settings.
package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type (
	AppConfig struct {
		App       *App       `mapstructure:"app"`
		Logger    *Logger    `mapstructure:"logger"`
		Manager   *Manager   `mapstructure:"manager"`
		Scheduler *Scheduler `mapstructure:"scheduler"`
		Queues    []Queue    `mapstructure:"queues"`
		DB        *DB        `mapstructure:"db"`
		Redis     *Redis     `mapstructure:"redis"`
		AMQP      *AMQP      `mapstructure:"amqp"`
	}

	// App contains the application identity variables
	App struct {
		Name  string `mapstructure:"name"`
		Env   string `mapstructure:"env"`
		Owner string `mapstructure:"owner"`
	}

	// Manager contains the submission loop tunables
	Manager struct {
		Root              string        `mapstructure:"root"`
		MaxAttempts       int           `mapstructure:"maxAttempts"`
		PassInterval      time.Duration `mapstructure:"passInterval"`
		SubmitPause       time.Duration `mapstructure:"submitPause"`
		DependencyTimeout time.Duration `mapstructure:"dependencyTimeout"`
		OracleCommand     []string      `mapstructure:"oracleCommand"`
	}

	// Scheduler contains the Slurm identity and cluster routing variables
	Scheduler struct {
		User             string `mapstructure:"user"`
		SecondaryCluster string `mapstructure:"secondaryCluster"`
	}

	// Queue is one partition entry of the placement priority list
	Queue struct {
		Name     string        `mapstructure:"name"`
		Limit    int           `mapstructure:"limit"`
		Cores    int           `mapstructure:"cores"`
		Walltime time.Duration `mapstructure:"walltime"`
		Cluster  string        `mapstructure:"cluster"`
	}

	// DB contains the environment variables for the job-history database
	DB struct {
		Enabled    bool   `mapstructure:"enabled"`
		Connection string `mapstructure:"connection"`
		Host       string `mapstructure:"host"`
		Port       string `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		Name       string `mapstructure:"name"`
	}

	// Redis contains the environment variables for the manager lease store
	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	}

	// AMQP contains the environment variables for the event broker
	AMQP struct {
		Enabled bool   `mapstructure:"enabled"`
		URL     string `mapstructure:"url"`
	}

	// Logger contains all the environment variables for the logger
	Logger struct {
		Level             string                `mapstructure:"level"`
		Development       bool                  `mapstructure:"development"`
		DisableStacktrace bool                  `mapstructure:"disableStacktrace"`
		Encoding          string                `mapstructure:"encoding"`
		EncoderConfig     zapcore.EncoderConfig `mapstructure:"encoderConfig"`
	}
)

// addZapEncoderConfig fills encoder config with zapcore types
func addZapEncoderConfig(cfg *zapcore.EncoderConfig) {
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.SecondsDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.EncodeName = func(s string, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString("[" + s + "]")
	}
}

// New creates a new AppConfig instance
func New() *AppConfig {
	// Set up viper to read the config.yaml file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/simulation-automation/")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("env")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Fatalf("config file not found: %v", err)
		} else {
			log.Fatalf("error reading config file: %v", err)
		}
	}

	// Bind the app.name key to the APP_NAME environment variable
	if err := viper.BindEnv("app.name", "APP_NAME"); err != nil {
		log.Fatalf("error finding APP_NAME env variable")
	}

	// Bind DB variables
	viper.BindEnv("db.host", "PG_HOST")
	viper.BindEnv("db.port", "PG_PORT")
	viper.BindEnv("db.user", "PG_USER")
	viper.BindEnv("db.password", "PG_PASS")
	viper.BindEnv("db.name", "PG_DB")

	// Bind Redis variables
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Bind broker and scheduler variables
	viper.BindEnv("amqp.url", "AMQP_URL")
	viper.BindEnv("scheduler.user", "SLURM_USER")
	viper.BindEnv("manager.root", "SIMULATION_ROOT")

	// Create an instance of AppConfig
	var config *AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("unable to decode into struct: %v", err)
	}
	addZapEncoderConfig(&config.Logger.EncoderConfig)

	return config
}

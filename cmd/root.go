package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cv-screener"

	triggerInteractive = "interactive"
	triggerScheduled   = "scheduled"
)

type Config struct {
	Store    *StoreConfig    `mapstructure:"store"`
	Source   *SourceConfig   `mapstructure:"source"`
	AI       *AIConfig       `mapstructure:"ai"`
	Usage    *UsageConfig    `mapstructure:"usage"`
	Schedule *ScheduleConfig `mapstructure:"schedule"`
}

type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

type SourceConfig struct {
	UserAgent      string `mapstructure:"user-agent"`
	MaxRetries     int    `mapstructure:"max-retries"`
	TimeoutSeconds int    `mapstructure:"timeout-seconds"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
	// MaxRetries is the number of additional evaluator attempts after the
	// first.
	MaxRetries         int `mapstructure:"max-retries"`
	ContextLimit       int `mapstructure:"context-limit"`
	NameLimit          int `mapstructure:"name-limit"`
	CallSpacingSeconds int `mapstructure:"call-spacing-seconds"`
	MaxLogLength       int `mapstructure:"max-log-length"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type UsageConfig struct {
	LogFile string `mapstructure:"log-file"`
}

type ScheduleConfig struct {
	// Cron expressions for the two unattended jobs. They must not overlap
	// for the same position's mutation path; scheduling discipline is the
	// concurrency guarantee here.
	Screen        string `mapstructure:"screen"`
	Reconcile     string `mapstructure:"reconcile"`
	ReconcileMode string `mapstructure:"reconcile-mode"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-screener scores job candidates against positions with an AI evaluator and keeps their resume links fresh",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

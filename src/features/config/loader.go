package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file from the given path and returns a new Manager.
// If the file doesn't exist, creates a default configuration.
func Load(path string) (*Manager, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		defaultCfg := createDefaultConfig()

		if err := saveDefaultConfig(path, defaultCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		applyEnvOverrides(defaultCfg)
		return NewManager(defaultCfg), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return NewManager(&cfg), nil
}

// applyEnvOverrides lets secrets come from the environment instead of the
// config file.
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if clientID := os.Getenv("YANDEX_CLIENT_ID"); clientID != "" {
		cfg.Auth.ClientID = clientID
	}
	if baseURL := os.Getenv("AUTH_BASE_URL"); baseURL != "" {
		cfg.Auth.BaseURL = baseURL
	}
}

// applyDefaults fills in values a hand-edited config commonly omits.
func applyDefaults(cfg *Config) {
	if cfg.Yandex.BaseURL == "" {
		cfg.Yandex.BaseURL = "https://api.music.yandex.net"
	}
	if cfg.Yandex.TimeoutSeconds == 0 {
		cfg.Yandex.TimeoutSeconds = 20
	}
	if cfg.Stats.TopLimit == 0 {
		cfg.Stats.TopLimit = 5
	}
	if cfg.Stats.RecentLikesDays == 0 {
		cfg.Stats.RecentLikesDays = 30
	}
	if cfg.Stats.HistoryDays == 0 {
		cfg.Stats.HistoryDays = 90
	}
	if cfg.Search.ResultLimit == 0 {
		cfg.Search.ResultLimit = 10
	}
}

// createDefaultConfig creates a new Config with sensible default values.
func createDefaultConfig() *Config {
	return &Config{
		Telegram: Telegram{
			Enabled:   true,
			Token:     "", // Can be obtained with https://t.me/BotFather
			BotHandle: "@YamuDemoBot",
		},
		Logger: Logger{
			Level:  "info",
			Format: "text",
		},
		Server: Server{
			PrintRoutes: false,
			Port:        8000,
		},
		Database: Database{
			Path: "./yamubot.db",
		},
		Auth: Auth{
			ClientID: "23cabbbdc6cd418abb4b39c32c41195d",
			BaseURL:  "http://localhost:8000",
		},
		Yandex: Yandex{
			BaseURL:        "https://api.music.yandex.net",
			TimeoutSeconds: 20,
		},
		Stats: Stats{
			TopLimit:        5,
			RecentLikesDays: 30,
			HistoryDays:     90,
		},
		Search: Search{
			ResultLimit: 10,
		},
	}
}

// saveDefaultConfig saves the default configuration to the specified file path.
func saveDefaultConfig(path string, cfg *Config) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	slog.Info("Default configuration saved", "path", path)
	return nil
}

package config

// Config holds the application configuration.
type Config struct {
	Telegram Telegram `yaml:"telegram"`
	Logger   Logger   `yaml:"logger"`
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	Yandex   Yandex   `yaml:"yandex"`
	Stats    Stats    `yaml:"stats"`
	Search   Search   `yaml:"search"`
}

// Telegram holds the bot transport configuration.
type Telegram struct {
	Enabled   bool   `yaml:"enabled"`
	Token     string `yaml:"token"`
	BotHandle string `yaml:"bot_handle"` // With @
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Database holds the configuration for the token database.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Auth holds the OAuth web-flow configuration.
type Auth struct {
	ClientID string `yaml:"client_id" validate:"required"`
	// BaseURL is the public URL the callback page is reachable on.
	BaseURL string `yaml:"base_url"`
}

// Yandex holds the upstream API client configuration.
type Yandex struct {
	BaseURL        string `yaml:"base_url" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Stats holds the knobs of the statistics engine.
type Stats struct {
	TopLimit        int `yaml:"top_limit"`
	RecentLikesDays int `yaml:"recent_likes_days"`
	HistoryDays     int `yaml:"history_days"`
}

// Search holds the track-search configuration.
type Search struct {
	ResultLimit int `yaml:"result_limit"`
}

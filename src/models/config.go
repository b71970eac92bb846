package models

// MConfig Structure
type MConfig struct {
	Name           string            `yaml:"name" default:"price-movers" validate:"required"`
	LogLevel       string            `yaml:"log_level" default:"INFO" validate:"oneof=DEBUG INFO WARNING ERROR"`
	LogFormat      string            `yaml:"log_format" default:"console" validate:"oneof=console json"`
	Symbol         string            `yaml:"symbol" default:"SLV" validate:"required"`
	InstrumentName string            `yaml:"instrument_name" default:"Silver" validate:"required"`
	LookbackYears  int               `yaml:"lookback_years" default:"10" validate:"gte=1,lte=100"`
	MovementCount  int               `yaml:"movement_count" default:"50" validate:"gte=1"`
	DuplicateDates string            `yaml:"duplicate_dates" default:"reject" validate:"oneof=reject accept"`
	Network        MNetworkConfig    `yaml:"network"`
	DataSource     MDataSourceConfig `yaml:"data_source"`
	Output         MOutputConfig     `yaml:"output"`
	Storage        MStorageConfig    `yaml:"storage"`
	Server         MServerConfig     `yaml:"server"`
}

type MNetworkConfig struct {
	Enabled           bool     `yaml:"enabled"`
	Proxies           []string `yaml:"proxies"`
	RequestTimeout    int      `yaml:"timeout" default:"30" validate:"gt=0"`
	MaxRetries        int      `yaml:"retries" default:"3" validate:"gte=0"`
	RequestsPerSecond float64  `yaml:"requests_per_second" default:"2" validate:"gt=0"`
	UserAgent         string   `yaml:"user_agent"`
	InsecureTLS       bool     `yaml:"insecure_skip_verify"` // Corporate TLS interception
}

type MDataSourceConfig struct {
	Sources []MSourceConfig `yaml:"sources" validate:"required,min=1,dive"`
}

// MSourceConfig describes one price feed. Sources are tried in order until one returns rows.
type MSourceConfig struct {
	Name      string `yaml:"name" validate:"required"`
	Type      string `yaml:"type" validate:"oneof=yahoo alphavantage alpaca csv sample"`
	APIKey    string `yaml:"api_key"`    // Optional, env overrides
	APISecret string `yaml:"api_secret"` // Alpaca only
	BaseURL   string `yaml:"base_url"`
	Path      string `yaml:"path"` // CSV only
	Seed      int64  `yaml:"seed"` // Sample only
}

type MOutputConfig struct {
	Dir    string   `yaml:"dir" default:"."`
	Prefix string   `yaml:"prefix" default:"silver" validate:"required"`
	Sinks  []string `yaml:"sinks" default:"[\"console\",\"json\",\"text\",\"csv\"]" validate:"min=1,dive,oneof=console json text csv sqlite postgres server"`
}

type MStorageConfig struct {
	DBPath             string `yaml:"db_path" default:"price_movers.db"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MServerConfig struct {
	Host string `yaml:"host" default:"127.0.0.1" validate:"required"`
	Port int    `yaml:"port" default:"8080" validate:"gt=1024,lte=65535"`
}

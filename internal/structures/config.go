package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// TrackedItem is one catalog entry the registry watches. Kind groups items
// for report filtering (e.g. "budget", "selfsupported", "platform").
type TrackedItem struct {
	Name string `yaml:"name" validate:"required"`
	Kind string `yaml:"kind"`
}

type CatalogConfig struct {
	LoginURL string        `yaml:"loginUrl" validate:"required"`
	DataURL  string        `yaml:"dataUrl" validate:"required"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
	Tracked  []TrackedItem `yaml:"tracked"`
}

type MailboxConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"uint"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Folder   string `yaml:"folder" validate:"required"`
}

type WatcherConfig struct {
	Interval     time.Duration `yaml:"interval" validate:"required|min:1"`
	CountUnit    string        `yaml:"countUnit"`
	WarnKeyword  string        `yaml:"warnKeyword"`
	ErrorKeyword string        `yaml:"errorKeyword"`
	SnippetLen   int           `yaml:"snippetLen"`
}

type NotifierConfig struct {
	BotToken        string `yaml:"botToken"`
	SubscribersFile string `yaml:"subscribersFile" validate:"required|unixPath"`
	MockMode        bool   `yaml:"mockMode"`
}

type ReportConfig struct {
	Dir string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Catalog     CatalogConfig  `yaml:"catalog"`
	Mailbox     MailboxConfig  `yaml:"mailbox"`
	Watcher     WatcherConfig  `yaml:"watcher"`
	Notifier    NotifierConfig `yaml:"notifier"`
	Report      ReportConfig   `yaml:"report"`
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}

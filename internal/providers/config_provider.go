package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"rwd/internal/structures"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "RWD_LOG_LEVEL")
	viper.BindEnv("watcher.interval", "RWD_CHECK_INTERVAL")
	viper.BindEnv("persistence.saveInterval", "RWD_SAVE_INTERVAL")
	viper.BindEnv("catalog.username", "RWD_CATALOG_USER")
	viper.BindEnv("catalog.password", "RWD_CATALOG_PASSWORD")
	viper.BindEnv("mailbox.user", "RWD_MAILBOX_USER")
	viper.BindEnv("mailbox.password", "RWD_MAILBOX_PASSWORD")
	viper.BindEnv("notifier.botToken", "RWD_BOT_TOKEN")
	viper.BindEnv("cache.enabled", "RWD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "RWD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyWatcherDefaults(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ReleaseWatchDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// applyWatcherDefaults fills the locale-specific parse tokens for the mail
// classifier. The defaults match the update digests the daemon was built for.
func applyWatcherDefaults(conf *structures.Config) {
	if conf.Watcher.CountUnit == "" {
		conf.Watcher.CountUnit = "шт"
	}
	if conf.Watcher.WarnKeyword == "" {
		conf.Watcher.WarnKeyword = "предупреждение"
	}
	if conf.Watcher.ErrorKeyword == "" {
		conf.Watcher.ErrorKeyword = "ошибка"
	}
	if conf.Watcher.SnippetLen <= 0 {
		conf.Watcher.SnippetLen = 200
	}
	if conf.Mailbox.Port == 0 {
		conf.Mailbox.Port = 993
	}
	if conf.Mailbox.Folder == "" {
		conf.Mailbox.Folder = "INBOX"
	}
}

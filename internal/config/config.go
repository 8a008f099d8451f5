// internal/config/config.go
package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Storage StorageConfig `mapstructure:"storage"`
	Upload  struct {
		MaxBytes int64 `mapstructure:"max_bytes"`
	} `mapstructure:"upload"`
	App struct {
		WordGroups []string `mapstructure:"word_groups"`
	} `mapstructure:"app"`
	Settings struct {
		Theme     string `mapstructure:"theme"`
		TextColor string `mapstructure:"text_color"`
	} `mapstructure:"settings"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// StorageConfig はドキュメントの保存先
// driver: file (data_dir 以下に <key>.json), sqlite, postgres (database_url の documents テーブル)
type StorageConfig struct {
	Driver          string `mapstructure:"driver"`
	DataDir         string `mapstructure:"data_dir"`
	DatabaseURL     string `mapstructure:"database_url"`
	MasterWordsFile string `mapstructure:"master_words_file"`
	TemplateFile    string `mapstructure:"template_file"`
}

// LoadConfig は path (と カレントディレクトリ) の config.yaml を読み込みます。
// ファイルが無い場合はデフォルト値と環境変数 (APP_ 接頭辞) だけを使います。
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	// 例: APP_SERVER_PORT, APP_STORAGE_DRIVER
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", cfg.Server.Port)
	log.Printf("Storage Driver: %s", cfg.Storage.Driver)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "X-Request-Id"})
	v.SetDefault("cors.max_age", 300)
	v.SetDefault("storage.driver", DefaultStorageDriver)
	v.SetDefault("storage.data_dir", DefaultDataDir)
	// 環境変数 APP_STORAGE_DATABASE_URL を拾うためにキーを登録しておく
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.master_words_file", DefaultMasterWordsFile)
	v.SetDefault("storage.template_file", DefaultTemplateFile)
	v.SetDefault("upload.max_bytes", DefaultUploadMaxBytes)
	v.SetDefault("app.word_groups", DefaultWordGroups)
	v.SetDefault("settings.theme", DefaultTheme)
	v.SetDefault("settings.text_color", DefaultTextColor)
}

// Validate は設定値の組み合わせを検証します
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverFile:
		if c.Storage.DataDir == "" {
			return errors.New("storage.data_dir is required for the file driver")
		}
	case StorageDriverSQLite, StorageDriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("storage.database_url is required for the " + c.Storage.Driver + " driver")
		}
	default:
		return errors.New("unknown storage.driver: " + c.Storage.Driver)
	}
	if c.Upload.MaxBytes <= 0 {
		log.Printf("Upload max bytes not set or invalid, using default '%d'", DefaultUploadMaxBytes)
		c.Upload.MaxBytes = DefaultUploadMaxBytes
	}
	return nil
}

// Default は設定ファイルを読まずにデフォルト値だけの Config を返します (テスト・CLI用)
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// デフォルト値だけなので Unmarshal は失敗しない
	_ = v.Unmarshal(&cfg)
	return &cfg
}

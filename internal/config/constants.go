// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "vocab-study"
	AppVersion = "0.3.0"
)

const (
	StorageDriverFile     = "file"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

// デフォルト設定値
const (
	DefaultServerPort      = ":8000"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultStorageDriver   = StorageDriverFile
	DefaultDataDir         = "data"
	DefaultMasterWordsFile = "data/sample_words.json"
	DefaultTemplateFile    = "data/vocabulary_template.json"
	DefaultUploadMaxBytes  = 5 << 20 // 5MB
	DefaultTheme           = "light"
	DefaultTextColor       = "#000000"
)

// DefaultWordGroups は /api/words-group で返すグループ名
var DefaultWordGroups = []string{"Core Verbs", "Core Adjectives", "Basic Nouns"}

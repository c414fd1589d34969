// Package config loads the application configuration from a yaml file with
// environment overrides, so containerized runs can tweak single values without
// rewriting the file.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database Database `yaml:"database"`
	Jaeger   Jaeger   `yaml:"jaeger"`
	Log      Log      `yaml:"log"`
}

type Database struct {
	// Engine selects the dialect: mysql, postgres or sqlite.
	Engine      string `yaml:"engine"`
	MySQLDSN    string `yaml:"mysqlDsn"`
	PostgresDSN string `yaml:"postgresDsn"`
	SQLiteDSN   string `yaml:"sqliteDsn"`

	AutoCreate         bool   `yaml:"autoCreate"`
	AutoMigrate        bool   `yaml:"autoMigrate"`
	AutoExecuteScripts bool   `yaml:"autoExecuteScripts"`
	ScriptsDir         string `yaml:"scriptsDir"`
	AutoSeed           bool   `yaml:"autoSeed"`
	PromptForSeeding   bool   `yaml:"promptForSeeding"`
	SeedCount          int    `yaml:"seedCount"`
}

type Jaeger struct {
	Endpoint string `yaml:"endpoint"`
}

type Log struct {
	Level string `yaml:"level"`
}

func defaults() *Config {
	return &Config{
		Database: Database{
			Engine:             "mysql",
			MySQLDSN:           "root:root@tcp(localhost:3306)/emporium?charset=utf8mb4&parseTime=True&loc=UTC",
			PostgresDSN:        "host=localhost user=postgres password=postgres dbname=emporium sslmode=disable",
			SQLiteDSN:          "file:emporium.db?_foreign_keys=on",
			AutoCreate:         true,
			AutoMigrate:        true,
			AutoExecuteScripts: true,
			ScriptsDir:         "scripts",
			AutoSeed:           false,
			PromptForSeeding:   true,
			SeedCount:          1000,
		},
		Jaeger: Jaeger{Endpoint: "http://localhost:14268/api/traces"},
		Log:    Log{Level: "info"},
	}
}

// Load reads path when it exists and applies EMPORIUM_* environment overrides
// on top. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, errors.Wrapf(err, "read config %s", path)
		default:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}
	cfg.applyEnv()
	if cfg.Database.SeedCount <= 0 {
		cfg.Database.SeedCount = 1000
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setStr(&c.Database.Engine, "EMPORIUM_DB_ENGINE")
	setStr(&c.Database.MySQLDSN, "EMPORIUM_MYSQL_DSN")
	setStr(&c.Database.PostgresDSN, "EMPORIUM_POSTGRES_DSN")
	setStr(&c.Database.SQLiteDSN, "EMPORIUM_SQLITE_DSN")
	setStr(&c.Database.ScriptsDir, "EMPORIUM_SCRIPTS_DIR")
	setInt(&c.Database.SeedCount, "EMPORIUM_SEED_COUNT")
	setBool(&c.Database.AutoSeed, "EMPORIUM_AUTO_SEED")
	setStr(&c.Jaeger.Endpoint, "EMPORIUM_JAEGER_ENDPOINT")
	setStr(&c.Log.Level, "EMPORIUM_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

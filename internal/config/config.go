package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		_ = godotenv.Load()

		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}
		viper.SetConfigType("yaml")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error merging test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// getDuration parses a duration setting, falling back to def when unset or invalid.
func getDuration(key string, def time.Duration) time.Duration {
	initConfig()
	durStr := viper.GetString(key)
	if durStr == "" {
		return def
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		GetLogger().Warnw("Invalid duration in config", "key", key, "value", durStr, "error", err)
		return def
	}
	return dur
}

func getString(key, def string) string {
	initConfig()
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

func GetGeocodingApiUrl() string {
	return getString("geocoding.api_url", "https://geocoding-api.open-meteo.com/v1")
}

func GetReverseGeocodingApiUrl() string {
	return getString("reverse_geocoding.api_url", "https://api.bigdatacloud.net/data/reverse-geocode-client")
}

func GetForecastApiUrl() string {
	return getString("forecast.api_url", "https://api.open-meteo.com/v1")
}

func GetIconBaseUrl() string {
	return getString("forecast.icon_url", "https://openweathermap.org/img/wn")
}

// GetHTTPClientTimeout bounds every outbound request to the upstream services.
func GetHTTPClientTimeout() time.Duration {
	return getDuration("http_client.timeout", 10*time.Second)
}

func GetRedisAddr() string {
	return getString("redis.addr", "localhost:6379")
}

func GetServerPort() string {
	return getString("server.port", "8080")
}

func GetServerTimeout(key string) string {
	initConfig()
	return viper.GetString("server." + key)
}

// GetServerTimeoutDuration returns a server timeout as a time.Duration. Defaults to def if unset.
func GetServerTimeoutDuration(key string, def time.Duration) time.Duration {
	return getDuration("server."+key, def)
}

// GetPreferenceBackend returns one of "redis", "sqlite" or "memory".
func GetPreferenceBackend() string {
	return strings.ToLower(getString("preference.backend", "redis"))
}

func GetPreferenceKey() string {
	return getString("preference.key", "lastSearchedCity")
}

func GetSQLitePath() string {
	return getString("preference.sqlite_path", "preferences.db")
}

func GetDefaultPlace() string {
	return getString("places.default", "Montreal")
}

func GetExcludedPlace() string {
	return getString("places.excluded", "Boucherville")
}

func GetExcludedAliases() []string {
	initConfig()
	aliases := viper.GetStringSlice("places.excluded_aliases")
	if len(aliases) == 0 {
		return []string{"Boucherville, Canada", "Boucherville, CA"}
	}
	return aliases
}

func GetCollapseKeyword() string {
	return getString("places.collapse_keyword", "quebec")
}

func GetCollapseTarget() string {
	return getString("places.collapse_target", "Quebec, Canada")
}

func GetGeolocationTimeout() time.Duration {
	return getDuration("geolocation.timeout", 10*time.Second)
}

func GetGeolocationMaximumAge() time.Duration {
	return getDuration("geolocation.maximum_age", 10*time.Minute)
}

// GetStaticPosition returns the configured fallback device position, if any.
func GetStaticPosition() (lat, lon float64, ok bool) {
	initConfig()
	if !viper.IsSet("geolocation.static_latitude") || !viper.IsSet("geolocation.static_longitude") {
		return 0, 0, false
	}
	return viper.GetFloat64("geolocation.static_latitude"), viper.GetFloat64("geolocation.static_longitude"), true
}

func GetCORSAllowedOrigins() []string {
	initConfig()
	origins := viper.GetStringSlice("server.cors_allowed_origins")
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func GetSuggestionMinLength() int {
	initConfig()
	n := viper.GetInt("suggestions.min_length")
	if n <= 0 {
		return 2
	}
	return n
}

func GetSuggestionCount() int {
	initConfig()
	n := viper.GetInt("suggestions.count")
	if n <= 0 {
		return 5
	}
	return n
}

func GetSuggestionDebounce() time.Duration {
	return getDuration("suggestions.debounce", 300*time.Millisecond)
}

func GetSessionExpiration() time.Duration {
	return getDuration("session.expiration", 30*time.Minute)
}

func GetTestRedisMockPort() string {
	return getString("test.redis_mock_port", ":16379")
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		var (
			l   *zap.Logger
			err error
		)
		if os.Getenv("APP_ENV") == "production" {
			l, err = zap.NewProduction()
		} else {
			l, err = zap.NewDevelopment()
		}
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

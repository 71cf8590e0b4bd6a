package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"restaurant/internal/domain/model"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	RestaurantName string // レシートの見出し
	DefaultStock   int64  // 在庫未指定のときの初期値
	SeedMenu       bool   // 起動時に初期メニューを入れる

	StatusPolicy model.StatusPolicy // permissive / forward-only

	HTTPAddr string // serve のときの待ち受け（:8080）

	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	KafkaBroker     string // 空ならイベントは送らない
	KafkaOrderTopic string

	OtelEndpoint   string // 空ならトレースは送らない
	OtelAuthHeader string
}

// Loadは .env（あれば）と環境変数から読む
func Load() (Config, error) {
	_ = godotenv.Load()

	defaultStock, err := atoiDefault("DEFAULT_STOCK", model.DefaultStock)
	if err != nil {
		return Config{}, err
	}
	if defaultStock < 0 {
		return Config{}, fmt.Errorf("DEFAULT_STOCK must be >= 0")
	}

	seed, err := boolDefault("SEED_DEFAULT_MENU", true)
	if err != nil {
		return Config{}, err
	}

	policy, ok := model.ParseStatusPolicy(getenv("ORDER_STATUS_POLICY", string(model.StatusPolicyPermissive)))
	if !ok {
		return Config{}, fmt.Errorf("ORDER_STATUS_POLICY must be permissive or forward-only")
	}

	cfg := Config{
		RestaurantName: getenv("RESTAURANT_NAME", "RESTORAN GO"),
		DefaultStock:   defaultStock,
		SeedMenu:       seed,

		StatusPolicy: policy,

		HTTPAddr: normalizeAddr(getenv("HTTP_ADDR", ":8080")),

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		KafkaBroker:     os.Getenv("KAFKA_BROKER"),
		KafkaOrderTopic: getenv("KAFKA_ORDER_TOPIC", "order-status"),

		OtelEndpoint:   os.Getenv("OTEL_ENDPOINT"),
		OtelAuthHeader: os.Getenv("OTEL_AUTH_HEADER"),
	}

	//必須チェック
	if cfg.GoEnv != "dev" && cfg.GoEnv != "prod" {
		return Config{}, fmt.Errorf("GO_ENV must be dev or prod")
	}

	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

func getenv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func boolDefault(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false: %w", key, err)
	}
	return b, nil
}

// "8080" → ":8080"
func normalizeAddr(v string) string {
	if v != "" && !strings.Contains(v, ":") {
		return ":" + v
	}
	return v
}

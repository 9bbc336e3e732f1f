package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix는 모든 환경변수의 접두사입니다 (예: AI_MARKET_DATA_BACKEND_URL)
const EnvPrefix = "AI"

type Config struct {
	// 애플리케이션 설정
	App struct {
		HTTPAddr         string   `envconfig:"HTTP_ADDR" default:":8000"`
		DefaultLimit     int      `envconfig:"DEFAULT_LIMIT" default:"500"`
		CORSOrigins      []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
		ExchangePriority []string `envconfig:"EXCHANGE_PRIORITY" default:"binance,bybit"`
		QuotePriority    []string `envconfig:"QUOTE_PRIORITY" default:"USDT,USDC,TUSD,BUSD,USD"`
	}

	// 시장 데이터 백엔드 설정
	Market struct {
		BaseURL            string        `envconfig:"DATA_BACKEND_URL" default:"http://localhost:8080"`
		HTTPTimeout        time.Duration `envconfig:"HTTP_TIMEOUT" default:"20s"`
		CandleCacheTTL     time.Duration `envconfig:"CANDLE_CACHE_TTL" default:"30s"`
		CatalogRefreshCron string        `envconfig:"CATALOG_REFRESH_CRON"`
	}

	// 내러티브 생성 서비스 설정 (OpenAI 호환 API)
	Narrative struct {
		BaseURL    string        `envconfig:"BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
		APIKey     string        `envconfig:"GEMINI_API_KEY"`
		Model      string        `envconfig:"MODEL" default:"gemini-2.5-flash"`
		MaxTokens  int           `envconfig:"MAX_TOKENS" default:"300"`
		Timeout    time.Duration `envconfig:"TIMEOUT" default:"60s"`
		RateLimit  int           `envconfig:"RATE_LIMIT" default:"10"`
		RateWindow time.Duration `envconfig:"RATE_WINDOW" default:"60s"`
	}

	// 캔들 캐시용 Redis 설정 (주소가 비어있으면 메모리 캐시)
	Redis struct {
		Addr     string `envconfig:"ADDR"`
		Password string `envconfig:"PASSWORD"`
		DB       int    `envconfig:"DB" default:"0"`
	}

	// 디스코드 웹훅 설정 (비어있으면 알림 비활성화)
	Discord struct {
		Webhook string `envconfig:"WEBHOOK"`
	}

	// 로그 설정
	Log struct {
		Level    string `envconfig:"LEVEL" default:"info"`
		Encoding string `envconfig:"ENCODING" default:"json"`
	}
}

// ValidateConfig는 설정이 유효한지 확인합니다.
func ValidateConfig(cfg *Config) error {
	if cfg.App.DefaultLimit < 50 || cfg.App.DefaultLimit > 1000 {
		return fmt.Errorf("DEFAULT_LIMIT은 50 이상 1000 이하이어야 합니다: %d", cfg.App.DefaultLimit)
	}

	if len(cfg.App.ExchangePriority) == 0 {
		return fmt.Errorf("EXCHANGE_PRIORITY가 비어있습니다")
	}

	if len(cfg.App.QuotePriority) == 0 {
		return fmt.Errorf("QUOTE_PRIORITY가 비어있습니다")
	}

	if cfg.Market.BaseURL == "" {
		return fmt.Errorf("MARKET_DATA_BACKEND_URL이 비어있습니다")
	}

	if cfg.Market.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT은 0보다 커야 합니다")
	}

	if cfg.Narrative.RateLimit < 1 {
		return fmt.Errorf("RATE_LIMIT은 1 이상이어야 합니다")
	}

	if cfg.Narrative.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW는 0보다 커야 합니다")
	}

	if cfg.Narrative.MaxTokens < 1 {
		return fmt.Errorf("MAX_TOKENS는 1 이상이어야 합니다")
	}

	return nil
}

// LoadConfig는 .env 파일과 환경변수에서 설정을 로드합니다.
// 먼저 로드한 파일의 값이 우선하며, 없는 파일은 건너뜁니다.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env.local", ".env"}
	}
	for _, file := range envFiles {
		// .env 파일 로드 (이미 설정된 환경변수는 덮어쓰지 않음)
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s 파일 로드 실패: %w", file, err)
		}
	}

	var cfg Config
	// 환경변수를 구조체로 파싱
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("환경변수 처리 실패: %w", err)
	}

	// 설정값 검증
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("설정값 검증 실패: %w", err)
	}

	return &cfg, nil
}

package api

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/assist-by/insight/internal/domain"
)

// InsightGenerator는 토큰 배치에 대한 인사이트를 생성합니다
type InsightGenerator interface {
	Generate(ctx context.Context, tokens []string, interval domain.TimeInterval, limit int) ([]domain.SymbolInsight, error)
}

// ErrorNotifier는 운영 알림을 전송합니다
type ErrorNotifier interface {
	SendError(err error) error
}

// RouterConfig는 HTTP 라우터 설정입니다
type RouterConfig struct {
	Insights       InsightGenerator
	DefaultLimit   int
	CORSOrigins    []string
	MetricsHandler http.Handler  // nil이면 /metrics 비활성화
	Notifier       ErrorNotifier // nil이면 알림 없음
	Logger         *zap.Logger
}

// NewRouter는 인사이트 API 라우터를 생성합니다
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(corsMiddleware(cfg.CORSOrigins))

	h := &InsightHandler{
		Insights:     cfg.Insights,
		DefaultLimit: cfg.DefaultLimit,
		Notifier:     cfg.Notifier,
		Logger:       logger,
	}
	h.Register(engine)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}
	return engine
}

// corsMiddleware는 허용된 origin에 CORS 헤더를 붙이고 preflight 요청에 응답합니다.
// origin 목록에 "*"가 있으면 모든 origin을 허용합니다.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || slices.Contains(origins, origin)) {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "*")

			if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("HTTP 요청",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

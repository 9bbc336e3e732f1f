package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/assist-by/insight/internal/domain"
	"github.com/assist-by/insight/internal/insight"
)

// limit 허용 범위
const (
	MinLimit = 50
	MaxLimit = 1000
)

// InsightHandler는 /insights 엔드포인트를 처리합니다
type InsightHandler struct {
	Insights     InsightGenerator
	DefaultLimit int
	Notifier     ErrorNotifier
	Logger       *zap.Logger
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *InsightHandler) Register(r *gin.Engine) {
	r.GET("/insights", h.list)
	r.OPTIONS("/insights", h.options)
}

func (h *InsightHandler) options(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "*")
	c.JSON(http.StatusOK, gin.H{})
}

func (h *InsightHandler) list(c *gin.Context) {
	tokens, interval, limit, err := h.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	insights, err := h.Insights.Generate(c.Request.Context(), tokens, interval, limit)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusBadGateway {
			h.notify(err)
		}
		c.JSON(status, errorResponse{Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, insight.NewResponse(interval, insights))
}

func (h *InsightHandler) parseQuery(c *gin.Context) ([]string, domain.TimeInterval, int, error) {
	symbols := c.Query("symbols")
	var tokens []string
	for _, token := range strings.Split(symbols, ",") {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return nil, "", 0, fmt.Errorf("%w: symbols 파라미터가 필요합니다", domain.ErrInvalidInput)
	}

	interval, err := domain.ParseTimeInterval(c.Query("interval"))
	if err != nil {
		return nil, "", 0, err
	}

	limit := h.DefaultLimit
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err = strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, "", 0, fmt.Errorf("%w: limit은 정수여야 합니다: %q", domain.ErrInvalidInput, raw)
		}
	}
	if limit < MinLimit || limit > MaxLimit {
		return nil, "", 0, fmt.Errorf("%w: limit은 %d 이상 %d 이하이어야 합니다: %d", domain.ErrInvalidInput, MinLimit, MaxLimit, limit)
	}
	return tokens, interval, limit, nil
}

// notify는 업스트림 장애를 비동기로 알립니다
func (h *InsightHandler) notify(err error) {
	if h.Notifier == nil {
		return
	}
	go func() {
		if nerr := h.Notifier.SendError(err); nerr != nil && h.Logger != nil {
			h.Logger.Warn("에러 알림 전송 실패", zap.Error(nerr))
		}
	}()
}

// StatusFor는 에러를 HTTP 상태 코드로 변환합니다
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

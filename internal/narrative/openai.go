package narrative

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/assist-by/insight/internal/domain"
)

// 기본값은 Gemini의 OpenAI 호환 엔드포인트입니다
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.5-flash"
)

// Client는 OpenAI 호환 채팅 API로 내러티브를 생성합니다
type Client struct {
	client    openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// ClientConfig는 Client 생성 설정입니다
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient는 새로운 내러티브 클라이언트를 생성합니다
func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API 키가 설정되지 않았습니다")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		// 재시도는 레이트 리미터 예산을 소모하므로 하지 않음
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}, nil
}

// Generate는 채팅 완성 API를 호출해 내러티브를 반환합니다.
// 응답에 텍스트가 없으면 빈 문자열을 반환합니다.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	prompt := BuildPrompt(req, c.maxTokens)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: 내러티브 API 에러(%d): %v", domain.ErrUpstream, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%w: 내러티브 요청 실패: %v", domain.ErrUpstream, err)
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)

	c.logger.Debug("내러티브 생성 완료",
		zap.String("symbol", req.Symbol),
		zap.String("model", c.model),
		zap.Int("length", len(text)),
	)
	return text, nil
}

package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/assist-by/insight/internal/domain"
)

// Client는 시장 데이터 백엔드(캔들, 심볼 메타데이터) API 클라이언트입니다
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithTimeout은 HTTP 클라이언트의 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL은 기본 URL을 설정합니다
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient는 HTTP 클라이언트를 교체합니다
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient는 새로운 시장 데이터 클라이언트를 생성합니다
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    "http://localhost:8080",
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}

	// 옵션 적용
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// StatusError는 백엔드가 2xx가 아닌 응답을 반환했음을 나타냅니다
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP 에러(%d): %s", e.StatusCode, e.Body)
}

// doRequest는 HTTP 요청을 실행하고 결과를 반환합니다.
// 전송 실패는 domain.ErrUpstream으로, 2xx가 아닌 응답은 *StatusError로 반환합니다.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values) ([]byte, error) {
	// URL 생성
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("URL 파싱 실패: %w", err)
	}
	if params != nil {
		reqURL.RawQuery = params.Encode()
	}

	// 요청 생성
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("요청 생성 실패: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	// 요청 실행
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 호출자의 취소는 업스트림 장애가 아님
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s 요청 실패: %v", domain.ErrUpstream, endpoint, err)
	}
	defer resp.Body.Close()

	// 응답 읽기
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: 응답 읽기 실패: %v", domain.ErrUpstream, err)
	}

	// 상태 코드 확인
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

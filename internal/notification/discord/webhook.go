package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const footerText = "Insight Service"

// Client는 Discord 웹훅으로 운영 알림을 전송합니다
type Client struct {
	webhookURL string
	httpClient *http.Client
	now        func() time.Time
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithTimeout은 HTTP 클라이언트의 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient는 새로운 웹훅 클라이언트를 생성합니다
func NewClient(webhookURL string, opts ...ClientOption) *Client {
	c := &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendError는 에러 알림을 전송합니다
func (c *Client) SendError(err error) error {
	embed := NewEmbed().
		SetTitle("에러 발생").
		SetDescription(fmt.Sprintf("```%v```", err)).
		SetColor(ColorError).
		SetFooter(footerText).
		SetTimestamp(c.now())

	return c.send(context.Background(), WebhookMessage{Embeds: []Embed{*embed}})
}

// SendInfo는 일반 정보 알림을 전송합니다
func (c *Client) SendInfo(message string) error {
	embed := NewEmbed().
		SetDescription(message).
		SetColor(ColorInfo).
		SetFooter(footerText).
		SetTimestamp(c.now())

	return c.send(context.Background(), WebhookMessage{Embeds: []Embed{*embed}})
}

// SendTaskFailure는 예약 작업 실패를 알립니다
func (c *Client) SendTaskFailure(task string, err error) error {
	embed := NewEmbed().
		SetTitle("예약 작업 실패").
		SetColor(ColorWarning).
		AddField("작업", task, true).
		AddField("에러", fmt.Sprintf("```%v```", err), false).
		SetFooter(footerText).
		SetTimestamp(c.now())

	return c.send(context.Background(), WebhookMessage{Embeds: []Embed{*embed}})
}

// send는 웹훅으로 메시지를 전송합니다
func (c *Client) send(ctx context.Context, msg WebhookMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("메시지 직렬화 실패: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("요청 생성 실패: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("웹훅 전송 실패: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("웹훅 에러(%d): %s", resp.StatusCode, string(body))
	}
	return nil
}

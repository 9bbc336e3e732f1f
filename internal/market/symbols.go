package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/assist-by/insight/internal/domain"
	"github.com/assist-by/insight/internal/symbol"
)

// GetSymbols는 거래소별 심볼 메타데이터를 조회합니다.
// 응답은 거래소 항목 배열, {"exchanges": [...]}, 또는 단일 거래소 항목일 수 있습니다.
func (c *Client) GetSymbols(ctx context.Context) ([]symbol.ExchangeSymbols, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/symbols", nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeSymbols(body)
	if err != nil {
		return nil, fmt.Errorf("%w: 심볼 응답 파싱 실패: %v", domain.ErrUpstream, err)
	}
	return entries, nil
}

func decodeSymbols(body []byte) ([]symbol.ExchangeSymbols, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	if body[0] == '[' {
		var entries []symbol.ExchangeSymbols
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var payload struct {
		Exchanges []symbol.ExchangeSymbols `json:"exchanges"`
		symbol.ExchangeSymbols
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if payload.Exchanges != nil {
		return payload.Exchanges, nil
	}
	if payload.Symbols != nil {
		return []symbol.ExchangeSymbols{payload.ExchangeSymbols}, nil
	}
	return nil, nil
}

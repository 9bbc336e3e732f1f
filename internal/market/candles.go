package market

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/assist-by/insight/internal/domain"
)

// Source는 거래소/심볼의 캔들을 조회하는 인터페이스입니다.
// 후보에 데이터가 없으면 domain.ErrNoData를, 전송 실패는 domain.ErrUpstream을 반환합니다.
type Source interface {
	GetCandles(ctx context.Context, exchange, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error)
}

// candleRow는 백엔드의 캔들 행입니다. 수치는 문자열 또는 숫자로 올 수 있습니다.
type candleRow struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Open      json.RawMessage `json:"open"`
	High      json.RawMessage `json:"high"`
	Low       json.RawMessage `json:"low"`
	Close     json.RawMessage `json:"close"`
	Volume    json.RawMessage `json:"volume"`
}

type candlesResponse struct {
	Candles []candleRow `json:"candles"`
}

// GetCandles는 캔들 데이터를 조회합니다.
// 2xx가 아닌 응답이나 빈 목록은 domain.ErrNoData로 취급합니다.
func (c *Client) GetCandles(ctx context.Context, exchange, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	params := url.Values{}
	params.Add("exchange", exchange)
	params.Add("symbol", symbol)
	params.Add("interval", string(interval))
	params.Add("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, http.MethodGet, "/api/candles", params)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return nil, fmt.Errorf("%w: %s:%s: %w", domain.ErrNoData, exchange, symbol, statusErr)
		}
		return nil, err
	}

	candles, err := decodeCandles(body)
	if err != nil {
		return nil, fmt.Errorf("%w: 캔들 응답 파싱 실패: %v", domain.ErrUpstream, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s:%s", domain.ErrNoData, exchange, symbol)
	}
	return candles, nil
}

// decodeCandles는 캔들 응답을 파싱합니다.
// 잘못된 수치는 NaN이 되고, 시각을 해석할 수 없는 행은 제외합니다.
func decodeCandles(body []byte) (domain.CandleList, error) {
	var resp candlesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	candles := make(domain.CandleList, 0, len(resp.Candles))
	for _, row := range resp.Candles {
		ts, ok := parseTimestamp(row.Timestamp)
		if !ok {
			continue
		}
		candles = append(candles, domain.Candle{
			Time:   ts,
			Open:   parseFloat(row.Open),
			High:   parseFloat(row.High),
			Low:    parseFloat(row.Low),
			Close:  parseFloat(row.Close),
			Volume: parseFloat(row.Volume),
		})
	}
	return candles, nil
}

// encodeCandles는 캔들을 백엔드와 같은 형태로 직렬화합니다. NaN은 "NaN" 문자열이 됩니다.
func encodeCandles(candles domain.CandleList) ([]byte, error) {
	resp := candlesResponse{Candles: make([]candleRow, len(candles))}
	for i, c := range candles {
		resp.Candles[i] = candleRow{
			Timestamp: quote(c.Time.UTC().Format(time.RFC3339Nano)),
			Open:      quote(strconv.FormatFloat(c.Open, 'g', -1, 64)),
			High:      quote(strconv.FormatFloat(c.High, 'g', -1, 64)),
			Low:       quote(strconv.FormatFloat(c.Low, 'g', -1, 64)),
			Close:     quote(strconv.FormatFloat(c.Close, 'g', -1, 64)),
			Volume:    quote(strconv.FormatFloat(c.Volume, 'g', -1, 64)),
		}
	}
	return json.Marshal(resp)
}

func quote(s string) json.RawMessage {
	return json.RawMessage(strconv.Quote(s))
}

// parseFloat는 문자열 또는 숫자 JSON 값을 float64로 변환합니다. 실패하면 NaN입니다.
func parseFloat(raw json.RawMessage) float64 {
	s := rawText(raw)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseTimestamp는 RFC3339 문자열 또는 밀리초 epoch 값을 시각으로 변환합니다
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	s := rawText(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return string(raw)
}

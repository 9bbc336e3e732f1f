package symbol

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Info는 심볼의 거래 메타데이터입니다
type Info struct {
	Symbol         string          `json:"symbol"`
	PricePrecision json.RawMessage `json:"price_precision,omitempty"`
	TickSize       json.RawMessage `json:"tick_size,omitempty"`
}

// ExchangeSymbols는 거래소 하나의 심볼 목록입니다
type ExchangeSymbols struct {
	Exchange string `json:"exchange"`
	Symbols  []Info `json:"symbols"`
}

// Catalog는 거래소 → 심볼 → 메타데이터 매핑입니다.
// 여러 요청이 공유하며 병합은 마지막 쓰기가 이깁니다.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]map[string]Info
}

// NewCatalog는 빈 카탈로그를 생성합니다
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]map[string]Info)}
}

// Merge는 거래소별 심볼 목록을 카탈로그에 병합하고 병합된 심볼 수를 반환합니다
func (c *Catalog) Merge(entries []ExchangeSymbols) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := 0
	for _, entry := range entries {
		exchange := strings.ToLower(strings.TrimSpace(entry.Exchange))
		if exchange == "" {
			continue
		}
		mapping, ok := c.entries[exchange]
		if !ok {
			mapping = make(map[string]Info)
			c.entries[exchange] = mapping
		}
		for _, info := range entry.Symbols {
			code := Normalize(info.Symbol)
			if code == "" {
				continue
			}
			mapping[code] = info
			merged++
		}
	}
	return merged
}

// Lookup은 거래소/심볼의 메타데이터를 조회합니다
func (c *Catalog) Lookup(exchange, symbol string) (Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, ok := c.entries[strings.ToLower(exchange)][Normalize(symbol)]
	return info, ok
}

// Len은 전체 심볼 수를 반환합니다
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, mapping := range c.entries {
		n += len(mapping)
	}
	return n
}

// Snapshot은 카탈로그 전체의 복사본을 반환합니다. 반환값을 수정해도 카탈로그에는 영향이 없습니다.
func (c *Catalog) Snapshot() map[string]map[string]Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]map[string]Info, len(c.entries))
	for exchange, mapping := range c.entries {
		symbols := make(map[string]Info, len(mapping))
		for code, info := range mapping {
			info.PricePrecision = slices.Clone(info.PricePrecision)
			info.TickSize = slices.Clone(info.TickSize)
			symbols[code] = info
		}
		out[exchange] = symbols
	}
	return out
}

// Precision은 거래소/심볼의 가격 정밀도를 반환합니다. 알 수 없으면 nil입니다.
func (c *Catalog) Precision(exchange, symbol string) *int {
	info, ok := c.Lookup(exchange, symbol)
	if !ok {
		return nil
	}
	return PricePrecision(info)
}

// PricePrecision은 메타데이터에서 가격 소수 자릿수를 도출합니다.
// price_precision(정수 또는 숫자 문자열)을 우선 사용하고,
// 없으면 tick_size에서 후행 0을 제거한 소수 자릿수를 사용합니다.
func PricePrecision(info Info) *int {
	if p, ok := directPrecision(info.PricePrecision); ok {
		return &p
	}

	tick := rawString(info.TickSize)
	if tick == "" {
		return nil
	}
	d, err := decimal.NewFromString(tick)
	if err != nil {
		return nil
	}
	// String()은 후행 0을 제거합니다
	_, frac, ok := strings.Cut(d.String(), ".")
	if !ok {
		// 정수 tick은 원본이 소수점을 포함할 때만 0자리로 취급합니다
		if strings.Contains(tick, ".") {
			zero := 0
			return &zero
		}
		return nil
	}
	digits := len(frac)
	return &digits
}

func directPrecision(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil && n >= 0 {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// rawString은 JSON 문자열 또는 숫자를 문자열로 반환합니다
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

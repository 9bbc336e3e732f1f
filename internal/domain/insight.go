package domain

import (
	"encoding/json"
	"math"
)

// 지표 키
const (
	KeyClose      = "close"
	KeyEMAFast    = "ema_fast"
	KeyEMASlow    = "ema_slow"
	KeyRSI        = "rsi"
	KeyMACD       = "macd"
	KeyMACDSignal = "macd_signal"
	KeyMACDHist   = "macd_hist"
	KeySupport    = "support"
	KeyResistance = "resistance"
	KeyChangePct  = "change_pct"
)

// IndicatorSet은 지표 이름별 값을 담습니다
type IndicatorSet map[string]float64

// MarshalJSON은 유한하지 않은 값을 null로 직렬화합니다
func (s IndicatorSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(s))
	for k, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[k] = nil
			continue
		}
		value := v
		out[k] = &value
	}
	return json.Marshal(out)
}

// SymbolInsight는 요청 심볼 하나에 대한 분석 결과입니다
type SymbolInsight struct {
	Requested      string       `json:"requested"`
	Exchange       string       `json:"resolved_exchange"`
	Symbol         string       `json:"symbol"`
	Summary        string       `json:"summary"`
	Indicators     IndicatorSet `json:"indicators"`
	PricePrecision *int         `json:"price_precision"`
}

// InsightsResponse는 배치 요청의 응답입니다
type InsightsResponse struct {
	Interval string          `json:"interval"`
	Insights []SymbolInsight `json:"insights"`
	Overview string          `json:"overview"`
}

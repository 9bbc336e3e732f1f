package indicator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/assist-by/insight/internal/domain"
)

// RSI 구간 경계
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// Trend는 EMA 교차로 추세를 분류합니다
func Trend(ind domain.IndicatorSet) string {
	if ind[domain.KeyEMAFast] > ind[domain.KeyEMASlow] {
		return "bullish"
	}
	return "bearish"
}

// RSIState는 RSI 값을 과매수/과매도/중립으로 분류합니다
func RSIState(rsi float64) string {
	switch {
	case rsi >= RSIOverbought:
		return "overbought"
	case rsi <= RSIOversold:
		return "oversold"
	default:
		return "neutral"
	}
}

// MACDBias는 히스토그램 부호로 모멘텀 방향을 분류합니다
func MACDBias(hist float64) string {
	if hist > 0 {
		return "strengthening"
	}
	return "weakening"
}

// Summarise는 지표 세트로부터 결정적인 요약 문장을 생성합니다.
// precision이 nil이면 가격 레벨을 소수 둘째 자리까지 표시합니다.
func Summarise(symbol string, ind domain.IndicatorSet, precision *int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s momentum looks %s: EMA%d=%.2f vs EMA%d=%.2f. ",
		symbol, Trend(ind),
		FastEMAPeriod, ind[domain.KeyEMAFast],
		SlowEMAPeriod, ind[domain.KeyEMASlow])

	rsi := ind[domain.KeyRSI]
	fmt.Fprintf(&sb, "RSI sits at %.1f (%s). ", rsi, RSIState(rsi))

	hist := ind[domain.KeyMACDHist]
	fmt.Fprintf(&sb, "MACD histogram %.2f suggests %s momentum.", hist, MACDBias(hist))

	support, hasSupport := ind[domain.KeySupport]
	resistance, hasResistance := ind[domain.KeyResistance]
	if hasSupport && hasResistance {
		fmt.Fprintf(&sb, " Key levels: support near %s, resistance near %s.",
			formatLevel(support, precision), formatLevel(resistance, precision))
	}

	return sb.String()
}

// formatLevel은 유한하지 않은 값을 "n/a"로 표시합니다
func formatLevel(v float64, precision *int) string {
	if !isFinite(v) {
		return "n/a"
	}
	digits := 2
	if precision != nil && *precision >= 0 {
		digits = *precision
	}
	return strconv.FormatFloat(v, 'f', digits, 64)
}

package indicator

import (
	"fmt"

	"github.com/assist-by/insight/internal/domain"
)

// 분석에 사용하는 EMA 기간
const (
	FastEMAPeriod = 20
	SlowEMAPeriod = 50
)

// Analyse는 캔들 목록으로부터 전체 지표 세트를 계산합니다.
// 종가가 NaN인 행은 제외하며, 남는 행이 없으면 ValidationError를 반환합니다.
func Analyse(candles domain.CandleList) (domain.IndicatorSet, error) {
	cleaned := candles.Clean()
	if len(cleaned) == 0 {
		return nil, &ValidationError{
			Field: "candles",
			Err:   fmt.Errorf("유효한 종가가 없습니다"),
		}
	}

	closes := cleaned.Closes()

	emaFast, err := EMA(closes, EMAOption{Period: FastEMAPeriod})
	if err != nil {
		return nil, fmt.Errorf("EMA(%d) 계산 실패: %w", FastEMAPeriod, err)
	}
	emaSlow, err := EMA(closes, EMAOption{Period: SlowEMAPeriod})
	if err != nil {
		return nil, fmt.Errorf("EMA(%d) 계산 실패: %w", SlowEMAPeriod, err)
	}
	rsi, err := RSI(closes, DefaultRSIOption())
	if err != nil {
		return nil, fmt.Errorf("RSI 계산 실패: %w", err)
	}
	macd, err := MACD(closes, DefaultMACDOption())
	if err != nil {
		return nil, fmt.Errorf("MACD 계산 실패: %w", err)
	}
	support, resistance := FindSupportResistance(cleaned, DefaultLevelOption())

	latest := closes[len(closes)-1]
	first := closes[0]
	changePct := 0.0
	if first != 0 {
		changePct = (latest - first) / first * 100
	}

	lastMACD := macd[len(macd)-1]
	return domain.IndicatorSet{
		domain.KeyClose:      latest,
		domain.KeyEMAFast:    last(emaFast),
		domain.KeyEMASlow:    last(emaSlow),
		domain.KeyRSI:        last(rsi),
		domain.KeyMACD:       lastMACD.MACD,
		domain.KeyMACDSignal: lastMACD.Signal,
		domain.KeyMACDHist:   lastMACD.Histogram,
		domain.KeySupport:    support,
		domain.KeyResistance: resistance,
		domain.KeyChangePct:  changePct,
	}, nil
}

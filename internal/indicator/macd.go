package indicator

import "fmt"

// MACDOption은 MACD 계산에 필요한 옵션을 정의합니다
type MACDOption struct {
	ShortPeriod  int // 단기 EMA 기간
	LongPeriod   int // 장기 EMA 기간
	SignalPeriod int // 시그널 라인 기간
}

// DefaultMACDOption은 12/26/9 설정을 반환합니다
func DefaultMACDOption() MACDOption {
	return MACDOption{ShortPeriod: 12, LongPeriod: 26, SignalPeriod: 9}
}

// MACDResult는 MACD 지표 계산 결과입니다
type MACDResult struct {
	MACD      float64 // MACD 라인
	Signal    float64 // 시그널 라인
	Histogram float64 // 히스토그램
}

// MACD는 MACD 라인, 시그널, 히스토그램을 계산합니다
func MACD(series []float64, opt MACDOption) ([]MACDResult, error) {
	if opt.ShortPeriod < 1 || opt.LongPeriod < 1 || opt.SignalPeriod < 1 {
		return nil, &ValidationError{
			Field: "MACDOption",
			Err:   fmt.Errorf("모든 기간은 1 이상이어야 합니다: %+v", opt),
		}
	}

	shortEMA, err := EMA(series, EMAOption{Period: opt.ShortPeriod})
	if err != nil {
		return nil, fmt.Errorf("단기 EMA 계산 실패: %w", err)
	}
	longEMA, err := EMA(series, EMAOption{Period: opt.LongPeriod})
	if err != nil {
		return nil, fmt.Errorf("장기 EMA 계산 실패: %w", err)
	}

	line := make([]float64, len(series))
	for i := range series {
		line[i] = shortEMA[i] - longEMA[i]
	}

	signal, err := EMA(line, EMAOption{Period: opt.SignalPeriod})
	if err != nil {
		return nil, fmt.Errorf("시그널 라인 계산 실패: %w", err)
	}

	results := make([]MACDResult, len(series))
	for i := range series {
		results[i] = MACDResult{
			MACD:      line[i],
			Signal:    signal[i],
			Histogram: line[i] - signal[i],
		}
	}
	return results, nil
}

package indicator

// EMAOption은 EMA 계산에 필요한 옵션을 정의합니다
type EMAOption struct {
	Period int // 기간
}

// EMA는 지수이동평균을 계산합니다.
// 첫 값을 시작값으로 사용하며 편향 보정은 하지 않습니다 (ewm adjust=False와 동일).
func EMA(series []float64, opt EMAOption) ([]float64, error) {
	if err := validateSeries(series, opt.Period); err != nil {
		return nil, err
	}
	return smooth(series, opt.Period), nil
}

// smooth는 검증 없이 EMA 점화식을 적용합니다
// ema[t] = α·x[t] + (1-α)·ema[t-1], α = 2/(period+1)
func smooth(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)
	ema := series[0]
	out[0] = ema
	for i := 1; i < len(series); i++ {
		ema = alpha*series[i] + (1-alpha)*ema
		out[i] = ema
	}
	return out
}

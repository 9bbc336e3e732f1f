package indicator

// RSIOption은 RSI 계산에 필요한 옵션을 정의합니다
type RSIOption struct {
	Period int // 기간 (기본 14)
}

// DefaultRSIOption은 기본 RSI 옵션을 반환합니다
func DefaultRSIOption() RSIOption {
	return RSIOption{Period: 14}
}

// RSI는 상승/하락 변동을 EMA 방식으로 평활해 상대강도지수를 계산합니다.
// 첫 변동은 0으로 취급합니다.
func RSI(series []float64, opt RSIOption) ([]float64, error) {
	if err := validateSeries(series, opt.Period); err != nil {
		return nil, err
	}

	up := make([]float64, len(series))
	down := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		delta := series[i] - series[i-1]
		if delta > 0 {
			up[i] = delta
		} else if delta < 0 {
			down[i] = -delta
		}
	}

	avgUp := smooth(up, opt.Period)
	avgDown := smooth(down, opt.Period)

	results := make([]float64, len(series))
	for i := range series {
		results[i] = toRSI(avgUp[i], avgDown[i])
	}
	return results, nil
}

func toRSI(avgUp, avgDown float64) float64 {
	switch {
	case avgUp == 0 && avgDown == 0:
		return 50 // 완전 횡보
	case avgDown == 0:
		return 100 // rs = +Inf
	default:
		rs := avgUp / avgDown
		return 100 - 100/(1+rs)
	}
}

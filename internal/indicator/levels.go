package indicator

import (
	"math"

	"github.com/assist-by/insight/internal/domain"
)

// LevelOption은 지지/저항 계산 옵션을 정의합니다
type LevelOption struct {
	Window    int     // 분석할 최근 캔들 수
	Tolerance float64 // 존 병합 상대 허용오차
}

// DefaultLevelOption은 기본 지지/저항 옵션을 반환합니다
func DefaultLevelOption() LevelOption {
	return LevelOption{Window: 100, Tolerance: 0.002}
}

// FindSupportResistance는 최근 구간의 저가/고가를 각각 클러스터링해
// 현재가 이하의 첫 지지선과 현재가 이상의 첫 저항선을 반환합니다.
// 조건을 만족하는 후보가 없으면 구간 최저가/최고가를 사용하고,
// 구간이 비어있으면 둘 다 NaN입니다.
func FindSupportResistance(candles domain.CandleList, opt LevelOption) (support, resistance float64) {
	valid := make(domain.CandleList, 0, len(candles))
	for _, c := range candles {
		if math.IsNaN(c.Low) || math.IsNaN(c.High) || math.IsNaN(c.Close) {
			continue
		}
		valid = append(valid, c)
	}

	segment := valid.Tail(opt.Window)
	if len(segment) == 0 {
		return math.NaN(), math.NaN()
	}

	lows := make([]float64, len(segment))
	highs := make([]float64, len(segment))
	minLow, maxHigh := math.Inf(1), math.Inf(-1)
	for i, c := range segment {
		lows[i] = c.Low
		highs[i] = c.High
		minLow = math.Min(minLow, c.Low)
		maxHigh = math.Max(maxHigh, c.High)
	}

	current := segment[len(segment)-1].Close

	support = minLow
	for _, level := range IdentifyZones(lows, len(segment), opt.Tolerance, SupportZone) {
		if level <= current {
			support = level
			break
		}
	}

	resistance = maxHigh
	for _, level := range IdentifyZones(highs, len(segment), opt.Tolerance, ResistanceZone) {
		if level >= current {
			resistance = level
			break
		}
	}

	return support, resistance
}

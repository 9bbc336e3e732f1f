package domain

import (
	"math"
	"sort"
	"time"
)

// Candle은 캔들 데이터를 표현합니다
type Candle struct {
	Time   time.Time // 캔들 시작 시간 (UTC)
	Open   float64   // 시가
	High   float64   // 고가
	Low    float64   // 저가
	Close  float64   // 종가
	Volume float64   // 거래량
}

// CandleList는 캔들 데이터 목록입니다
type CandleList []Candle

// GetLastCandle은 가장 최근 캔들을 반환합니다
func (cl CandleList) GetLastCandle() (Candle, bool) {
	if len(cl) == 0 {
		return Candle{}, false
	}
	return cl[len(cl)-1], true
}

// Clean은 종가가 NaN인 행을 제거하고 시간 오름차순으로 정렬한 새 목록을 반환합니다.
// 같은 타임스탬프는 조회 순서를 유지합니다.
func (cl CandleList) Clean() CandleList {
	cleaned := make(CandleList, 0, len(cl))
	for _, c := range cl {
		if math.IsNaN(c.Close) {
			continue
		}
		cleaned = append(cleaned, c)
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		return cleaned[i].Time.Before(cleaned[j].Time)
	})
	return cleaned
}

// Closes는 종가 시계열을 반환합니다
func (cl CandleList) Closes() []float64 {
	out := make([]float64, len(cl))
	for i, c := range cl {
		out[i] = c.Close
	}
	return out
}

// Tail은 마지막 n개의 캔들을 반환합니다
func (cl CandleList) Tail(n int) CandleList {
	if n <= 0 {
		return CandleList{}
	}
	if n >= len(cl) {
		return cl
	}
	return cl[len(cl)-n:]
}

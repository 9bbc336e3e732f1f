package indicator

import (
	"math"
	"sort"
)

// ZoneMode는 존 탐색 방향을 정의합니다
type ZoneMode int

const (
	SupportZone    ZoneMode = iota // 현재가 근처 아래 레벨
	ResistanceZone                 // 현재가 근처 위 레벨
)

// zoneEpsilon은 가격 0 근처에서 허용오차가 0이 되는 것을 막습니다
const zoneEpsilon = 1e-8

type zone struct {
	price float64 // 병합된 가격의 가중 평균
	hits  []int   // 윈도우 내 인덱스
}

// IdentifyZones는 마지막 lookback 구간에서 반복적으로 방문한 가격대를 묶어
// 중요도 순으로 대표 가격을 반환합니다.
//
// 각 가격은 시간순으로 대표가와의 차이가 tolerance × max(대표가, ε) 이내인 첫 번째 존에
// 병합되고, 없으면 새 존을 엽니다. 점수는 hits × (1 + recency/lookback)이며 recency는
// 존에 속한 가장 최근 hit의 윈도우 시작점으로부터의 거리입니다.
func IdentifyZones(series []float64, lookback int, tolerance float64, mode ZoneMode) []float64 {
	if lookback <= 0 || len(series) == 0 {
		return []float64{}
	}

	recent := series
	if len(series) > lookback {
		recent = series[len(series)-lookback:]
	}

	var zones []*zone
	for idx, price := range recent {
		merged := false
		for _, z := range zones {
			if math.Abs(price-z.price) <= tolerance*math.Max(z.price, zoneEpsilon) {
				n := float64(len(z.hits))
				z.price = (z.price*n + price) / (n + 1)
				z.hits = append(z.hits, idx)
				merged = true
				break
			}
		}
		if !merged {
			zones = append(zones, &zone{price: price, hits: []int{idx}})
		}
	}

	type scored struct {
		price  float64
		weight float64
	}
	ranked := make([]scored, len(zones))
	for i, z := range zones {
		recency := 0
		for _, idx := range z.hits {
			recency = max(recency, idx+1)
		}
		weight := float64(len(z.hits)) * (1 + float64(recency)/float64(lookback))
		ranked[i] = scored{price: z.price, weight: weight}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		if mode == SupportZone {
			return ranked[i].price < ranked[j].price
		}
		return ranked[i].price > ranked[j].price
	})

	levels := make([]float64, len(ranked))
	for i, r := range ranked {
		levels[i] = r.price
	}
	return levels
}

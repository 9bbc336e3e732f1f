package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/insight/internal/domain"
)

// 테스트용 가격 데이터 생성
func generateTestCandles() domain.CandleList {
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	closes := []float64{
		// 상승 구간
		103, 106, 108, 110, 113, 114, 116, 117, 119, 120,
		// 하락 구간
		116, 113, 109, 106, 103,
		// 횡보 구간
		105, 104, 106, 105, 104,
		// 추가 하락 구간
		101, 99, 97, 95, 93, 91,
		// 반등 구간
		95, 97, 99, 101, 103, 105, 107, 109, 111,
	}

	candles := make(domain.CandleList, len(closes))
	for i, c := range closes {
		candles[i] = domain.Candle{
			Time:   baseTime.AddDate(0, 0, i),
			Open:   c - 1,
			High:   c + 2,
			Low:    c - 2,
			Close:  c,
			Volume: 1000,
		}
	}
	return candles
}

func risingCandles(n int) domain.CandleList {
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make(domain.CandleList, n)
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		candles[i] = domain.Candle{
			Time:  baseTime.Add(time.Duration(i) * time.Hour),
			Open:  c - 0.5,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return candles
}

func TestEMA(t *testing.T) {
	t.Run("상수 시계열은 그대로 유지", func(t *testing.T) {
		series := []float64{42, 42, 42, 42, 42, 42, 42}
		for _, period := range []int{1, 3, 20, 50} {
			result, err := EMA(series, EMAOption{Period: period})
			require.NoError(t, err)
			for _, v := range result {
				assert.Equal(t, 42.0, v)
			}
		}
	})

	t.Run("점화식", func(t *testing.T) {
		// period 3 → α = 0.5
		result, err := EMA([]float64{1, 2, 3}, EMAOption{Period: 3})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1, 1.5, 2.25}, result, 1e-12)
	})

	t.Run("잘못된 기간", func(t *testing.T) {
		_, err := EMA([]float64{1, 2}, EMAOption{Period: 0})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "Period", vErr.Field)
	})

	t.Run("빈 시계열", func(t *testing.T) {
		_, err := EMA(nil, EMAOption{Period: 3})
		assert.Error(t, err)
	})
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		series func() []float64
		want   float64
	}{
		{
			name: "연속 상승은 100",
			series: func() []float64 {
				out := make([]float64, 30)
				for i := range out {
					out[i] = 100 + float64(i)
				}
				return out
			},
			want: 100,
		},
		{
			name: "연속 하락은 0",
			series: func() []float64 {
				out := make([]float64, 30)
				for i := range out {
					out[i] = 100 - float64(i)
				}
				return out
			},
			want: 0,
		},
		{
			name: "완전 횡보는 50",
			series: func() []float64 {
				return []float64{10, 10, 10, 10, 10}
			},
			want: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RSI(tt.series(), DefaultRSIOption())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, result[len(result)-1], 1e-9)
		})
	}

	t.Run("범위 0~100", func(t *testing.T) {
		result, err := RSI(generateTestCandles().Closes(), DefaultRSIOption())
		require.NoError(t, err)
		for _, v := range result {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	})
}

func TestMACD(t *testing.T) {
	closes := generateTestCandles().Closes()

	results, err := MACD(closes, DefaultMACDOption())
	require.NoError(t, err)
	require.Len(t, results, len(closes))

	ema12, _ := EMA(closes, EMAOption{Period: 12})
	ema26, _ := EMA(closes, EMAOption{Period: 26})
	for i, r := range results {
		assert.Equal(t, r.MACD-r.Signal, r.Histogram)
		assert.Equal(t, ema12[i]-ema26[i], r.MACD)
	}

	_, err = MACD(closes, MACDOption{ShortPeriod: 12, LongPeriod: 26})
	assert.Error(t, err)
}

func TestIdentifyZones(t *testing.T) {
	t.Run("근접 가격 병합", func(t *testing.T) {
		levels := IdentifyZones([]float64{100, 100.1, 110, 100.05}, 4, 0.002, SupportZone)
		require.Len(t, levels, 2)
		assert.InDelta(t, 100.05, levels[0], 1e-9)
		assert.Equal(t, 110.0, levels[1])
	})

	t.Run("최근 hit가 더 높은 점수", func(t *testing.T) {
		levels := IdentifyZones([]float64{100, 200, 300}, 3, 0.002, ResistanceZone)
		assert.Equal(t, []float64{300, 200, 100}, levels)
	})

	t.Run("lookback 밖의 값은 무시", func(t *testing.T) {
		levels := IdentifyZones([]float64{1, 2, 500, 600}, 2, 0.002, SupportZone)
		assert.ElementsMatch(t, []float64{500, 600}, levels)
	})

	t.Run("재클러스터링 멱등성", func(t *testing.T) {
		series := []float64{100, 100.1, 120, 119.9, 140, 100.05, 140.1, 160}
		reduced := IdentifyZones(series, len(series), 0.002, SupportZone)
		again := IdentifyZones(reduced, len(reduced), 0.002, SupportZone)
		assert.ElementsMatch(t, reduced, again)
	})

	t.Run("빈 윈도우", func(t *testing.T) {
		assert.Empty(t, IdentifyZones(nil, 10, 0.002, SupportZone))
		assert.Empty(t, IdentifyZones([]float64{1, 2}, 0, 0.002, SupportZone))
	})

	t.Run("0 가격", func(t *testing.T) {
		levels := IdentifyZones([]float64{0, 0, 0}, 3, 0.002, SupportZone)
		assert.Equal(t, []float64{0}, levels)
	})
}

func TestFindSupportResistance(t *testing.T) {
	t.Run("지지 <= 현재가 <= 저항", func(t *testing.T) {
		candles := generateTestCandles()
		support, resistance := FindSupportResistance(candles, DefaultLevelOption())
		current := candles[len(candles)-1].Close

		assert.LessOrEqual(t, support, current)
		assert.GreaterOrEqual(t, resistance, current)
	})

	t.Run("빈 입력은 NaN", func(t *testing.T) {
		support, resistance := FindSupportResistance(nil, DefaultLevelOption())
		assert.True(t, math.IsNaN(support))
		assert.True(t, math.IsNaN(resistance))
	})

	t.Run("NaN 행 제외 후 비어있으면 NaN", func(t *testing.T) {
		candles := domain.CandleList{{Low: math.NaN(), High: 1, Close: 1}}
		support, resistance := FindSupportResistance(candles, DefaultLevelOption())
		assert.True(t, math.IsNaN(support))
		assert.True(t, math.IsNaN(resistance))
	})

	t.Run("후보가 없으면 최저가/최고가로 폴백", func(t *testing.T) {
		// 모든 저가가 종가보다 높고 모든 고가가 종가보다 낮은 비정상 데이터
		candles := domain.CandleList{
			{Low: 110, High: 90, Close: 100},
			{Low: 120, High: 80, Close: 100},
		}
		support, resistance := FindSupportResistance(candles, DefaultLevelOption())
		assert.Equal(t, 110.0, support)
		assert.Equal(t, 90.0, resistance)
	})
}

func TestAnalyse(t *testing.T) {
	t.Run("상승 시계열", func(t *testing.T) {
		candles := risingCandles(100)
		ind, err := Analyse(candles)
		require.NoError(t, err)

		for _, key := range []string{
			domain.KeyClose, domain.KeyEMAFast, domain.KeyEMASlow, domain.KeyRSI,
			domain.KeyMACD, domain.KeyMACDSignal, domain.KeyMACDHist,
			domain.KeySupport, domain.KeyResistance, domain.KeyChangePct,
		} {
			v, ok := ind[key]
			require.True(t, ok, key)
			assert.True(t, isFinite(v), key)
		}

		assert.Equal(t, 199.0, ind[domain.KeyClose])
		assert.Greater(t, ind[domain.KeyEMAFast], ind[domain.KeyEMASlow])
		assert.InDelta(t, 100.0, ind[domain.KeyRSI], 1e-9)
		assert.InDelta(t, 99.0, ind[domain.KeyChangePct], 1e-9)
		assert.Equal(t, ind[domain.KeyMACD]-ind[domain.KeyMACDSignal], ind[domain.KeyMACDHist])
		assert.LessOrEqual(t, ind[domain.KeySupport], ind[domain.KeyClose])
		assert.GreaterOrEqual(t, ind[domain.KeyResistance], ind[domain.KeyClose])
	})

	t.Run("NaN 종가 제거", func(t *testing.T) {
		candles := risingCandles(10)
		candles[9].Close = math.NaN()
		ind, err := Analyse(candles)
		require.NoError(t, err)
		assert.Equal(t, 108.0, ind[domain.KeyClose])
	})

	t.Run("유효한 행이 없으면 에러", func(t *testing.T) {
		_, err := Analyse(domain.CandleList{{Close: math.NaN()}})
		var vErr *ValidationError
		assert.True(t, errors.As(err, &vErr))
	})
}

func TestSummarise(t *testing.T) {
	ind := domain.IndicatorSet{
		domain.KeyEMAFast:    105.123,
		domain.KeyEMASlow:    100,
		domain.KeyRSI:        72.44,
		domain.KeyMACDHist:   -0.5,
		domain.KeySupport:    99.12346,
		domain.KeyResistance: 110.5,
	}

	t.Run("기본 자릿수", func(t *testing.T) {
		summary := Summarise("BINANCE:BTCUSDT", ind, nil)
		assert.Equal(t,
			"BINANCE:BTCUSDT momentum looks bullish: EMA20=105.12 vs EMA50=100.00. "+
				"RSI sits at 72.4 (overbought). MACD histogram -0.50 suggests weakening momentum. "+
				"Key levels: support near 99.12, resistance near 110.50.",
			summary)
	})

	t.Run("가격 정밀도 적용", func(t *testing.T) {
		precision := 4
		summary := Summarise("BTCUSDT", ind, &precision)
		assert.Contains(t, summary, "support near 99.1235")
		assert.Contains(t, summary, "resistance near 110.5000")
	})

	t.Run("유한하지 않은 레벨", func(t *testing.T) {
		nanInd := domain.IndicatorSet{
			domain.KeyEMAFast:    1,
			domain.KeyEMASlow:    2,
			domain.KeyRSI:        20,
			domain.KeyMACDHist:   0.1,
			domain.KeySupport:    math.NaN(),
			domain.KeyResistance: math.Inf(1),
		}
		summary := Summarise("ETHUSDT", nanInd, nil)
		assert.Contains(t, summary, "bearish")
		assert.Contains(t, summary, "(oversold)")
		assert.Contains(t, summary, "strengthening")
		assert.Contains(t, summary, "support near n/a, resistance near n/a")
	})

	t.Run("레벨이 없으면 문구 생략", func(t *testing.T) {
		summary := Summarise("ETHUSDT", domain.IndicatorSet{domain.KeyRSI: 50}, nil)
		assert.Contains(t, summary, "(neutral)")
		assert.NotContains(t, summary, "Key levels")
	})
}

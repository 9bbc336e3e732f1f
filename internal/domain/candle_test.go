package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandleList_Clean(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := CandleList{
		{Time: base.Add(2 * time.Hour), Close: 3},
		{Time: base, Close: 1},
		{Time: base.Add(time.Hour), Close: math.NaN()},
		{Time: base.Add(time.Hour), Close: 2, Volume: 10},
		{Time: base.Add(time.Hour), Close: 2.5, Volume: 20},
	}

	cleaned := candles.Clean()
	require.Len(t, cleaned, 4)
	assert.Equal(t, []float64{1, 2, 2.5, 3}, cleaned.Closes())
	// 중복 타임스탬프는 조회 순서 유지
	assert.Equal(t, 10.0, cleaned[1].Volume)
	assert.Equal(t, 20.0, cleaned[2].Volume)
	// 원본은 변경되지 않음
	assert.Equal(t, 3.0, candles[0].Close)
}

func TestCandleList_Tail(t *testing.T) {
	candles := CandleList{{Close: 1}, {Close: 2}, {Close: 3}}

	assert.Equal(t, []float64{2, 3}, candles.Tail(2).Closes())
	assert.Len(t, candles.Tail(10), 3)
	assert.Empty(t, candles.Tail(0))

	last, ok := candles.GetLastCandle()
	require.True(t, ok)
	assert.Equal(t, 3.0, last.Close)

	_, ok = CandleList{}.GetLastCandle()
	assert.False(t, ok)
}

func TestParseTimeInterval(t *testing.T) {
	interval, err := ParseTimeInterval(" 1h ")
	require.NoError(t, err)
	assert.Equal(t, Interval1h, interval)
	assert.Equal(t, time.Hour, TimeIntervalToDuration(interval))

	_, err = ParseTimeInterval("7m")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestInsightError_Unwrap(t *testing.T) {
	err := NewInsightError("BTCUSDT", "resolve", ErrNotFound)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "BTCUSDT")

	var insightErr *InsightError
	require.ErrorAs(t, error(err), &insightErr)
	assert.Equal(t, "resolve", insightErr.Op)
}

package indicator

import (
	"fmt"
	"math"
)

// ValidationError는 입력값 검증 에러를 정의합니다
type ValidationError struct {
	Field string
	Err   error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("유효하지 않은 %s: %v", e.Field, e.Err)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// validateSeries는 시계열과 기간을 검증합니다
func validateSeries(series []float64, period int) error {
	if period < 1 {
		return &ValidationError{
			Field: "Period",
			Err:   fmt.Errorf("기간은 1 이상이어야 합니다: %d", period),
		}
	}
	if len(series) == 0 {
		return &ValidationError{
			Field: "series",
			Err:   fmt.Errorf("가격 데이터가 비어있습니다"),
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// last는 시계열의 마지막 값을 반환합니다
func last(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}

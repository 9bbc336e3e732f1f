package domain

import (
	"errors"
	"fmt"
)

// 인사이트 생성 중 발생할 수 있는 에러 분류
var (
	ErrInvalidInput = errors.New("잘못된 입력입니다")
	ErrNotFound     = errors.New("사용 가능한 캔들 데이터를 찾을 수 없습니다")
	ErrUpstream     = errors.New("업스트림 서비스 요청에 실패했습니다")
	// ErrNoData는 후보 하나에 데이터가 없음을 뜻하며 폴백 중에 흡수됩니다
	ErrNoData = errors.New("해당 후보에 데이터가 없습니다")
)

// InsightError는 토큰 단위 에러를 확장한 구조체입니다
type InsightError struct {
	Token string
	Op    string
	Err   error
}

// Error는 error 인터페이스를 구현합니다
func (e *InsightError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("인사이트 에러 [%s, 작업: %s]: %v", e.Token, e.Op, e.Err)
	}
	return fmt.Sprintf("인사이트 에러 [작업: %s]: %v", e.Op, e.Err)
}

// Unwrap은 내부 에러를 반환합니다 (errors.Is/As 지원을 위함)
func (e *InsightError) Unwrap() error {
	return e.Err
}

// NewInsightError는 새로운 InsightError를 생성합니다
func NewInsightError(token, op string, err error) *InsightError {
	return &InsightError{
		Token: token,
		Op:    op,
		Err:   err,
	}
}

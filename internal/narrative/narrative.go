package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/assist-by/insight/internal/domain"
)

// DefaultMaxTokens는 내러티브 응답 길이 상한입니다
const DefaultMaxTokens = 300

// Request는 내러티브 생성 요청입니다
type Request struct {
	Symbol   string              // 거래소 접두사 없는 심볼 (예: BTCUSDT)
	Summary  string              // 결정적 기술적 분석 요약
	Interval domain.TimeInterval // 캔들 간격
	Limit    int                 // 분석에 사용한 캔들 수
}

// Generator는 요약을 바탕으로 시장 내러티브를 생성합니다.
// 빈 문자열은 "사용 가능한 텍스트 없음"을 뜻합니다.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// BuildPrompt는 내러티브 생성 프롬프트를 구성합니다
func BuildPrompt(req Request, maxTokens int) string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Provide a concise market insight for cryptocurrency %s based on the following technical analysis summary from the last %d %s candles:\n\n",
		req.Symbol, req.Limit, req.Interval)
	b.WriteString(req.Summary)
	b.WriteString("\n\n Research and include up to date relevant market news that has impacted the price action recently.")
	b.WriteString(" Suggest potential future price movements based on this combined information and advise on possible trading strategies based on the interval suggested.")
	fmt.Fprintf(&b, " Keep the response under %d tokens.", maxTokens)
	return b.String()
}

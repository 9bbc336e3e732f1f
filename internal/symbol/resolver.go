package symbol

import (
	"fmt"
	"iter"
	"strings"

	"github.com/assist-by/insight/internal/domain"
)

// Candidate는 조회를 시도할 (거래소, 심볼) 쌍입니다
type Candidate struct {
	Exchange string
	Symbol   string
}

// String은 "EXCHANGE:SYMBOL" 형식을 반환합니다
func (c Candidate) String() string {
	return strings.ToUpper(c.Exchange) + ":" + c.Symbol
}

// Token은 파싱된 요청 토큰입니다
type Token struct {
	Raw      string // 원본 요청 문자열
	Exchange string // 명시된 거래소 (소문자, 없으면 빈 문자열)
	Body     string // 심볼 본문
}

// ParseToken은 "exchange:symbol" 또는 "symbol" 형식의 토큰을 파싱합니다
func ParseToken(raw string) (Token, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Token{}, fmt.Errorf("%w: 빈 심볼", domain.ErrInvalidInput)
	}

	token := Token{Raw: raw, Body: trimmed}
	if exchange, body, ok := strings.Cut(trimmed, ":"); ok {
		token.Exchange = strings.ToLower(strings.TrimSpace(exchange))
		token.Body = strings.TrimSpace(body)
	}

	if Normalize(token.Body) == "" {
		return Token{}, fmt.Errorf("%w: 빈 심볼 %q", domain.ErrInvalidInput, raw)
	}
	return token, nil
}

// Normalize는 구분자('/', '-')를 제거하고 대문자로 변환합니다
func Normalize(symbol string) string {
	return strings.ToUpper(strings.NewReplacer("/", "", "-", "").Replace(strings.TrimSpace(symbol)))
}

// Split은 심볼을 (base, quote)로 분리합니다.
// 설정된 quote 우선순위에서 처음으로 접미사가 일치하는 quote가 선택되며,
// 일치하는 quote가 없으면 전체를 base로 보고 quote는 빈 문자열입니다.
func Split(symbol string, quotes []string) (base, quote string) {
	cleaned := Normalize(symbol)
	for _, q := range quotes {
		q = strings.ToUpper(q)
		if q == "" || !strings.HasSuffix(cleaned, q) {
			continue
		}
		if b := strings.TrimSuffix(cleaned, q); b != "" {
			return b, q
		}
	}
	return cleaned, ""
}

// Resolver는 요청 토큰에 대한 후보 쌍을 우선순위 순서로 생성합니다
type Resolver struct {
	exchanges []string
	quotes    []string
}

// NewResolver는 거래소/quote 우선순위로 Resolver를 생성합니다
func NewResolver(exchanges, quotes []string) *Resolver {
	r := &Resolver{}
	for _, e := range exchanges {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			r.exchanges = append(r.exchanges, e)
		}
	}
	for _, q := range quotes {
		if q = strings.ToUpper(strings.TrimSpace(q)); q != "" {
			r.quotes = append(r.quotes, q)
		}
	}
	return r
}

// Symbols는 토큰 본문에 대한 심볼 후보를 반환합니다.
// quote가 감지되면 원래 조합이 먼저 오고, 이어서 나머지 quote 조합이 우선순위대로 옵니다.
func (r *Resolver) Symbols(body string) []string {
	base, quote := Split(body, r.quotes)

	var symbols []string
	if quote != "" {
		symbols = append(symbols, base+quote)
	}
	for _, q := range r.quotes {
		if q == quote {
			continue
		}
		symbols = append(symbols, base+q)
	}
	return symbols
}

// Exchanges는 거래소 후보를 반환합니다. 명시된 거래소가 먼저 오고 중복은 제외됩니다.
func (r *Resolver) Exchanges(preferred string) []string {
	var exchanges []string
	if preferred != "" {
		exchanges = append(exchanges, preferred)
	}
	for _, e := range r.exchanges {
		if e == preferred {
			continue
		}
		exchanges = append(exchanges, e)
	}
	return exchanges
}

// Candidates는 거래소(바깥) × 심볼(안쪽) 순서의 지연 후보 시퀀스를 반환합니다
func (r *Resolver) Candidates(raw string) (Token, iter.Seq[Candidate], error) {
	token, err := ParseToken(raw)
	if err != nil {
		return Token{}, nil, err
	}

	exchanges := r.Exchanges(token.Exchange)
	symbols := r.Symbols(token.Body)

	seq := func(yield func(Candidate) bool) {
		for _, exchange := range exchanges {
			for _, symbol := range symbols {
				if !yield(Candidate{Exchange: exchange, Symbol: symbol}) {
					return
				}
			}
		}
	}
	return token, seq, nil
}

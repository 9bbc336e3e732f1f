package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/assist-by/insight/internal/domain"
	"github.com/assist-by/insight/internal/indicator"
	"github.com/assist-by/insight/internal/market"
	"github.com/assist-by/insight/internal/metrics"
	"github.com/assist-by/insight/internal/narrative"
	"github.com/assist-by/insight/internal/ratelimit"
	"github.com/assist-by/insight/internal/symbol"
)

// MetadataLoader는 거래소별 심볼 메타데이터를 조회합니다
type MetadataLoader interface {
	GetSymbols(ctx context.Context) ([]symbol.ExchangeSymbols, error)
}

// Service는 심볼 해석, 캔들 조회, 지표 계산, 내러티브 생성을 조율합니다.
// 여러 요청이 동시에 사용할 수 있으며 카탈로그와 리미터를 공유합니다.
type Service struct {
	source    market.Source
	metadata  MetadataLoader
	resolver  *symbol.Resolver
	catalog   *symbol.Catalog
	limiter   *ratelimit.Limiter
	generator narrative.Generator
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// Option은 Service 생성 옵션을 정의합니다
type Option func(*Service)

// WithGenerator는 내러티브 생성기를 설정합니다. 없으면 결정적 요약을 그대로 사용합니다.
func WithGenerator(g narrative.Generator) Option {
	return func(s *Service) {
		s.generator = g
	}
}

// WithLogger는 로거를 설정합니다
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics는 지표 수집기를 설정합니다
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCatalog는 공유 카탈로그를 설정합니다
func WithCatalog(c *symbol.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// NewService는 새로운 Service를 생성합니다
func NewService(source market.Source, metadata MetadataLoader, resolver *symbol.Resolver, limiter *ratelimit.Limiter, opts ...Option) *Service {
	s := &Service{
		source:   source,
		metadata: metadata,
		resolver: resolver,
		catalog:  symbol.NewCatalog(),
		limiter:  limiter,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog는 공유 메타데이터 카탈로그를 반환합니다
func (s *Service) Catalog() *symbol.Catalog {
	return s.catalog
}

// Generate는 요청된 토큰마다 인사이트를 생성합니다.
// 토큰은 순서대로 처리하며, 한 토큰이라도 실패하면 배치 전체가 *domain.InsightError로 실패합니다.
func (s *Service) Generate(ctx context.Context, tokens []string, interval domain.TimeInterval, limit int) ([]domain.SymbolInsight, error) {
	start := time.Now()
	logger := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("interval", string(interval)),
		zap.Int("limit", limit),
	)

	insights, err := s.generate(ctx, logger, tokens, interval, limit)
	result := Classify(err)
	s.metrics.ObserveBatch(result, time.Since(start))

	if err != nil {
		logger.Warn("인사이트 배치 실패", zap.String("result", result), zap.Error(err))
		return nil, err
	}
	logger.Info("인사이트 배치 완료",
		zap.Int("count", len(insights)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return insights, nil
}

func (s *Service) generate(ctx context.Context, logger *zap.Logger, tokens []string, interval domain.TimeInterval, limit int) ([]domain.SymbolInsight, error) {
	requested := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token = strings.TrimSpace(token); token != "" {
			requested = append(requested, token)
		}
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("%w: 요청된 심볼이 없습니다", domain.ErrInvalidInput)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit은 1 이상이어야 합니다: %d", domain.ErrInvalidInput, limit)
	}
	if domain.TimeIntervalToDuration(interval) == 0 {
		return nil, fmt.Errorf("%w: 지원하지 않는 간격 %q", domain.ErrInvalidInput, interval)
	}

	s.ensureCatalog(ctx, logger)

	insights := make([]domain.SymbolInsight, 0, len(requested))
	for _, token := range requested {
		insight, err := s.buildInsight(ctx, logger.With(zap.String("token", token)), token, interval, limit)
		if err != nil {
			return nil, err
		}
		insights = append(insights, insight)
	}
	return insights, nil
}

// ensureCatalog는 카탈로그가 비어있을 때만 메타데이터를 로드합니다.
// 실패해도 요청은 계속되며 가격 정밀도만 알 수 없게 됩니다.
func (s *Service) ensureCatalog(ctx context.Context, logger *zap.Logger) {
	if s.catalog.Len() > 0 || s.metadata == nil {
		return
	}
	if err := s.RefreshCatalog(ctx); err != nil {
		logger.Warn("메타데이터 로드 실패, 정밀도 없이 진행", zap.Error(err))
	}
}

// RefreshCatalog는 메타데이터를 다시 조회해 카탈로그에 병합합니다
func (s *Service) RefreshCatalog(ctx context.Context) error {
	if s.metadata == nil {
		return nil
	}

	entries, err := s.metadata.GetSymbols(ctx)
	if err != nil {
		s.metrics.ObserveCatalog("error", s.catalog.Len())
		return fmt.Errorf("메타데이터 조회 실패: %w", err)
	}

	merged := s.catalog.Merge(entries)
	s.metrics.ObserveCatalog("ok", s.catalog.Len())
	if ce := s.logger.Check(zapcore.DebugLevel, "메타데이터 병합 완료"); ce != nil {
		byExchange := make(map[string]int)
		for exchange, symbols := range s.catalog.Snapshot() {
			byExchange[exchange] = len(symbols)
		}
		ce.Write(
			zap.Int("exchanges", len(entries)),
			zap.Int("merged", merged),
			zap.Int("total", s.catalog.Len()),
			zap.Any("by_exchange", byExchange),
		)
	}
	return nil
}

func (s *Service) buildInsight(ctx context.Context, logger *zap.Logger, token string, interval domain.TimeInterval, limit int) (domain.SymbolInsight, error) {
	_, candidates, err := s.resolver.Candidates(token)
	if err != nil {
		return domain.SymbolInsight{}, domain.NewInsightError(token, "resolve", err)
	}

	candidate, candles, err := FirstAvailable(ctx, candidates, s.probe(logger, interval, limit))
	if err != nil {
		return domain.SymbolInsight{}, domain.NewInsightError(token, "fetch", err)
	}

	indicators, err := indicator.Analyse(candles)
	if err != nil {
		return domain.SymbolInsight{}, domain.NewInsightError(token, "analyse", err)
	}

	precision := s.catalog.Precision(candidate.Exchange, candidate.Symbol)
	summary := indicator.Summarise(candidate.String(), indicators, precision)

	text, err := s.narrate(ctx, logger, narrative.Request{
		Symbol:   candidate.Symbol,
		Summary:  summary,
		Interval: interval,
		Limit:    limit,
	})
	if err != nil {
		return domain.SymbolInsight{}, domain.NewInsightError(token, "narrate", err)
	}

	logger.Debug("인사이트 생성",
		zap.String("exchange", candidate.Exchange),
		zap.String("symbol", candidate.Symbol),
		zap.Int("candles", len(candles)),
	)
	return domain.SymbolInsight{
		Requested:      token,
		Exchange:       candidate.Exchange,
		Symbol:         candidate.Symbol,
		Summary:        text,
		Indicators:     indicators,
		PricePrecision: precision,
	}, nil
}

// probe는 후보 하나의 캔들을 조회합니다. 정리 후 남는 행이 없으면 데이터 없음으로 취급합니다.
func (s *Service) probe(logger *zap.Logger, interval domain.TimeInterval, limit int) func(context.Context, symbol.Candidate) (domain.CandleList, error) {
	return func(ctx context.Context, c symbol.Candidate) (domain.CandleList, error) {
		candles, err := s.source.GetCandles(ctx, c.Exchange, c.Symbol, interval, limit)
		switch {
		case errors.Is(err, domain.ErrNoData):
			s.metrics.ObserveCandleFetch(c.Exchange, "no_data")
			logger.Debug("후보에 데이터 없음", zap.Stringer("candidate", c))
			return nil, err
		case err != nil:
			s.metrics.ObserveCandleFetch(c.Exchange, "error")
			return nil, err
		}

		cleaned := candles.Clean()
		if len(cleaned) == 0 {
			s.metrics.ObserveCandleFetch(c.Exchange, "no_data")
			return nil, fmt.Errorf("%w: %s 유효한 종가 없음", domain.ErrNoData, c)
		}
		s.metrics.ObserveCandleFetch(c.Exchange, "ok")
		return cleaned, nil
	}
}

// narrate는 리미터를 거쳐 내러티브를 생성합니다.
// 생성 실패나 빈 응답은 결정적 요약으로 대체하며, 취소만 에러로 반환합니다.
func (s *Service) narrate(ctx context.Context, logger *zap.Logger, req narrative.Request) (string, error) {
	if s.generator == nil {
		s.metrics.ObserveNarrative("disabled")
		return req.Summary, nil
	}

	if s.limiter != nil {
		waitStart := time.Now()
		if err := s.limiter.Acquire(ctx); err != nil {
			return "", err
		}
		s.metrics.ObserveRateLimitWait(time.Since(waitStart))
	}

	text, err := s.generator.Generate(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		s.metrics.ObserveNarrative("error")
		logger.Warn("내러티브 생성 실패, 요약으로 대체", zap.Error(err))
		return req.Summary, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.metrics.ObserveNarrative("empty")
		return req.Summary, nil
	}
	s.metrics.ObserveNarrative("ok")
	return text, nil
}

// Overview는 인사이트 요약을 빈 줄로 이어 붙입니다
func Overview(insights []domain.SymbolInsight) string {
	summaries := make([]string, len(insights))
	for i, insight := range insights {
		summaries[i] = insight.Summary
	}
	return strings.Join(summaries, "\n\n")
}

// NewResponse는 API 응답을 구성합니다
func NewResponse(interval domain.TimeInterval, insights []domain.SymbolInsight) domain.InsightsResponse {
	if insights == nil {
		insights = []domain.SymbolInsight{}
	}
	return domain.InsightsResponse{
		Interval: string(interval),
		Insights: insights,
		Overview: Overview(insights),
	}
}

// Classify는 에러를 지표/로그용 결과 레이블로 분류합니다
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

package market

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/assist-by/insight/internal/cache"
	"github.com/assist-by/insight/internal/domain"
)

// CachedSource는 캔들 조회 결과를 짧게 캐싱하는 Source입니다.
// 캐시 오류는 로그만 남기고 원본 조회로 우회합니다.
type CachedSource struct {
	source Source
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSource는 새로운 CachedSource를 생성합니다. ttl이 0 이하이면 캐싱하지 않습니다.
func NewCachedSource(source Source, store cache.Store, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{
		source: source,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// CandleKey는 캔들 캐시 키를 생성합니다
func CandleKey(exchange, symbol string, interval domain.TimeInterval, limit int) string {
	return fmt.Sprintf("candles:%s:%s:%s:%d", exchange, symbol, interval, limit)
}

// GetCandles는 캐시를 먼저 확인하고, 없으면 원본에서 조회해 저장합니다
func (s *CachedSource) GetCandles(ctx context.Context, exchange, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	ttl := s.effectiveTTL(interval)
	if ttl <= 0 {
		return s.source.GetCandles(ctx, exchange, symbol, interval, limit)
	}

	key := CandleKey(exchange, symbol, interval, limit)
	if candles, ok := s.load(ctx, key); ok {
		return candles, nil
	}

	candles, err := s.source.GetCandles(ctx, exchange, symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	// 빈 결과는 캐싱하지 않음
	if len(candles) > 0 {
		s.save(ctx, key, candles, ttl)
	}
	return candles, nil
}

// effectiveTTL은 설정된 TTL과 캔들 간격 중 짧은 쪽을 사용합니다
func (s *CachedSource) effectiveTTL(interval domain.TimeInterval) time.Duration {
	ttl := s.ttl
	if d := domain.TimeIntervalToDuration(interval); d > 0 && d < ttl {
		ttl = d
	}
	return ttl
}

func (s *CachedSource) load(ctx context.Context, key string) (domain.CandleList, bool) {
	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("캔들 캐시 조회 실패", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	candles, err := decodeCandles(raw)
	if err != nil || len(candles) == 0 {
		s.logger.Warn("손상된 캔들 캐시 항목 무시", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return candles, true
}

func (s *CachedSource) save(ctx context.Context, key string, candles domain.CandleList, ttl time.Duration) {
	raw, err := encodeCandles(candles)
	if err != nil {
		s.logger.Warn("캔들 직렬화 실패", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, key, raw, ttl); err != nil {
		s.logger.Warn("캔들 캐시 저장 실패", zap.String("key", key), zap.Error(err))
	}
}

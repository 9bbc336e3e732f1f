package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore는 Redis 기반 Store입니다. 여러 인스턴스가 캐시를 공유할 때 사용합니다.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore는 Redis 저장소를 생성합니다. 모든 키에 prefix가 붙습니다.
func NewRedisStore(opt *redis.Options, prefix string) *RedisStore {
	return &RedisStore{client: redis.NewClient(opt), prefix: prefix}
}

// Ping은 Redis 연결을 확인합니다
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis 연결 실패: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis 조회 실패: %w", err)
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis 저장 실패: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis 삭제 실패: %w", err)
	}
	return nil
}

// Close는 연결을 닫습니다
func (s *RedisStore) Close() error {
	return s.client.Close()
}

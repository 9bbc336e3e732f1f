package cache

import (
	"context"
	"time"
)

// Store는 TTL을 지원하는 바이트 키-값 저장소입니다
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	osSignal "os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/assist-by/insight/internal/api"
	"github.com/assist-by/insight/internal/cache"
	"github.com/assist-by/insight/internal/config"
	"github.com/assist-by/insight/internal/insight"
	"github.com/assist-by/insight/internal/logger"
	"github.com/assist-by/insight/internal/market"
	"github.com/assist-by/insight/internal/metrics"
	"github.com/assist-by/insight/internal/narrative"
	"github.com/assist-by/insight/internal/notification/discord"
	"github.com/assist-by/insight/internal/ratelimit"
	"github.com/assist-by/insight/internal/scheduler"
	"github.com/assist-by/insight/internal/symbol"
)

// CatalogRefreshTask는 심볼 메타데이터 갱신 작업을 정의합니다
type CatalogRefreshTask struct {
	service *insight.Service
}

// Execute는 메타데이터 갱신 작업을 실행합니다
func (t *CatalogRefreshTask) Execute(ctx context.Context) error {
	return t.service.RefreshCatalog(ctx)
}

// opsNotifier는 웹훅이 설정되지 않았을 때 알림을 생략합니다
type opsNotifier struct {
	client *discord.Client
	logger *zap.Logger
}

func (n *opsNotifier) SendError(err error) error {
	if n.client == nil {
		return nil
	}
	return n.client.SendError(err)
}

func (n *opsNotifier) info(message string) {
	if n.client == nil {
		return
	}
	if err := n.client.SendInfo(message); err != nil {
		n.logger.Warn("정보 알림 전송 실패", zap.Error(err))
	}
}

func (n *opsNotifier) taskFailure(name string, err error) {
	if n.client == nil {
		return
	}
	if nerr := n.client.SendTaskFailure(name, err); nerr != nil {
		n.logger.Warn("작업 실패 알림 전송 실패", zap.Error(nerr))
	}
}

func main() {
	// 명령줄 플래그 정의
	envFiles := flag.String("env", ".env.local,.env", "쉼표로 구분한 .env 파일 목록 (먼저 로드한 값이 우선)")
	addr := flag.String("addr", "", "HTTP listen 주소 (설정값보다 우선)")
	flag.Parse()

	// 설정 로드
	cfg, err := config.LoadConfig(splitList(*envFiles)...)
	if err != nil {
		log.Fatalf("설정 로드 실패: %v", err)
	}
	if *addr != "" {
		cfg.App.HTTPAddr = *addr
	}

	// 로거 생성
	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatalf("로거 생성 실패: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("서비스 실행 실패", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	// 종료 시그널 처리
	ctx, stop := osSignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 알림
	notifier := &opsNotifier{logger: zlog}
	if cfg.Discord.Webhook != "" {
		notifier.client = discord.NewClient(cfg.Discord.Webhook, discord.WithTimeout(10*time.Second))
	}

	// 지표
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := metrics.NewMetrics(registry)

	// 캔들 캐시 저장소
	store, closeStore, err := newCacheStore(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer closeStore()

	// 시장 데이터 클라이언트
	marketClient := market.NewClient(
		market.WithBaseURL(cfg.Market.BaseURL),
		market.WithTimeout(cfg.Market.HTTPTimeout),
	)
	source := market.NewCachedSource(marketClient, store, cfg.Market.CandleCacheTTL, zlog.Named("cache"))

	// 내러티브 레이트 리미터
	limiter, err := ratelimit.New(cfg.Narrative.RateLimit, cfg.Narrative.RateWindow)
	if err != nil {
		return fmt.Errorf("레이트 리미터 생성 실패: %w", err)
	}

	opts := []insight.Option{
		insight.WithLogger(zlog.Named("insight")),
		insight.WithMetrics(prom),
	}

	// 내러티브 생성기 (API 키가 없으면 결정적 요약만 사용)
	if cfg.Narrative.APIKey != "" {
		generator, err := narrative.NewClient(narrative.ClientConfig{
			BaseURL:   cfg.Narrative.BaseURL,
			APIKey:    cfg.Narrative.APIKey,
			Model:     cfg.Narrative.Model,
			MaxTokens: cfg.Narrative.MaxTokens,
			Timeout:   cfg.Narrative.Timeout,
		}, zlog.Named("narrative"))
		if err != nil {
			return fmt.Errorf("내러티브 클라이언트 생성 실패: %w", err)
		}
		opts = append(opts, insight.WithGenerator(generator))
	} else {
		zlog.Warn("내러티브 API 키가 없어 결정적 요약만 사용합니다")
	}

	resolver := symbol.NewResolver(cfg.App.ExchangePriority, cfg.App.QuotePriority)
	service := insight.NewService(source, marketClient, resolver, limiter, opts...)

	// 메타데이터 주기적 갱신
	sched := scheduler.NewScheduler(ctx, zlog.Named("scheduler"),
		scheduler.WithTaskTimeout(cfg.Market.HTTPTimeout),
		scheduler.WithFailureHandler(notifier.taskFailure),
	)
	if cfg.Market.CatalogRefreshCron != "" {
		if err := sched.Add("catalog-refresh", cfg.Market.CatalogRefreshCron, &CatalogRefreshTask{service: service}); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	// HTTP 서버
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.RouterConfig{
		Insights:       service,
		DefaultLimit:   cfg.App.DefaultLimit,
		CORSOrigins:    cfg.App.CORSOrigins,
		MetricsHandler: prom.Handler(),
		Notifier:       notifier,
		Logger:         zlog.Named("http"),
	})
	server := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("HTTP 서버 시작", zap.String("addr", cfg.App.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	notifier.info("🚀 인사이트 서비스가 시작되었습니다.")

	select {
	case <-ctx.Done():
		zlog.Info("종료 시그널 수신")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP 서버 실패: %w", err)
		}
	}

	// 진행 중인 요청이 끝날 때까지 대기
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("HTTP 서버 종료 실패", zap.Error(err))
	}
	notifier.info("인사이트 서비스가 종료되었습니다.")
	return nil
}

// newCacheStore는 Redis 주소가 있으면 Redis를, 없으면 메모리 저장소를 반환합니다
func newCacheStore(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (cache.Store, func(), error) {
	if cfg.Redis.Addr == "" {
		zlog.Info("메모리 캔들 캐시 사용")
		return cache.NewMemoryStore(), func() {}, nil
	}

	store := cache.NewRedisStore(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, "insight:")

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		store.Close()
		return nil, nil, err
	}

	zlog.Info("Redis 캔들 캐시 사용", zap.String("addr", cfg.Redis.Addr))
	return store, func() {
		if err := store.Close(); err != nil {
			zlog.Warn("Redis 연결 종료 실패", zap.Error(err))
		}
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

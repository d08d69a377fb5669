package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/ingest"
	"github.com/wonny/argus/internal/profile"
	"github.com/wonny/argus/internal/service"
	"github.com/wonny/argus/internal/store"
	"github.com/wonny/argus/pkg/config"
	"github.com/wonny/argus/pkg/database"
	"github.com/wonny/argus/pkg/httputil"
	"github.com/wonny/argus/pkg/logger"
	"github.com/wonny/argus/pkg/redis"
)

// deps bundles the shared collaborators every command starts from.
// ⭐ SSOT: CLI 의존성 조립은 이 파일에서만
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	profile  *profile.Profile
	analyzer *service.Analyzer

	// nil일 수 있음 (DB/Redis 미설정)
	db    *database.DB
	redis *redis.Client
	cache *redis.Cache

	analyses    contracts.AnalysisRepository
	simulations contracts.SimulationRepository

	closers []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// initDeps loads config, logger, profile, source and optional storage.
// requireDB가 true인데 DB 연결이 없으면 에러
func initDeps(requireDB bool) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	prof, err := loadProfile()
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, log: log, profile: prof}

	// Database (선택적)
	db, err := database.New(cfg)
	if err != nil {
		if requireDB {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		log.WithError(err).Debug("database unavailable, continuing without persistence")
	} else {
		d.db = db
		d.closers = append(d.closers, db.Close)

		if err := store.EnsureSchema(context.Background(), db.Pool); err != nil {
			d.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}

	// Redis (선택적)
	var redisClient *redis.Client
	if rc, err := redis.New(cfg); err != nil {
		log.WithError(err).Debug("redis unavailable, continuing without cache")
	} else if rc.Enabled() {
		redisClient = rc
		d.redis = rc
		d.cache = redis.NewCache(redisClient, "argus")
		d.closers = append(d.closers, func() { redisClient.Close() })
	}

	src, err := newSource(cfg, redisClient, log)
	if err != nil {
		d.Close()
		return nil, err
	}

	opts := service.Options{Cache: d.cache}
	if d.db != nil {
		opts.Strategies = store.NewStrategyRepo(d.db.Pool)
		opts.Trades = store.NewTradeRepo(d.db.Pool)
		opts.Analyses = store.NewAnalysisRepo(d.db.Pool)
		opts.Simulations = store.NewSimulationRepo(d.db.Pool)
		d.analyses = opts.Analyses
		d.simulations = opts.Simulations
	}

	d.analyzer = service.NewAnalyzer(src, opts, log)
	return d, nil
}

// loadProfile resolves --profile into a validated profile
func loadProfile() (*profile.Profile, error) {
	if profilePath == "" {
		return profile.Default(), nil
	}

	prof, err := profile.Load(profilePath)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", profilePath, err)
	}
	return prof, nil
}

// newSource builds the trade-table source from config.
// local 디렉토리에 HTML 거래내역이 섞여 있으면 html 모드 사용
func newSource(cfg *config.Config, redisClient *redis.Client, log *logger.Logger) (contracts.Source, error) {
	switch strings.ToLower(cfg.Data.Mode) {
	case "", "local":
		return ingest.NewLocalSource(cfg.Data.Dir, log), nil
	case "html":
		return ingest.NewHTMLSource(cfg.Data.Dir, log), nil
	case "remote":
		client := httputil.New(cfg, log)
		// Redis가 있으면 프로세스 간 공유 리밋도 건다
		// (로컬 토큰 버킷은 RemoteSource 안에 항상 존재)
		if redisClient != nil && redisClient.Enabled() {
			client = client.WithRateLimiter(
				redis.NewRateLimiter(redisClient, "argus"),
				redis.RateLimitConfig{
					Key:    "remote_source",
					Limit:  int(cfg.Data.RequestsPerSec * 60),
					Window: time.Minute,
				})
		}
		return ingest.NewRemoteSource(cfg.Data.BaseURL, cfg.Data.RequestsPerSec, client, log), nil
	default:
		return nil, fmt.Errorf("unknown data mode %q (valid: local, html, remote)", cfg.Data.Mode)
	}
}

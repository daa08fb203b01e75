package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"calorie_backend/internal/app/di"
	"calorie_backend/internal/app/router"
	analysishandler "calorie_backend/internal/feature/analysis/transport/handler"
	analysisusecase "calorie_backend/internal/feature/analysis/usecase"
	"calorie_backend/internal/feature/capture/adapters/camera"
	"calorie_backend/internal/feature/capture/adapters/shutter"
	captureusecase "calorie_backend/internal/feature/capture/usecase"
	guidancehandler "calorie_backend/internal/feature/guidance/transport/handler"
	journaladapters "calorie_backend/internal/feature/journal/adapters"
	journalhandler "calorie_backend/internal/feature/journal/transport/handler"
	journalusecase "calorie_backend/internal/feature/journal/usecase"
	sessionhandler "calorie_backend/internal/feature/session/transport/handler"
	sessionusecase "calorie_backend/internal/feature/session/usecase"
	"calorie_backend/internal/platform/cache"
	infradb "calorie_backend/internal/platform/db"
	infrahttp "calorie_backend/internal/platform/http"
	platformhandler "calorie_backend/internal/platform/http/handler"
	jwtmw "calorie_backend/internal/platform/jwt"
	infraredis "calorie_backend/internal/platform/redis"
	"calorie_backend/internal/platform/session"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 推論クライアント（APIキー未設定ならここで終了）
	inference, err := di.NewInferenceClient(ctx)
	if err != nil {
		log.Fatalf("failed to create inference client: %v", err)
	}

	// db（記録用）
	db, err := infradb.Open(infradb.LoadConfigFromEnv(), journaladapters.Models()...)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get database handle: %v", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Println("[ERROR] Failed to close database:", err)
		}
	}()

	// Redis（未設定・接続失敗時はメモリ上のセッションストア）
	var rdb *redisv9.Client
	if cfg, ok := infraredis.LoadConfig(); ok {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg); err != nil {
			log.Println("[WARN] Redis unavailable. Sessions are kept in process memory.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// カメラ（キオスク端末に接続されたもの。リクエスト自体がシャッター操作）
	camCfg, err := di.NewCameraConfig()
	if err != nil {
		log.Fatal(err)
	}
	capture := captureusecase.NewCaptureUsecase(camera.NewGoCVOpener(), shutter.Immediate{}, camCfg)

	// Repository
	sessionRepo := di.NewSessionRepository(rdb, session.DefaultTTL)
	// 記録の一覧はRedisでキャッシュ（rdbがnilならバイパス）
	journalRepo := cache.NewCachingJournalRepository(rdb, cache.DefaultTTL, journaladapters.NewJournalRepository(db), "journal")

	// Usecase
	analysisUC := analysisusecase.NewAnalysisUsecase(inference)
	sessionUC := sessionusecase.NewSessionUsecase(sessionRepo, analysisUC, capture)
	journalUC := journalusecase.NewJournalUsecase(journalRepo, sessionUC)

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Session routes will reject every request.")
	}

	// Handler
	checks := map[string]platformhandler.Check{
		"db": func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	handlers := router.Handlers{
		Health:   platformhandler.NewHealthHandler(checks),
		Tips:     guidancehandler.NewTipsHandler(),
		Analysis: analysishandler.NewAnalysisHandler(analysisUC, capture),
		Session:  sessionhandler.NewSessionHandler(sessionUC, capture, jwtmw.NewGenerator(secret, jwtmw.DefaultExpiration)),
		Journal:  journalhandler.NewJournalHandler(journalUC),
	}

	// ルータ生成
	r := router.NewRouter(handlers, infrahttp.NewCORS(os.Getenv("CORS_ALLOW_ORIGINS")))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("[ERROR] Server shutdown:", err)
	}
	// 実行中の解析が結果を書き込むまで待つ
	sessionUC.Wait()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection"

	"github.com/krishisakhi/sakhi-session/internal/api/grpc/router"
	grpcServer "github.com/krishisakhi/sakhi-session/internal/api/grpc/server"
	"github.com/krishisakhi/sakhi-session/internal/config"
	"github.com/krishisakhi/sakhi-session/internal/logger"
	"github.com/krishisakhi/sakhi-session/internal/metrics"
	"github.com/krishisakhi/sakhi-session/internal/model"
	"github.com/krishisakhi/sakhi-session/internal/report"
	"github.com/krishisakhi/sakhi-session/internal/repository/postgres"
	"github.com/krishisakhi/sakhi-session/internal/server"
	"github.com/krishisakhi/sakhi-session/internal/service"
	"github.com/krishisakhi/sakhi-session/internal/storage/memory"
	storage "github.com/krishisakhi/sakhi-session/internal/storage/minio"
	"github.com/krishisakhi/sakhi-session/internal/storage/redis"
	"github.com/krishisakhi/sakhi-session/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store, closeStore, err := newCredentialStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize credential store", "backend", cfg.Store.Backend, "error", err)
	}
	defer closeStore()

	verifier, closeVerifier, err := newTokenVerifier(cfg)
	if err != nil {
		logger.Fatal("failed to initialize token verifier", "kind", cfg.Verifier.Kind, "error", err)
	}
	defer closeVerifier()

	reporter := report.NewLogReporter(logger.Named("reporter"), cfg.Report.QueueSize, m)
	defer reporter.Close()

	controller := service.NewSessionController(
		store,
		verifier,
		reporter,
		report.NewLogNotifier(logger.Named("notifier")),
		m,
		logger.Named("session"),
	)

	state := controller.CheckAuthStatus(ctx)
	logger.Info("session restored",
		"authenticated", state.IsAuthenticated,
		"backend", cfg.Store.Backend)

	grpcServer := registerGRPCServer(logger, controller, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer

	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(grpcServer)

	var metricsServer *http.Server
	if cfg.Metrics.Addr != "" {
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Starting metrics server on", "address", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to start metrics server", "error", err)
			}
		}()
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during metrics server shutdown", "error", err)
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerGRPCServer(
	logger *logger.Logger,
	controller *service.SessionController,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(controller, logger.Named("grpc"))
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}

func metricsMux(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	return mux
}

func newCredentialStore(ctx context.Context, cfg *config.Config) (model.CredentialStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewStore(), func() {}, nil

	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewCredentialRepository(db.DB, cfg.DeviceID), func() { _ = db.Close() }, nil

	case config.BackendRedis:
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewStore(rdb, cfg.DeviceID), func() { _ = rdb.Close() }, nil

	case config.BackendMinio:
		minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		client, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.DeviceID)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", model.ErrUnknownStoreBackend, cfg.Store.Backend)
}

func newTokenVerifier(cfg *config.Config) (model.TokenVerifier, func(), error) {
	switch cfg.Verifier.Kind {
	case config.VerifierJWT:
		return token.NewJWT(cfg.JWT.Secret), func() {}, nil

	case config.VerifierGRPC:
		conn, err := grpc.NewClient(cfg.AuthGRPC.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create auth client: %w", err)
		}
		return token.NewGRPC(conn, cfg.AuthGRPC.Timeout), func() { _ = conn.Close() }, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", model.ErrUnknownVerifierKind, cfg.Verifier.Kind)
}

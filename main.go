package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	auth "Coning/internal/auth"
	coning "Coning/internal/calc/coning"
	batch "Coning/internal/calc/premium/batch"
	importer "Coning/internal/calc/premium/importer"
	report "Coning/internal/calc/report"
	config "Coning/internal/config"
	metrics "Coning/internal/metrics"
	repo "Coning/internal/repo"
)

const basePath = "/api/tools/coning"

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, cfg *config.Config, results repo.Repository, limiter *auth.IPRateLimiter) {
	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	tools := api.PathPrefix("/tools/coning").Subrouter()
	if key := cfg.Auth.Key(); len(key) > 0 {
		authEnv := &auth.Authenv{JWTkey: key}
		tools.Use(authEnv.AuthMiddleware)
	} else {
		slog.Warn("no token key configured, API is open", "env", cfg.Auth.TokenKeyEnv)
	}

	coningH := &coning.Handler{}
	batchH := &batch.Handler{}
	reportH := &report.Handler{}
	importerH := &importer.Handler{Repo: results, MaxUploadSize: cfg.Upload.MaxBytes, BasePath: basePath}

	tools.HandleFunc("/calc", coningH.Calc).Methods("POST")
	tools.HandleFunc("/defaults", coningH.Defaults).Methods("GET")
	tools.HandleFunc("/methods", coningH.Methods).Methods("GET")
	tools.HandleFunc("/batch", batchH.Coning).Methods("POST")
	tools.HandleFunc("/report", reportH.Generate).Methods("POST")
	tools.HandleFunc("/upload", importerH.Upload).Methods("POST")
	tools.HandleFunc("/results/{id:[0-9a-f]+}.xlsx", importerH.Download).Methods("GET")
	tools.HandleFunc("/results/{id:[0-9a-f]+}/chart", importerH.Chart).Methods("GET")

	mux.Handle("/metrics", metrics.Handler()).Methods("GET")

	if cfg.StaticDir != "" {
		mux.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	}
}

func main() {
	configPath := flag.String("config", "", "path to config file (.yaml or .toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(cfg.Level())
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	results, err := repo.NewCacheResultRepository(cfg.Results.Capacity, cfg.Results.TTL)
	if err != nil {
		slog.Error("results cache", "err", err)
		os.Exit(1)
	}
	defer results.Close()
	if err := metrics.RegisterCache(func() metrics.CacheStats { return results.Stats() }); err != nil {
		slog.Error("register cache metrics", "err", err)
		os.Exit(1)
	}

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)

	mux := mux.NewRouter()
	HandleList(mux, cfg, results, limiter)
	handler := CORS(mux)

	if *configPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := config.Watch(ctx, *configPath, func(next *config.Config) {
				limiter.SetRate(rate.Limit(next.RateLimit.RPS), next.RateLimit.Burst)
				logLevel.Set(next.Level())
			})
			if err != nil {
				slog.Error("config watch", "err", err)
			}
		}()
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("starting server", "addr", cfg.Addr, "tls", cfg.TLS.Enabled())
		var err error
		if cfg.TLS.Enabled() {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, closing active connections")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "err", err)
	}
	slog.Info("server stopped")

	wg.Wait()
}

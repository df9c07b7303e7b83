package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hamed0406/serviceprobe/internal/config"
	"github.com/hamed0406/serviceprobe/internal/httpapi"
	"github.com/hamed0406/serviceprobe/internal/logging"
)

func main() {
	cfg := config.FromEnv()
	addr := pflag.String("addr", cfg.StubAddr, "bind address (env STUB_ADDR)")
	name := pflag.String("name", httpapi.DefaultInfo().Name, "server name reported by the info document")
	pflag.Parse()

	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	info := httpapi.DefaultInfo()
	info.Name = *name
	api := httpapi.NewServer(logger, info)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("stub_listen", zap.String("addr", *addr))
		log.Printf("stub info server on http://%s (probe it with MCP_SERVER_URL=http://%s/sse)", *addr, *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("stub_listen_failed", zap.Error(err))
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("stub_shutdown", zap.Error(err))
	}
	logger.Info("stub_stopped")
}

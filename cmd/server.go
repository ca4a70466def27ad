package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/zeromusic/config"
	"github.com/gcottom/zeromusic/handlers"
	"github.com/gcottom/zeromusic/pkg/gin_middleware"
	"github.com/gcottom/zeromusic/pkg/http_client"
	"github.com/gcottom/zeromusic/services/converter"
	"github.com/gcottom/zeromusic/services/download"
	"github.com/gcottom/zeromusic/services/extractor"
	"github.com/gcottom/zeromusic/services/meta"
	"github.com/gcottom/zeromusic/services/source"
	"github.com/gcottom/zeromusic/services/tasks"
	"github.com/gcottom/zeromusic/services/youtube_v2"
	"github.com/gcottom/zeromusic/services/ytdlp"
	"github.com/gcottom/zeromusic/song_sql"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfigFromFile("")
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	} else if err != nil {
		panic(err)
	}
	if err := RunServer(cfg); err != nil {
		panic(err)
	}
}

func RunServer(cfg *config.Config) error {
	ctx := zaplog.CreateAndInject(context.Background())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	zaplog.InfoC(ctx, "starting zeromusic shell")

	if err := cfg.EnsureDirectories(); err != nil {
		zaplog.ErrorC(ctx, "failed to create directories", zap.Error(err))
		return err
	}

	zaplog.InfoC(ctx, "creating song sql client", zap.String("path", cfg.DBPath))
	songSQL, err := song_sql.NewClient(cfg)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to open catalog", zap.Error(err))
		return err
	}
	defer songSQL.Close()

	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	zaplog.InfoC(ctx, "video source selected", zap.String("source", cfg.Source))

	var metaService meta.MetaService
	if cfg.SpotifyEnabled() {
		zaplog.InfoC(ctx, "spotify enrichment enabled")
		metaService = meta.NewMetaService(cfg)
	}

	runner := tasks.NewRunner(ctx)
	h := &handlers.Handler{
		Config:           cfg,
		Session:          handlers.NewSession(),
		Runner:           runner,
		ExtractorService: extractor.NewExtractorService(cfg, src),
		DownloadService:  download.NewDownloadService(cfg, src, songSQL, metaService),
		Songs:            songSQL,
	}

	zaplog.InfoC(ctx, "creating gin engine")
	ginws := gin_middleware.NewGinEngine(ctx)
	handlers.SetupRoutes(ginws, h)

	addr := net.JoinHostPort(cfg.Shell.Host, strconv.Itoa(cfg.Shell.Port))
	server := &http.Server{Addr: addr, Handler: ginws, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		zaplog.InfoC(ctx, fmt.Sprintf("serving on %s", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			zaplog.ErrorC(ctx, "server stopped", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		zaplog.InfoC(ctx, "shutting down")
	}
	runner.Cancel()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zaplog.ErrorC(ctx, "failed to shut down cleanly", zap.Error(err))
		return err
	}
	runner.Wait()
	return nil
}

func newSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Source {
	case config.SourceYoutube:
		return youtube_v2.NewYoutubeService(cfg, http_client.NewHTTPClient(0), converter.NewConverterService(cfg)), nil
	case config.SourceYTDLP:
		return ytdlp.NewYTDLPService(cfg), nil
	}
	return nil, fmt.Errorf("unknown source %q, expected %q or %q", cfg.Source, config.SourceYoutube, config.SourceYTDLP)
}

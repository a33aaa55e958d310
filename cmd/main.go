package main

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sensornode/internal/config"
	"sensornode/internal/hal"
	"sensornode/internal/handlers"
	"sensornode/internal/logger"
	"sensornode/internal/models"
	"sensornode/internal/repository"
	"sensornode/internal/repository/db"
	"sensornode/internal/server"
	"sensornode/internal/service"
	"sensornode/internal/timesync"
	"sensornode/internal/transmit"
)

// tzPromptWait bounds the boot-time prompt for a time-zone label override.
const tzPromptWait = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get("info").Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	tzRegion := promptTZRegion(cfg.Time.Region, tzPromptWait, log)

	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DBPath)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	board := hal.NewSimBoard()
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Deps{
		Cfg:      cfg,
		TZRegion: tzRegion,
		Board:    board,
		Sim:      board,
		Clock:    timesync.NewResolver(cfg.Time, log),
		Poster:   transmit.NewClient(cfg.Server),
		Log:      log,
	})
	apiHandler := handlers.NewHandler(services, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := repos.EventRepo.Append(ctx, models.NodeEvent{
		Type:        models.EventBoot,
		Description: "node started",
		Metadata:    map[string]any{"tz_region": tzRegion, "sim": cfg.Sim.Enabled},
	}); err != nil {
		log.Errorw("failed to record boot event", "err", err)
	}

	if cfg.Sim.Enabled {
		go services.Simulator.Run(ctx, cfg.Sim.Tick)
	}
	go services.Cycle.Run(ctx, cfg.Node.PollInterval)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("node up", "port", cfg.Port, "tz_region", tzRegion, "sim", cfg.Sim.Enabled)

	waitForShutdown(cancel, srv, log)
}

// promptTZRegion asks for a time-zone label on stdin and falls back to the
// configured default when nothing arrives within the wait window.
func promptTZRegion(def string, wait time.Duration, log *logger.Logger) string {
	log.Infof("time-zone region [%s] (enter to keep, %s timeout): ", def, wait)

	lines := make(chan string, 1)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		if sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
	}()

	select {
	case line := <-lines:
		if line != "" {
			return line
		}
	case <-time.After(wait):
	}
	return def
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")

	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}

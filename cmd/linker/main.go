package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/lintang-b-s/streetlinker/pkg/config"
	"github.com/lintang-b-s/streetlinker/pkg/linking"
	"github.com/lintang-b-s/streetlinker/pkg/osmparser"
	"github.com/lintang-b-s/streetlinker/pkg/server/rest"
	"github.com/lintang-b-s/streetlinker/pkg/server/rest/service"
	"github.com/lintang-b-s/streetlinker/pkg/spatialindex"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"
)

var (
	mapFile    = flag.String("f", "solo_jogja.osm.pbf", "openstreetmap file for the street network")
	configFile = flag.String("config", "", "yaml config file, defaults are used when empty")
	listenAddr = flag.String("listenaddr", "", "server listen address, overrides the config")
	serve      = flag.Bool("serve", false, "serve the linking api after linking")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("streetlinker failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	parser := osmparser.NewOSMParser(logger)
	g, err := parser.Parse(ctx, *mapFile)
	if err != nil {
		return err
	}

	idx, err := spatialindex.New(cfg.Index.Type, cfg.Index.CellSizeDegrees)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	linkingMetrics := linking.NewMetrics(reg)

	linker := linking.NewLinker(g,
		linking.WithIndex(idx),
		linking.WithMaxSearchRadius(cfg.Linking.MaxSearchRadiusMeters),
		linking.WithDuplicateWayEpsilon(cfg.Linking.DuplicateWayEpsilonMeters),
		linking.WithElevationOnSplit(cfg.Linking.KeepElevation()),
		linking.WithLogger(logger),
		linking.WithMetrics(linkingMetrics),
	)
	defer linker.Close()

	start := time.Now()
	stats := linker.LinkAll()
	logger.Info("street linking done",
		slog.Int("linked", stats.Linked),
		slog.Int("unlinked", len(stats.Unlinked)),
		slog.Int("splits", stats.Splits),
		slog.Int("endpoint_snaps", stats.EndpointSnaps),
		slog.Duration("took", time.Since(start)),
	)
	for _, v := range stats.Unlinked {
		logger.Debug("entity not linked",
			slog.Int("vertex_id", int(v.ID)),
			slog.String("kind", v.Kind.String()),
			slog.String("label", v.Label),
		)
	}

	if !*serve {
		return nil
	}
	return serveAPI(ctx, logger, cfg.Server.ListenAddr, reg, service.NewLinkingService(linker, stats))
}

func serveAPI(ctx context.Context, logger *slog.Logger, addr string, reg *prometheus.Registry,
	svc *service.LinkingService) error {
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(rest.PromeHttpMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	rest.LinkingRouter(r, svc)

	srv := &http.Server{Addr: addr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

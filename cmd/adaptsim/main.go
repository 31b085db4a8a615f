// Command adaptsim replays a generated or manual key sequence against the
// adaptive cache and reports how each policy scored. Settings come from the
// environment (see internal/config); Prometheus and pprof are served when
// ADAPTSIM_METRICS_ADDR is set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/adaptivecache/cache"
	"github.com/IvanBrykalov/adaptivecache/internal/config"
	"github.com/IvanBrykalov/adaptivecache/internal/workload"
	pmet "github.com/IvanBrykalov/adaptivecache/metrics/prom"
	"github.com/IvanBrykalov/adaptivecache/policy"
)

// chunk is how many keys are replayed between cancellation checks.
const chunk = 4096

func main() {
	var (
		envFile = flag.String("env", ".env", "dotenv file read before the environment (missing is fine)")
		linger  = flag.Duration("linger", 0, "keep serving /metrics this long after the run")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *linger, logger, os.Stdout); err != nil {
		logger.Error("adaptsim failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, linger time.Duration, logger *slog.Logger, out io.Writer) error {
	seq, err := workload.Build(rand.New(rand.NewSource(cfg.Seed)), workload.Params{
		Name:     cfg.Workload,
		Keys:     cfg.Keys,
		Ops:      cfg.Ops,
		ZipfS:    cfg.ZipfS,
		Sequence: cfg.Sequence,
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := pmet.New(reg, "adaptsim", "cache", nil, cfg.InitialPolicy)

	backing := cache.NewMemoryStore[int, string]()
	c, err := cache.New[int, string](cache.Options[int, string]{
		Capacity:      cfg.Capacity,
		SwitchEvery:   cfg.SwitchEvery,
		InitialPolicy: cfg.InitialPolicy,
		Backing:       backing,
		Observer:      metrics,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           newMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("metrics: serving", slog.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()

		start := time.Now()
		var res workload.Result
		for lo := 0; lo < len(seq); lo += chunk {
			if err := gctx.Err(); err != nil {
				logger.Warn("run interrupted", slog.Int("replayed", res.Ops))
				break
			}
			hi := min(lo+chunk, len(seq))
			r := workload.Run[string](c, seq[lo:hi], value)
			res.Ops += r.Ops
			res.Hits += r.Hits
			res.Misses += r.Misses
		}
		elapsed := time.Since(start)
		c.FlushToMemory()

		report(out, cfg, c, backing, res, elapsed)

		if linger > 0 && cfg.MetricsAddr != "" {
			logger.Info("lingering for scrapes", slog.Duration("for", linger))
			select {
			case <-gctx.Done():
			case <-time.After(linger):
			}
		}
		return nil
	})

	return g.Wait()
}

func newMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

func value(k int) string { return "v" + strconv.Itoa(k) }

func report(out io.Writer, cfg config.Config, c cache.Cache[int, string], backing *cache.MemoryStore[int, string], res workload.Result, elapsed time.Duration) {
	m := c.Metrics()

	fmt.Fprintf(out, "workload=%s ops=%d keys=%d cap=%d switch_every=%d seed=%d dur=%v\n",
		cfg.Workload, res.Ops, cfg.Keys, cfg.Capacity, cfg.SwitchEvery, cfg.Seed, elapsed)
	fmt.Fprintf(out, "reads: hits=%d misses=%d\n", res.Hits, res.Misses)
	fmt.Fprintf(out, "engine: hit_ratio=%.4f miss_ratio=%.4f eviction_rate=%.4f (accesses=%d evictions=%d)\n",
		m.HitRatio, m.MissRatio, m.EvictionRate, m.Accesses, m.Evictions)
	for p := policy.Kind(0); p < policy.NumKinds; p++ {
		ct := c.Counters(p)
		fmt.Fprintf(out, "%s: hits=%d misses=%d evictions=%d hit_rate=%.4f\n",
			p, ct.Hits, ct.Misses, ct.Evictions, ct.HitRate())
	}

	log := c.SwitchLog()
	fmt.Fprintf(out, "active=%s switches=%d\n", c.ActivePolicy(), len(log))
	for _, s := range log {
		fmt.Fprintf(out, "  op=%d %s -> %s\n", s.Op, s.From, s.To)
	}
	fmt.Fprintf(out, "resident=%d backing=%d\n", c.Len(), backing.Len())
}

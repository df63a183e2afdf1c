// Command jobsys-bench runs a configurable load through a jobsys.System and
// reports throughput. While the workload runs it can serve the statshttp
// endpoints, so a dashboard or curl loop can watch the counters live.
//
// Configuration comes from flags, an optional YAML/JSON config file, and the
// environment (a .env file is honored if present):
//
//	jobsys-bench -jobs 5000000 -group-size 128 -stats-addr :8080
//	JOBSYS_STATS_ADDR=:9090 jobsys-bench -config bench.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tahsin716/jobsys"
	"github.com/tahsin716/jobsys/statshttp"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML or JSON config file")
		jobs       = flag.Int("jobs", 1_000_000, "total number of indices to dispatch")
		groupSize  = flag.Int("group-size", 64, "indices per dispatched group")
		rounds     = flag.Int("rounds", 3, "number of dispatch rounds to run")
		statsAddr  = flag.String("stats-addr", "", "address for the stats HTTP server (empty disables)")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, reading from environment")
	}

	addr := *statsAddr
	if addr == "" {
		addr = os.Getenv("JOBSYS_STATS_ADDR")
	}

	cfg := jobsys.DefaultConfig()
	if *configPath != "" {
		loaded, err := jobsys.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("config error: %v", err)
		}
		cfg = loaded
	}

	sys, err := jobsys.New(
		jobsys.WithConfig(cfg),
		jobsys.WithLogger(log.StandardLogger()),
	)
	if err != nil {
		log.Fatalf("could not start job system: %v", err)
	}
	defer sys.Shutdown(true)

	g, ctx := errgroup.WithContext(context.Background())

	var srv *http.Server
	if addr != "" {
		gin.SetMode(gin.ReleaseMode)
		srv = &http.Server{Addr: addr, Handler: statshttp.NewRouter(sys)}

		g.Go(func() error {
			log.Infof("stats server listening on %s", addr)
			if serveErr := srv.ListenAndServe(); !errors.Is(serveErr, http.ErrServerClosed) {
				return serveErr
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}
		}()

		var executed atomic.Uint64

		start := time.Now()
		for round := 0; round < *rounds; round++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if dispatchErr := sys.Dispatch(*jobs, *groupSize, func(jobsys.JobDispatchArgs) {
				executed.Add(1)
			}); dispatchErr != nil {
				return dispatchErr
			}
			sys.Wait()
		}
		elapsed := time.Since(start)

		total := executed.Load()
		log.WithFields(log.Fields{
			"indices":     total,
			"rounds":      *rounds,
			"group_size":  *groupSize,
			"elapsed":     elapsed.Round(time.Millisecond).String(),
			"indices_sec": uint64(float64(total) / elapsed.Seconds()),
		}).Info("benchmark complete")

		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("benchmark failed: %v", err)
	}
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"runtime/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hartert-labs/cdsat/internal/cnfio"
	"github.com/hartert-labs/cdsat/internal/sat"
)

var log = logrus.New()

type config struct {
	cpuProfile  string
	memProfile  string
	certificate string
	timeout     time.Duration
	maxConflict int64
	useLuby     bool
	verbose     bool

	clauseDecay   float64
	variableDecay float64
	reduceEvery   int64
	elimGrow      int
	elimProduct   int
	vivifyBudget  int

	metricsAddr string
}

func newRootCmd() *cobra.Command {
	cfg := &config{}

	cmd := &cobra.Command{
		Use:   "cdsat <instance.cnf>",
		Short: "A conflict-driven clause-learning SAT solver.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return run(args[0], cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.cpuProfile, "cpuprofile", "", "write a pprof CPU profile to this file")
	flags.StringVar(&cfg.memProfile, "memprofile", "", "write a pprof heap profile to this file")
	flags.StringVar(&cfg.certificate, "certificate", "", "write a DRAT refutation certificate to this file")
	flags.DurationVar(&cfg.timeout, "timeout", -1, "wall-clock search budget (negative disables)")
	flags.Int64Var(&cfg.maxConflict, "max-conflicts", -1, "conflict budget (negative disables)")
	flags.BoolVar(&cfg.useLuby, "luby", false, "use the Luby restart sequence instead of the EMA block/force policy")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging")

	flags.Float64Var(&cfg.clauseDecay, "clause-decay", sat.DefaultOptions.ClauseDecay, "clause activity decay factor")
	flags.Float64Var(&cfg.variableDecay, "variable-decay", sat.DefaultOptions.VariableDecay, "variable (VSIDS) activity decay factor")
	flags.Int64Var(&cfg.reduceEvery, "reduce-every", sat.DefaultOptions.ReduceEvery, "conflicts between learnt-clause reduction passes")
	flags.IntVar(&cfg.elimGrow, "elim-grow-limit", sat.DefaultOptions.ElimGrowLimit, "bound on BVE resolvent growth")
	flags.IntVar(&cfg.elimProduct, "elim-product-limit", sat.DefaultOptions.ElimProductLimit, "bound on BVE occurrence-list product before a variable is skipped")
	flags.IntVar(&cfg.vivifyBudget, "vivify-budget", sat.DefaultOptions.VivifyBudget, "propagation checks allowed per clause in a vivification pass")

	flags.StringVar(&cfg.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090); empty disables")

	return cmd
}

func run(instanceFile string, cfg *config) error {
	if cfg.cpuProfile != "" {
		f, err := os.Create(cfg.cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	opts := sat.DefaultOptions
	opts.Timeout = cfg.timeout
	opts.MaxConflicts = cfg.maxConflict
	opts.UseLuby = cfg.useLuby
	opts.EnableCertificate = cfg.certificate != ""
	opts.ClauseDecay = cfg.clauseDecay
	opts.VariableDecay = cfg.variableDecay
	opts.ReduceEvery = cfg.reduceEvery
	opts.ElimGrowLimit = cfg.elimGrow
	opts.ElimProductLimit = cfg.elimProduct
	opts.VivifyBudget = cfg.vivifyBudget

	s := sat.NewSolver(opts)

	if cfg.certificate != "" {
		w, err := cnfio.NewDRATWriter(cfg.certificate)
		if err != nil {
			return fmt.Errorf("could not open certificate file: %w", err)
		}
		defer w.Close()
		s.SetCertificateWriter(w)
	}

	if cfg.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		s.SetMetrics(sat.NewMetrics(reg))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
		defer srv.Close()
	}

	log.WithField("instance", instanceFile).Info("loading instance")
	if err := cnfio.LoadDIMACS(instanceFile, false, s); err != nil {
		return fmt.Errorf("could not load instance: %w", err)
	}
	log.WithFields(logrus.Fields{
		"variables": s.NumVariables(),
	}).Info("instance loaded")

	start := time.Now()
	status := s.Solve()
	elapsed := time.Since(start)

	log.WithFields(logrus.Fields{
		"status":        status.String(),
		"conflicts":     s.TotalConflicts,
		"restarts":      s.TotalRestarts,
		"decisions":     s.TotalDecisions,
		"elapsed":       elapsed,
		"conflicts/sec": float64(s.TotalConflicts) / elapsed.Seconds(),
	}).Info("search finished")

	fmt.Println(status.String())
	if status == sat.StatusSAT {
		fmt.Print("v ")
		for v := 1; v < len(s.Model); v++ {
			if s.Model[v] {
				fmt.Printf("%d ", v)
			} else {
				fmt.Printf("-%d ", v)
			}
		}
		fmt.Println("0")
	}

	if cfg.memProfile != "" {
		f, err := os.Create(cfg.memProfile)
		if err != nil {
			return fmt.Errorf("could not create mem profile: %w", err)
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write mem profile: %w", err)
		}
	}

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

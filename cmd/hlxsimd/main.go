// Command hlxsimd is the simulator daemon: it binds a listening socket,
// serves the protocol over it through server.Dispatcher, and persists
// its data model as YAML across restarts.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/server"
	"github.com/openhlx/hlx/session"
)

var defaultListenAddr = fmt.Sprintf(":%d", session.DefaultPort)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	ipv4         bool
	ipv6         bool
	debugLevel   int
	verboseLevel int
	quiet        bool
	syslog       bool
	configFile   string
	metricsAddr  string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "hlxsimd [host[:port]]",
		Short:   "HLX amplifier simulator daemon",
		Args:    cobra.MaximumNArgs(1),
		Version: "1.0.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := defaultListenAddr
			if len(args) == 1 {
				addr = args[0]
			}
			return run(addr, opts)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.Flags()
	flags.BoolVarP(&opts.ipv4, "ipv4", "4", false, "resolve/bind IPv4 addresses only")
	flags.BoolVarP(&opts.ipv6, "ipv6", "6", false, "resolve/bind IPv6 addresses only")
	flags.CountVarP(&opts.debugLevel, "debug", "d", "raise debug verbosity")
	flags.CountVarP(&opts.verboseLevel, "verbose", "v", "info verbosity (info is already the default level; no further effect)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "silence non-error output")
	flags.BoolVarP(&opts.syslog, "syslog", "s", false, "plain console encoding on stdout (output is not sent to the system log)")
	flags.StringVar(&opts.configFile, "configuration-file", "", "path to persisted model state")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (disabled if empty)")

	return cmd
}

func run(addr string, opts options) error {
	log, err := newLogger(opts)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	if opts.ipv4 && opts.ipv6 {
		return fmt.Errorf("-4 and -6 are mutually exclusive")
	}
	network := "tcp"
	switch {
	case opts.ipv4:
		network = "tcp4"
	case opts.ipv6:
		network = "tcp6"
	}

	store := model.NewStore()
	if opts.configFile != "" {
		if err := loadState(opts.configFile, store); err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		log.Info("loaded persisted state", zap.String("path", opts.configFile))
	}

	reg := prometheus.NewRegistry()
	hub := server.NewHub()
	dispatcher := server.NewDispatcher(store, hub, log.Named("dispatcher"))

	ln, err := server.NewListenerNetwork(network, addr, dispatcher, hub, log.Named("listener"))
	if err != nil {
		return fmt.Errorf("bind listener: %w", err)
	}
	log.Info("listening", zap.String("addr", ln.Addr().String()))

	serveErr := make(chan error, 1)
	go func() { serveErr <- ln.Serve() }()

	var metricsSrv *http.Server
	if opts.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{Addr: opts.metricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		log.Info("serving metrics", zap.String("addr", opts.metricsAddr))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("listener stopped", zap.Error(err))
		}
	case s := <-sig:
		log.Info("received signal, shutting down", zap.String("signal", s.String()))
		ln.Close()
		<-serveErr
	}

	if metricsSrv != nil {
		_ = metricsSrv.Close()
	}

	if opts.configFile != "" {
		if err := saveState(opts.configFile, store); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		log.Info("persisted state", zap.String("path", opts.configFile))
	}
	return nil
}

// newLogger builds the daemon's logger per its verbosity flags:
// -q silences everything but errors, -d selects debug level, and
// otherwise the level is info; -v is accepted but does not change the
// level. -s switches from the default structured JSON on stderr to
// unstructured console encoding (no colour) on stdout; output is not
// sent to the system log.
func newLogger(opts options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch {
	case opts.quiet:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	case opts.debugLevel > 0:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	if opts.syslog {
		cfg.Encoding = "console"
		cfg.OutputPaths = []string{"stdout"}
	}
	return cfg.Build()
}

func loadState(path string, store *model.Store) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var snap model.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return err
	}
	store.LoadSnapshot(snap)
	return nil
}

func saveState(path string, store *model.Store) error {
	data, err := yaml.Marshal(store.Snapshot())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

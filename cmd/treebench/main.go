// Command treebench builds and releases long linked chains of objects, inside
// an arena context or on the heap, and reports how long it took.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/objarena"
	"github.com/pavanmanishd/objarena/host"
)

const (
	modeArena = "arena"
	modeHeap  = "heap"
	modeBoth  = "both"
)

type Config struct {
	Iterations   int             `yaml:"iterations"`
	Depth        int             `yaml:"depth"`
	Mode         string          `yaml:"mode"`
	LogLevel     string          `yaml:"log_level"`
	PrintMetrics bool            `yaml:"print_metrics"`
	Arena        objarena.Config `yaml:"arena"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.IntVar(&cfg.Iterations, "iterations", 100, "Number of chains to build and release.")
	f.IntVar(&cfg.Depth, "depth", 20000, "Number of objects linked into each chain.")
	f.StringVar(&cfg.Mode, "mode", modeBoth, "Where to allocate objects: arena, heap or both.")
	f.StringVar(&cfg.LogLevel, "log.level", "info", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error]")
	f.BoolVar(&cfg.PrintMetrics, "print-metrics", false, "Print the collected metrics in the Prometheus text format when done.")
	cfg.Arena.RegisterFlags(f)
}

func (cfg *Config) Validate() error {
	if cfg.Iterations <= 0 {
		return errors.Errorf("invalid iterations %d", cfg.Iterations)
	}
	if cfg.Depth < 0 {
		return errors.Errorf("invalid depth %d", cfg.Depth)
	}
	switch cfg.Mode {
	case modeArena, modeHeap, modeBoth:
	default:
		return errors.Errorf("unknown mode %q", cfg.Mode)
	}
	return errors.Wrap(cfg.Arena.Validate(), "invalid arena config")
}

func main() {
	cfg := Config{}
	var configFile string
	flag.StringVar(&configFile, "config.file", "", "YAML file to load the configuration from. Flags override it.")
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if configFile != "" {
		if err := loadConfig(configFile, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error loading config from %s: %v\n", configFile, err)
			os.Exit(1)
		}
		// Flags given on the command line take precedence over the file.
		flag.Parse()
	}

	logger, err := newLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		level.Error(logger).Log("msg", "invalid configuration", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger, os.Stdout); err != nil {
		level.Error(logger).Log("msg", "benchmark failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig(filename string, cfg *Config) error {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	return errors.Wrap(yaml.Unmarshal(buf, cfg), "parse config file")
}

func newLogger(lvl string, w io.Writer) (log.Logger, error) {
	var allow level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		allow = level.AllowDebug()
	case "info":
		allow = level.AllowInfo()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		return nil, errors.Errorf("unrecognized log level %q", lvl)
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, allow)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller), nil
}

// result is the outcome of one mode.
type result struct {
	mode      string
	objects   int
	elapsed   time.Duration
	peakBytes int
}

func run(cfg Config, logger log.Logger, out io.Writer) error {
	promReg := prometheus.NewRegistry()
	reg := objarena.NewRegistry(cfg.Arena, logger, promReg)
	node, err := reg.NewClass("Node", nil)
	if err != nil {
		return err
	}
	key := host.NewStr("a")

	var results []result
	if cfg.Mode == modeArena || cfg.Mode == modeBoth {
		r, err := benchArena(cfg, reg, node, key)
		if err != nil {
			return errors.Wrap(err, "arena mode")
		}
		results = append(results, r)
	}
	if cfg.Mode == modeHeap || cfg.Mode == modeBoth {
		r, err := benchHeap(cfg, node, key)
		if err != nil {
			return errors.Wrap(err, "heap mode")
		}
		results = append(results, r)
	}

	for _, r := range results {
		perObject := time.Duration(0)
		if r.objects > 0 {
			perObject = r.elapsed / time.Duration(r.objects)
		}
		fmt.Fprintf(out, "%-5s  %s objects in %v (%v/object)", r.mode, humanize.Comma(int64(r.objects)), r.elapsed.Round(time.Microsecond), perObject)
		if r.peakBytes > 0 {
			fmt.Fprintf(out, ", peak arena %s", humanize.IBytes(uint64(r.peakBytes)))
		}
		fmt.Fprintln(out)
	}

	if cfg.PrintMetrics {
		return writeMetrics(promReg, out)
	}
	return nil
}

func benchArena(cfg Config, reg *objarena.Registry, node *objarena.Class, key host.Key) (result, error) {
	res := result{mode: modeArena}
	start := time.Now()
	for i := 0; i < cfg.Iterations; i++ {
		err := reg.Scope([]host.Type{node}, func(ctx *objarena.Context) error {
			if err := buildChain(node, key, cfg.Depth); err != nil {
				return err
			}
			if c := ctx.Arena().Capacity(); c > res.peakBytes {
				res.peakBytes = c
			}
			return nil
		})
		if err != nil {
			return res, err
		}
		res.objects += cfg.Depth + 1
	}
	res.elapsed = time.Since(start)
	return res, nil
}

func benchHeap(cfg Config, node *objarena.Class, key host.Key) (result, error) {
	res := result{mode: modeHeap}
	start := time.Now()
	for i := 0; i < cfg.Iterations; i++ {
		if err := buildChain(node, key, cfg.Depth); err != nil {
			return res, err
		}
		res.objects += cfg.Depth + 1
	}
	res.elapsed = time.Since(start)
	return res, nil
}

// buildChain links depth new nodes behind a root and releases the chain.
// The tail keeps its host reference until the next node is linked to it.
func buildChain(node *objarena.Class, key host.Key, depth int) error {
	root, err := node.New()
	if err != nil {
		return err
	}
	ob := root
	release := func() {
		if ob != root {
			ob.DecRef()
		}
		root.DecRef()
	}
	for i := 0; i < depth; i++ {
		next, err := node.New()
		if err != nil {
			release()
			return err
		}
		if err := ob.SetAttr(key, next); err != nil {
			next.DecRef()
			release()
			return err
		}
		prev := ob
		ob = next
		if prev != root {
			prev.DecRef()
		}
	}
	release()
	return nil
}

func writeMetrics(reg prometheus.Gatherer, out io.Writer) error {
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"cenov2/internal/config"
	"cenov2/internal/logging"
	"cenov2/internal/power"
	"cenov2/internal/status"
	"cenov2/internal/trace"
	"cenov2/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Swapped in tests.
var (
	runTool  power.Runner   = power.Run
	lookPath power.LookPath = exec.LookPath
	runUI                   = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
)

// errUsage marks errors that should print usage and exit 2.
var errUsage = errors.New("usage")

// flags holds the parsed command line. Only flags the user set override
// the loaded config.
type flags struct {
	envFile  string
	sysfs    string
	method   string
	sudo     bool
	refresh  time.Duration
	logFile  string
	logLevel string
	verbose  bool

	set  map[string]bool
	args []string
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("cenov2", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.envFile, "env-file", "", "dotenv file with CENOV2_* settings (default ./.env if present)")
	fs.StringVar(&f.sysfs, "sysfs", "", "sysfs root (default /sys)")
	fs.StringVar(&f.method, "method", "", "force method: auto, ppd, cpu, sys or none")
	fs.BoolVar(&f.sudo, "sudo", true, "prefix cpupower with sudo -n when not root")
	fs.DurationVar(&f.refresh, "refresh", 0, "status refresh interval (default 6s)")
	fs.StringVar(&f.logFile, "log-file", "", "log file for the ui command")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&f.verbose, "verbose", false, "debug logging to stderr for CLI commands")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: cenov2 [flags] [command]\n\n")
		fmt.Fprintf(stderr, "Switch the CPU power profile between performance, balanced and power-saver.\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  ui          control panel (default)\n")
		fmt.Fprintf(stderr, "  get         print the current mode\n")
		fmt.Fprintf(stderr, "  set <mode>  apply a mode\n")
		fmt.Fprintf(stderr, "  status      print governor, battery and CPU status\n")
		fmt.Fprintf(stderr, "  method      print the detected control method\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	f.set = map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	f.args = fs.Args()
	return f, nil
}

// resolve loads config and layers explicitly set flags on top.
func (f flags) resolve() (config.Config, error) {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return cfg, err
	}
	if f.set["sysfs"] {
		cfg.SysfsRoot = f.sysfs
	}
	if f.set["method"] {
		cfg.Method = f.method
	}
	if f.set["sudo"] {
		cfg.Sudo = f.sudo
	}
	if f.set["refresh"] {
		cfg.Refresh = f.refresh
	}
	if f.set["log-file"] {
		cfg.LogFile = f.logFile
	}
	if f.set["log-level"] {
		cfg.LogLevel = f.logLevel
	}
	return cfg, cfg.Validate()
}

// env bundles what every command needs.
type env struct {
	cfg       config.Config
	backend   *power.Backend
	collector *status.Collector
	log       zerolog.Logger
	stdout    io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	cfg, err := f.resolve()
	if err != nil {
		fmt.Fprintf(stderr, "cenov2: %v\n", err)
		return 2
	}

	cmd := "ui"
	if len(f.args) > 0 {
		cmd = f.args[0]
	}

	log, closeLog, err := newLogger(cmd, cfg, f.verbose, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "cenov2: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx := context.Background()
	tp, err := trace.NewProvider(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("trace shutdown")
		}
	}()

	e := newEnv(cfg, log, stdout)
	if err := dispatch(ctx, e, cmd, f.args); err != nil {
		fmt.Fprintf(stderr, "cenov2: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

// newLogger writes JSON to the log file for the TUI, which owns the
// terminal, and human-readable lines to stderr for everything else.
func newLogger(cmd string, cfg config.Config, verbose bool, stderr io.Writer) (zerolog.Logger, func(), error) {
	if cmd != "ui" {
		return logging.NewConsole(stderr, verbose), func() {}, nil
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	file, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return logging.New(file, level), func() { file.Close() }, nil
}

func newEnv(cfg config.Config, log zerolog.Logger, stdout io.Writer) *env {
	// Method was validated by config.
	method, auto, _ := power.ParseMethod(cfg.Method)
	backend := power.New(power.Options{
		Method:     method,
		Detect:     auto,
		SysFS:      power.NewSysFS(cfg.SysfsRoot),
		Runner:     runTool,
		LookPath:   lookPath,
		Sudo:       cfg.Sudo,
		GetTimeout: cfg.GetTimeout,
		SetTimeout: cfg.SetTimeout,
		Logger:     log,
	})
	return &env{
		cfg:       cfg,
		backend:   backend,
		collector: status.NewCollector(backend.SysFS(), log),
		log:       log,
		stdout:    stdout,
	}
}

func dispatch(ctx context.Context, e *env, cmd string, args []string) error {
	switch cmd {
	case "ui":
		model := ui.NewAppModel(e.backend, e.collector, e.cfg.Refresh, e.log)
		return runUI(model.AsTeaModel())
	case "get":
		return cmdGet(ctx, e)
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("%w: set <performance|balanced|power-saver>", errUsage)
		}
		return cmdSet(ctx, e, args[1])
	case "status":
		return cmdStatus(ctx, e)
	case "method":
		fmt.Fprintln(e.stdout, e.backend.Method())
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

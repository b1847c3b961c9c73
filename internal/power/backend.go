package power

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default timeouts for external tools.
const (
	DefaultGetTimeout = 3 * time.Second
	DefaultSetTimeout = 5 * time.Second
)

const hintSudo = "run with sudo"

// Options configures a Backend. Zero values select the defaults.
type Options struct {
	// Method forces a mechanism. Ignored when Detect is true.
	Method Method
	// Detect runs Detect to pick the method.
	Detect     bool
	SysFS      *SysFS
	Runner     Runner
	LookPath   LookPath
	Sudo       bool
	GetTimeout time.Duration
	SetTimeout time.Duration
	Logger     zerolog.Logger
	// IsRoot overrides the effective-uid check (tests).
	IsRoot func() bool
}

// Backend queries and changes the power profile through one Method.
type Backend struct {
	method     Method
	fs         *SysFS
	run        Runner
	lookPath   LookPath
	sudo       bool
	isRoot     func() bool
	getTimeout time.Duration
	setTimeout time.Duration
	log        zerolog.Logger
	tracer     trace.Tracer
}

// New creates a Backend from opts.
func New(opts Options) *Backend {
	b := &Backend{
		method:     opts.Method,
		fs:         opts.SysFS,
		run:        opts.Runner,
		lookPath:   opts.LookPath,
		sudo:       opts.Sudo,
		isRoot:     opts.IsRoot,
		getTimeout: opts.GetTimeout,
		setTimeout: opts.SetTimeout,
		log:        opts.Logger.With().Str("component", "power").Logger(),
		tracer:     otel.Tracer("cenov2/power"),
	}
	if b.fs == nil {
		b.fs = NewSysFS("")
	}
	if b.run == nil {
		b.run = Run
	}
	if b.lookPath == nil {
		b.lookPath = exec.LookPath
	}
	if b.isRoot == nil {
		b.isRoot = func() bool { return os.Geteuid() == 0 }
	}
	if b.getTimeout <= 0 {
		b.getTimeout = DefaultGetTimeout
	}
	if b.setTimeout <= 0 {
		b.setTimeout = DefaultSetTimeout
	}
	if opts.Detect {
		b.method = Detect(b.lookPath, b.fs)
	}
	b.log.Debug().Str("method", b.method.String()).Str("sysfs", b.fs.Root).Msg("backend ready")
	return b
}

// Method returns the mechanism this backend uses.
func (b *Backend) Method() Method {
	return b.method
}

// SysFS returns the sysfs accessor used by this backend.
func (b *Backend) SysFS() *SysFS {
	return b.fs
}

// Governor returns cpu0's current scaling governor.
func (b *Backend) Governor() (string, error) {
	return b.fs.Governor(0)
}

// AvailableGovernors returns the governors advertised by cpu0.
func (b *Backend) AvailableGovernors() ([]string, error) {
	return b.fs.AvailableGovernors(0)
}

// Current reports the active mode. powerprofilesctl is asked first when it
// is installed; the cpu0 governor is the fallback.
func (b *Backend) Current(ctx context.Context) (Mode, error) {
	ctx, span := b.tracer.Start(ctx, "power.current")
	defer span.End()

	var errs []error
	if _, err := b.lookPath(PowerProfilesCtl); err == nil {
		cctx, cancel := context.WithTimeout(ctx, b.getTimeout)
		out, _, err := b.run(cctx, PowerProfilesCtl, "get")
		cancel()
		if err == nil {
			if m := ModeFromProfile(string(out)); m.Valid() {
				span.SetAttributes(attribute.String("cenov2.mode", m.String()), attribute.String("cenov2.source", "ppd"))
				return m, nil
			}
			errs = append(errs, fmt.Errorf("powerprofilesctl get: unrecognised profile %q", strings.TrimSpace(string(out))))
		} else {
			errs = append(errs, fmt.Errorf("powerprofilesctl get: %w", err))
		}
	}

	gov, err := b.fs.Governor(0)
	if err == nil {
		if m := ModeFromGovernor(gov); m.Valid() {
			span.SetAttributes(
				attribute.String("cenov2.mode", m.String()),
				attribute.String("cenov2.source", "sysfs"),
				attribute.String("cenov2.governor", gov),
			)
			return m, nil
		}
	} else {
		errs = append(errs, fmt.Errorf("read governor: %w", err))
	}

	err = errors.Join(errs...)
	if err == nil {
		err = errors.New("current mode unavailable")
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	b.log.Debug().Err(err).Msg("current mode unknown")
	return ModeUnknown, err
}

// Apply switches to mode using the backend's method. The returned Report is
// never nil; its Err matches the returned error.
func (b *Backend) Apply(ctx context.Context, mode Mode) (*Report, error) {
	ctx, span := b.tracer.Start(ctx, "power.apply", trace.WithAttributes(
		attribute.String("cenov2.mode", mode.String()),
		attribute.String("cenov2.method", b.method.String()),
	))
	defer span.End()

	rep := &Report{Mode: mode, Method: b.method}
	var err error
	switch {
	case b.method == MethodNone:
		err = ErrNoMethod
	case !mode.Valid():
		err = ErrUnknownMode
	case b.method == MethodPPD:
		err = b.applyPPD(ctx, mode, rep)
	case b.method == MethodCPUPower:
		err = b.applyCPUPower(ctx, mode, rep)
	case b.method == MethodSysfs:
		err = b.applySysfs(mode, rep)
	default:
		err = ErrNoMethod
	}

	if rep.Governor != "" {
		span.SetAttributes(attribute.String("cenov2.governor", rep.Governor))
	}
	if err != nil {
		if rep.Hint == "" && errors.Is(err, fs.ErrPermission) {
			rep.Hint = hintSudo
		}
		rep.Err = &ApplyError{Method: b.method, Mode: mode, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.log.Warn().Err(err).Str("mode", mode.String()).Str("method", b.method.String()).Msg("apply failed")
		return rep, rep.Err
	}
	b.log.Info().Str("mode", mode.String()).Str("method", b.method.String()).
		Str("governor", rep.Governor).Int("cpus", rep.CPUs).Msg("mode applied")
	return rep, nil
}

// Switch applies mode unless Current already reports it, in which case it
// returns ErrAlreadyApplied and a nil Report. Without a method or with an
// invalid mode it goes straight to Apply, which fails without running anything.
func (b *Backend) Switch(ctx context.Context, mode Mode) (*Report, error) {
	if b.method == MethodNone || !mode.Valid() {
		return b.Apply(ctx, mode)
	}
	if cur, _ := b.Current(ctx); cur.Valid() && cur == mode {
		return nil, ErrAlreadyApplied
	}
	return b.Apply(ctx, mode)
}

func (b *Backend) applyPPD(ctx context.Context, mode Mode, rep *Report) error {
	rep.Command = PowerProfilesCtl + " set " + mode.String()
	cctx, cancel := context.WithTimeout(ctx, b.setTimeout)
	defer cancel()
	_, stderr, err := b.run(cctx, PowerProfilesCtl, "set", mode.String())
	msg := strings.TrimSpace(string(stderr))
	if err != nil {
		rep.Detail = msg
		return fmt.Errorf("powerprofilesctl set: %w", err)
	}
	if msg == "" {
		msg = mode.String()
	}
	rep.Detail = msg
	return nil
}

func (b *Backend) applyCPUPower(ctx context.Context, mode Mode, rep *Report) error {
	gov := GovernorFor(mode, b.available())
	rep.Governor = gov

	name := CPUPower
	args := []string{"frequency-set", "-g", gov}
	useSudo := b.sudo && !b.isRoot()
	if useSudo {
		name = "sudo"
		args = append([]string{"-n", CPUPower}, args...)
	}
	rep.Command = name + " " + strings.Join(args, " ")

	cctx, cancel := context.WithTimeout(ctx, b.setTimeout)
	defer cancel()
	stdout, stderr, err := b.run(cctx, name, args...)
	msg := strings.TrimSpace(string(stderr))
	if msg == "" {
		msg = strings.TrimSpace(string(stdout))
	}
	if err != nil {
		rep.Detail = msg
		switch {
		case useSudo:
			rep.Hint = "sudo -n needs cached credentials; run `sudo -v` first"
		case !b.isRoot():
			rep.Hint = hintSudo
		}
		return fmt.Errorf("cpupower frequency-set: %w", err)
	}
	if msg == "" {
		msg = gov
	}
	rep.Detail = msg
	return nil
}

func (b *Backend) applySysfs(mode Mode, rep *Report) error {
	gov := GovernorFor(mode, b.available())
	rep.Governor = gov
	rep.Command = "echo " + gov + " > .../scaling_governor"

	cpus, err := b.fs.CPUs()
	if err != nil {
		return fmt.Errorf("list cpus: %w", err)
	}
	var n, failed int
	var lastErr error
	for _, id := range cpus {
		if !b.fs.HasGovernorFile(id) {
			continue
		}
		if err := b.fs.SetGovernor(id, gov); err != nil {
			b.log.Debug().Err(err).Int("cpu", id).Msg("governor write failed")
			lastErr = err
			failed++
			continue
		}
		n++
	}
	rep.CPUs = n
	if n == 0 {
		if lastErr == nil {
			return ErrNoPolicies
		}
		rep.Hint = hintSudo
		return lastErr
	}
	if failed > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d cpu(s) rejected the write: %v", failed, lastErr))
	}
	rep.Detail = fmt.Sprintf("governor '%s' on %d cpu(s)", gov, n)
	return nil
}

// available returns cpu0's advertised governors, or nil if unreadable.
func (b *Backend) available() []string {
	govs, err := b.fs.AvailableGovernors(0)
	if err != nil {
		return nil
	}
	return govs
}

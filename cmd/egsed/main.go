// cmd/egsed/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tamzrod/buk-egse/internal/config"
	"github.com/tamzrod/buk-egse/internal/logdiff"
	"github.com/tamzrod/buk-egse/internal/poller"
	"github.com/tamzrod/buk-egse/internal/status"
	"github.com/tamzrod/buk-egse/internal/telemetry"
	"github.com/tamzrod/buk-egse/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: egsed <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	if err := setupLogging(cfg.EGSE.Logging); err != nil {
		log.Fatalf("setup logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grp, ctx := errgroup.WithContext(ctx)

	var closers []func() error
	defer func() {
		for _, fn := range closers {
			_ = fn()
		}
	}()

	// --------------------
	// Build per-channel pipelines
	// --------------------

	for _, ch := range cfg.EGSE.Channels {
		// ---- poller ----
		p, closePoller, err := poller.Build(ch)
		if err != nil {
			log.Fatalf("poller build failed (channel=%s): %v", ch.ID, err)
		}
		closers = append(closers, closePoller)

		// ---- writer plan ----
		plan, err := writer.BuildPlan(ch)
		if err != nil {
			log.Fatalf("writer plan failed (channel=%s): %v", ch.ID, err)
		}

		// ---- writer clients (STATUS + MIRROR) ----
		clients, closeWriters, err := writer.BuildEndpointClients(
			plan,
			time.Duration(ch.Source.TimeoutMs)*time.Millisecond,
		)
		if err != nil {
			log.Fatalf("writer clients failed (channel=%s): %v", ch.ID, err)
		}
		closers = append(closers, closeWriters)

		o := &orchestrator{
			channelID: ch.ID,
			mirror:    writer.New(plan, clients),
		}
		o.status, o.statusEnabled = writer.NewDeviceStatusWriter(plan, clients)

		// ---- channel between poller and orchestrator ----
		out := make(chan poller.PollResult)

		grp.Go(func() error {
			p.Run(ctx, out)
			return nil
		})
		grp.Go(func() error {
			o.run(ctx, out)
			return nil
		})

		log.Printf("channel %s: polling %s %s every %dms",
			ch.ID, ch.Source.Kind, sourceName(ch.Source), ch.Poll.IntervalMs)
	}

	// --------------------
	// Watched log files
	// --------------------

	for _, lc := range cfg.EGSE.Logs {
		w, err := logdiff.NewWatcher(logdiff.WatcherConfig{
			ID:       lc.ID,
			Path:     lc.Path,
			Encoding: lc.Encoding,
			Interval: time.Duration(lc.IntervalMs) * time.Millisecond,
		})
		if err != nil {
			log.Fatalf("log watcher failed (log=%s): %v", lc.ID, err)
		}

		if !lc.ReplayExisting {
			if err := w.Prime(); err != nil {
				log.Printf("log[%s]: %v", lc.ID, err)
			}
		}

		updates := make(chan logdiff.Update)

		grp.Go(func() error {
			w.Run(ctx, updates)
			return nil
		})
		grp.Go(func() error {
			reportLog(ctx, updates)
			return nil
		})

		log.Printf("log[%s]: watching %s (%s)", lc.ID, lc.Path, lc.Encoding)
	}

	if err := grp.Wait(); err != nil {
		log.Printf("egsed: %v", err)
	}
	log.Println("egsed stopped")
}

// orchestrator owns the status snapshot of one channel.
type orchestrator struct {
	channelID string

	mirror        writer.Writer
	status        writer.StatusWriter
	statusEnabled bool

	snap      status.Snapshot
	havePower bool
}

// run consumes poll results and drives the status block.
// Runner-owned state + 1Hz seconds ticker.
func (o *orchestrator) run(ctx context.Context, in <-chan poller.PollResult) {
	// Default snapshot state on start.
	o.snap = status.Snapshot{Health: status.HealthUnknown}

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert) if enabled.
	o.writeStatus("on start")

	for {
		select {
		case <-ctx.Done():
			o.stop()
			return

		case res := <-in:
			o.handle(res)

		case <-secTicker.C:
			o.tick()
		}
	}
}

func (o *orchestrator) handle(res poller.PollResult) {
	// --- raw frame delivery ---
	if err := o.mirror.Write(res); err != nil {
		log.Printf("mirror error (channel=%s): %v", o.channelID, err)
	}

	changed := false

	if res.Err == nil {
		// Recovery / OK
		if o.snap.Health != status.HealthOK {
			if o.snap.Health == status.HealthError {
				log.Printf("telemetry recovered (channel=%s) after %ds", o.channelID, o.snap.SecondsInError)
			}
			o.snap.Health = status.HealthOK
			changed = true
		}
		// Reset last error code when healthy.
		if o.snap.LastErrorCode != status.ErrorCodeNone {
			o.snap.LastErrorCode = status.ErrorCodeNone
			changed = true
		}
		// Reset seconds-in-error on recovery.
		if o.snap.SecondsInError != 0 {
			o.snap.SecondsInError = 0
			changed = true
		}

		if !o.havePower || o.snap.Power != res.Power {
			log.Printf("power (channel=%s): %s", o.channelID, res.Power)
			o.snap.Power = res.Power
			o.havePower = true
			changed = true
		}
		if raw := res.StatusByte(); o.snap.RawStatus != raw {
			o.snap.RawStatus = raw
			changed = true
		}
	} else {
		// Error: keep the last decoded power state.
		if o.snap.Health != status.HealthError {
			log.Printf("telemetry error (channel=%s): %v", o.channelID, res.Err)
			o.snap.Health = status.HealthError
			changed = true
		}

		// Set raw-ish error code (best-effort pass-through).
		code := errorCode(res.Err)
		if o.snap.LastErrorCode != code {
			o.snap.LastErrorCode = code
			changed = true
		}

		// NOTE: seconds_in_error increments on the 1Hz ticker only.
	}

	if changed {
		o.writeStatus("")
	}
}

// tick counts seconds while not OK, saturating.
func (o *orchestrator) tick() {
	if o.snap.Health == status.HealthOK {
		return
	}
	if o.snap.SecondsInError >= status.MaxSecondsInError {
		return
	}
	o.snap.SecondsInError++
	o.writeStatus("seconds tick")
}

// stop marks the channel disabled once its poller is gone.
// The last known power state stays in the block.
func (o *orchestrator) stop() {
	if o.snap.Health == status.HealthDisabled {
		return
	}
	o.snap.Health = status.HealthDisabled
	o.writeStatus("on stop")
}

func (o *orchestrator) writeStatus(when string) {
	if !o.statusEnabled {
		return
	}
	if err := o.status.WriteStatus(o.snap); err != nil {
		if when != "" {
			log.Printf("status write failed %s (channel=%s): %v", when, o.channelID, err)
			return
		}
		log.Printf("status write failed (channel=%s): %v", o.channelID, err)
	}
}

// reportLog prints newly appended log lines.
// A missing file is reported once per absence.
func reportLog(ctx context.Context, in <-chan logdiff.Update) {
	missing := false

	for {
		select {
		case <-ctx.Done():
			return

		case u := <-in:
			if u.Err != nil {
				if errors.Is(u.Err, logdiff.ErrNotFound) {
					if !missing {
						log.Printf("log[%s]: file not found", u.LogID)
					}
					missing = true
					continue
				}
				log.Printf("log[%s]: %v", u.LogID, u.Err)
				continue
			}

			missing = false
			for _, line := range u.Lines {
				log.Printf("log[%s]: %s", u.LogID, line)
			}
		}
	}
}

// errorCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns ErrorCodeGeneric.
func errorCode(err error) uint16 {
	if err == nil {
		return status.ErrorCodeNone
	}

	if errors.Is(err, telemetry.ErrOutOfRange) {
		return status.ErrorCodeShortFrame
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	return status.ErrorCodeGeneric
}

func sourceName(src config.SourceConfig) string {
	if src.Kind == config.SourceReplay {
		return src.Path
	}
	return src.Endpoint
}

func setupLogging(cfg config.LoggingConfig) error {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Directory, "egsed.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return nil
}

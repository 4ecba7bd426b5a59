package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/colorprofile"
	"github.com/fsnotify/fsnotify"

	"github.com/Gaurav-Gosain/twin/internal/cell"
	"github.com/Gaurav-Gosain/twin/internal/config"
	"github.com/Gaurav-Gosain/twin/internal/logging"
	"github.com/Gaurav-Gosain/twin/internal/tape"
	"github.com/Gaurav-Gosain/twin/internal/terminal"
)

// parseSize parses "ROWSxCOLUMNS".
func parseSize(s string) (rows, cols int, err error) {
	r, c, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q is not ROWSxCOLUMNS", s)
	}
	if rows, err = strconv.Atoi(r); err != nil {
		return 0, 0, fmt.Errorf("size %q: bad rows: %w", s, err)
	}
	if cols, err = strconv.Atoi(c); err != nil {
		return 0, 0, fmt.Errorf("size %q: bad columns: %w", s, err)
	}
	if rows <= 0 || cols <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return rows, cols, nil
}

func (f *globalFlags) overrides() (config.Overrides, error) {
	o := config.Overrides{
		Readable: f.readable,
		Debug:    f.debug,
		LogFile:  f.logFile,
	}
	if f.fallbackSize != "" {
		rows, cols, err := parseSize(f.fallbackSize)
		if err != nil {
			return o, err
		}
		o.FallbackRows, o.FallbackColumns = rows, cols
	}
	return o, nil
}

// loadConfig loads the user configuration and applies the command-line
// overrides. A broken config file is reported and replaced by the defaults.
func loadConfig(f *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		logging.Warn("failed to load config, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}
	o, err := f.overrides()
	if err != nil {
		return nil, err
	}
	config.ApplyOverrides(o, cfg)
	return cfg, nil
}

// initLogging moves logging off the terminal, which is about to be taken
// over, into the configured log file.
func initLogging(cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	path := cfg.Log.File
	if path == "" {
		if path, err = config.DefaultLogPath(); err != nil {
			return fmt.Errorf("could not determine log path: %w", err)
		}
	}
	return logging.Initialize(path, level)
}

func startProfile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

// session owns the terminal for the lifetime of one command.
type session struct {
	cfg      *config.Config
	driver   *terminal.Driver
	out      *os.File
	closeOut bool
	keys     *config.KeyMap
	actions  <-chan string // nil unless input is an interactive terminal
	restore  func()
	paused   bool
}

func openSession(ctx context.Context, f *globalFlags) (*session, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}
	if err := initLogging(cfg); err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, out: os.Stdout, keys: config.NewKeyMap(cfg.Keys)}
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return nil, fmt.Errorf("cannot open output: %w", err)
		}
		s.out, s.closeOut = file, true
	}

	opts := []terminal.Option{
		terminal.WithReadable(cfg.Terminal.Readable),
		terminal.WithBufferSize(cfg.Terminal.BufferSize),
	}
	if cfg.HasFallback() {
		opts = append(opts, terminal.WithFallbackSize(cfg.Terminal.FallbackRows, cfg.Terminal.FallbackColumns))
	}
	d, err := terminal.New(os.Stdin, s.out, opts...)
	if err != nil {
		if s.closeOut {
			s.out.Close()
		}
		return nil, err
	}
	s.driver = d
	logging.Info("session", "size", d.Size(), "health", d.Health(), "output", s.out.Name())

	if fd := os.Stdin.Fd(); isTerminal(fd) {
		restore, err := makeRaw(fd)
		if err != nil {
			logging.Warn("cannot enter raw mode, keys disabled", "err", err)
		} else {
			s.restore = restore
			s.actions = readKeys(ctx, os.Stdin, s.keys)
		}
	}

	if err := d.Open(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close hands the terminal back: primary screen, default rendition, and the
// previous input mode.
func (s *session) Close() error {
	err := s.driver.Close()
	if s.restore != nil {
		s.restore()
		s.restore = nil
	}
	if s.closeOut {
		if cerr := s.out.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// recoverPanic restores the terminal before letting a panic continue.
func (s *session) recoverPanic() {
	if r := recover(); r != nil {
		terminal.ResetTerminal(s.out)
		if s.restore != nil {
			s.restore()
		}
		panic(r)
	}
}

// handle applies a key action. It reports whether the action was quit.
func (s *session) handle(action string) (bool, error) {
	switch action {
	case config.ActionQuit:
		return true, nil
	case config.ActionRedraw:
		return false, s.driver.Redraw()
	case config.ActionPause:
		s.paused = !s.paused
		logging.Debug("pause", "paused", s.paused)
	case config.ActionToggleSampler:
		return false, s.toggleSampler()
	}
	return false, nil
}

// nextAction waits for a key action. ok is false when ctx is done or the
// input has closed; a closed input also ends any pause.
func (s *session) nextAction(ctx context.Context) (action string, ok bool) {
	select {
	case <-ctx.Done():
		return "", false
	case a, open := <-s.actions:
		if !open {
			s.actions = nil
			s.paused = false
			return "", false
		}
		return a, true
	}
}

// play runs player until the script ends, handling key actions between
// commands. quit reports that the user or ctx stopped playback.
func (s *session) play(ctx context.Context, player *tape.Player, rec *tape.Recorder) (quit bool, err error) {
	for !player.IsFinished() {
		if s.paused {
			action, ok := s.nextAction(ctx)
			if !ok {
				if ctx.Err() != nil {
					return true, nil
				}
				continue
			}
			if quit, err := s.handle(action); quit || err != nil {
				return quit, err
			}
			continue
		}

		select {
		case <-ctx.Done():
			return true, nil
		case action, open := <-s.actions:
			if !open {
				s.actions = nil
				continue
			}
			if quit, err := s.handle(action); quit || err != nil {
				return quit, err
			}
			continue
		default:
		}

		// Recorded sleeps come from the recorder's own clock.
		if cmd := player.NextCommand(); rec != nil && cmd.Type != tape.CommandType_Sleep {
			rec.Record(*cmd)
		}
		if err := player.Step(ctx, s.driver); err != nil {
			if ctx.Err() != nil {
				return true, nil
			}
			return false, err
		}
	}
	logging.Debug("playback finished", "player", player)
	return false, nil
}

// hold keeps the final frame on screen until quit. It returns at once when
// there is no interactive input.
func (s *session) hold(ctx context.Context) error {
	for s.actions != nil {
		action, ok := s.nextAction(ctx)
		if !ok {
			return nil
		}
		if quit, err := s.handle(action); quit || err != nil {
			return err
		}
	}
	return nil
}

// toggleSampler hides or shows the sampler window. Hiding blanks the canvas
// cells it covered.
func (s *session) toggleSampler() error {
	tree, canvas := s.driver.Tree(), s.driver.Canvas()
	w := tree.Lookup(samplerName)
	if w == nil {
		return nil
	}

	if w.Visible() {
		w.SetVisible(false)
		var origin cell.Coordinate
		for p := w; p != nil && p != canvas; p = tree.Parent(p) {
			origin = origin.Add(p.Position())
		}
		size := w.Size()
		for r := range size.Row {
			for c := range size.Column {
				canvas.SetCell(origin.Row+r, origin.Column+c, cell.Blank)
			}
		}
	} else {
		w.SetVisible(true)
		w.Invalidate()
	}
	_, err := s.driver.Refresh()
	return err
}

func runDemo(ctx context.Context, f *globalFlags, record string) (err error) {
	stopProfile, err := startProfile(f.cpuProfile)
	if err != nil {
		return err
	}
	defer stopProfile()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, f)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	defer s.recoverPanic()

	delay, err := s.cfg.FrameDelayDuration()
	if err != nil {
		return err
	}
	// Files are recordings for later viewing, so assume a 256-colour reader.
	profile := colorprofile.ANSI256
	if f.output == "" {
		profile = colorprofile.Detect(os.Stdout, os.Environ())
	}
	o := demoOptions{
		Size:    s.driver.Size(),
		Delay:   delay,
		Seed:    s.cfg.Demo.Seed,
		Boxes:   s.cfg.Demo.Boxes,
		Profile: profile,
	}
	logging.Info("demo", "size", o.Size, "seed", o.Seed, "boxes", o.Boxes, "profile", profile)

	var rec *tape.Recorder
	if record != "" {
		rec = tape.NewRecorder()
		rec.Start()
	}

	quit, err := s.play(ctx, tape.NewPlayer(demoScript(o)), rec)
	if rec != nil {
		rec.Stop()
		if werr := rec.WriteToFile(record, demoHeader(o)); werr != nil {
			err = errors.Join(err, fmt.Errorf("save recording: %w", werr))
		} else {
			logging.Info("recording saved", "path", record, "commands", rec.CommandCount())
		}
	}
	if err != nil || quit {
		return err
	}
	return s.hold(ctx)
}

// loadScript reads and parses the tape at path.
func loadScript(path string) ([]tape.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	commands, err := tape.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return commands, nil
}

func runPlay(ctx context.Context, f *globalFlags, path string, watch bool) (err error) {
	// Parse first so script errors are reported on a normal screen.
	commands, err := loadScript(path)
	if err != nil {
		return err
	}

	stopProfile, err := startProfile(f.cpuProfile)
	if err != nil {
		return err
	}
	defer stopProfile()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, f)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	defer s.recoverPanic()

	if !watch {
		quit, err := s.play(ctx, tape.NewPlayer(commands), nil)
		if err != nil || quit {
			return err
		}
		return s.hold(ctx)
	}
	return s.watch(ctx, path, commands)
}

// watch plays commands, then replays the script each time the file at path
// is written. Failing scripts are logged and the previous frame kept.
func (s *session) watch(ctx context.Context, path string, commands []tape.Command) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	for {
		quit, err := s.play(ctx, tape.NewPlayer(commands), nil)
		if err != nil {
			logging.Error("script failed", "path", path, "err", err)
		}
		if quit {
			return nil
		}

		reloaded := false
		for !reloaded {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				next, err := loadScript(path)
				if err != nil {
					logging.Warn("reload failed", "err", err)
					continue
				}
				logging.Info("script reloaded", "path", path, "commands", len(next))
				commands, reloaded = next, true
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logging.Warn("watch error", "err", err)
			case action, ok := <-s.actions:
				if !ok {
					s.actions = nil
					continue
				}
				if quit, err := s.handle(action); quit || err != nil {
					return err
				}
			}
		}

		if err := s.driver.Reset(); err != nil {
			return err
		}
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faiface/beep"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/control"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/profile"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/robmorgan/metronome/sound"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
	"k8s.io/utils/clock"
)

const (
	sampleRate     = beep.SampleRate(44100)
	speakerLatency = 10 * time.Millisecond
	GlobalFPS      = 40
)

var (
	tempo        = kingpin.Flag("tempo", "Initial tempo in beats per minute").Default("120").Short('t').Int()
	volume       = kingpin.Flag("volume", "Click volume between 0 and 1").Default("0.2").Short('v').Float64()
	meter        = kingpin.Flag("meter", "Beats per measure, 0 plays every beat unaccented").Default("4").Short('m').Int()
	rampTo       = kingpin.Flag("ramp-to", "Ramp the tempo to this target once started").Int()
	rampDuration = kingpin.Flag("ramp-duration", "Length of the tempo ramp").Default("30s").Duration()
	curve        = kingpin.Flag("curve", "Ramp curve").Default("linear").Enum("linear", "ease-in", "ease-out", "ease-in-out")
	soundName    = kingpin.Flag("sound", "Click sound profile").Default("classic").Short('s').String()
	strongSample = kingpin.Flag("strong-sample", "WAV file played on the first beat of a measure").ExistingFile()
	normalSample = kingpin.Flag("normal-sample", "WAV file played on the other beats").ExistingFile()
	logLevel     = kingpin.Flag("log-level", "Log level").Default("info").Enum("trace", "debug", "info", "warning", "error")
	logFile      = kingpin.Flag("log-file", "Log file used while the panel owns the terminal").Default("metronome.log").String()
	headless     = kingpin.Flag("headless", "Log ticks instead of running the interactive panel").Bool()
	flash        = kingpin.Flag("flash", "Flash the panel on every beat").Bool()
	mute         = kingpin.Flag("mute", "Do not play any sound").Bool()
)

// options is the parsed command line.
type options struct {
	Tempo        int
	Volume       float64
	Meter        int
	RampTo       int
	RampDuration time.Duration
	Curve        string
	Sound        string
	StrongSample string
	NormalSample string
	LogLevel     string
	LogFile      string
	Headless     bool
	Flash        bool
	Mute         bool
}

func main() {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	opts := options{
		Tempo:        *tempo,
		Volume:       *volume,
		Meter:        *meter,
		RampTo:       *rampTo,
		RampDuration: *rampDuration,
		Curve:        *curve,
		Sound:        *soundName,
		StrongSample: *strongSample,
		NormalSample: *normalSample,
		LogLevel:     *logLevel,
		LogFile:      *logFile,
		Headless:     *headless,
		Flash:        *flash,
		Mute:         *mute,
	}

	if err := Run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "metronome: %v\n", err)
		os.Exit(1)
	}
}

// buildConfig applies the command line on top of the defaults.
func buildConfig(opts options) (config.MetronomeConfig, error) {
	cfg := config.NewMetronomeConfig()
	cfg.Tempo = opts.Tempo
	cfg.Volume = opts.Volume
	cfg.Meter = opts.Meter
	cfg.SoundProfile = opts.Sound
	cfg.Flash.Enable = opts.Flash

	if opts.Tempo < rhythm.MinTempo || opts.Tempo > rhythm.MaxTempo {
		return cfg, fmt.Errorf("tempo %d outside %d..%d", opts.Tempo, rhythm.MinTempo, rhythm.MaxTempo)
	}
	if opts.Meter < 0 {
		return cfg, fmt.Errorf("meter %d is negative", opts.Meter)
	}
	if err := (rhythm.Config{Tempo: float64(opts.Tempo), Volume: opts.Volume, BeatsPerMeasure: 1}).Validate(); err != nil {
		return cfg, err
	}
	if _, ok := cfg.SoundProfiles[opts.Sound]; !ok {
		return cfg, fmt.Errorf("unknown sound profile %q", opts.Sound)
	}
	return cfg, nil
}

// ramp returns the transition requested on the command line, if any.
func (o options) ramp() (*rampRequest, error) {
	if o.RampTo == 0 {
		return nil, nil
	}
	c, err := rhythm.ParseCurve(o.Curve)
	if err != nil {
		return nil, err
	}
	return &rampRequest{Target: o.RampTo, Duration: o.RampDuration, Curve: c}, nil
}

type rampRequest struct {
	Target   int
	Duration time.Duration
	Curve    rhythm.Curve
}

// Run starts the metronome and blocks until the user quits.
func Run(ctx context.Context, opts options) error {
	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}
	ramp, err := opts.ramp()
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if !opts.Headless {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.WithStackTrace(err)
		}
		defer f.Close()
		out = f
	}
	if err := logger.Configure(opts.LogLevel, out); err != nil {
		return err
	}
	logger := cfg.Logger

	// initialize the sound output
	var board control.SoundBoard
	var player *sound.Player
	if !opts.Mute {
		logger.Info("Initializing speaker...")
		player, err = sound.NewSpeakerPlayer(sampleRate, speakerLatency)
		if err != nil {
			return err
		}
		prof, _ := cfg.ActiveSoundProfile()
		player.LoadProfile(prof)
		player.SetVolume(cfg.Volume)
		loadSample(logger, player, profile.SoundStrongBeat, opts.StrongSample)
		loadSample(logger, player, profile.SoundNormalBeat, opts.NormalSample)
		board = player
	}

	logger.Info("Initializing scheduler...")
	sched := rhythm.NewScheduler(clock.RealClock{})
	panel := control.NewPanel(cfg, sched, board, clock.RealClock{})
	if player != nil {
		sched.OnTick(panel.Decorate(player.HandleTick))
	}

	if opts.Headless {
		return runHeadless(ctx, logger, sched, panel, ramp)
	}
	return runPanel(cfg, sched, panel, ramp)
}

func loadSample(logger *logrus.Logger, player *sound.Player, id, path string) {
	if path == "" {
		return
	}
	if err := player.LoadFile(id, path); err != nil {
		logger.Errorf("could not load %s sample from %s: %v", id, path, err)
	}
}

// start begins playback, with the requested ramp when there is one.
func start(panel *control.Panel, ramp *rampRequest) error {
	if ramp != nil {
		return panel.StartRamp(ramp.Target, ramp.Duration, ramp.Curve)
	}
	return panel.Start()
}

func runHeadless(ctx context.Context, logger *logrus.Logger, sched *rhythm.Scheduler, panel *control.Panel, ramp *rampRequest) error {
	sched.OnTick(panel.Decorate(func(ev rhythm.TickEvent) error {
		logger.WithFields(logrus.Fields{
			"beat":  fmt.Sprintf("%d/%d", ev.BeatInMeasure+1, ev.BeatsPerMeasure),
			"tempo": fmt.Sprintf("%.2f", ev.Tempo),
			"drift": ev.Drift,
		}).Info(ev.Accent.String())
		return nil
	}))

	if err := start(panel, ramp); err != nil {
		return err
	}

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Println("shutting down metronome")
	panel.Stop()
	return nil
}

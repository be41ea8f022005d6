package main

import (
	"fmt"
	"os"
	"time"

	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
	"k8s.io/utils/clock"
)

var (
	tempo    = kingpin.Flag("tempo", "Tempo in beats per minute").Default("120").Short('t').Float64()
	ticks    = kingpin.Flag("ticks", "Number of ticks to measure").Default("100").Short('n').Uint64()
	meter    = kingpin.Flag("meter", "Beats per measure").Default("4").Short('m').Int()
	logLevel = kingpin.Flag("log-level", "Log level").Default("info").Enum("trace", "debug", "info", "warning", "error")
)

// driftStats accumulates the lateness of each tick.
type driftStats struct {
	count uint64
	total time.Duration
	max   time.Duration
	first time.Time
	last  rhythm.TickEvent
}

func (d *driftStats) add(ev rhythm.TickEvent) {
	if d.count == 0 {
		d.first = ev.ScheduledTime
	}
	drift := ev.Drift
	if drift < 0 {
		drift = -drift
	}
	d.count++
	d.total += drift
	if drift > d.max {
		d.max = drift
	}
	d.last = ev
}

func (d *driftStats) mean() time.Duration {
	if d.count == 0 {
		return 0
	}
	return d.total / time.Duration(d.count)
}

// expectedEnd is where the final deadline should land if no lateness accumulated.
func (d *driftStats) expectedEnd(tempo float64) time.Time {
	return d.first.Add(time.Duration(d.count) * rhythm.BeatInterval(tempo))
}

func main() {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	if err := logger.Configure(*logLevel, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "drifttest: %v\n", err)
		os.Exit(1)
	}
	logger := logger.GetProjectLogger()
	if *ticks == 0 {
		logger.Fatal("--ticks must be at least 1")
	}

	cfg := rhythm.NewConfig(*tempo)
	cfg.BeatsPerMeasure = *meter

	stats := &driftStats{}
	done := make(chan struct{})
	sched := rhythm.NewScheduler(clock.RealClock{})
	sched.OnTick(func(ev rhythm.TickEvent) error {
		stats.add(ev)
		logger.WithFields(logrus.Fields{
			"seq":   ev.Sequence,
			"beat":  ev.BeatInMeasure,
			"drift": ev.Drift,
		}).Debug("tick")
		if ev.Sequence == *ticks {
			sched.Stop()
			close(done)
		}
		return nil
	})

	logger.Infof("Measuring %d ticks at %.2f BPM...", *ticks, *tempo)
	if err := sched.Start(cfg); err != nil {
		logger.Fatalf("could not start scheduler: %v", err)
	}
	<-done

	logger.WithFields(logrus.Fields{
		"ticks":          stats.count,
		"mean_drift":     stats.mean(),
		"max_drift":      stats.max,
		"deadline_error": stats.last.NextDeadline.Sub(stats.expectedEnd(*tempo)),
	}).Info("Drift summary")
}

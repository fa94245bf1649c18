package main

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/msusim/device/squarer"
	"github.com/sarchlab/msusim/driver"
	"github.com/sarchlab/msusim/trace"
)

type runOptions struct {
	configPath   string
	watchdog     uint64
	strict       bool
	checkTime    bool
	device       deviceOptions
	tStart       uint64
	tFinal       uint64
	input        string
	jobsPath     string
	tracePath    string
	coveragePath string
	verbosity    int
	dump         bool
}

func newRunCmd() *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reset the device and run squaring jobs",
		Long: `Resets the device once, then runs either the single job given by
--t-start/--t-final/--input or every job in --jobs, printing each result.

The watchdog is not fed while the device computes, so a squarer job needs
(t_final - t_start) * cycles-per-square + 1 to stay below --watchdog minus
the few handshake cycles; raise --watchdog for longer jobs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Path to driver configuration (YAML or JSON)")
	f.Uint64Var(&o.watchdog, "watchdog", 0, "Override the watchdog step limit (default 1000); it also bounds squarer compute time")
	f.BoolVar(&o.strict, "strict", false, "Check the device signal contract on every cycle")
	f.BoolVar(&o.checkTime, "check-time", false, "Fail jobs whose returned t_final differs")

	f.StringVar(&o.device.kind, "device", "squarer", "Device model: squarer or loopback")
	f.UintVar(&o.device.width, "width", 32, "Bus word width in bits")
	f.UintVar(&o.device.operandBits, "bits", 1024, "Operand width in bits (squarer)")
	f.IntVar(&o.device.words, "words", 2, "Words per job (loopback)")
	f.StringVar(&o.device.modulus, "modulus", squarer.DefaultModulus, "Squaring modulus (squarer)")
	f.Uint64Var(&o.device.cyclesPerSquare, "cycles-per-square", 1, "Cycles per modular squaring (squarer); t*cycles must stay under the watchdog limit")
	f.Uint64Var(&o.device.latency, "latency", 1, "Echo latency in cycles (loopback)")
	f.IntVar(&o.device.timing.ReadyDelay, "ready-delay", 0, "Cycles before the device first accepts input")
	f.IntVar(&o.device.timing.ReadyGap, "ready-gap", 0, "Idle cycles after each accepted input word")
	f.IntVar(&o.device.timing.ValidGap, "valid-gap", 0, "Idle cycles after each result word")

	f.Uint64Var(&o.tStart, "t-start", 0, "Start iteration of the job")
	f.Uint64Var(&o.tFinal, "t-final", 0, "Final iteration of the job")
	f.StringVar(&o.input, "input", "", "Job operand, decimal or 0x-prefixed hex")
	f.StringVar(&o.jobsPath, "jobs", "", "YAML file with a list of jobs")

	f.StringVar(&o.tracePath, "trace", "", "Write a VCD waveform to this file")
	f.StringVar(&o.coveragePath, "coverage", "", "Write toggle coverage to this file at exit")
	f.CountVarP(&o.verbosity, "verbose", "v", "Increase log verbosity")
	f.BoolVar(&o.dump, "dump", false, "Pretty-print configuration and statistics")

	return cmd
}

func (o *runOptions) run(stdout, stderr io.Writer) error {
	log := funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(stderr, args)
	}, funcr.Options{Verbosity: o.verbosity})

	config, err := o.driverConfig()
	if err != nil {
		return err
	}

	jobs, err := o.jobs()
	if err != nil {
		return err
	}

	dev, wc, err := o.device.build()
	if err != nil {
		return err
	}

	opts := []driver.Option{driver.WithConfig(config), driver.WithLogger(log)}
	sinks, hooks, err := o.openSinks(wc.WordWidth(), config, log)
	if err != nil {
		return err
	}
	defer sinks.close()
	for _, h := range hooks {
		opts = append(opts, driver.WithHook(h))
	}

	d, err := driver.New(dev, wc, opts...)
	if err != nil {
		return err
	}

	if o.dump {
		o.prettyPrint(stdout, config)
	}

	if err := d.Reset(); err != nil {
		return err
	}

	for _, job := range jobs {
		if err := d.Run(job); err != nil {
			if driver.Fatal(err) {
				log.Error(err, "run aborted", "cycle", d.Clock().Cycles())
			}
			return err
		}
		fmt.Fprintf(stdout, "job %s: t_final=%d output=%#x\n", job.ID, job.TFinalOut, job.Output)
	}

	stats := d.Stats()
	log.V(1).Info("run complete", "jobs", stats.Jobs, "cycles", stats.Cycles,
		"sim_seconds", stats.SimTime(config.ClockFreq))
	if o.dump {
		o.prettyPrint(stdout, stats)
	}
	return nil
}

func (o *runOptions) driverConfig() (*driver.Config, error) {
	config := driver.DefaultConfig()
	if o.configPath != "" {
		var err error
		config, err = driver.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
	}
	if o.watchdog != 0 {
		config.WatchdogLimit = o.watchdog
	}
	if o.strict {
		config.StrictContract = true
	}
	if o.checkTime {
		config.CheckFinalTime = true
	}
	return config, config.Validate()
}

func (o *runOptions) jobs() ([]*driver.Job, error) {
	if o.jobsPath != "" {
		return loadJobs(o.jobsPath)
	}
	if o.input == "" {
		return nil, errors.New("either --input or --jobs is required")
	}
	x, err := parseInt(o.input)
	if err != nil {
		return nil, err
	}
	return []*driver.Job{driver.NewJob(o.tStart, o.tFinal, x)}, nil
}

// sinkSet closes instrumentation sinks exactly once, either on normal
// return or from the atexit handler when the process exits early.
type sinkSet struct {
	wave     *trace.Waveform
	cov      *trace.Coverage
	covPath  string
	log      logr.Logger
	finished bool
}

func (s *sinkSet) close() {
	if s.finished {
		return
	}
	s.finished = true

	if s.wave != nil {
		if err := s.wave.Close(); err != nil {
			s.log.Error(err, "closing waveform")
		}
	}
	if s.cov != nil {
		if err := s.cov.WriteFile(s.covPath); err != nil {
			s.log.Error(err, "writing coverage")
		}
	}
}

func (o *runOptions) openSinks(width uint, config *driver.Config, log logr.Logger) (*sinkSet, []sim.Hook, error) {
	s := &sinkSet{log: log, covPath: o.coveragePath}
	var hooks []sim.Hook

	if o.tracePath != "" {
		wave, err := trace.CreateWaveform(o.tracePath, width, config.ClockFreq)
		if err != nil {
			return nil, nil, err
		}
		log.Info("enabling waves", "file", o.tracePath)
		s.wave = wave
		hooks = append(hooks, wave)
	}
	if o.coveragePath != "" {
		s.cov = trace.NewCoverage(width)
		hooks = append(hooks, s.cov)
	}

	atexit.Register(s.close)
	return s, hooks, nil
}

func (o *runOptions) prettyPrint(w io.Writer, v interface{}) {
	printer := pp.New()
	printer.SetColoringEnabled(false)
	printer.SetOutput(w)
	printer.Println(v)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"els/core"
	"els/host/config"
	"els/host/serial"
	"els/host/sim"
)

var (
	profileFlag   string
	listenFlag    string
	telemetryFlag string
	rpmFlag       int
	verboseFlag   bool
	debugFlag     bool
)

// RootCmd runs the hosted simulator
var RootCmd = &cobra.Command{
	Use:           "els-sim",
	Short:         "run the leadscrew controller against a simulated lathe",
	Version:       core.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Errors come back through Execute so run's deferred cleanup has happened
	// before main exits
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

func init() {
	RootCmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "YAML machine profile with the event script")
	RootCmd.Flags().StringVar(&listenFlag, "listen", "", "address to serve Prometheus metrics on, overrides the profile")
	RootCmd.Flags().StringVar(&telemetryFlag, "telemetry", "", "serial device to stream status frames to, overrides the profile")
	RootCmd.Flags().IntVar(&rpmFlag, "rpm", 0, "initial spindle speed, overrides the profile")
	RootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
	RootCmd.Flags().BoolVar(&debugFlag, "debug", false, "print controller debug lines and dump the timing ring on exit")
}

func loadProfile() (*config.Config, error) {
	cfg := config.Default()
	if profileFlag != "" {
		var err error
		if cfg, err = config.ReadConfig(profileFlag); err != nil {
			return nil, err
		}
	}
	if listenFlag != "" {
		cfg.Metrics.Listen = listenFlag
	}
	if telemetryFlag != "" {
		cfg.Telemetry = serial.DefaultConfig(telemetryFlag)
	}
	if rpmFlag != 0 {
		cfg.SpindleRPM = rpmFlag
	}
	return cfg, cfg.Validate()
}

func run() error {
	log.SetLevel(log.InfoLevel)
	if verboseFlag {
		log.SetLevel(log.DebugLevel)
	}
	if debugFlag {
		core.SetDebugWriter(func(s string) { log.Debug(s) })
		core.SetDebugEnabled(true)
		defer core.DumpTimingRing()
	}

	cfg, err := loadProfile()
	if err != nil {
		return err
	}

	var opts sim.Options
	if cfg.Telemetry != nil {
		port, err := serial.Open(cfg.Telemetry)
		if err != nil {
			return err
		}
		defer port.Close()
		opts.Telemetry = port
		log.Infof("streaming telemetry to %s", cfg.Telemetry.Device)
	}

	s, err := sim.New(cfg, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

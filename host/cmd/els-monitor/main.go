package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"els/core"
	"els/host/monitor"
	"els/host/serial"
)

var (
	deviceFlag  string
	baudFlag    int
	verboseFlag bool
)

// RootCmd follows a controller's telemetry stream
var RootCmd = &cobra.Command{
	Use:           "els-monitor",
	Short:         "decode and log status frames from a leadscrew controller",
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
	RootCmd.Flags().StringVarP(&deviceFlag, "device", "d", "/dev/ttyACM0", "serial device path")
	RootCmd.Flags().IntVar(&baudFlag, "baud", serial.DefaultBaud, "baud rate (ignored for USB CDC)")
	RootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "log every status frame")
}

func run() error {
	log.SetLevel(log.InfoLevel)
	if verboseFlag {
		log.SetLevel(log.DebugLevel)
	}

	cfg := serial.DefaultConfig(deviceFlag)
	cfg.Baud = baudFlag
	// A timed out read looks like EOF and would end the stream
	cfg.ReadTimeout = 0

	m := monitor.New(nil)
	if err := m.ConnectWithConfig(cfg); err != nil {
		return err
	}
	defer m.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return m.Wait(ctx)
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

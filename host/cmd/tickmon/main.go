package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	device   string
	baud     int
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tickmon",
		Short: "avrtick clock monitor",
		Long:  `tickmon reads clock reports from an avrtick MCU and tracks its drift against host time.`,
	}

	// Get default device from env var if set
	defaultDevice := "/dev/ttyUSB0"
	if envDevice := os.Getenv("TICKMON_DEVICE"); envDevice != "" {
		defaultDevice = envDevice
	}

	rootCmd.PersistentFlags().StringVar(&device, "device", defaultDevice, "Serial device (env: TICKMON_DEVICE)")
	rootCmd.PersistentFlags().IntVar(&baud, "baud", 115200, "UART baud rate")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

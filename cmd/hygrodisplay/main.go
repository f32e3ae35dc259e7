package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/jypelle/hygrodisplay/internal/srv"
	"github.com/jypelle/hygrodisplay/internal/srv/config"
	"github.com/jypelle/hygrodisplay/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

const configSuffix = "hygrodisplay"

const (
	exitOk     = 0
	exitDevice = 1
	exitConfig = 2
)

func main() {
	os.Exit(run())
}

func run() int {

	// Logger
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	mainCommand := filepath.Base(os.Args[0])

	// region Flags and Commands definition

	// Debug Mode
	debugMode := flag.Bool("d", false, "Enable debug mode")

	// Simulation Mode
	simulationMode := flag.Bool("s", false, "Enable simulation mode (no display needed, frames saved as png)")

	// User config dir
	defaultConfigDir := "./." + configSuffix
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		defaultConfigDir = filepath.Join(userConfigDir, configSuffix)
	}
	configDir := flag.String("c", defaultConfigDir, "Location of hygrodisplay config folder")

	// Usage
	flag.Usage = func() {
		fmt.Printf("\nUsage: %s [OPTIONS] [COMMAND]\n", mainCommand)
		fmt.Printf("\nShow the humidity and temperature read from stdin on a SSD1306 oled display\n")
		fmt.Printf("\nOptions:\n")
		flag.PrintDefaults()
		fmt.Printf("\nCommands:\n")
		fmt.Printf("  run       Run display server\n")
		fmt.Printf("  version   Show the version number\n")
		fmt.Printf("\nRun '%s COMMAND --help' for more information on a command.\n", mainCommand)
	}

	// run command
	runCmd := flag.NewFlagSet("run", flag.ContinueOnError)
	bus := runCmd.String("bus", "", "I²C bus name (default from param file, first available bus when empty)")
	address := runCmd.Uint("addr", 0, "I²C address of the display, e.g. 0x3C (default from param file)")
	staleAfter := runCmd.Duration("stale", 0, "Delay after which the last reading is flagged as stale (default from param file)")
	maxLineLength := runCmd.Int("max-line", 0, "Maximum input line length in bytes (default from param file)")
	retries := runCmd.Int("retries", 0, "Number of retries of a timed out display write (default from param file)")
	backoff := runCmd.Duration("backoff", 0, "Delay before the first retry, doubled on each retry (default from param file)")
	thermal := runCmd.String("thermal", "", "Thermal zone file giving the cpu temperature (default from param file)")
	iface := runCmd.String("interface", "", "Network interface whose IPv4 is shown (default from param file)")

	runCmd.Usage = func() {
		fmt.Printf("\nUsage: %s run [OPTIONS] < measures\n", mainCommand)
		fmt.Printf("\nRun the display server, reading \"<humidity>,<temperature>\" lines from stdin\n")
		fmt.Printf("\nOptions:\n")
		runCmd.PrintDefaults()
	}

	// version command
	versionCmd := flag.NewFlagSet("version", flag.ContinueOnError)

	versionCmd.Usage = func() {
		fmt.Printf("\nUsage: %s version\n", mainCommand)
		fmt.Printf("\nShow the version information\n")
	}

	// endregion

	// region Flags and Commands Parsing
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return exitOk
	}

	switch flag.Arg(0) {
	case "run":
		if err := runCmd.Parse(flag.Args()[1:]); err != nil {
			return exitConfig
		}
		if runCmd.NArg() > 0 {
			fmt.Printf("\n\"%s %s\" accepts no arguments\n", mainCommand, flag.Arg(0))
			runCmd.Usage()
			return exitConfig
		}
	case "version":
		if err := versionCmd.Parse(flag.Args()[1:]); err != nil {
			return exitConfig
		}
		if versionCmd.NArg() > 0 {
			fmt.Printf("\n\"%s %s\" accepts no arguments\n", mainCommand, flag.Arg(0))
			versionCmd.Usage()
			return exitConfig
		}
		fmt.Printf("Version %s\n", version.AppVersion.String())
		return exitOk
	default:
		fmt.Printf("\n%s is not a hygrodisplay command\n", flag.Args()[0])
		flag.Usage()
		return exitConfig
	}
	// endregion

	if *debugMode {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
		logrus.Printf("Debug mode activated")
	}

	serverConfig, err := config.NewServerConfig(afero.NewOsFs(), *configDir, *debugMode, *simulationMode)
	if err != nil {
		logrus.Errorf("Unable to load configuration: %v", err)
		return exitConfig
	}

	// Only flags given on the command line override the param file
	var overrides config.Overrides
	runCmd.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bus":
			overrides.Bus = bus
		case "addr":
			overrides.Address = address
		case "stale":
			overrides.StaleAfter = staleAfter
		case "max-line":
			overrides.MaxLineLength = maxLineLength
		case "retries":
			overrides.Retries = retries
		case "backoff":
			overrides.Backoff = backoff
		case "thermal":
			overrides.ThermalZone = thermal
		case "interface":
			overrides.Interface = iface
		}
	})
	if err = serverConfig.Override(overrides); err != nil {
		logrus.Errorf("Invalid option: %v", err)
		return exitConfig
	}

	// Listen stop signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	defer stop()

	// Create and run hygrodisplay server
	serverApp := srv.NewServerApp(serverConfig, os.Stdin)
	if err = serverApp.Run(ctx); err != nil {
		logrus.Errorf("Display failure: %v", err)
		return exitDevice
	}
	return exitOk
}

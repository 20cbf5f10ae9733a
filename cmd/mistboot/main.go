package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/minimig/mistboot/internal/sdroot"
	merrors "github.com/minimig/mistboot/pkg/errors"
	"github.com/minimig/mistboot/pkg/logging"
)

const version = "0.4.0"

// Exit codes other than the fatal boot codes
const (
	ExitError       = 1
	ExitPanic       = 101
	ExitInvalidArgs = 105
	ExitIOError     = 106
)

var (
	rootFlag    string
	logLevel    string
	slot        uint32
	versionFlag bool
	rootCmd     *cobra.Command
)

func getBuildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func printVersion() {
	fmt.Printf("mistboot %s\n", version)
	fmt.Printf("Built: %s\n", getBuildTimestamp())
}

func init() {
	rootCmd = &cobra.Command{
		Use:           "mistboot",
		Short:         "Load the Minimig configuration and upload kickstart images",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				printVersion()
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Card root directory (defaults to $"+sdroot.EnvRoot+" or CWD)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Uint32Var(&slot, "slot", 0, "Configuration slot")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	rootCmd.AddCommand(newBootCmd(), newConfigCmd(), newPlanCmd(), newUploadCmd(), newVerifyCmd(), newSlotCmd())
}

func newLogger() hclog.Logger {
	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	return logging.NewLogger("mistboot", level, logging.OpenOutput())
}

// cardRoot resolves and validates the card root
func cardRoot() (string, error) {
	root, err := sdroot.Resolve(rootFlag)
	if err != nil {
		return "", err
	}
	if err := sdroot.Validate(root); err != nil {
		return "", err
	}
	return root, nil
}

func exitCode(err error) int {
	var fe *merrors.FatalError
	if errors.As(err, &fe) {
		return fe.Code
	}
	var pe *os.PathError
	if errors.As(err, &pe) {
		return ExitIOError
	}
	return ExitError
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			debug.PrintStack()
			os.Exit(ExitPanic)
		}
	}()

	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

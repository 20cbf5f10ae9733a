package pkg

import (
	"fmt"
	"io/fs"

	"github.com/hashicorp/go-hclog"

	"github.com/minimig/mistboot/internal/sdroot"
	"github.com/minimig/mistboot/pkg/boot"
	"github.com/minimig/mistboot/pkg/bus"
	"github.com/minimig/mistboot/pkg/config"
	"github.com/minimig/mistboot/pkg/logging"
	"github.com/minimig/mistboot/pkg/rom"
)

// BootOptions configures one boot of a card
type BootOptions struct {
	Slot       uint32
	ConfigName string
	Overrides  config.Overrides

	// Transport carries the bus frames; nil records them in memory
	Transport    bus.Transport
	Configurator boot.Configurator
	Hardfiles    boot.HardfileOpener
	Progress     rom.ProgressCallback
	KeyFile      string
	Logger       hclog.Logger
}

// BootResult is the outcome of a boot
type BootResult struct {
	State  *config.State
	Load   config.LoadResult
	Report *boot.ApplyReport
	Frames int
}

// BootFS loads and applies the configuration found in fsys
func BootFS(fsys fs.FS, opts BootOptions) (*BootResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	transport := opts.Transport
	if transport == nil {
		transport = bus.NewRecorder()
	}
	hardfiles := opts.Hardfiles
	if hardfiles == nil {
		hardfiles = boot.NewCardHardfiles(fsys, logger.Named("hdf"))
	}

	b := bus.New(transport)
	store := config.NewStore(fsys, nil, logger.Named("config"))
	uploader := rom.NewUploader(fsys, b,
		rom.WithLogger(logger.Named("rom")),
		rom.WithProgressCallback(opts.Progress),
		rom.WithKeyFile(opts.KeyFile),
	)
	orch := boot.NewOrchestrator(store, uploader, opts.Configurator, hardfiles, logger.Named("apply"))

	state := config.NewState(opts.Slot)
	res, report, err := orch.Boot(state, opts.ConfigName, opts.Overrides)
	return &BootResult{State: state, Load: res, Report: report, Frames: b.Frames()}, err
}

// BootCard boots the card rooted at root and records the kickstart it
// booted.
func BootCard(root string, opts BootOptions) (*BootResult, error) {
	if err := sdroot.Validate(root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCardInvalid, err)
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}

	dir := config.NewDirFS(root)
	result, err := BootFS(dir, opts)
	if err != nil {
		return result, err
	}

	if result.Report.Reloaded {
		checksum := ""
		if info, err := rom.Inspect(dir, result.State.Kickstart, false); err == nil {
			checksum = "sha256:" + info.SHA256
		}
		configName := opts.ConfigName
		if configName == "" {
			configName = result.State.FileName
		}
		if err := sdroot.MarkBooted(root, configName, result.State.Kickstart, checksum); err != nil {
			opts.Logger.Warn("⚠️ Could not write boot marker", "error", err)
		}
	}
	return result, nil
}

// BootCardWithLogLevel boots the card with a logger at logLevel
func BootCardWithLogLevel(root string, opts BootOptions, logLevel string) (*BootResult, error) {
	if logLevel == "" {
		logLevel = logging.GetLogLevel()
	}
	opts.Logger = logging.NewLogger("mistboot", logLevel, logging.OpenOutput())
	return BootCard(root, opts)
}

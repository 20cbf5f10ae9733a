package pkg

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hashicorp/go-hclog"

	"github.com/minimig/mistboot/internal/sdroot"
	"github.com/minimig/mistboot/pkg/boot"
	"github.com/minimig/mistboot/pkg/config"
	"github.com/minimig/mistboot/pkg/keystore"
	"github.com/minimig/mistboot/pkg/logging"
	"github.com/minimig/mistboot/pkg/rom"
)

// CardReport describes what a boot from the card would do
type CardReport struct {
	ConfigName string
	Load       config.LoadResult
	KeyLoaded  bool
	Kickstart  *rom.ImageInfo
	Fallback   *rom.ImageInfo
	Monitor    *rom.ImageInfo
	Hardfiles  [config.HardfileCount]bool

	// Current is set when the card last booted this kickstart unchanged
	Current bool

	Problems []string
}

// OK reports whether the card would boot
func (r *CardReport) OK() bool {
	return len(r.Problems) == 0
}

// Bootable returns the image a boot would upload, or nil
func (r *CardReport) Bootable() *rom.ImageInfo {
	for _, info := range []*rom.ImageInfo{r.Kickstart, r.Fallback} {
		if info != nil && info.PlanErr == nil {
			return info
		}
	}
	return nil
}

// VerifyFS checks the card in fsys without touching the bus
func VerifyFS(fsys fs.FS, slot uint32, logger hclog.Logger) *CardReport {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	report := &CardReport{ConfigName: config.SlotFileName(slot)}
	problem := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		report.Problems = append(report.Problems, msg)
		logger.Error("✗ "+msg)
	}

	state := config.NewState(slot)
	report.Load = config.NewStore(fsys, nil, logger.Named("config")).Load(state, "", config.Overrides{})
	if report.Load.UsedDefault {
		logger.Warn("⚠️ Configuration rejected, defaults apply", "file", report.ConfigName, "reason", report.Load.Reason)
	} else {
		logger.Info("✓ Configuration valid", "file", report.ConfigName)
	}
	rec := &report.Load.Record

	key, err := keystore.LoadKey(fsys, keystore.DefaultKeyFile, logger)
	switch {
	case err != nil:
		problem("key file unusable: %v", err)
	case key != nil:
		report.KeyLoaded = true
		logger.Info("✓ Key file loaded", "size", len(key))
	}

	inspect := func(name string) *rom.ImageInfo {
		info, err := rom.Inspect(fsys, name, report.KeyLoaded)
		if err != nil {
			logger.Warn("⚠️ Image not readable", "file", name, "error", err)
			return nil
		}
		if info.PlanErr != nil {
			logger.Warn("⚠️ Image not uploadable", "file", name, "error", info.PlanErr)
		} else {
			logger.Info("✓ Image", "file", name, "plan", info.Plan.Description, "sha256", info.SHA256)
		}
		return info
	}

	report.Kickstart = inspect(rec.Kickstart)
	if rec.Kickstart != config.DefaultKickstartName {
		report.Fallback = inspect(config.DefaultKickstartName)
	}
	if report.Bootable() == nil {
		problem("no usable kickstart (tried %s and %s)", rec.Kickstart, config.DefaultKickstartName)
	}

	if _, err := fs.Stat(fsys, rom.ActionReplayName); err == nil {
		report.Monitor = inspect(rom.ActionReplayName)
	}

	hdf := boot.NewCardHardfiles(fsys, logger.Named("hdf"))
	for i := range report.Hardfiles {
		report.Hardfiles[i] = hdf.OpenHardfile(i, rec.Hardfile[i])
		if rec.Hardfile[i].Enabled && !report.Hardfiles[i] {
			problem("hardfile %d (%s) is enabled but missing", i, rec.Hardfile[i].LongName)
		}
	}

	if report.OK() {
		logger.Info("✓ Card verification passed")
	} else {
		logger.Error("✗ Card verification failed", "error_count", len(report.Problems))
	}
	return report
}

// VerifyCardWithLogger verifies the card rooted at root
func VerifyCardWithLogger(root string, slot uint32, logger hclog.Logger) (*CardReport, error) {
	if err := sdroot.Validate(root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCardInvalid, err)
	}

	report := VerifyFS(config.NewDirFS(root), slot, logger)
	if info := report.Bootable(); info != nil {
		report.Current = sdroot.IsCurrent(root, info.Name, "sha256:"+info.SHA256)
	}
	if !report.OK() {
		return report, errors.Join(ErrVerificationFailed, fmt.Errorf("%d problem(s)", len(report.Problems)))
	}
	return report, nil
}

// VerifyCard verifies the card using default logger settings
func VerifyCard(root string, slot uint32) (*CardReport, error) {
	logger := logging.NewLogger("mistboot-verify", logging.GetLogLevel(), nil)
	return VerifyCardWithLogger(root, slot, logger)
}

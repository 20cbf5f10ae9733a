package rom

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/hashicorp/go-hclog"

	"github.com/minimig/mistboot/pkg/bus"
	"github.com/minimig/mistboot/pkg/config"
	merrors "github.com/minimig/mistboot/pkg/errors"
	"github.com/minimig/mistboot/pkg/keystore"
)

// ActionReplayName is the monitor image looked up on the card
const ActionReplayName = "HRTMON.ROM"

// Uploader sends images from a card file system over the bus
type Uploader struct {
	fsys     fs.FS
	bus      *bus.Bus
	logger   hclog.Logger
	progress ProgressCallback
	keyFile  string
	fallback string
}

// Option configures an Uploader
type Option func(*Uploader)

// WithLogger sets the logger
func WithLogger(logger hclog.Logger) Option {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithProgressCallback sets the progress callback
func WithProgressCallback(cb ProgressCallback) Option {
	return func(u *Uploader) {
		u.progress = cb
	}
}

// WithKeyFile overrides the key file name
func WithKeyFile(name string) Option {
	return func(u *Uploader) {
		if name != "" {
			u.keyFile = name
		}
	}
}

// WithFallbackName overrides the kickstart tried after a failed upload
func WithFallbackName(name string) Option {
	return func(u *Uploader) {
		if name != "" {
			u.fallback = name
		}
	}
}

// NewUploader creates an uploader reading from fsys
func NewUploader(fsys fs.FS, b *bus.Bus, opts ...Option) *Uploader {
	u := &Uploader{
		fsys:     fsys,
		bus:      b,
		logger:   hclog.NewNullLogger(),
		keyFile:  keystore.DefaultKeyFile,
		fallback: config.DefaultKickstartName,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// FallbackName returns the kickstart tried after a failed upload
func (u *Uploader) FallbackName() string {
	return u.fallback
}

// Bus returns the bus the uploader writes to
func (u *Uploader) Bus() *bus.Bus {
	return u.bus
}

// loadKey returns the key, or nil when none is usable
func (u *Uploader) loadKey() []byte {
	key, err := keystore.LoadKey(u.fsys, u.keyFile, u.logger)
	if err != nil {
		u.logger.Warn("⚠️ Continuing without key", "error", err)
		return nil
	}
	return key
}

// openImage opens name and returns its exact size
func (u *Uploader) openImage(name string) (fs.File, uint64, error) {
	f, err := u.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", merrors.ErrImageFileAbsent, name)
		}
		return nil, 0, fmt.Errorf("open %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", name, err)
	}
	return f, uint64(info.Size()), nil
}

// UploadKickstart uploads the named kickstart image. The key file is read
// first; the image size then selects the plan. Passes marked Rewind start
// again from the first byte of the image.
func (u *Uploader) UploadKickstart(name string) error {
	u.logger.Info("🔍 Checking for key file", "file", u.keyFile)
	key := u.loadKey()

	u.logger.Info("💾 Loading kickstart", "file", name)
	f, size, err := u.openImage(name)
	if err != nil {
		u.logger.Warn("⚠️ Kickstart not available", "file", name, "error", err)
		return err
	}
	defer func() {
		if f != nil {
			f.Close()
		}
	}()

	plan, err := ResolvePlan(size, len(key) > 0)
	if err != nil {
		u.logger.Warn("⚠️ Unsupported kickstart", "file", name, "size", size, "error", err)
		return err
	}

	u.logger.Info("📤 Uploading "+plan.Description, "file", name, "passes", len(plan.Entries))
	for _, entry := range plan.Entries {
		if entry.Rewind {
			if f, err = u.rewind(f, name); err != nil {
				return err
			}
		}
		u.logger.Debug("📦 Transfer", "entry", entry.String())
		if err := Transfer(u.bus, f, entry, key, u.progress); err != nil {
			u.logger.Error("❌ Kickstart transfer failed", "file", name, "pass", entry.Pass, "error", err)
			return fmt.Errorf("upload %s: %w", name, err)
		}
	}

	u.logger.Info("✅ Kickstart uploaded", "file", name, "chunks", plan.Chunks())
	return nil
}

// rewind moves f back to its first byte. Files that cannot seek are
// reopened.
func (u *Uploader) rewind(f fs.File, name string) (fs.File, error) {
	if s, ok := f.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return f, fmt.Errorf("rewind %s: %w", name, err)
		}
		return f, nil
	}

	f.Close()
	nf, err := u.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("reopen %s: %w", name, err)
	}
	return nf, nil
}

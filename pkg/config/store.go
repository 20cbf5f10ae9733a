package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	merrors "github.com/minimig/mistboot/pkg/errors"
)

// FileWriter persists whole files on the card
type FileWriter interface {
	WriteFile(name string, data []byte) error
}

// Overrides are the one-shot video overrides read at boot. When both are
// asserted PAL wins, since it is checked last.
type Overrides struct {
	ForceNTSC bool
	ForcePAL  bool
}

// LoadResult is the outcome of Store.Load
type LoadResult struct {
	Record          Record
	UsedDefault     bool
	ReloadKickstart bool

	// Reason is why the file was rejected; nil when it was accepted
	Reason error
}

// Store loads, validates and persists configuration records
type Store struct {
	fsys   fs.FS
	writer FileWriter
	logger hclog.Logger
}

// NewStore creates a store over a card file system. writer may be nil for
// read-only use; Save then fails.
func NewStore(fsys fs.FS, writer FileWriter, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{
		fsys:   fsys,
		writer: writer,
		logger: logger,
	}
}

// Exists reports whether the configuration file is present as a regular
// file
func (s *Store) Exists(state *State, name string) bool {
	info, err := fs.Stat(s.fsys, state.resolve(name))
	return err == nil && !info.IsDir()
}

// Load reads the configuration file into state. Any rejected file is
// replaced by the default record; the rejection is reported in
// LoadResult.Reason and never returned as a failure.
func (s *Store) Load(state *State, name string, ov Overrides) LoadResult {
	fileName := state.resolve(name)

	var res LoadResult
	rec, err := s.read(fileName)
	if err == nil {
		res.Record = rec
		// first boot, a different configured image, or a fallback image
		// running in place of the configured one
		res.ReloadKickstart = !state.HasRecord ||
			rec.Kickstart != state.Record.Kickstart ||
			(state.Kickstart != "" && rec.Kickstart != state.Kickstart)
		s.logger.Info("📂 Opened configuration file", "file", fileName)
	} else {
		s.logger.Warn("⚠️ Can not use configuration file, setting defaults", "file", fileName, "reason", err)
		res.Record = Default()
		res.UsedDefault = true
		res.ReloadKickstart = true
		res.Reason = err
	}

	if ov.ForceNTSC {
		s.logger.Info("📺 Forcing NTSC video")
		res.Record.Chipset |= ChipsetNTSC
	}
	if ov.ForcePAL {
		s.logger.Info("📺 Forcing PAL video")
		res.Record.Chipset &^= ChipsetNTSC
	}

	state.Record = res.Record
	state.HasRecord = true

	for _, line := range res.Record.Describe()[:3] {
		s.logger.Info(line)
	}

	return res
}

func (s *Store) read(fileName string) (Record, error) {
	info, err := fs.Stat(s.fsys, fileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, fmt.Errorf("%w: %s", merrors.ErrConfigAbsent, fileName)
		}
		return Record{}, fmt.Errorf("%w: %s: %v", merrors.ErrConfigAbsent, fileName, err)
	}
	if info.IsDir() {
		return Record{}, fmt.Errorf("%w: %s is a directory", merrors.ErrConfigAbsent, fileName)
	}

	s.logger.Debug("Configuration file size", "file", fileName, "size", info.Size())
	if info.Size() != RecordSize {
		return Record{}, &SizeMismatchError{Got: info.Size(), Want: RecordSize}
	}

	data, err := fs.ReadFile(s.fsys, fileName)
	if err != nil {
		return Record{}, fmt.Errorf("%w: cannot load %s: %v", merrors.ErrConfigAbsent, fileName, err)
	}

	return Decode(data)
}

// Save writes the active record of state to the resolved file name
func (s *Store) Save(state *State, name string) error {
	return s.SaveRecord(&state.Record, state.resolve(name))
}

// SaveRecord writes rec verbatim to fileName. Records that Validate
// rejects are not written, since Load would not read them back.
func (s *Store) SaveRecord(rec *Record, fileName string) error {
	if s.writer == nil {
		return fmt.Errorf("save %s: store is read-only", fileName)
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("save %s: %w", fileName, err)
	}
	if err := s.writer.WriteFile(fileName, rec.Pack()); err != nil {
		s.logger.Error("❌ Failed to save configuration", "file", fileName, "error", err)
		return fmt.Errorf("save %s: %w", fileName, err)
	}
	s.logger.Info("💾 Saved configuration", "file", fileName)
	return nil
}

// DirFS is a card rooted at a host directory. It serves reads through
// os.DirFS and writes files beside them.
type DirFS struct {
	fs.FS
	root string
}

// NewDirFS creates a card view of root
func NewDirFS(root string) *DirFS {
	return &DirFS{FS: os.DirFS(root), root: root}
}

// Root returns the host directory
func (d *DirFS) Root() string {
	return d.root
}

// WriteFile implements FileWriter
func (d *DirFS) WriteFile(name string, data []byte) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}
	return os.WriteFile(filepath.Join(d.root, filepath.FromSlash(name)), data, FilePerms)
}

// Package keystore loads the optional kickstart decryption key.
package keystore

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hashicorp/go-hclog"

	merrors "github.com/minimig/mistboot/pkg/errors"
)

const (
	// DefaultKeyFile is the key shipped alongside encrypted kickstarts
	DefaultKeyFile = "ROM.KEY"

	// Capacity is the key buffer size; a key must be strictly smaller
	Capacity = 3072
)

// LoadKey reads the key file. A missing file returns (nil, nil): the
// upload then runs unkeyed. A file of Capacity bytes or more returns
// ErrKeyTooLarge and no key.
func LoadKey(fsys fs.FS, fileName string, logger hclog.Logger) ([]byte, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if fileName == "" {
		fileName = DefaultKeyFile
	}

	logger.Debug("🔑 Checking for key file", "file", fileName)
	info, err := fs.Stat(fsys, fileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", fileName, err)
	}

	if info.Size() >= Capacity {
		logger.Warn("⚠️ Key file is too large", "file", fileName, "size", info.Size(), "capacity", Capacity)
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", merrors.ErrKeyTooLarge, fileName, info.Size(), Capacity-1)
	}

	key, err := fs.ReadFile(fsys, fileName)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}

	logger.Info("🔑 Loaded key file", "file", fileName, "size", len(key))
	return key, nil
}

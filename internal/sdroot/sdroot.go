// Package sdroot locates the directory that stands in for the SD card
package sdroot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnvRoot names the environment variable holding the card root
const EnvRoot = "MISTBOOT_SD_ROOT"

// Resolve returns the card root: the flag value if set, then EnvRoot, then
// the current directory. The result is absolute.
func Resolve(flag string) (string, error) {
	root := flag
	if root == "" {
		root = os.Getenv(EnvRoot)
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		root = cwd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve card root %s: %w", root, err)
	}
	return abs, nil
}

// Validate checks that root is a readable directory
func Validate(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("card root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("card root %s is not a directory", root)
	}

	f, err := os.Open(root)
	if err != nil {
		return fmt.Errorf("card root %s is not readable: %w", root, err)
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("card root %s is not readable: %w", root, err)
	}
	return nil
}

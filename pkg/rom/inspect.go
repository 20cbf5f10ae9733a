package rom

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
)

// ImageInfo describes an image on the card without uploading it
type ImageInfo struct {
	Name   string
	Size   uint64
	SHA256 string
	Plan   Plan

	// PlanErr is set when the size matches no plan
	PlanErr error
}

// Inspect reads name from fsys, fingerprints it and resolves its plan
func Inspect(fsys fs.FS, name string, hasKey bool) (*ImageInfo, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	info := &ImageInfo{
		Name:   name,
		Size:   uint64(n),
		SHA256: hex.EncodeToString(h.Sum(nil)),
	}
	info.Plan, info.PlanErr = ResolvePlan(info.Size, hasKey)
	return info, nil
}

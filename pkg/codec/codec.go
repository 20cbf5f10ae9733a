// Package codec provides the stream encodings used for bus trace files.
package codec

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Codec identifiers
const (
	OP_NONE  = 0x00
	OP_GZIP  = 0x10
	OP_BZIP2 = 0x13
)

// Codec is a reversible stream encoding
type Codec interface {
	// ID returns the codec identifier (e.g., OP_GZIP)
	ID() uint8

	// Name returns the human-readable name
	Name() string

	// Extension returns the file suffix, including the dot
	Extension() string

	// Wrap returns a writer that encodes into w. Closing it flushes the
	// encoding but does not close w.
	Wrap(w io.Writer) (io.WriteCloser, error)

	// Unwrap returns a reader that decodes r
	Unwrap(r io.Reader) (io.ReadCloser, error)
}

// BaseCodec provides the identification methods
type BaseCodec struct {
	OpID   uint8
	OpName string
	OpExt  string
}

func (c *BaseCodec) ID() uint8 {
	return c.OpID
}

func (c *BaseCodec) Name() string {
	return c.OpName
}

func (c *BaseCodec) Extension() string {
	return c.OpExt
}

// Registry maps codec IDs to implementations
var Registry = make(map[uint8]Codec)

// Register registers a codec implementation
func Register(c Codec) {
	Registry[c.ID()] = c
}

// Get retrieves a codec by ID
func Get(id uint8) (Codec, error) {
	c, ok := Registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown codec: 0x%02x", id)
	}
	return c, nil
}

// ByName retrieves a codec by its name, case-insensitively
func ByName(name string) (Codec, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		name = "RAW"
	}
	for _, c := range Registry {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown codec %q (known: %s)", name, strings.Join(Names(), ", "))
}

// ForPath picks the codec whose extension ends the file name, RAW otherwise
func ForPath(p string) Codec {
	ext := strings.ToLower(path.Ext(p))
	for _, c := range Registry {
		if c.Extension() != "" && c.Extension() == ext {
			return c
		}
	}
	return Registry[OP_NONE]
}

// Names lists the registered codec names
func Names() []string {
	names := make([]string, 0, len(Registry))
	for _, c := range Registry {
		names = append(names, strings.ToLower(c.Name()))
	}
	sort.Strings(names)
	return names
}

// Encode runs data through the codec
func Encode(c Codec, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := c.Wrap(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating %s writer: %w", c.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing %s data: %w", c.Name(), err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing %s writer: %w", c.Name(), err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode
func Decode(c Codec, data []byte) ([]byte, error) {
	r, err := c.Unwrap(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating %s reader: %w", c.Name(), err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s data: %w", c.Name(), err)
	}
	return out, nil
}

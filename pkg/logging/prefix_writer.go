package logging

import (
	"bytes"
	"io"
)

// PrefixWriter wraps an io.Writer and prefixes every complete line.
// Partial lines are held back until their newline arrives.
type PrefixWriter struct {
	prefix []byte
	writer io.Writer
	buffer bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements io.Writer.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.buffer.Write(p)

	for {
		data := pw.buffer.Bytes()
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			break
		}

		line := make([]byte, 0, len(pw.prefix)+nl+1)
		line = append(line, pw.prefix...)
		line = append(line, data[:nl+1]...)
		pw.buffer.Next(nl + 1)

		if _, err := pw.writer.Write(line); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}

// Flush writes out any pending partial line with the prefix.
func (pw *PrefixWriter) Flush() error {
	if pw.buffer.Len() == 0 {
		return nil
	}
	line := append(append([]byte{}, pw.prefix...), pw.buffer.Bytes()...)
	pw.buffer.Reset()
	_, err := pw.writer.Write(line)
	return err
}

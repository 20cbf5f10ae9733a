package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/minimig/mistboot/pkg/bus"
	"github.com/minimig/mistboot/pkg/codec"
	_ "github.com/minimig/mistboot/pkg/codec/compress"
)

// Environment fallbacks for the transport flags
const (
	EnvSerial = "MISTBOOT_SERIAL"
	EnvTrace  = "MISTBOOT_TRACE"
)

type transportFlags struct {
	serial string
	baud   int
	trace  string
	codec  string
}

func (f *transportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.serial, "serial", "", "Serial bridge device (defaults to $"+EnvSerial+")")
	cmd.Flags().IntVar(&f.baud, "baud", bus.DefaultBaud, "Serial bridge baud rate")
	cmd.Flags().StringVar(&f.trace, "trace", "", "Write bus frames to a trace file (defaults to $"+EnvTrace+")")
	cmd.Flags().StringVar(&f.codec, "codec", "", "Trace file codec: raw, gzip or bzip2 (defaults to the file extension)")
}

// busTarget is an opened transport plus whatever must be closed after it
type busTarget struct {
	bus.Transport
	Recorder *bus.Recorder
	Describe string
	closers  []io.Closer
}

func (t *busTarget) Close() error {
	var first error
	for _, c := range t.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// open picks the serial bridge, then a trace file, then an in-memory
// recorder for a dry run.
func (f *transportFlags) open(logger hclog.Logger) (*busTarget, error) {
	serial := f.serial
	if serial == "" {
		serial = os.Getenv(EnvSerial)
	}
	trace := f.trace
	if trace == "" {
		trace = os.Getenv(EnvTrace)
	}

	switch {
	case serial != "":
		port, err := bus.OpenSerial(serial, f.baud)
		if err != nil {
			return nil, err
		}
		logger.Info("🔌 Serial bridge opened", "device", serial, "baud", f.baud)
		return &busTarget{Transport: port, Describe: "serial " + serial, closers: []io.Closer{port}}, nil

	case trace != "":
		c := codec.ForPath(trace)
		if f.codec != "" {
			var err error
			if c, err = codec.ByName(f.codec); err != nil {
				return nil, err
			}
		}

		file, err := os.Create(trace)
		if err != nil {
			return nil, fmt.Errorf("create trace: %w", err)
		}
		w, err := c.Wrap(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		tt, err := bus.NewTraceTransport(w)
		if err != nil {
			w.Close()
			file.Close()
			return nil, err
		}
		logger.Info("📝 Tracing bus frames", "file", trace, "codec", c.Name())
		return &busTarget{Transport: tt, Describe: "trace " + trace, closers: []io.Closer{w, file}}, nil

	default:
		rec := bus.NewRecorder()
		logger.Debug("Dry run, recording bus frames in memory")
		return &busTarget{Transport: rec, Recorder: rec, Describe: "dry run"}, nil
	}
}

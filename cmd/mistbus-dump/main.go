package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/minimig/mistboot/pkg/bus"
	"github.com/minimig/mistboot/pkg/codec"
	_ "github.com/minimig/mistboot/pkg/codec/compress"
)

const version = "0.4.0"

// Exit codes
const (
	ExitPanic       = 101
	ExitTraceError  = 102
	ExitInvalidArgs = 105
	ExitIOError     = 106
)

var (
	codecName string
	payload   bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mistbus-dump <trace>",
		Short:   "Print the frames of a mistboot bus trace",
		Version: version,
		Args:    cobra.ExactArgs(1),
		Run:     run,
	}
	cmd.Flags().StringVar(&codecName, "codec", "", "Trace codec: raw, gzip or bzip2 (defaults to the file extension)")
	cmd.Flags().BoolVar(&payload, "payload", false, "Print WRITE-MEMORY payload bytes")
	return cmd
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			debug.PrintStack()
			os.Exit(ExitPanic)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(ExitInvalidArgs)
	}
}

func run(cmd *cobra.Command, args []string) {
	path := args[0]

	c := codec.ForPath(path)
	if codecName != "" {
		var err error
		if c, err = codec.ByName(codecName); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(ExitInvalidArgs)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open trace: %v\n", err)
		os.Exit(ExitIOError)
	}
	defer f.Close()

	r, err := c.Unwrap(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode trace: %v\n", err)
		os.Exit(ExitTraceError)
	}
	defer r.Close()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	if err := dump(r, out, payload); err != nil {
		out.Flush()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitTraceError)
	}
}

// dump prints one line per frame followed by a summary
func dump(r io.Reader, w io.Writer, payload bool) error {
	var frames, writes, resets int
	var bytes int64
	err := bus.ReadTrace(r, func(frame []byte) error {
		cmd, err := bus.DecodeFrame(frame)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frames, err)
		}
		fmt.Fprintf(w, "%6d %s\n", frames, cmd)
		if payload && cmd.Op == bus.OpWriteMemory {
			fmt.Fprintf(w, "       % x\n", cmd.Payload)
		}

		frames++
		switch cmd.Op {
		case bus.OpWriteMemory:
			writes++
			bytes += int64(len(cmd.Payload))
		case bus.OpReset:
			resets++
		}
		return nil
	})
	fmt.Fprintf(w, "%d frame(s): %d write(s), %d byte(s), %d reset(s)\n", frames, writes, bytes, resets)
	return err
}

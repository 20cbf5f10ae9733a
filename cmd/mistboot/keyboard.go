package main

import (
	"time"

	"github.com/hashicorp/go-hclog"
	tty "github.com/mattn/go-tty"

	"github.com/minimig/mistboot/pkg/config"
)

// overridesForKey maps a key press to a video override: n forces NTSC,
// p forces PAL.
func overridesForKey(r rune) config.Overrides {
	switch r {
	case 'n', 'N':
		return config.Overrides{ForceNTSC: true}
	case 'p', 'P':
		return config.Overrides{ForcePAL: true}
	}
	return config.Overrides{}
}

// readOverrides waits up to timeout for one key on the controlling
// terminal. Without a terminal no override applies.
func readOverrides(timeout time.Duration, logger hclog.Logger) config.Overrides {
	t, err := tty.Open()
	if err != nil {
		logger.Debug("No terminal for video override", "error", err)
		return config.Overrides{}
	}
	defer t.Close()

	logger.Info("⌨️ Press n for NTSC, p for PAL", "timeout", timeout)
	keys := make(chan rune, 1)
	// on timeout the deferred Close unblocks ReadRune and ends this goroutine
	go func() {
		r, err := t.ReadRune()
		if err != nil {
			logger.Debug("Key read ended", "error", err)
			return
		}
		keys <- r
	}()

	select {
	case r := <-keys:
		return overridesForKey(r)
	case <-time.After(timeout):
		return config.Overrides{}
	}
}

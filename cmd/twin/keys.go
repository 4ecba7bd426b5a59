package main

import (
	"context"
	"io"

	"github.com/Gaurav-Gosain/twin/internal/config"
	"github.com/Gaurav-Gosain/twin/internal/logging"
)

// readKeys reads raw input bytes and sends the action bound to each one.
// Unbound bytes are ignored. The channel is closed when r fails or ctx is
// done; a blocked Read outlives ctx until the next byte arrives.
func readKeys(ctx context.Context, r io.Reader, keys *config.KeyMap) <-chan string {
	actions := make(chan string)
	go func() {
		defer close(actions)
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				action := keys.Action(b)
				if action == "" {
					continue
				}
				logging.Debug("key", "byte", b, "action", action)
				select {
				case actions <- action:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					logging.Warn("input closed", "err", err)
				}
				return
			}
		}
	}()
	return actions
}

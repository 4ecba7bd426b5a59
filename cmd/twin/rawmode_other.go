//go:build !linux && !windows

package main

import (
	"golang.org/x/term"
)

func isTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

func makeRaw(fd uintptr) (func(), error) {
	state, err := term.MakeRaw(int(fd))
	if err != nil {
		return nil, err
	}
	return func() {
		_ = term.Restore(int(fd), state)
	}, nil
}

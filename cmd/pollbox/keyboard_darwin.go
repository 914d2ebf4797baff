//go:build darwin
// +build darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/abrezinsky/pollbox/internal/logger"
)

// listenForKeyboard switches stdin to unbuffered input and reads shortcuts
func listenForKeyboard(openURL string, appLog *logger.SlogLogger, quit chan<- struct{}) {
	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TIOCGETA)
	if err != nil {
		// Not a terminal
		return
	}

	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TIOCSETA, &newState); err != nil {
		return
	}
	defer unix.IoctlSetTermios(fd, unix.TIOCSETA, oldState)

	readKeys(os.Stdin, openURL, appLog, quit)
}

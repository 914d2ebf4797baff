//go:build linux
// +build linux

package main

import (
	"os"
	"syscall"
	"unsafe"

	"github.com/abrezinsky/pollbox/internal/logger"
)

// listenForKeyboard switches stdin to unbuffered input and reads shortcuts
func listenForKeyboard(openURL string, appLog *logger.SlogLogger, quit chan<- struct{}) {
	fd := int(os.Stdin.Fd())
	var oldState syscall.Termios
	if _, _, err := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), syscall.TCGETS, uintptr(unsafe.Pointer(&oldState))); err != 0 {
		// Not a terminal
		return
	}

	// Disable line buffering and echo, keep output processing so \n works
	newState := oldState
	newState.Lflag &^= syscall.ICANON | syscall.ECHO
	newState.Cc[syscall.VMIN] = 1
	newState.Cc[syscall.VTIME] = 0

	if _, _, err := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), syscall.TCSETS, uintptr(unsafe.Pointer(&newState))); err != 0 {
		return
	}
	defer syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), syscall.TCSETS, uintptr(unsafe.Pointer(&oldState)))

	readKeys(os.Stdin, openURL, appLog, quit)
}

//go:build windows
// +build windows

package main

import (
	"os"

	"github.com/abrezinsky/pollbox/internal/logger"
)

// listenForKeyboard reads shortcuts from stdin. The console stays line
// buffered on Windows, so keys take effect after Enter.
func listenForKeyboard(openURL string, appLog *logger.SlogLogger, quit chan<- struct{}) {
	readKeys(os.Stdin, openURL, appLog, quit)
}

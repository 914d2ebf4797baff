package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/abrezinsky/pollbox/internal/browser"
	"github.com/abrezinsky/pollbox/internal/logger"
)

// readKeys dispatches single key presses from in until q or Ctrl+C.
// It closes quit when the user asks to stop.
func readKeys(in io.Reader, openURL string, appLog *logger.SlogLogger, quit chan<- struct{}) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if err == io.EOF {
			return
		}
		if err != nil || n == 0 {
			continue
		}
		if !handleKey(strings.ToLower(string(buf[0])), openURL, appLog) {
			close(quit)
			return
		}
	}
}

// handleKey performs the action bound to key. Returns false on quit.
func handleKey(key, openURL string, appLog *logger.SlogLogger) bool {
	switch key {
	case "o":
		fmt.Printf("%sOpening %s in browser...%s\n", cyan, openURL, reset)
		if err := browser.Open(openURL); err != nil {
			fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		if appLog.IsHTTPLoggingEnabled() {
			appLog.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			appLog.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		cycleLogLevel(appLog)
	case "q", "\x03": // Ctrl+C arrives as a byte in raw mode
		fmt.Printf("%sShutting down server...%s\n", yellow, reset)
		return false
	case "?":
		printKeyboardHelp()
	}
	return true
}

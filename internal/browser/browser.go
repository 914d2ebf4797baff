package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Commander starts external programs. Replaced in tests.
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander executes actual commands
type RealCommander struct{}

// Start runs the command without waiting for it
func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

var defaultCommander Commander = RealCommander{}

// Open opens a poll link in the desktop's default browser
func Open(link string) error {
	return OpenWithCommander(link, defaultCommander, runtime.GOOS)
}

// OpenWithCommander opens link using commander as if running on goos.
// Only absolute http and https links are accepted.
func OpenWithCommander(link string, commander Commander, goos string) error {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid link %q: %w", link, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http link", link)
	}

	name, args, err := command(goos)
	if err != nil {
		return err
	}
	return commander.Start(name, append(args, u.String())...)
}

func command(goos string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", nil, nil
	case "darwin":
		return "open", nil, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}, nil
	}
	return "", nil, fmt.Errorf("unsupported platform: %s", goos)
}

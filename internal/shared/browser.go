package shared

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// browserCommand returns the command that opens url on goos.
//
// A non-empty $BROWSER takes precedence on every platform.
func browserCommand(goos, browser, url string) (string, []string, error) {
	if browser = strings.TrimSpace(browser); browser != "" {
		return browser, []string{url}, nil
	}

	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenBrowser opens url in the user's browser without waiting for it to exit.
func OpenBrowser(url string) error {
	name, args, err := browserCommand(runtime.GOOS, os.Getenv("BROWSER"), url)
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

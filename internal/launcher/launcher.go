// Package launcher performs the OS-level open actions: websites, desktop
// applications and media search pages. Callers get success or failure;
// there is no further contract with the OS.
package launcher

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/browser"
)

// ErrLaunch tags every failed open action.
var ErrLaunch = errors.New("launch failed")

// Launcher opens things on the local machine.
type Launcher struct{}

// New returns a Launcher.
func New() *Launcher {
	return &Launcher{}
}

// OpenWebsite opens the URL in the default browser, defaulting the scheme
// to https when none is given.
func (l *Launcher) OpenWebsite(rawURL string) error {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	if err := browser.OpenURL(rawURL); err != nil {
		return fmt.Errorf("%w: open %s: %s", ErrLaunch, rawURL, err)
	}
	return nil
}

// OpenApp launches a desktop application by name.
func (l *Launcher) OpenApp(name string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", "-a", name)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", name)
	default:
		cmd = exec.Command(name)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: open %s: %s", ErrLaunch, name, err)
	}
	return nil
}

// PlayMedia opens a search page for the media on the platform and returns
// the response text for the user.
func (l *Launcher) PlayMedia(query, mediaType, platform string) (string, error) {
	searchURL, err := mediaSearchURL(query, platform)
	if err != nil {
		return "", err
	}
	if err := l.OpenWebsite(searchURL); err != nil {
		return "", err
	}
	return fmt.Sprintf("Opening %s %q on %s.", mediaType, query, capitalize(platform)), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func mediaSearchURL(query, platform string) (string, error) {
	switch platform {
	case "spotify":
		return "https://open.spotify.com/search/" + url.PathEscape(query), nil
	case "youtube":
		return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query), nil
	default:
		return "", fmt.Errorf("%w: unsupported platform %q", ErrLaunch, platform)
	}
}

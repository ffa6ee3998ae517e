package notify

import "fmt"

func desktopCommand(appName, title, body string, lookup func(string) (string, error)) (string, []string, error) {
	path, err := lookup("notify-send")
	if err != nil {
		return "", nil, fmt.Errorf("%w: notify-send not found", ErrUnsupported)
	}
	return path, []string{"--app-name", appName, title, body}, nil
}

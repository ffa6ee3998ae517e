package notify

import (
	"fmt"
	"strconv"
)

func desktopCommand(appName, title, body string, lookup func(string) (string, error)) (string, []string, error) {
	path, err := lookup("osascript")
	if err != nil {
		return "", nil, fmt.Errorf("%w: osascript not found", ErrUnsupported)
	}
	script := fmt.Sprintf("display notification %s with title %s subtitle %s",
		strconv.Quote(body), strconv.Quote(appName), strconv.Quote(title))
	return path, []string{"-e", script}, nil
}

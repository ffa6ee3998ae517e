//go:build !linux && !darwin

package notify

func desktopCommand(string, string, string, func(string) (string, error)) (string, []string, error) {
	return "", nil, ErrUnsupported
}

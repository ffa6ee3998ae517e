package notify

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/sadopc/pomo/internal/timer"
)

// commandRunner runs an external program. Replaced in tests.
type commandRunner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Desktop shows a system notification through the platform's command line
// tool (notify-send, osascript).
type Desktop struct {
	appName string
	timeout time.Duration
	run     commandRunner
	lookup  func(string) (string, error)
}

func NewDesktop(appName string) *Desktop {
	return &Desktop{
		appName: appName,
		timeout: 5 * time.Second,
		run:     runCommand,
		lookup:  exec.LookPath,
	}
}

func (d *Desktop) Notify(kind timer.Kind, mode timer.Mode) error {
	if kind != timer.SessionEnded {
		return nil
	}
	title, body := Message(mode)
	name, args, err := desktopCommand(d.appName, title, body, d.lookup)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

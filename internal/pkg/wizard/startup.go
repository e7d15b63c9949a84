package wizard

import (
	"context"
	"strings"
	"time"

	"github.com/siderolabs/go-retry/retry"
)

// ScreenFor maps a status to the screen the application should open on.
// It returns false for "none" and for statuses it does not recognize.
func ScreenFor(status string) (Screen, bool) {
	status = NormalizeStatus(status)

	switch status {
	case StatusChooseOperation:
		return ScreenChooseOperation, true
	case StatusReady:
		return ScreenDashboard, true
	case StatusNone, "":
		return "", false
	}

	name, _, _ := strings.Cut(status, "_")
	if stage, ok := stageByName(name); ok && stage != StageReady {
		return ScreenWizard, true
	}

	return "", false
}

// WaitForBackend polls the status every interval until the backend reports
// something other than "none" or timeout elapses.
func WaitForBackend(ctx context.Context, api API, interval, timeout time.Duration) (StatusReply, error) {
	var reply StatusReply

	err := retry.Constant(timeout, retry.WithUnits(interval)).RetryWithContext(ctx, func(ctx context.Context) error {
		r, err := api.Status(ctx)
		if err != nil {
			return retry.ExpectedError(err)
		}

		if NormalizeStatus(r.Status) == StatusNone {
			return retry.ExpectedErrorf("backend has not started")
		}

		reply = r

		return nil
	})
	if err != nil {
		return StatusReply{}, NewNetworkErrorWithCause(CodeBackendWait, "backend did not become available", "", err)
	}

	return reply, nil
}

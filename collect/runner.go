package collect

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"dev.rackwire.net/fabricmap/common"
)

// Runner - Remote command execution, satisfied by sshexec.Runner.
type Runner interface {
	Line(address string, credential common.Credential, command string) ([]string, error)
	Interactive(address string, credential common.Credential, command string, prompt *regexp.Regexp) ([]string, error)
}

// Policy - Retry policy for transient per-unit failures.
type Policy struct {
	MaxRetries int
	RetryDelay time.Duration
}

// runWithRetry retries transient failures (timeouts, resets) with the same
// credentials and exponential backoff. Authentication failures are never
// retried here; credential fallthrough happens only during detection. A
// command timeout that exhausts its retries surfaces as unreachable.
func runWithRetry(policy Policy, run func() ([]string, error)) ([]string, error) {
	var lines []string
	var err error
	for attempt := 1; ; attempt++ {
		lines, err = run()
		if err == nil || errors.Is(err, common.ErrAuthFailed) {
			return lines, err
		}
		if attempt >= policy.MaxRetries {
			break
		}
		time.Sleep(policy.RetryDelay * time.Duration(1<<(attempt-1)))
	}
	if errors.Is(err, common.ErrCommandTimeout) {
		err = fmt.Errorf("%w: %w", common.ErrUnreachable, err)
	}
	return nil, err
}

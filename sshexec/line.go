package sshexec

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"dev.rackwire.net/fabricmap/common"
)

// Line opens an SSH connection, runs a single command and returns its output
// lines. Appropriate where the account accepts direct command execution.
func (r *Runner) Line(address string, credential common.Credential, command string) ([]string, error) {
	sshClient, err := r.openSSHClient(address, credential)
	if err != nil {
		return nil, err
	}
	defer sshClient.Close()

	session, err := sshClient.NewSession()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start session: %v", common.ErrUnreachable, err)
	}
	defer session.Close()

	type commandResult struct {
		output []byte
		err    error
	}
	done := make(chan commandResult, 1)
	go func() {
		output, runErr := session.CombinedOutput(command)
		done <- commandResult{output: output, err: runErr}
	}()

	select {
	case result := <-done:
		if result.err != nil {
			// Non-zero exit still carries usable output for some commands
			if _, ok := result.err.(*ssh.ExitError); !ok {
				return nil, fmt.Errorf("%w: command failed: %v", common.ErrUnreachable, result.err)
			}
		}
		log.WithFields(log.Fields{
			"device":     address,
			"command":    command,
			"output_len": len(result.output),
		}).Debug("Command executed")
		return CleanOutput(string(result.output), command, nil), nil
	case <-time.After(r.CommandTimeout):
		session.Signal(ssh.SIGKILL)
		return nil, fmt.Errorf("%w: %v", common.ErrCommandTimeout, command)
	}
}

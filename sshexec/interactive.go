package sshexec

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"dev.rackwire.net/fabricmap/common"
)

// Shell automation states. The machine advances
// awaiting-password -> awaiting-prompt -> command-sent -> awaiting-result -> done,
// and reaches failed by inactivity timeout from every waiting state.
type shellState int

const (
	stateAwaitingPassword shellState = iota
	stateAwaitingPrompt
	stateCommandSent
	stateAwaitingResult
	stateDone
	stateFailed
)

func (s shellState) String() string {
	switch s {
	case stateAwaitingPassword:
		return "awaiting-password"
	case stateAwaitingPrompt:
		return "awaiting-prompt"
	case stateCommandSent:
		return "command-sent"
	case stateAwaitingResult:
		return "awaiting-result"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

var passwordPromptRegex = regexp.MustCompile(`(?i)password: ?$`)

// ShellScript drives exactly one command through a restricted interactive
// shell that rejects command-as-argument execution. Timeout is an inactivity
// limit: no stream activity for that long in any waiting state fails the
// unit of work.
type ShellScript struct {
	Prompt      *regexp.Regexp
	Password    string // sent if the shell asks again after transport login
	ExitCommand string // defaults to "exit"
	Timeout     time.Duration
}

// Run executes the script against an already-open shell stream pair and
// returns the cleaned command output.
func (s *ShellScript) Run(stdin io.Writer, stdout io.Reader, command string) ([]string, error) {
	exitCommand := s.ExitCommand
	if exitCommand == "" {
		exitCommand = "exit"
	}

	chunks := followStreamChunks(stdout)
	timer := time.NewTimer(s.Timeout)
	defer timer.Stop()

	state := stateAwaitingPassword
	if s.Password == "" {
		state = stateAwaitingPrompt
	}
	var buffer strings.Builder
	var captured string
	streamClosed := false

	for state != stateDone && state != stateFailed {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				// Stream closed before the script finished
				streamClosed = true
				state = stateFailed
				continue
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(s.Timeout)
			buffer.WriteString(chunk)
			lastLine := tailLine(buffer.String())

			switch state {
			case stateAwaitingPassword:
				if passwordPromptRegex.MatchString(lastLine) {
					fmt.Fprintf(stdin, "%v\n", s.Password)
					buffer.Reset()
					state = stateAwaitingPrompt
				} else if s.Prompt.MatchString(lastLine) {
					// Shell skipped the password round
					fmt.Fprintf(stdin, "%v\n", command)
					buffer.Reset()
					state = stateCommandSent
				}
			case stateAwaitingPrompt:
				if s.Prompt.MatchString(lastLine) {
					fmt.Fprintf(stdin, "%v\n", command)
					buffer.Reset()
					state = stateCommandSent
				}
			case stateCommandSent:
				state = stateAwaitingResult
				fallthrough
			case stateAwaitingResult:
				if s.Prompt.MatchString(lastLine) && strings.Contains(buffer.String(), "\n") {
					captured = buffer.String()
					fmt.Fprintf(stdin, "%v\n", exitCommand)
					state = stateDone
				}
			}
		case <-timer.C:
			log.WithFields(log.Fields{
				"state": state.String(),
			}).Trace("Interactive shell timed out")
			state = stateFailed
		}
	}

	if state == stateFailed {
		if streamClosed {
			return nil, fmt.Errorf("%w: interactive shell closed: %v", common.ErrUnreachable, command)
		}
		return nil, fmt.Errorf("%w: interactive shell: %v", common.ErrCommandTimeout, command)
	}
	return CleanOutput(captured, command, s.Prompt), nil
}

// Interactive opens a pseudo-terminal session and runs a single command
// through the interactive-shell state machine.
func (r *Runner) Interactive(address string, credential common.Credential, command string, prompt *regexp.Regexp) ([]string, error) {
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

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 115200,
		ssh.TTY_OP_OSPEED: 115200,
	}
	if err := session.RequestPty("xterm", 80, 200, modes); err != nil {
		return nil, fmt.Errorf("%w: failed to request PTY: %v", common.ErrUnreachable, err)
	}
	stdinWriter, err := session.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get STDIN pipe: %v", common.ErrUnreachable, err)
	}
	stdoutReader, err := session.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get STDOUT pipe: %v", common.ErrUnreachable, err)
	}
	if err := session.Shell(); err != nil {
		return nil, fmt.Errorf("%w: failed to start shell: %v", common.ErrUnreachable, err)
	}

	script := ShellScript{
		Prompt:   prompt,
		Password: credential.Password,
		Timeout:  r.CommandTimeout,
	}
	lines, err := script.Run(stdinWriter, stdoutReader, command)
	if err != nil {
		// Tear the session down so the remote side does not linger
		session.Close()
		return nil, err
	}
	log.WithFields(log.Fields{
		"device":  address,
		"command": command,
		"lines":   len(lines),
	}).Debug("Interactive command executed")
	return lines, nil
}

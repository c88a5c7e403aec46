package sshexec

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"dev.rackwire.net/fabricmap/common"
)

// Runner executes remote commands over SSH with per-unit timeouts. A zero
// Port defaults to 22.
type Runner struct {
	Port           uint
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
}

func (r *Runner) openSSHClient(address string, credential common.Credential) (*ssh.Client, error) {
	sshConfig := ssh.ClientConfig{
		User:            credential.Username,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Auth:            []ssh.AuthMethod{ssh.Password(credential.Password)},
		Timeout:         r.ConnectTimeout,
	}

	port := uint(22)
	if r.Port > 0 {
		port = r.Port
	}
	fullAddress := fmt.Sprintf("%v:%v", address, port)

	sshClient, err := ssh.Dial("tcp", fullAddress, &sshConfig)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"device": address,
			"user":   credential.Username,
		}).Trace("Failed to connect to device")
		return nil, classifyDialError(err)
	}

	return sshClient, nil
}

// classifyDialError maps SSH dial failures onto the failure taxonomy:
// rejected credentials are distinct from network-level unreachability.
func classifyDialError(err error) error {
	message := err.Error()
	if strings.Contains(message, "unable to authenticate") || strings.Contains(message, "no supported methods remain") {
		return fmt.Errorf("%w: %v", common.ErrAuthFailed, err)
	}
	return fmt.Errorf("%w: %v", common.ErrUnreachable, err)
}

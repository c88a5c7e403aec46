package sshexec

import (
	"io"
	"regexp"
	"strings"
)

var ansiEscapeRegex = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// followStreamChunks reads the stream in the background and returns a channel
// of raw chunks. The channel closes on EOF or read error.
func followStreamChunks(reader io.Reader) <-chan string {
	outChannel := make(chan string, 256)

	go func() {
		defer close(outChannel)
		buffer := make([]byte, 4096)
		for {
			numBytes, err := reader.Read(buffer)
			if numBytes > 0 {
				outChannel <- string(buffer[:numBytes])
			}
			if err != nil {
				return
			}
		}
	}()

	return outChannel
}

// tailLine returns the content after the last newline, carriage returns
// stripped. Prompts arrive without a trailing newline, so matching happens
// against this fragment.
func tailLine(buffer string) string {
	if idx := strings.LastIndexByte(buffer, '\n'); idx >= 0 {
		buffer = buffer[idx+1:]
	}
	return strings.ReplaceAll(buffer, "\r", "")
}

// CleanOutput post-processes captured command output: strips carriage
// returns and ANSI artifacts, drops the echoed command text and prompt
// lines, and trims surrounding blank lines. A nil prompt skips prompt
// stripping (line mode has no prompt artifacts).
func CleanOutput(raw string, command string, prompt *regexp.Regexp) []string {
	raw = ansiEscapeRegex.ReplaceAllString(raw, "")
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.ReplaceAll(line, "\r", "")
		trimmed := strings.TrimSpace(line)
		if command != "" && (trimmed == command || strings.HasSuffix(trimmed, " "+command)) {
			continue
		}
		if prompt != nil && prompt.MatchString(trimmed) {
			continue
		}
		lines = append(lines, line)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

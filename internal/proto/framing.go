package proto

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// WriteCommand writes one command line to the control channel. Commands
// are single-line by protocol, so embedded line breaks are rejected rather
// than smuggled.
func WriteCommand(dst io.Writer, cmd string) error {
	if cmd == "" || strings.ContainsAny(cmd, "\r\n") {
		return errors.Errorf("invalid control command %q", cmd)
	}
	if _, err := io.WriteString(dst, cmd+"\n"); err != nil {
		return errors.Wrapf(err, "could not send %q command", cmd)
	}
	return nil
}

// ReadResponse reads the server's whole response. The server writes its
// response and closes, so read-to-EOF is the framing.
func ReadResponse(src io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "could not read control response")
	}
	return raw, nil
}

// ExtractPayload drops any human preamble lines ahead of the structured
// payload and returns the payload. Some control tools echo the command or
// print a status line before the data; the payload is recognized as the
// first line opening a JSON value.
func ExtractPayload(raw []byte) ([]byte, error) {
	lines := bytes.Split(raw, []byte("\n"))
	for i, line := range lines {
		t := bytes.TrimSpace(line)
		if len(t) > 0 && (t[0] == '{' || t[0] == '[') {
			return bytes.Join(lines[i:], []byte("\n")), nil
		}
	}
	return nil, errors.New("no structured payload in response")
}

// ReadAck reads the acknowledgement line of a lifecycle command: the first
// non-empty line of the response, trimmed.
func ReadAck(src io.Reader) (string, error) {
	raw, err := ReadResponse(src)
	if err != nil {
		return "", err
	}
	for _, line := range bytes.Split(raw, []byte("\n")) {
		t := bytes.TrimSpace(line)
		if len(t) > 0 {
			return string(t), nil
		}
	}
	return "", errors.New("no acknowledgement in response")
}

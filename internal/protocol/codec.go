package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Delimiter terminates every frame on the wire.
const Delimiter = '\n'

const initialBufferSize = 4096

var (
	ErrMalformedMessage = errors.New("invalid message format")
	ErrMissingType      = errors.New("message type is required")
	ErrFrameTooLarge    = errors.New("frame exceeds maximum size")
)

// Encode builds one frame: the JSON envelope followed by the delimiter.
func Encode(msgType string, payload any) ([]byte, error) {
	if payload == nil {
		payload = struct{}{}
	}

	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	frame, err := json.Marshal(Message{Type: msgType, Payload: rawPayload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return append(frame, Delimiter), nil
}

// Parse decodes one frame (without delimiter) into an envelope.
func Parse(frame []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	if msg.Type == "" {
		return nil, ErrMissingType
	}

	return &msg, nil
}

// DecodePayload unmarshals an envelope payload. An absent payload decodes as {}.
func DecodePayload(msg *Message, dst any) error {
	if len(msg.Payload) == 0 || bytes.Equal(msg.Payload, []byte("null")) {
		return nil
	}

	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	return nil
}

// Decoder splits a byte stream into frames. Partial trailing data stays
// buffered until its delimiter arrives and is dropped if the stream ends first.
type Decoder struct {
	scanner *bufio.Scanner
}

func NewDecoder(r io.Reader, maxFrameBytes int) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(initialBufferSize, maxFrameBytes)), maxFrameBytes)
	scanner.Split(scanFrames)

	return &Decoder{scanner: scanner}
}

// Next returns the next non-empty frame. It returns io.EOF once the stream is exhausted.
func (that *Decoder) Next() ([]byte, error) {
	for that.scanner.Scan() {
		frame := that.scanner.Bytes()
		if len(bytes.TrimSpace(frame)) == 0 {
			continue
		}

		out := make([]byte, len(frame))
		copy(out, frame)

		return out, nil
	}

	err := that.scanner.Err()
	switch {
	case err == nil:
		return nil, io.EOF
	case errors.Is(err, bufio.ErrTooLong):
		return nil, ErrFrameTooLarge
	default:
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
}

func scanFrames(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.IndexByte(data, Delimiter); i >= 0 {
		return i + 1, bytes.TrimSuffix(data[:i], []byte{'\r'}), nil
	}

	if atEOF {
		return len(data), nil, nil
	}

	return 0, nil, nil
}

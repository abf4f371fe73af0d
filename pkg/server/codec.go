package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Encoder writes protocol messages to an io.Writer, one JSON document per
// line. Writes are serialized so a worker emitting info messages never
// interleaves bytes with the loop's responses.
type Encoder struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewEncoder creates a new protocol encoder.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w: bufio.NewWriter(w),
	}
}

// Encode writes one message to the output stream and flushes it.
func (e *Encoder) Encode(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.w.Write(data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := e.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return nil
}

// Decoder reads protocol lines from an io.Reader.
type Decoder struct {
	r *bufio.Scanner
}

// NewDecoder creates a new protocol decoder.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	// Inline playbook and inventory values can make requests large.
	const maxCapacity = 10 * 1024 * 1024 // 10 MB
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)
	return &Decoder{
		r: scanner,
	}
}

// Next returns the next raw line, or io.EOF when the stream ends. Blank
// lines are skipped.
func (d *Decoder) Next() ([]byte, error) {
	for d.r.Scan() {
		line := d.r.Bytes()
		if len(line) == 0 {
			continue
		}
		return line, nil
	}
	if err := d.r.Err(); err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	return nil, io.EOF
}

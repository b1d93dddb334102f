// Package envelope defines the single-line JSON result printed by the chat invoker.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Result is the tagged union {success, content|error}.
type Result struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps a successful response.
func OK(content string) Result {
	return Result{Success: true, Content: content}
}

// Fail wraps an error message.
func Fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

// FromError converts err into a failed Result.
func FromError(err error) Result {
	if err == nil {
		return Fail("unknown error")
	}
	return Fail(err.Error())
}

// Write emits r as one compact JSON object without a trailing newline.
func Write(w io.Writer, r Result) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// Decode parses a Result written by Write.
func Decode(r io.Reader) (Result, error) {
	var out Result
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}
	if !out.Success && out.Error == "" {
		return out, errors.New("decode result: failure without error message")
	}
	return out, nil
}

// Package testutil provides testing utilities for passlaunch.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	pkgexec "github.com/systmms/passlaunch/pkg/exec"
)

// MockCommandExecutor provides a configurable mock for testing backends
// without pass, gpg or WSL installed.
type MockCommandExecutor struct {
	mu sync.Mutex

	// Responses maps command patterns to their mock responses.
	// Key format: "command arg1 arg2" (space-separated command and args)
	Responses map[string]MockResponse

	// Sequences maps command patterns to responses returned one per call.
	// The last response repeats once the sequence is exhausted.
	Sequences map[string][]MockResponse

	// DefaultResponse is used when no matching pattern is found.
	DefaultResponse *MockResponse

	// RecordedCalls stores all calls made to the executor for verification.
	RecordedCalls []RecordedCall

	// StrictMode causes Execute to fail if no matching response is found.
	StrictMode bool
}

// MockResponse defines the expected output for a mocked command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// RecordedCall stores information about a command execution.
type RecordedCall struct {
	Command string
	Args    []string
	Env     map[string]string
	Visible bool
	Context context.Context
}

// Key returns the call in pattern format.
func (c RecordedCall) Key() string {
	return buildKey(c.Command, c.Args)
}

var _ pkgexec.CommandExecutor = (*MockCommandExecutor)(nil)

// NewMockCommandExecutor creates a new mock executor with empty responses.
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Responses:     make(map[string]MockResponse),
		Sequences:     make(map[string][]MockResponse),
		RecordedCalls: make([]RecordedCall, 0),
	}
}

// Execute returns the mocked response for the given command.
func (m *MockCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return m.ExecuteWithOptions(ctx, pkgexec.Options{}, name, args...)
}

// ExecuteWithOptions records the options alongside the call and returns the
// mocked response.
func (m *MockCommandExecutor) ExecuteWithOptions(ctx context.Context, opts pkgexec.Options, name string, args ...string) ([]byte, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RecordedCalls = append(m.RecordedCalls, RecordedCall{
		Command: name,
		Args:    args,
		Env:     opts.Env,
		Visible: opts.Visible,
		Context: ctx,
	})

	key := buildKey(name, args)

	if pattern, ok := matchPattern(key, m.Sequences); ok && len(m.Sequences[pattern]) > 0 {
		seq := m.Sequences[pattern]
		resp := seq[0]
		if len(seq) > 1 {
			m.Sequences[pattern] = seq[1:]
		}
		return resp.Stdout, resp.Stderr, resp.Err
	}

	if pattern, ok := matchPattern(key, m.Responses); ok {
		resp := m.Responses[pattern]
		return resp.Stdout, resp.Stderr, resp.Err
	}

	if m.DefaultResponse != nil {
		return m.DefaultResponse.Stdout, m.DefaultResponse.Stderr, m.DefaultResponse.Err
	}

	if m.StrictMode {
		return nil, nil, fmt.Errorf("mock: no response configured for command: %s", key)
	}

	return []byte{}, []byte{}, nil
}

// matchPattern finds the pattern for key: an exact match first, otherwise
// the longest pattern that key starts with.
func matchPattern[V any](key string, patterns map[string]V) (string, bool) {
	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, pattern := range keys {
		if key == pattern || strings.HasPrefix(key, pattern) {
			return pattern, true
		}
	}
	return "", false
}

func buildKey(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// AddResponse registers a mock response for a specific command pattern.
func (m *MockCommandExecutor) AddResponse(commandPattern string, response MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[commandPattern] = response
}

// AddSequence registers responses returned in order for a command pattern.
func (m *MockCommandExecutor) AddSequence(commandPattern string, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sequences[commandPattern] = responses
}

// AddOutput is a convenience method to add a successful response.
func (m *MockCommandExecutor) AddOutput(commandPattern string, stdout string) {
	m.AddResponse(commandPattern, MockResponse{Stdout: []byte(stdout)})
}

// AddErrorResponse adds an error response for a command pattern.
func (m *MockCommandExecutor) AddErrorResponse(commandPattern string, errMsg string, err error) {
	m.AddResponse(commandPattern, MockResponse{
		Stdout: []byte{},
		Stderr: []byte(errMsg),
		Err:    err,
	})
}

// GetCalls returns all recorded calls matching the given command name.
func (m *MockCommandExecutor) GetCalls(commandName string) []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []RecordedCall
	for _, call := range m.RecordedCalls {
		if call.Command == commandName {
			matches = append(matches, call)
		}
	}
	return matches
}

// Calls returns a copy of every recorded call.
func (m *MockCommandExecutor) Calls() []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedCall(nil), m.RecordedCalls...)
}

// CallCount returns the number of times the executor was called.
func (m *MockCommandExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.RecordedCalls)
}

// Reset clears all recorded calls and responses.
func (m *MockCommandExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses = make(map[string]MockResponse)
	m.Sequences = make(map[string][]MockResponse)
	m.RecordedCalls = make([]RecordedCall, 0)
	m.DefaultResponse = nil
}

// AssertCalled verifies that a specific command was called at least once.
func (m *MockCommandExecutor) AssertCalled(t interface{ Error(args ...interface{}) }, commandName string) bool {
	calls := m.GetCalls(commandName)
	if len(calls) == 0 {
		t.Error("expected command", commandName, "to be called, but it was not")
		return false
	}
	return true
}

// AssertNotCalled verifies that a specific command was never called.
func (m *MockCommandExecutor) AssertNotCalled(t interface{ Error(args ...interface{}) }, commandName string) bool {
	calls := m.GetCalls(commandName)
	if len(calls) > 0 {
		t.Error("expected command", commandName, "to not be called, but it was called", len(calls), "times")
		return false
	}
	return true
}

// AssertCallCount verifies the exact number of times a command was called.
func (m *MockCommandExecutor) AssertCallCount(t interface{ Error(args ...interface{}) }, commandName string, expected int) bool {
	calls := m.GetCalls(commandName)
	if len(calls) != expected {
		t.Error("expected command", commandName, "to be called", expected, "times, but was called", len(calls), "times")
		return false
	}
	return true
}

// PassMockResponses provides pre-configured responses for the pass CLI.
type PassMockResponses struct{}

// Show returns a decrypted entry with a password line and metadata.
func (PassMockResponses) Show(password string) MockResponse {
	return MockResponse{
		Stdout: []byte(password + "\nUsername: testuser\nURL: https://example.com\n"),
	}
}

// Empty simulates a gpg run that printed nothing because its passphrase
// prompt could not reach the user.
func (PassMockResponses) Empty() MockResponse {
	return MockResponse{Stdout: []byte{}}
}

// NotInStore is pass's answer for a missing entry.
func (PassMockResponses) NotInStore(name string) MockResponse {
	return MockResponse{
		Stderr: []byte(fmt.Sprintf("Error: %s is not in the password store.\n", name)),
		Err:    fmt.Errorf("exit status 1"),
	}
}

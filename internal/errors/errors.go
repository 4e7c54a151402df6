package errors

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents a command execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
	Err        error
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

func (e CommandError) Unwrap() error {
	return e.Err
}

// FromExec converts the result of a failed external invocation into a
// CommandError. Missing executables are reported through WrapCommandNotFound.
func FromExec(command string, stderr []byte, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return WrapCommandNotFound(toolName(command), err)
	}

	cmdErr := CommandError{
		Command: command,
		Message: strings.TrimSpace(string(stderr)),
		Err:     err,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}
	if cmdErr.Message == "" {
		cmdErr.Message = err.Error()
	}
	cmdErr.Suggestion = getBackendSuggestion(toolName(command), cmdErr.Message)

	return cmdErr
}

func toolName(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return command
	}
	return fields[0]
}

// BackendError enhances backend-specific errors with context. The wrapped
// error stays reachable through errors.As.
func BackendError(backend string, operation string, err error) error {
	suggestion := getBackendSuggestion(backend, err.Error())
	details := err.Error()

	var cmdErr CommandError
	if errors.As(err, &cmdErr) {
		details = cmdErr.Command + ": " + cmdErr.Message
		if suggestion == "" {
			suggestion = cmdErr.Suggestion
		}
	}

	return UserError{
		Message:    fmt.Sprintf("%s backend error during %s", backend, operation),
		Details:    details,
		Suggestion: suggestion,
		Err:        err,
	}
}

// getBackendSuggestion returns helpful suggestions based on the tool and error text
func getBackendSuggestion(tool string, errStr string) string {
	switch tool {
	case "pass", "native":
		if strings.Contains(errStr, "not in the password store") {
			return "Check the entry name with 'pass ls' or 'passlaunch list'"
		}
		if strings.Contains(errStr, "decryption failed") {
			return "Make sure your GPG secret key is available and gpg-agent is running"
		}

	case "bash", "wsl", "wslpath":
		if strings.Contains(errStr, "not in the password store") {
			return "Check the entry name with 'wsl pass ls'"
		}
		if strings.Contains(errStr, "pass: command not found") {
			return "Install pass inside your WSL distribution (apt install pass)"
		}
		if strings.Contains(errStr, "wslpath") {
			return "Make sure the default WSL distribution is installed and running"
		}

	case "gpg", "gpg.exe", "gpg4win":
		if strings.Contains(errStr, "No secret key") || strings.Contains(errStr, "decryption failed") {
			return "Import the secret key used by the password store into your GPG keyring"
		}
		if strings.Contains(errStr, "can't open") || strings.Contains(errStr, "No such file") {
			return "Check the store path in your passlaunch settings"
		}
	}

	if strings.Contains(errStr, "Operation cancelled") || strings.Contains(errStr, "canceled") {
		return "The passphrase prompt was cancelled. Try again and enter your passphrase"
	}
	if strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check that gpg-agent is responsive and try again"
	}

	return ""
}

// WrapCommandNotFound wraps command not found errors with helpful suggestions
func WrapCommandNotFound(command string, err error) error {
	suggestions := map[string]string{
		"pass":    "Install pass from https://www.passwordstore.org/",
		"gpg":     "Install GnuPG from https://gnupg.org/download/",
		"gpg.exe": "Install Gpg4win from https://www.gpg4win.org/",
		"bash":    "Enable WSL and install a Linux distribution: 'wsl --install'",
		"wslpath": "wslpath ships with WSL; make sure you are running a WSL distribution",
	}

	suggestion := suggestions[command]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	}

	return CommandError{
		Command:    command,
		Message:    "command not found",
		Suggestion: suggestion,
		Err:        err,
	}
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	// Already a user-friendly error
	if _, ok := err.(UserError); ok {
		return err
	}
	if _, ok := err.(ConfigError); ok {
		return err
	}
	if _, ok := err.(CommandError); ok {
		return err
	}

	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "json:") {
		return ConfigError{
			Message:    "Invalid JSON format",
			Suggestion: "Check for trailing characters or unbalanced braces",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	return err
}

// Package backend turns password store operations into invocations of the
// external pass/GPG toolchain.
//
// Three kinds exist: native runs pass directly, wsl runs pass inside the
// Windows Subsystem for Linux through bash, and gpg decrypts entry files
// with a Windows-native gpg binary. All three enumerate entries by walking
// the store directory as the host sees it.
package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	dserrors "github.com/systmms/passlaunch/internal/errors"
	"github.com/systmms/passlaunch/internal/logging"
	"github.com/systmms/passlaunch/internal/metrics"
	pkgexec "github.com/systmms/passlaunch/pkg/exec"
)

// EnvStoreDir tells pass where the store lives.
const EnvStoreDir = "PASSWORD_STORE_DIR"

// EntryExt is the extension of encrypted entry files.
const EntryExt = ".gpg"

// Backend is the capability set every kind implements.
type Backend interface {
	// Kind identifies the implementation.
	Kind() Kind

	// DefaultStorePath guesses the store root from the environment. It may
	// run external commands and never fails; a fixed fallback is returned
	// when nothing better is found.
	DefaultStorePath(ctx context.Context) string

	// SetStorePath expands environment variables in path and uses the
	// result as the store root.
	SetStorePath(ctx context.Context, path string)

	// StorePath returns the store root as the host filesystem sees it.
	StorePath() string

	// ListEntries returns every entry name in filesystem enumeration order.
	ListEntries() ([]string, error)

	// GetContents decrypts one entry and returns its text verbatim.
	GetContents(ctx context.Context, name string) (string, error)

	// GetPassword returns the first line of GetContents.
	GetPassword(ctx context.Context, name string) (string, error)

	// Validate checks that the external tools are reachable.
	Validate(ctx context.Context) error
}

// Kind is one of the closed set of backend implementations.
type Kind string

const (
	KindNative Kind = "native"
	KindWSL    Kind = "wsl"
	KindGPG    Kind = "gpg"
)

// aliases accepts the names used by earlier plugin releases.
var aliases = map[string]Kind{
	"shell":   KindNative,
	"gpg4win": KindGPG,
}

// Options carries the collaborators shared by every backend.
type Options struct {
	Executor pkgexec.CommandExecutor
	Logger   *logging.Logger
	Metrics  *metrics.Recorder

	// GPGBinary is the executable used by the gpg backend.
	GPGBinary string

	// LookupEnv and HomeDir default to os.LookupEnv and os.UserHomeDir.
	LookupEnv func(string) (string, bool)
	HomeDir   func() (string, error)
}

func (o Options) withDefaults() Options {
	if o.Executor == nil {
		o.Executor = pkgexec.DefaultExecutor()
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.GPGBinary == "" {
		o.GPGBinary = "gpg"
	}
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	if o.HomeDir == nil {
		o.HomeDir = os.UserHomeDir
	}
	return o
}

// Factory builds a backend of one kind.
type Factory func(opts Options) Backend

var factories = map[Kind]Factory{
	KindNative: func(opts Options) Backend { return newNative(opts) },
	KindWSL:    func(opts Options) Backend { return newWSL(opts) },
	KindGPG:    func(opts Options) Backend { return newGPG(opts) },
}

// Kinds returns the supported kinds, sorted.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseKind validates a backend identifier from the settings file.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if k, ok := aliases[name]; ok {
		return k, nil
	}
	if _, ok := factories[Kind(name)]; ok {
		return Kind(name), nil
	}

	names := make([]string, 0, len(factories))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return "", dserrors.ConfigError{
		Field:      "backend",
		Value:      s,
		Message:    "unknown backend",
		Suggestion: fmt.Sprintf("Use one of: %s", strings.Join(names, ", ")),
	}
}

// New builds a backend of the given kind. The store path is left empty;
// callers set it with SetStorePath, typically from DefaultStorePath.
func New(kind Kind, opts Options) (Backend, error) {
	factory, ok := factories[kind]
	if !ok {
		_, err := ParseKind(string(kind))
		return nil, err
	}
	return factory(opts.withDefaults()), nil
}

// EntryName converts a path relative to the store root into an entry name.
func EntryName(rel string) string {
	name := strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/")
	return strings.TrimSuffix(name, EntryExt)
}

// FirstLine returns line 0 of decrypted contents.
func FirstLine(contents string) string {
	line, _, _ := strings.Cut(contents, "\n")
	return strings.TrimSuffix(line, "\r")
}

package supplement

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is the kind of a Condition raised when an override
	// script exists but cannot be read.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrMalformedResolver is the kind of a Condition raised when an override
	// script fails to evaluate, does not export a callable resolve, or the
	// resolver misbehaves when called.
	ErrMalformedResolver = errors.New("malformed resolver")
	// ErrFilesystem is the kind of a Condition raised when a directory or file
	// cannot be listed or read.
	ErrFilesystem = errors.New("filesystem error")
	// ErrNoApplicableResolver is the kind of a Condition raised when a file lies
	// outside every known project root.
	ErrNoApplicableResolver = errors.New("no applicable resolver")
)

// Condition is a non-fatal failure surfaced to the host for notification.
// errors.Is matches both the Kind and the underlying Err.
type Condition struct {
	// Kind is one of the Err* sentinels in this package.
	Kind error
	// Root is the project root concerned, if any.
	Root string
	// Path is the file or directory concerned.
	Path string
	// Err is the underlying cause, may be nil.
	Err error
}

func (c *Condition) Error() string {
	msg := c.Kind.Error()
	if c.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, c.Path)
	}
	if c.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, c.Err)
	}
	return msg
}

func (c *Condition) Unwrap() []error {
	if c.Err == nil {
		return []error{c.Kind}
	}
	return []error{c.Kind, c.Err}
}

// Reporter receives conditions as they occur.
type Reporter func(c *Condition)

// PermissionDenied constructs a Condition of kind ErrPermissionDenied.
func PermissionDenied(root, path string, err error) *Condition {
	return &Condition{Kind: ErrPermissionDenied, Root: root, Path: path, Err: err}
}

// MalformedResolver constructs a Condition of kind ErrMalformedResolver.
func MalformedResolver(root, path string, err error) *Condition {
	return &Condition{Kind: ErrMalformedResolver, Root: root, Path: path, Err: err}
}

// FilesystemError constructs a Condition of kind ErrFilesystem.
func FilesystemError(root, path string, err error) *Condition {
	return &Condition{Kind: ErrFilesystem, Root: root, Path: path, Err: err}
}

// NoApplicableResolver constructs a Condition of kind ErrNoApplicableResolver.
func NoApplicableResolver(path string) *Condition {
	return &Condition{Kind: ErrNoApplicableResolver, Path: path}
}

// AsCondition returns the Condition in err's chain, if there is one.
func AsCondition(err error) (*Condition, bool) {
	var c *Condition
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}

package fs

import (
	"errors"
	"os"
	"sync"
)

// Op names an [FS] operation that [Injected] can fail.
type Op string

// Operations that can be failed.
const (
	OpOpenFile        Op = "openfile"
	OpReadFile        Op = "readfile"
	OpWriteFileAtomic Op = "writefileatomic"
	OpMkdirAll        Op = "mkdirall"
	OpStat            Op = "stat"
)

// InjectedError marks an error as intentionally injected by [Injected].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Op   Op
	Path string
	Err  error
}

func (e *InjectedError) Error() string {
	return string(e.Op) + " " + e.Path + ": " + e.Err.Error()
}

func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) came from [Injected].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Injected wraps an [FS] and fails selected operations on selected paths.
// It also records every successful write, in order.
//
// Safe for concurrent use.
type Injected struct {
	inner FS

	mu     sync.Mutex
	fail   map[Op]map[string]error
	writes []string
}

// NewInjected wraps inner.
func NewInjected(inner FS) *Injected {
	return &Injected{inner: inner, fail: make(map[Op]map[string]error)}
}

// FailOn makes op on path return err (wrapped in [InjectedError]).
func (f *Injected) FailOn(op Op, path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail[op] == nil {
		f.fail[op] = make(map[string]error)
	}

	f.fail[op][path] = err
}

// Writes returns the paths successfully written with WriteFileAtomic.
func (f *Injected) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.writes...)
}

func (f *Injected) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.fail[op][path]; ok {
		return &InjectedError{Op: op, Path: path, Err: err}
	}

	return nil
}

func (f *Injected) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if err := f.check(OpOpenFile, path); err != nil {
		return nil, err
	}

	return f.inner.OpenFile(path, flag, perm)
}

func (f *Injected) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile, path); err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

func (f *Injected) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWriteFileAtomic, path); err != nil {
		return err
	}

	if err := f.inner.WriteFileAtomic(path, data, perm); err != nil {
		return err
	}

	f.mu.Lock()
	f.writes = append(f.writes, path)
	f.mu.Unlock()

	return nil
}

func (f *Injected) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}

	return f.inner.MkdirAll(path, perm)
}

func (f *Injected) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat, path); err != nil {
		return nil, err
	}

	return f.inner.Stat(path)
}

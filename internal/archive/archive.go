// Package archive moves completed items from the live TODO document into the
// history archive.
//
// A run reads both documents, derives the history delta and the pruned TODO
// with the [outline] filters, merges the delta into the archive and rewrites
// both files. Every read and every computation happens before the first
// write; the archive is written before the live document, so an interrupted
// run never loses a completed item (at worst it stays in both files and the
// next run deduplicates it).
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/angch/vimp/internal/fs"
	"github.com/angch/vimp/internal/outline"
)

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// Archiver runs the archive pipeline for one resolved [Config].
type Archiver struct {
	fs     fs.FS
	locker *fs.Locker
	cfg    Config
}

// New creates an Archiver over fsys.
func New(fsys fs.FS, cfg Config) *Archiver {
	return &Archiver{
		fs:     fsys,
		locker: fs.NewLocker(fsys),
		cfg:    cfg,
	}
}

// Config returns the resolved configuration.
func (a *Archiver) Config() Config {
	return a.cfg
}

// RunOptions controls a single run.
type RunOptions struct {
	// DryRun computes the plan but writes nothing.
	DryRun bool

	// SkipUnchanged leaves a file alone when its new content equals what is
	// on disk.
	SkipUnchanged bool

	// Confirm, if set, is called with the computed plan before anything is
	// written. Returning false aborts the run with [ErrAborted].
	Confirm func(*Plan) (bool, error)

	// Logf, if set, receives one line per pipeline phase.
	Logf func(format string, args ...any)
}

func (o RunOptions) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Plan is the computed outcome of a run before anything is written.
type Plan struct {
	TodoContent    []byte
	HistoryContent []byte

	oldTodo    document
	oldHistory document

	Result Result
}

// TodoChanged reports whether writing the plan would change the live document.
func (p *Plan) TodoChanged() bool {
	return p.oldTodo.differs(p.TodoContent)
}

// HistoryChanged reports whether writing the plan would change the archive.
func (p *Plan) HistoryChanged() bool {
	return p.oldHistory.differs(p.HistoryContent)
}

// Result describes a finished (or planned) run.
type Result struct {
	TodoPath     string // as configured, for display
	HistoryPath  string // as configured, for display
	TodoLines    int
	HistoryLines int

	// Remaining is the number of pending items left in the live document.
	Remaining int

	// Archived is the number of completed items taken out of the live
	// document. Items already present in the archive are not duplicated.
	Archived int

	// Changed reports whether either file's new content differs from disk.
	Changed bool

	TodoWritten    bool
	HistoryWritten bool
}

// Summary returns the four-line human summary of the run.
func (r Result) Summary() []string {
	return []string{
		"Cleanup complete.",
		fmt.Sprintf("History written to %s (%d lines)", r.HistoryPath, r.HistoryLines),
		fmt.Sprintf("TODO updated %s (%d lines)", r.TodoPath, r.TodoLines),
		fmt.Sprintf("Remaining items: %d", r.Remaining),
	}
}

// Run takes the run lock, computes the plan, optionally asks for
// confirmation, and writes both documents.
func (a *Archiver) Run(ctx context.Context, opts RunOptions) (Result, error) {
	unlock, err := a.lock(opts)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	plan, err := a.Plan(opts)
	if err != nil {
		return Result{}, err
	}

	if opts.DryRun {
		return plan.Result, nil
	}

	if opts.Confirm != nil {
		ok, confirmErr := opts.Confirm(plan)
		if confirmErr != nil {
			return Result{}, fmt.Errorf("confirm: %w", confirmErr)
		}

		if !ok {
			return plan.Result, ErrAborted
		}
	}

	if err := a.Apply(ctx, plan, opts); err != nil {
		return plan.Result, err
	}

	return plan.Result, nil
}

// Plan reads both documents and computes their new content. Nothing is
// written and no lock is taken.
func (a *Archiver) Plan(opts RunOptions) (*Plan, error) {
	todoDoc, err := a.read(a.cfg.TodoFileAbs)
	if err != nil {
		return nil, err
	}

	opts.logf("read %s (%d bytes, exists=%t)", a.cfg.TodoFile, len(todoDoc.content), todoDoc.exists)

	historyDoc, err := a.read(a.cfg.HistoryFileAbs)
	if err != nil {
		return nil, err
	}

	opts.logf("read %s (%d bytes, exists=%t)", a.cfg.HistoryFile, len(historyDoc.content), historyDoc.exists)

	root := outline.ParseString(string(todoDoc.content))
	delta := outline.FilterHistory(root)
	todo := outline.FilterTodo(root)

	archived := outline.CountKind(root, outline.KindTaskDone)
	opts.logf("parsed %s: %d pending, %d completed", a.cfg.TodoFile, outline.CountTodos(root), archived)

	// The delta is titled like the archive before merging, so its top
	// heading matches the archive's instead of landing beside it.
	todoName := filepath.Base(a.cfg.TodoFile)
	outline.NormalizeTitle(delta, todoName, a.cfg.HistoryTitle)

	history := outline.MergeInto(outline.ParseString(string(historyDoc.content)), delta)
	outline.NormalizeTitle(history, todoName, a.cfg.HistoryTitle)

	historyLines := outline.Flatten(history)
	todoLines := outline.Flatten(todo)

	plan := &Plan{
		TodoContent:    outline.Render(todoLines),
		HistoryContent: outline.Render(historyLines),
		oldTodo:        todoDoc,
		oldHistory:     historyDoc,
		Result: Result{
			TodoPath:     a.cfg.TodoFile,
			HistoryPath:  a.cfg.HistoryFile,
			TodoLines:    len(todoLines),
			HistoryLines: len(historyLines),
			Remaining:    outline.CountTodos(todo),
			Archived:     archived,
		},
	}

	plan.Result.Changed = plan.TodoChanged() || plan.HistoryChanged()

	opts.logf("planned %s: %d lines, changed=%t", a.cfg.HistoryFile, len(historyLines), plan.HistoryChanged())
	opts.logf("planned %s: %d lines, changed=%t", a.cfg.TodoFile, len(todoLines), plan.TodoChanged())

	return plan, nil
}

// Apply writes a computed plan: the archive first, then the live document.
// ctx is checked once before the first write.
func (a *Archiver) Apply(ctx context.Context, plan *Plan, opts RunOptions) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("before writing: %w", err)
	}

	if !opts.SkipUnchanged || plan.HistoryChanged() {
		if err := a.fs.MkdirAll(filepath.Dir(a.cfg.HistoryFileAbs), dirPerms); err != nil {
			return fmt.Errorf("creating archive directory: %w", err)
		}

		if err := a.fs.WriteFileAtomic(a.cfg.HistoryFileAbs, plan.HistoryContent, filePerms); err != nil {
			return fmt.Errorf("writing %s: %w", a.cfg.HistoryFile, err)
		}

		plan.Result.HistoryWritten = true
		opts.logf("wrote %s", a.cfg.HistoryFile)
	}

	if !opts.SkipUnchanged || plan.TodoChanged() {
		if err := a.fs.WriteFileAtomic(a.cfg.TodoFileAbs, plan.TodoContent, filePerms); err != nil {
			return fmt.Errorf("writing %s (%s already updated): %w", a.cfg.TodoFile, a.cfg.HistoryFile, err)
		}

		plan.Result.TodoWritten = true
		opts.logf("wrote %s", a.cfg.TodoFile)
	}

	return nil
}

// lock takes the run lock unless disabled by config or the run is a dry
// run. The returned func releases it.
func (a *Archiver) lock(opts RunOptions) (func(), error) {
	if !a.cfg.UseLock || opts.DryRun {
		return func() {}, nil
	}

	lk, err := a.locker.LockWithTimeout(fs.LockPathFor(a.cfg.TodoFileAbs), a.cfg.LockTimeoutDuration)
	if err != nil {
		if errors.Is(err, fs.ErrWouldBlock) {
			return nil, fmt.Errorf("%w: %w", ErrLocked, err)
		}

		return nil, fmt.Errorf("acquiring lock: %w", err)
	}

	return func() { _ = lk.Close() }, nil
}

// document is a file as read from disk.
type document struct {
	content []byte
	exists  bool
}

func (d document) differs(content []byte) bool {
	return !d.exists || !bytes.Equal(d.content, content)
}

// read returns the file at path. A missing file is an empty document.
func (a *Archiver) read(path string) (document, error) {
	data, err := a.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document{}, nil
		}

		return document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return document{content: data, exists: true}, nil
}

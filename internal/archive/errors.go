package archive

import "errors"

// Error variables for archive operations.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrTodoFileEmpty      = errors.New("todo-file cannot be empty")
	ErrHistoryFileEmpty   = errors.New("history-file cannot be empty")
	ErrSameFile           = errors.New("todo-file and history-file must differ")
	ErrLockTimeoutInvalid = errors.New("lock_timeout must be a positive duration")
	ErrFlagRequiresArg    = errors.New("flag requires an argument")
	ErrUnknownFlag        = errors.New("unknown flag")
	ErrUnexpectedArgument = errors.New("unexpected argument")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrUnknownDocument    = errors.New("unknown document (want todo or history)")
	ErrDocumentRequired   = errors.New("document required (todo or history)")
	ErrLocked             = errors.New("another run holds the lock")
	ErrAborted            = errors.New("aborted, nothing written")
	ErrNothingArchived    = errors.New("no completed items to archive")
)

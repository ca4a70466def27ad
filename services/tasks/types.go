package tasks

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrUnknownKind = errors.New("unknown task kind")

type Kind string

const (
	KindPreview  Kind = "preview"
	KindDownload Kind = "download"
)

// Supersedes reports whether starting a task of this kind cancels the running one. Downloads
// always run to completion; only their results are dropped once a newer download starts.
func (k Kind) Supersedes() bool {
	return k == KindPreview
}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPreview, KindDownload:
		return Kind(s), nil
	}
	return "", ErrUnknownKind
}

type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusStale     Status = "stale"
)

// Task is a snapshot of one background operation.
type Task struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Status     Status    `json:"status"`
	Result     any       `json:"-"`
	Err        error     `json:"-"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`

	generation uint64
}

type Func func(ctx context.Context) (any, error)

type Handler func(ctx context.Context, t Task)

// historySize bounds how many finished tasks Get can still find.
const historySize = 64

// Runner runs one goroutine per task. Only the newest task of a kind reaches the OnDone
// handlers; older ones finish as stale. Kinds that supersede also cancel the older task.
type Runner struct {
	ctx context.Context

	mu          sync.Mutex
	generations map[Kind]uint64
	current     map[Kind]string
	cancels     map[string]context.CancelFunc
	latest      map[Kind]Task
	byID        map[string]Task
	history     []string
	handlers    map[Kind][]Handler

	deliverMu sync.Mutex
	wg        sync.WaitGroup
}

func NewRunner(ctx context.Context) *Runner {
	return &Runner{
		ctx:         ctx,
		generations: make(map[Kind]uint64),
		current:     make(map[Kind]string),
		cancels:     make(map[string]context.CancelFunc),
		latest:      make(map[Kind]Task),
		byID:        make(map[string]Task),
		handlers:    make(map[Kind][]Handler),
	}
}

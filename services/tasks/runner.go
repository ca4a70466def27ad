package tasks

import (
	"context"
	"time"

	"github.com/gcottom/go-zaplog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OnDone registers fn for completed tasks of kind. Handlers run on the task's goroutine.
func (r *Runner) OnDone(kind Kind, fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = append(r.handlers[kind], fn)
}

func (r *Runner) Start(kind Kind, fn Func) *Task {
	r.mu.Lock()
	if prev, ok := r.current[kind]; ok && kind.Supersedes() {
		if cancel, ok := r.cancels[prev]; ok {
			cancel()
		}
	}
	r.generations[kind]++
	ctx, cancel := context.WithCancel(r.ctx)
	t := Task{
		ID:         uuid.NewString(),
		Kind:       kind,
		Status:     StatusRunning,
		StartedAt:  time.Now(),
		generation: r.generations[kind],
	}
	r.current[kind] = t.ID
	r.cancels[t.ID] = cancel
	r.latest[kind] = t
	r.record(t)
	r.mu.Unlock()

	zaplog.InfoC(r.ctx, "task started", zap.String("kind", string(kind)), zap.String("task_id", t.ID))
	r.wg.Add(1)
	go r.run(ctx, cancel, t, fn)
	return &t
}

func (r *Runner) run(ctx context.Context, cancel context.CancelFunc, t Task, fn Func) {
	defer r.wg.Done()
	defer cancel()

	res, err := fn(ctx)

	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()

	r.mu.Lock()
	delete(r.cancels, t.ID)
	t.FinishedAt = time.Now()
	t.Result, t.Err = res, err
	if t.generation != r.generations[t.Kind] {
		t.Status = StatusStale
		r.record(t)
		r.mu.Unlock()
		zaplog.InfoC(r.ctx, "dropping stale task result", zap.String("kind", string(t.Kind)), zap.String("task_id", t.ID), zap.Error(err))
		return
	}
	t.Status = StatusSucceeded
	if err != nil {
		t.Status = StatusFailed
	}
	r.latest[t.Kind] = t
	delete(r.current, t.Kind)
	r.record(t)
	handlers := append([]Handler(nil), r.handlers[t.Kind]...)
	r.mu.Unlock()

	if err != nil {
		zaplog.ErrorC(r.ctx, "task failed", zap.String("kind", string(t.Kind)), zap.String("task_id", t.ID), zap.Error(err))
	} else {
		zaplog.InfoC(r.ctx, "task succeeded", zap.String("kind", string(t.Kind)), zap.String("task_id", t.ID), zap.Duration("took", t.FinishedAt.Sub(t.StartedAt)))
	}
	for _, h := range handlers {
		h(r.ctx, t)
	}
}

// record stores the snapshot for Get. Callers hold r.mu.
func (r *Runner) record(t Task) {
	if _, ok := r.byID[t.ID]; !ok {
		r.history = append(r.history, t.ID)
	}
	r.byID[t.ID] = t
	for len(r.history) > historySize {
		oldest := r.history[0]
		if r.byID[oldest].Status == StatusRunning {
			break
		}
		delete(r.byID, oldest)
		r.history = r.history[1:]
	}
}

// Latest returns the newest task of kind.
func (r *Runner) Latest(kind Kind) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.latest[kind]
	return t, ok
}

// Get returns any recent task by id, including ones that finished stale.
func (r *Runner) Get(id string) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	return t, ok
}

// Wait blocks until every started task has finished and its handlers have returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Cancel stops every running task.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, cancel := range r.cancels {
		cancel()
		delete(r.cancels, id)
	}
}

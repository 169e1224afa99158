package cryptox

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// ErrClosed reports a submission to a closed Hasher.
var ErrClosed = errors.New("cryptox: hasher closed")

// Hasher runs argon2 hashing and verification on a fixed pool of worker
// goroutines so the CPU-bound work never executes on a request-handling
// goroutine. Callers block on the result but their scheduler peers keep
// running; a cancelled context abandons the wait.
type Hasher struct {
	jobs chan func()
	done chan struct{}
}

// NewHasher starts a pool of workers. A non-positive count defaults to
// GOMAXPROCS, the natural ceiling for CPU-bound work.
func NewHasher(workers int) *Hasher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	h := &Hasher{
		jobs: make(chan func()),
		done: make(chan struct{}),
	}
	for range workers {
		go h.work()
	}
	return h
}

func (h *Hasher) work() {
	for {
		select {
		case job := <-h.jobs:
			job()
		case <-h.done:
			return
		}
	}
}

// Close stops the workers. In-flight jobs finish; pending submissions fail
// with ErrClosed.
func (h *Hasher) Close() {
	close(h.done)
}

// Hash computes a PHC-format argon2id hash on the worker pool.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	type result struct {
		hash string
		err  error
	}
	out := make(chan result, 1)

	if err := h.submit(ctx, func() {
		hash, err := HashPassword(password)
		out <- result{hash: hash, err: err}
	}); err != nil {
		return "", err
	}

	select {
	case r := <-out:
		if r.err != nil {
			return "", fmt.Errorf("hash password: %w", r.err)
		}
		return r.hash, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Verify compares a candidate against a stored hash on the worker pool.
// Returns ErrMismatch when the password does not match.
func (h *Hasher) Verify(ctx context.Context, encodedHash, candidate string) error {
	out := make(chan error, 1)

	if err := h.submit(ctx, func() {
		out <- VerifyPassword(candidate, encodedHash)
	}); err != nil {
		return err
	}

	select {
	case err := <-out:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hasher) submit(ctx context.Context, job func()) error {
	// Fail fast on a closed pool or cancelled context so callers get a
	// deterministic error instead of racing the workers.
	select {
	case <-h.done:
		return ErrClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case h.jobs <- job:
		return nil
	case <-h.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

package services

import (
	"CarePoint/database"
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Locker serializes a read-check-write critical section on a named scope.
// Acquire blocks briefly (with retries) and returns a release function. When
// the lock cannot be had, the operation fails as transient and the caller may
// retry.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

const (
	lockExpiry     = 10 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 500 * time.Millisecond
)

// redisLocker backs the Locker with Redis SetNX and a scripted owner-checked
// release.
type redisLocker struct{}

func NewRedisLocker() Locker {
	return &redisLocker{}
}

func (l *redisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	value := uuid.New().String()

	var locked bool
	var err error
	for i := 0; i < lockMaxRetries; i++ {
		locked, err = database.NewLock(ctx, key, value, lockExpiry)
		if err == nil && locked {
			break
		}
		if i < lockMaxRetries-1 {
			select {
			case <-time.After(lockRetryDelay):
			case <-ctx.Done():
				return nil, errors.Wrapf(ErrTransient, "lock wait interrupted: %v", ctx.Err())
			}
		}
	}
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "failed to acquire lock %s: %v", key, err)
	}
	if !locked {
		return nil, errors.Wrapf(ErrTransient, "lock %s held after retries", key)
	}

	release := func() {
		if err := database.ReleaseLock(context.Background(), key, value); err != nil {
			log.Printf("Failed to release lock %s: %v", key, err)
		}
	}
	return release, nil
}

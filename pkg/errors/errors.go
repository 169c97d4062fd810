package errors

import (
	"errors"
	"fmt"
)

// QueueFullError is raised when a job cannot be enqueued because the
// priority queue reached its fixed capacity.
type QueueFullError struct {
	Priority string
	Capacity int
}

func NewQueueFullError(priority string, capacity int) *QueueFullError {
	return &QueueFullError{Priority: priority, Capacity: capacity}
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("job queue %q is full (capacity %d)", e.Priority, e.Capacity)
}

func IsQueueFullError(err error) bool {
	var e *QueueFullError
	return errors.As(err, &e)
}

// FiberPoolExhaustedError is raised when every pooled fiber is running or parked.
type FiberPoolExhaustedError struct {
	PoolSize int
}

func NewFiberPoolExhaustedError(poolSize int) *FiberPoolExhaustedError {
	return &FiberPoolExhaustedError{PoolSize: poolSize}
}

func (e *FiberPoolExhaustedError) Error() string {
	return fmt.Sprintf("no free fiber in pool of %d", e.PoolSize)
}

func IsFiberPoolExhaustedError(err error) bool {
	var e *FiberPoolExhaustedError
	return errors.As(err, &e)
}

// MisuseError reports an API call made in a state where it can never succeed.
type MisuseError struct {
	Op     string
	Reason string
}

func NewMisuseError(op, reason string) *MisuseError {
	return &MisuseError{Op: op, Reason: reason}
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func IsMisuseError(err error) bool {
	var e *MisuseError
	return errors.As(err, &e)
}

type ConfigurationError struct {
	Field  string
	Reason string
}

func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// ResourceNotFoundError is the common shape of every "not found" error returned by the store.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewRunNotFoundError(id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: "run", ID: id}
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// ManagerUnavailableError is returned when work is submitted while no fiber
// manager is serving, or the serving one is shutting down.
type ManagerUnavailableError struct{}

func NewManagerUnavailableError() *ManagerUnavailableError {
	return &ManagerUnavailableError{}
}

func (e *ManagerUnavailableError) Error() string {
	return "no fiber manager is serving"
}

func IsManagerUnavailableError(err error) bool {
	var e *ManagerUnavailableError
	return errors.As(err, &e)
}

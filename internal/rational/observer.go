// Package rational provides implementations for computing best rational
// approximations. This file contains the Observer pattern implementation for
// progress reporting.
package rational

import "sync"

// ProgressObserver defines the interface for observing progress events.
// Implementations receive notifications when an approximation's progress
// changes, enabling decoupled handling of progress updates for UI, logging,
// metrics, etc.
type ProgressObserver interface {
	// Update is called when progress changes.
	//
	// Parameters:
	//   - approxIndex: The approximator instance identifier (for
	//     concurrent runs).
	//   - progress: The normalized progress value (0.0 to 1.0).
	Update(approxIndex int, progress float64)
}

// ProgressSubject manages observer registration and notification for
// progress events. It implements the Subject part of the Observer pattern,
// allowing multiple observers to be notified of progress updates without
// tight coupling between the approximator and its consumers.
//
// ProgressSubject is safe for concurrent use.
type ProgressSubject struct {
	observers []ProgressObserver
	mu        sync.RWMutex
}

// NewProgressSubject creates a new subject for managing progress observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{
		observers: make([]ProgressObserver, 0),
	}
}

// Register adds an observer to receive progress updates. Observers are
// notified in the order they are registered. A nil observer is ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes an observer from receiving updates. If the observer is
// not found, this call is a no-op.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify sends a progress update to all registered observers. Observers are
// notified synchronously in registration order.
//
// Parameters:
//   - approxIndex: The approximator instance identifier.
//   - progress: The normalized progress value (0.0 to 1.0).
func (s *ProgressSubject) Notify(approxIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, observer := range s.observers {
		observer.Update(approxIndex, progress)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// AsProgressReporter adapts the subject into the ProgressReporter callback
// consumed by core algorithms. The returned function notifies every
// registered observer with the given approximator index.
//
// Parameters:
//   - approxIndex: The approximator instance identifier to report under.
//
// Returns:
//   - ProgressReporter: A callback forwarding progress to the observers.
func (s *ProgressSubject) AsProgressReporter(approxIndex int) ProgressReporter {
	return func(progress float64) {
		s.Notify(approxIndex, progress)
	}
}

// ChannelObserver forwards progress updates to a channel of ProgressUpdate
// values. It bridges the observer pattern to the channel-based UI display.
// Sends are non-blocking: if the channel is full the update is dropped, since
// a stale progress value is preferable to stalling the search loop.
type ChannelObserver struct {
	ch chan<- ProgressUpdate
}

// NewChannelObserver creates an observer forwarding to ch. A nil channel
// yields an observer whose updates are discarded.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// Update implements ProgressObserver.
func (o *ChannelObserver) Update(approxIndex int, progress float64) {
	if o.ch == nil {
		return
	}
	select {
	case o.ch <- ProgressUpdate{ApproximatorIndex: approxIndex, Value: progress}:
	default:
	}
}

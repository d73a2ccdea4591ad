package rational

// Note: ApproximatorFactory's Register uses the unexported coreApproximator
// type, so external packages extend the registry through this package only.

import (
	"fmt"
	"sort"
	"sync"
)

// ApproximatorFactory is an interface for creating Approximator instances.
// It allows for flexible instantiation and registration, enabling dependency
// injection and easier testing.
type ApproximatorFactory interface {
	// Create creates a new Approximator instance by name.
	// Returns an error if the algorithm is not registered.
	Create(name string) (Approximator, error)

	// Get returns a cached Approximator instance by name.
	// Returns an error if the algorithm is not registered.
	Get(name string) (Approximator, error)

	// List returns a sorted list of registered algorithm names.
	List() []string

	// Register adds a new algorithm to the factory.
	Register(name string, creator func() coreApproximator) error

	// GetAll returns a map of all registered approximators.
	GetAll() map[string]Approximator
}

// DefaultFactory is the default implementation of ApproximatorFactory.
// It maintains a thread-safe registry of creators and caches Approximator
// instances for reuse.
type DefaultFactory struct {
	mu            sync.RWMutex
	creators      map[string]func() coreApproximator
	approximators map[string]Approximator
}

// NewDefaultFactory creates a new DefaultFactory with the standard selection
// algorithms pre-registered.
//
// Pre-registered algorithms:
//   - "best": BestConvergent (corrected selection, signed error)
//   - "extended": ExtendedConvergent (classical selection, kept as a
//     documented compatibility quirk)
//
// Returns:
//   - *DefaultFactory: A new factory with the default algorithms registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:      make(map[string]func() coreApproximator),
		approximators: make(map[string]Approximator),
	}

	_ = f.Register("best", func() coreApproximator { return &BestConvergent{} })
	_ = f.Register("extended", func() coreApproximator { return &ExtendedConvergent{} })

	return f
}

// Register adds a new algorithm to the factory. The creator function is
// called lazily when the algorithm is first requested. If an algorithm with
// the same name already exists, it is replaced.
func (f *DefaultFactory) Register(name string, creator func() coreApproximator) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	// Drop any cached instance so it is recreated with the new creator.
	delete(f.approximators, name)
	return nil
}

// Create creates a new Approximator instance by name. Unlike Get, this
// always creates a fresh instance without caching.
func (f *DefaultFactory) Create(name string) (Approximator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", name)
	}
	return NewApproximator(creator()), nil
}

// Get returns an Approximator instance by name. Instances are cached and
// reused for subsequent calls with the same name. This is the preferred
// method for most use cases.
func (f *DefaultFactory) Get(name string) (Approximator, error) {
	f.mu.RLock()
	if a, exists := f.approximators[name]; exists {
		f.mu.RUnlock()
		return a, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring the write lock.
	if a, exists := f.approximators[name]; exists {
		return a, nil
	}

	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", name)
	}

	a := NewApproximator(creator())
	f.approximators[name] = a
	return a, nil
}

// List returns a sorted list of registered algorithm names.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns a map of all registered approximators, instantiating any
// that are not yet cached.
func (f *DefaultFactory) GetAll() map[string]Approximator {
	names := f.List()
	all := make(map[string]Approximator, len(names))
	for _, name := range names {
		if a, err := f.Get(name); err == nil {
			all[name] = a
		}
	}
	return all
}

var (
	globalFactory     *DefaultFactory
	globalFactoryOnce sync.Once
)

// GlobalFactory returns the process-wide factory with the default algorithms
// registered. It is initialized lazily on first use.
func GlobalFactory() ApproximatorFactory {
	globalFactoryOnce.Do(func() {
		globalFactory = NewDefaultFactory()
	})
	return globalFactory
}

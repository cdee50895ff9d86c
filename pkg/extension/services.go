package extension

import (
	"fmt"
	"sync"
)

// ServiceCollection is the narrow dependency-injection surface shared
// between the host and its extensions. Extensions add implementation
// services during the registration pass and resolve services contributed by
// their dependencies during Initialize. Safe for concurrent use.
type ServiceCollection struct {
	mu     sync.RWMutex
	values map[string]interface{}
	names  []string
}

// NewServiceCollection creates an empty service collection.
func NewServiceCollection() *ServiceCollection {
	return &ServiceCollection{values: make(map[string]interface{})}
}

// Register adds or replaces a named service. Replacing keeps the name's
// original position in Names().
func (s *ServiceCollection) Register(name string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
}

// Resolve looks up a named service.
func (s *ServiceCollection) Resolve(name string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// MustResolve looks up a named service and panics if it is absent. Intended
// for Initialize hooks whose manifest-declared dependencies guarantee the
// service exists; the host's failure boundary converts the panic into a
// load failure.
func (s *ServiceCollection) MustResolve(name string) interface{} {
	v, ok := s.Resolve(name)
	if !ok {
		panic(fmt.Sprintf("extman: service %q not registered", name))
	}
	return v
}

// Names returns the registered service names in registration order.
func (s *ServiceCollection) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...)
}

// Len returns the number of registered services.
func (s *ServiceCollection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

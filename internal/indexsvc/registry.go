package indexsvc

import (
	"log"
	"path/filepath"
	"sync"
)

// Registry is the process-wide, mutex-protected map of one Service per
// normalized workspace path. Cross-process exclusion is out of scope; this
// only guards against two goroutines in the same process racing to create
// a Service for the same workspace.
type Registry struct {
	mu       sync.Mutex
	services map[string]*Service
	logger   *log.Logger
}

// NewRegistry returns an empty Registry.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{services: map[string]*Service{}, logger: logger}
}

// Get returns the existing Service for workspace, or constructs and caches
// a new uninitialized one. The caller must still call Initialize.
func (r *Registry) Get(workspace string) (*Service, error) {
	norm, err := normalizeWorkspace(workspace)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if svc, ok := r.services[norm]; ok {
		return svc, nil
	}
	svc := newService(norm, r.logger)
	r.services[norm] = svc
	return svc, nil
}

// Drop removes a workspace's Service from the registry, called after
// destroy() so a later Get starts fresh.
func (r *Registry) Drop(workspace string) {
	norm, err := normalizeWorkspace(workspace)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, norm)
}

func normalizeWorkspace(workspace string) (string, error) {
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return "", &IOError{Path: workspace, Err: err}
	}
	return filepath.Clean(abs), nil
}

// Package tasks is the task manager: a registry of TaskDefinition keyed by
// unique name, dependency expansion with cycle detection, condition gating,
// scope-driven iteration over the workspace, and bounded concurrent
// execution with failure propagation.
package tasks

import (
	"fmt"

	"github.com/monoship/monoship/internal/model"
)

// Registry holds every known TaskDefinition, keyed by name.
type Registry struct {
	tasks map[string]*model.TaskDefinition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*model.TaskDefinition)}
}

// Register adds def to the registry. A duplicate name is an error — task
// names must be unique.
func (r *Registry) Register(def *model.TaskDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("task definition must have a name")
	}
	if _, exists := r.tasks[def.Name]; exists {
		return fmt.Errorf("task %q already registered", def.Name)
	}
	r.tasks[def.Name] = def
	return nil
}

// Get returns the named task definition, or false if it isn't registered.
func (r *Registry) Get(name string) (*model.TaskDefinition, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Names returns every registered task name, in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	return names
}

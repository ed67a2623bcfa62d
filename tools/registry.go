// Package tools manages the callable operations that generation backends may
// invoke on behalf of an agent. Tool failures are reported as descriptive
// error text in the Result, never as a hard failure of the calling round.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/tripdesk/tripdesk/core/protocol"
)

// Handler is the function signature for tool implementations.
// Handlers receive the request context and JSON-encoded arguments from the model.
type Handler func(ctx context.Context, args json.RawMessage) (Result, error)

// Result is the tool execution output that feeds back into the next model turn.
// IsError signals to the model that the tool invocation failed.
type Result struct {
	Content string
	IsError bool
}

type entry struct {
	tool    protocol.Tool
	handler Handler
}

// Registry holds named tool definitions with their handlers.
// Safe for concurrent use.
type Registry struct {
	entries map[string]entry
	mu      sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a new tool. Returns ErrAlreadyExists if a tool with the same
// name is already registered; use Replace to update an existing handler.
func (r *Registry) Register(tool protocol.Tool, handler Handler) error {
	if tool.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, tool.Name)
	}

	r.entries[tool.Name] = entry{tool: tool, handler: handler}
	return nil
}

// Replace updates an existing tool's definition and handler.
// Returns ErrNotFound if no tool with the given name is registered.
func (r *Registry) Replace(tool protocol.Tool, handler Handler) error {
	if tool.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tool.Name]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, tool.Name)
	}

	r.entries[tool.Name] = entry{tool: tool, handler: handler}
	return nil
}

// Bind registers a tool, replacing any existing registration with the same
// name. Useful for process startup where re-binding is not an error.
func (r *Registry) Bind(tool protocol.Tool, handler Handler) error {
	if err := r.Register(tool, handler); err != nil {
		if replaceErr := r.Replace(tool, handler); replaceErr != nil {
			return err
		}
	}
	return nil
}

// List returns the definitions of all registered tools, sorted by name.
func (r *Registry) List() []protocol.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]protocol.Tool, 0, len(r.entries))
	for _, e := range r.entries {
		defs = append(defs, e.tool)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Definitions returns the tool definitions for the given names, in order.
// Unknown names are skipped; an agent bound to an unregistered tool simply
// has fewer tools available.
func (r *Registry) Definitions(names ...string) []protocol.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]protocol.Tool, 0, len(names))
	for _, name := range names {
		if e, exists := r.entries[name]; exists {
			defs = append(defs, e.tool)
		}
	}
	return defs
}

// Execute dispatches a tool call to the registered handler by name.
// Returns ErrNotFound if the tool is not registered. Handler errors are
// wrapped with the tool name for context.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	r.mu.RLock()
	e, exists := r.entries[name]
	r.mu.RUnlock()

	if !exists {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	result, err := e.handler(ctx, args)
	if err != nil {
		return Result{}, fmt.Errorf("tool %s execution failed: %w", name, err)
	}

	return result, nil
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used when no explicit registry
// is injected.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a tool to the default registry.
func Register(tool protocol.Tool, handler Handler) error {
	return defaultRegistry.Register(tool, handler)
}

// Bind registers or replaces a tool in the default registry.
func Bind(tool protocol.Tool, handler Handler) error {
	return defaultRegistry.Bind(tool, handler)
}

// List returns all tool definitions in the default registry.
func List() []protocol.Tool {
	return defaultRegistry.List()
}

// Execute dispatches a tool call against the default registry.
func Execute(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	return defaultRegistry.Execute(ctx, name, args)
}

// Package di provides a minimal service container with typed tokens.
//
// Modules register factories under string tokens during RegisterServices and
// resolve them lazily at startup. Factories run at most once; the resolved
// instance is memoized for subsequent lookups.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get resolves a service by name, invoking its factory if needed.
	// Panics if the name is unknown: a missing service is a wiring bug.
	Get(name string) any
}

// Container is the write side used during module registration.
type Container interface {
	ServiceRegistry
	// Register stores a ready instance under name.
	Register(name string, svc any)
	// RegisterFactory stores a lazy constructor under name.
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type container struct {
	mu        sync.Mutex
	instances map[string]any
	factories map[string]func(ServiceRegistry) any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		instances: make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

func (c *container) Register(name string, svc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[name] = svc
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

func (c *container) Get(name string) any {
	c.mu.Lock()
	if svc, ok := c.instances[name]; ok {
		c.mu.Unlock()
		return svc
	}
	factory, ok := c.factories[name]
	c.mu.Unlock()

	if !ok {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}

	svc := factory(c)

	c.mu.Lock()
	c.instances[name] = svc
	c.mu.Unlock()

	return svc
}

// Token is a typed handle for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a token bound to name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registration name of the token.
func (t Token[T]) Name() string { return t.name }

// RegisterToken registers a typed factory under the token's name.
func RegisterToken[T any](c Container, tok Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(tok.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a typed service. Panics on type mismatch, which again
// indicates a wiring bug rather than a runtime condition.
func GetToken[T any](sr ServiceRegistry, tok Token[T]) T {
	svc, ok := sr.Get(tok.name).(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type %T", tok.name, sr.Get(tok.name)))
	}
	return svc
}

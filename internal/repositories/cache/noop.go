package cache

import "context"

// Noop is used when redis is unreachable; every read misses.
type Noop struct{}

func (Noop) Set(context.Context, string, interface{}) error         { return nil }
func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Noop) Delete(context.Context, ...string) error                { return nil }
func (Noop) DeletePattern(context.Context, string) error            { return nil }
func (Noop) HealthCheck(context.Context) error                      { return nil }

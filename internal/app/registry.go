package app

import (
	"fmt"

	"github.com/dmitrijs2005/kvbindgen/internal/backend"
	"github.com/dmitrijs2005/kvbindgen/internal/backend/java"
	"github.com/dmitrijs2005/kvbindgen/internal/backend/python"
	"github.com/dmitrijs2005/kvbindgen/internal/backend/ruby"
	"github.com/dmitrijs2005/kvbindgen/internal/common"
)

type factory func(backend.Options) backend.Backend

var registry = map[string]factory{
	python.Lang: func(o backend.Options) backend.Backend { return python.New(o) },
	ruby.Lang:   func(o backend.Options) backend.Backend { return ruby.New(o) },
	java.Lang:   func(o backend.Options) backend.Backend { return java.New(o) },
}

// Available lists the backend names that can be selected.
func Available() []string {
	return []string{python.Lang, ruby.Lang, java.Lang}
}

// NewBackends builds the named backends in the given order.
func NewBackends(names []string, opts backend.Options) ([]backend.Backend, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no backends selected", common.ErrUnknownBackend)
	}
	seen := make(map[string]bool, len(names))
	out := make([]backend.Backend, 0, len(names))
	for _, n := range names {
		f, ok := registry[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %v)", common.ErrUnknownBackend, n, Available())
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: %q selected twice", common.ErrUnknownBackend, n)
		}
		seen[n] = true
		out = append(out, f(opts))
	}
	return out, nil
}

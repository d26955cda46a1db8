/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/gridstore/codec"
)

// codecRegistry holds the mapping from a codec name (like "iso8601_date") to its codec.
var (
	codecRegistry = make(map[string]codec.Codec)
	codecMu       sync.RWMutex
)

func init() {
	for _, c := range codec.Builtin() {
		RegisterCodec(c.CodecName(), c)
	}
}

// RegisterCodec registers a codec under the given name.
// If a codec is already registered for the given name, it panics to prevent accidental overrides.
func RegisterCodec(name string, c codec.Codec) {
	codecMu.Lock()
	defer codecMu.Unlock()
	if _, exists := codecRegistry[name]; exists {
		panic(fmt.Sprintf("codec registry: codec %q already registered", name))
	}
	codecRegistry[name] = c
}

// GetCodec returns the codec registered under the given name.
// If no codec is registered, it returns an error.
func GetCodec(name string) (codec.Codec, error) {
	codecMu.RLock()
	defer codecMu.RUnlock()
	c, ok := codecRegistry[name]
	if !ok {
		return nil, fmt.Errorf("codec registry: no codec registered for name %q", name)
	}
	return c, nil
}

// CodecNames returns the registered codec names, sorted.
func CodecNames() []string {
	codecMu.RLock()
	defer codecMu.RUnlock()
	names := make([]string, 0, len(codecRegistry))
	for name := range codecRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

// methodTable is the per-terminal-node value stored in a MethodRouter's
// trie: a mapping from Method to V, or a single any-registered value
// occupying every method slot (§3 "Method table").
type methodTable[V any] struct {
	handlers map[Method]V
	isAny    bool
	anyValue V
}

func (t *methodTable[V]) allowed() MethodSet {
	if t.isAny {
		return NewMethodSet(allMethods...)
	}
	s := make(MethodSet, len(t.handlers))
	for m := range t.handlers {
		s.Add(m)
	}
	return s
}

// MethodRouter layers method-aware dispatch on top of a PathTrie (§4.3).
type MethodRouter[V any] struct {
	trie *PathTrie[*methodTable[V]]
}

// NewMethodRouter builds an empty MethodRouter.
func NewMethodRouter[V any]() *MethodRouter[V] {
	return &MethodRouter[V]{trie: NewPathTrie[*methodTable[V]]()}
}

func (r *MethodRouter[V]) ensureTable(pattern PathPattern) (*methodTable[V], error) {
	node, err := r.trie.EnsureTerminal(pattern)
	if err != nil {
		return nil, err
	}
	if !node.hasValue {
		node.hasValue = true
		node.value = &methodTable[V]{}
	}
	return node.value, nil
}

// Add inserts or augments pattern's terminal method table with a handler for
// method. It fails with ErrMethodConflict if method is already registered
// there, or if the terminal was previously reserved by Any.
func (r *MethodRouter[V]) Add(method Method, pattern PathPattern, value V) error {
	table, err := r.ensureTable(pattern)
	if err != nil {
		return err
	}
	if table.isAny {
		return ErrMethodConflict
	}
	if table.handlers == nil {
		table.handlers = map[Method]V{}
	}
	if _, exists := table.handlers[method]; exists {
		return ErrMethodConflict
	}
	table.handlers[method] = value
	return nil
}

// AnyOf repeats Add across methods, stopping at the first conflict.
func (r *MethodRouter[V]) AnyOf(methods []Method, pattern PathPattern, value V) error {
	for _, m := range methods {
		if err := r.Add(m, pattern, value); err != nil {
			return err
		}
	}
	return nil
}

// Any reserves every method for pattern under a single ANY marker. It fails
// with ErrMethodConflict if the terminal already carries any registration.
func (r *MethodRouter[V]) Any(pattern PathPattern, value V) error {
	table, err := r.ensureTable(pattern)
	if err != nil {
		return err
	}
	if table.isAny || len(table.handlers) > 0 {
		return ErrMethodConflict
	}
	table.isAny = true
	table.anyValue = value
	return nil
}

type lookupKind uint8

const (
	lookupMatch lookupKind = iota
	lookupPathMiss
	lookupMethodMiss
)

// LookupResult is the discriminated union returned by MethodRouter.Lookup
// (§4.3): exactly one of IsMatch, IsPathMiss, IsMethodMiss is true.
type LookupResult[V any] struct {
	kind lookupKind

	Value      V
	Parameters Parameters
	Matched    NormalizedPath
	Remaining  NormalizedPath

	Path NormalizedPath // set on PathMiss and MethodMiss

	Allowed MethodSet // set on MethodMiss
}

// IsMatch reports whether the lookup found a handler for (method, path).
func (r LookupResult[V]) IsMatch() bool { return r.kind == lookupMatch }

// IsPathMiss reports whether no trie terminal was reachable for the path.
func (r LookupResult[V]) IsPathMiss() bool { return r.kind == lookupPathMiss }

// IsMethodMiss reports whether the path matched a terminal but method is absent.
func (r LookupResult[V]) IsMethodMiss() bool { return r.kind == lookupMethodMiss }

// Lookup resolves (method, path) to a Match, PathMiss, or MethodMiss.
func (r *MethodRouter[V]) Lookup(method Method, path NormalizedPath) LookupResult[V] {
	match, ok := r.trie.Lookup(path)
	if !ok {
		return LookupResult[V]{kind: lookupPathMiss, Path: path}
	}
	table := match.Value
	var value V
	if table.isAny {
		value = table.anyValue
	} else if v, exists := table.handlers[method]; exists {
		value = v
	} else {
		return LookupResult[V]{kind: lookupMethodMiss, Allowed: table.allowed(), Path: path}
	}
	return LookupResult[V]{
		kind:       lookupMatch,
		Value:      value,
		Parameters: match.Parameters,
		Matched:    match.Matched,
		Remaining:  match.Remaining,
	}
}

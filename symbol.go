// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import "sync"

// Symbol is an interned parameter name. Two Symbols obtained from the same
// name via NewSymbol are the same pointer, so comparing Symbols is a cheap
// pointer comparison rather than a string comparison. Callers are expected
// to declare Symbols once, at package scope:
//
//	var symID = relic.NewSymbol("id")
type Symbol struct {
	name string
}

// String returns the original name the Symbol was interned from.
func (s *Symbol) String() string {
	if s == nil {
		return ""
	}
	return s.name
}

var symbolTable sync.Map // string -> *Symbol

// NewSymbol interns name and returns the Symbol shared by every caller that
// interns the same name.
func NewSymbol(name string) *Symbol {
	if v, ok := symbolTable.Load(name); ok {
		return v.(*Symbol)
	}
	v, _ := symbolTable.LoadOrStore(name, &Symbol{name: name})
	return v.(*Symbol)
}

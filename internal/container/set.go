// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package container holds small generic collection types shared by the
// consensus state machines — chiefly a vote-set used to track which
// validators have contributed a matching message within a round.
package container

import "golang.org/x/exp/maps"

// minSetSize mirrors the floor the teacher's set type resizes to.
const minSetSize = 16

// Set is a set of comparable elements, used here to track which
// validator ids have cast a given vote within a round or view.
type Set[T comparable] map[T]struct{}

// NewSet returns an empty set with initial capacity size.
func NewSet[T comparable](size int) Set[T] {
	if size < 0 {
		size = 0
	}
	if size < minSetSize {
		size = minSetSize
	}
	return make(map[T]struct{}, size)
}

// Add inserts elt; idempotent if elt is already present.
func (s Set[T]) Add(elt T) {
	s[elt] = struct{}{}
}

// Contains reports whether elt is in the set.
func (s Set[T]) Contains(elt T) bool {
	_, ok := s[elt]
	return ok
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int { return len(s) }

// List returns the set's elements in unspecified order.
func (s Set[T]) List() []T { return maps.Keys(s) }

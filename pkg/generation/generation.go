// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package generation provides request-generation tokens.

A fetch takes a token when it is issued. When the response arrives it is only
applied if no newer fetch for the same resource was issued in the meantime,
which gives last-write-wins by issuance order rather than by arrival order.
*/
package generation

import "sync/atomic"

// Token hands out increasing generations. The zero value is ready to use.
type Token struct {
	issued atomic.Uint64
}

// Next issues a new generation and supersedes every earlier one.
func (t *Token) Next() uint64 {
	return t.issued.Add(1)
}

// IsCurrent reports whether generation is the latest issued.
func (t *Token) IsCurrent(generation uint64) bool {
	return t.issued.Load() == generation
}

// Current returns the latest issued generation.
func (t *Token) Current() uint64 {
	return t.issued.Load()
}

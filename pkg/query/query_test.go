// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/pkg/query"
)

/*
TestList covers trimming, blanks and repeated entries.
*/
func TestList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"Empty", "", nil},
		{"Blank", "  ", nil},
		{"Single", "tags", []string{"tags"}},
		{"Trimmed", " tags , artists ", []string{"tags", "artists"}},
		{"SkipsBlanks", "tags,,artists,", []string{"tags", "artists"}},
		{"Deduplicated", "tags,artists,tags", []string{"tags", "artists"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query.List(tt.raw))
		})
	}
}

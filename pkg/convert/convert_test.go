// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/pkg/convert"
)

/*
TestToIntD falls back on empty and malformed input.
*/
func TestToIntD(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 7},
		{"12", 12},
		{" 4 ", 4},
		{"-3", -3},
		{"abc", 7},
		{"1.5", 7},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, convert.ToIntD(tt.input, 7))
		})
	}
}

/*
TestToBool accepts the strconv spellings plus checkbox values.
*/
func TestToBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"on", true},
		{"YES", true},
		{"", false},
		{"0", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, convert.ToBool(tt.input))
		})
	}
}

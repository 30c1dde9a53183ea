// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/pkg/pagination"
)

/*
TestFromRequest clamps invalid query values to the defaults.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"explicit", "?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"negative_page", "?page=-2", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"excessive_limit", "?limit=100000", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"garbage", "?page=abc", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/api/v1/entities/artists"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request))
		})
	}
}

/*
TestSlice returns the selected page and an empty slice past the end.
*/
func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, pagination.Slice(items, pagination.Params{Page: 2, Limit: 2}))
	assert.Equal(t, []int{5}, pagination.Slice(items, pagination.Params{Page: 3, Limit: 2}))
	assert.Equal(t, []int{}, pagination.Slice(items, pagination.Params{Page: 9, Limit: 2}))
}

/*
TestNewMeta rounds the page count up.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(1, 2, 5)
	assert.Equal(t, 3, meta.TotalPages)
}

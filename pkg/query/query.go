// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued query and environment strings.
package query

import "strings"

// List splits a comma-separated value into trimmed, non-empty entries.
// Repeated entries are kept once, in first-seen order. An empty input yields nil.
func List(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}

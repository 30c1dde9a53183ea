// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses lenient query parameters.

Malformed input yields the default instead of an error. Use strconv directly
where a malformed value must be reported to the client.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD parses str as an int, returning def when it is empty or malformed.
func ToIntD(str string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
		return v
	}
	return def
}

// ToBool reads a query flag. Besides the strconv spellings it accepts "on"
// and "yes", which HTML checkboxes and hand-typed URLs produce.
func ToBool(str string) bool {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "on", "yes":
		return true
	}
	v, _ := strconv.ParseBool(str)
	return v
}

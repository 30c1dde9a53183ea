// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "strings"

const flagUnknown = "🏳️"

// languageFlags is checked in order; the first fragment found wins.
var languageFlags = []struct {
	fragments []string
	flag      string
}{
	{[]string{"jap"}, "🇯🇵"},
	{[]string{"eng"}, "🇺🇸"},
	{[]string{"chi"}, "🇨🇳"},
	{[]string{"korean", "kor"}, "🇰🇷"},
}

// LanguageFlag returns the flag glyph for a language list.
//
// The joined list is inspected first so that a preferred language anywhere in
// the list wins over translation markers; each entry is then tried on its own.
func LanguageFlag(languages []string) string {
	if len(languages) == 0 {
		return flagUnknown
	}

	if flag, ok := matchFlag(strings.ToLower(strings.Join(languages, " "))); ok {
		return flag
	}

	for _, language := range languages {
		if flag, ok := matchFlag(strings.ToLower(language)); ok {
			return flag
		}
	}

	return flagUnknown
}

func matchFlag(text string) (string, bool) {
	for _, candidate := range languageFlags {
		for _, fragment := range candidate.fragments {
			if strings.Contains(text, fragment) {
				return candidate.flag, true
			}
		}
	}
	return "", false
}

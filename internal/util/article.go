package util

import "strings"

// ArticleFor returns the English indefinite article ("a" or "an") that
// precedes the given phrase, based on whether it starts with a vowel sound.
// If capitalize is true, the article is returned capitalized ("A"/"An").
func ArticleFor(phrase string, capitalize bool) string {
	article := "a"

	trimmed := strings.TrimSpace(phrase)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			article = "an"
		}
	}

	if capitalize {
		article = strings.ToUpper(article[:1]) + article[1:]
	}

	return article
}

// Package narrative extracts human-readable text from multi-language
// narrative blocks.
package narrative

import (
	"strings"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/rawtree"
)

// DefaultLang is the language preferred when callers do not specify one.
const DefaultLang = "en"

// langAttr is the attribute carrying the language code. The standard uses
// xml:lang; the prefix is stripped during normalization.
const langAttr = "lang"

// Resolve returns the best narrative text for a node. Preference order:
// the narrative tagged with preferredLang, the first narrative in document
// order, the node's own direct text. The second return value is false when
// no text is found at all; absence is a value here, never an error.
func Resolve(node *rawtree.Node, preferredLang string) (string, bool) {
	if node == nil {
		return "", false
	}
	if preferredLang == "" {
		preferredLang = DefaultLang
	}

	narratives := node.All("narrative")

	for _, n := range narratives {
		lang, ok := n.Attr(langAttr)
		if ok && strings.EqualFold(lang, preferredLang) && n.Text != "" {
			return n.Text, true
		}
	}
	for _, n := range narratives {
		if n.Text != "" {
			return n.Text, true
		}
	}
	if node.Text != "" {
		return node.Text, true
	}
	return "", false
}

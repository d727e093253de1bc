package editor

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// EditTriple is the structured "edit type + before + after" form of an
// instruction. It is rendered into the service prompt template when no
// raw free-text instruction is given.
type EditTriple struct {
	TypeLabel string `json:"type_label"`
	Before    string `json:"before"`
	After     string `json:"after"`
}

var placeholderTags = []language.Tag{
	language.Japanese,
	language.English,
}

var placeholderMatcher = language.NewMatcher(placeholderTags)

var currentStatePlaceholders = map[language.Tag]string{
	language.Japanese: "（現状のまま）",
	language.English:  "(current state)",
}

// BuildInstruction assembles the prompt sent to the edit service. Raw
// free text wins over the structured triple; a triple with both sides
// blank yields an empty instruction, which callers must reject before
// dispatch.
func BuildInstruction(raw string, triple *EditTriple, locale string) string {
	if text := strings.TrimSpace(raw); text != "" {
		return text
	}
	if triple == nil {
		return ""
	}
	before := strings.TrimSpace(triple.Before)
	after := strings.TrimSpace(triple.After)
	if before == "" && after == "" {
		return ""
	}
	if before == "" {
		before = currentStatePlaceholder(locale)
	}
	label := strings.TrimSpace(triple.TypeLabel)
	if label == "" {
		label = "内容"
	}
	return fmt.Sprintf("【%sの変更】\n変更前: %s\n変更後: %s", label, before, after)
}

func currentStatePlaceholder(locale string) string {
	_, idx, _ := placeholderMatcher.Match(language.Make(locale))
	return currentStatePlaceholders[placeholderTags[idx]]
}

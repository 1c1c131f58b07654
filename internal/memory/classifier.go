package memory

import "strings"

// Keyword sets for the store-decision heuristic. Checked in priority order:
// achievement beats setback beats insight beats preference. This is a
// deliberately crude classifier, not NLP: a literal substring match on the
// lower-cased message decides the category.
var classifierRules = []struct {
	kind       Kind
	importance int
	keywords   []string
}{
	{KindAchievement, 4, []string{
		"i did it", "completed", "finished", "accomplished", "proud",
		"nailed it", "succeeded", "crushed it",
	}},
	{KindSetback, 4, []string{
		"failed", "couldn't", "could not", "gave up", "struggled",
		"too hard", "missed", "skipped",
	}},
	{KindInsight, 4, []string{
		"realized", "realised", "learned", "noticed", "discovered",
		"now i understand", "it turns out",
	}},
	{KindPreference, 3, []string{
		"i prefer", "i like", "i love", "i hate", "i'd rather",
		"works better for me", "favorite",
	}},
}

// conversationMinLength is the fallback threshold: long messages with no
// keyword match are still worth keeping as generic conversation.
const conversationMinLength = 150

// Classify decides whether a raw user message should be persisted as a
// memory. It returns the category, an importance 1..5, and false when the
// message should not be stored at all.
func Classify(message string) (Kind, int, bool) {
	lower := strings.ToLower(message)
	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.kind, rule.importance, true
			}
		}
	}
	if len(message) > conversationMinLength {
		return KindConversation, 2, true
	}
	return "", 0, false
}

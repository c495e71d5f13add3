package models

// MatchedSubscriber is one record from a subscriber-matcher response. Chat
// identifiers arrive as numbers or strings depending on the matcher build,
// so the value is kept as-is.
type MatchedSubscriber struct {
	ChatID any `json:"chat_id"`
}

// SubscribersFromMatch extracts subscriber records from a matcher success
// body. Matcher builds have shipped the list under either "matches" or
// "subscribers"; list entries are records with a chat_id key, with bare
// identifiers tolerated. A body without a recognizable list yields nil and
// the signal goes out unenriched.
func SubscribersFromMatch(body map[string]any) []MatchedSubscriber {
	var list []any
	for _, key := range []string{"matches", "subscribers"} {
		if v, ok := body[key].([]any); ok {
			list = v
			break
		}
	}
	if list == nil {
		return nil
	}

	subs := make([]MatchedSubscriber, 0, len(list))
	for _, entry := range list {
		switch rec := entry.(type) {
		case map[string]any:
			if id, ok := rec["chat_id"]; ok && id != nil {
				subs = append(subs, MatchedSubscriber{ChatID: id})
			}
		case nil:
			// skip
		default:
			subs = append(subs, MatchedSubscriber{ChatID: rec})
		}
	}
	if len(subs) == 0 {
		return nil
	}
	return subs
}

// ChatIDs projects the raw chat identifiers for signal enrichment.
func ChatIDs(subs []MatchedSubscriber) []any {
	if len(subs) == 0 {
		return nil
	}
	ids := make([]any, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.ChatID)
	}
	return ids
}

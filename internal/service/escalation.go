package service

import "strings"

// escalationMarker is the literal prefix the model is instructed to emit
// when it judges human handoff necessary. Matching is case-sensitive and
// anchored at the start of the reply.
const escalationMarker = "ESCALATE:"

// escalationKeywords trigger handoff when present in the lower-cased user
// message, regardless of what the model replied.
var escalationKeywords = []string{
	"manager", "supervisor", "refund", "complaint", "cancel",
	"billing", "angry", "frustrated", "terrible", "worst",
}

// Thresholds for the shape heuristics: very long messages and rapid-fire
// question barrages are handed to a human.
const (
	escalationTokenLimit    = 100
	escalationQuestionLimit = 2
)

const escalationFallbackText = "Your request needs special attention. A human agent will follow up with you shortly."

// Classify decides whether a turn needs human escalation and produces the
// final user-facing text. Escalation fires when any signal holds: the
// provider marked its reply, the user message contains a handoff keyword,
// it is longer than the token limit, or it stacks more than two question
// marks. Deterministic, no side effects.
func Classify(userMessage, reply string) (string, bool) {
	escalated := false

	if strings.HasPrefix(reply, escalationMarker) {
		escalated = true
		reply = strings.TrimSpace(strings.TrimPrefix(reply, escalationMarker))
		if reply == "" {
			reply = escalationFallbackText
		}
	}

	lowered := strings.ToLower(userMessage)
	for _, keyword := range escalationKeywords {
		if strings.Contains(lowered, keyword) {
			escalated = true
			break
		}
	}

	if len(strings.Fields(userMessage)) > escalationTokenLimit {
		escalated = true
	}

	if strings.Count(userMessage, "?") > escalationQuestionLimit {
		escalated = true
	}

	return reply, escalated
}

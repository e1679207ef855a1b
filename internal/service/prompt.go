package service

import (
	"fmt"
	"strings"

	"supportgenie/backend/internal/models"
)

// Tone-specific style directives. Unrecognized tones fall back to friendly.
var toneInstructions = map[string]string{
	models.ToneFriendly: "You are a friendly and helpful customer support AI. Use a warm, approachable tone with empathy. Use casual language and express genuine care for the customer's needs.",
	models.ToneFormal:   "You are a professional customer support AI. Maintain a courteous and respectful tone. Use proper grammar and formal language while remaining helpful.",
	models.ToneCasual:   "You are a relaxed and easy-going customer support AI. Use a conversational, informal tone. Be helpful while keeping things light and approachable.",
}

const noKnowledgePlaceholder = "No knowledge base documents have been provided."

// BuildSystemPrompt composes the system instructions for one turn: persona
// framing, the tone's style directives, the escalation marker protocol, the
// injected knowledge text and the closing conciseness instruction. Pure
// function of its inputs.
func BuildSystemPrompt(tone, knowledge string) string {
	instructions, ok := toneInstructions[tone]
	if !ok {
		instructions = toneInstructions[models.ToneFriendly]
	}

	if strings.TrimSpace(knowledge) == "" {
		knowledge = noKnowledgePlaceholder
	}

	return fmt.Sprintf(`You are SupportGenie, an AI-powered customer support assistant. %s

Key responsibilities:
- Answer customer queries accurately and helpfully
- Maintain the specified brand tone consistently
- If you cannot answer something or it requires human intervention, begin your reply with "%s" followed by a brief explanation of why escalation is needed
- Watch for signs of frustration or requests involving %s and escalate when the customer needs a human
- Use the knowledge base information provided when relevant

Knowledge Base Information:
%s

Keep responses concise: 2-3 sentences for simple queries. Always invite the customer to ask further questions.`,
		instructions,
		escalationMarker,
		strings.Join(escalationKeywords, ", "),
		knowledge,
	)
}

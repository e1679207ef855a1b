package service

import (
	"testing"

	"supportgenie/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPromptContainsToneDirectives(t *testing.T) {
	for tone, directive := range toneInstructions {
		prompt := BuildSystemPrompt(tone, "")
		assert.Contains(t, prompt, directive, "tone %s", tone)
	}
}

func TestBuildSystemPromptUnknownToneFallsBackToFriendly(t *testing.T) {
	prompt := BuildSystemPrompt("sarcastic", "")
	assert.Contains(t, prompt, toneInstructions[models.ToneFriendly])
}

func TestBuildSystemPromptInjectsKnowledgeVerbatim(t *testing.T) {
	knowledge := "Document: faq.txt\nReturns are accepted within 30 days."
	prompt := BuildSystemPrompt(models.ToneFormal, knowledge)

	assert.Contains(t, prompt, knowledge)
	assert.NotContains(t, prompt, noKnowledgePlaceholder)
}

func TestBuildSystemPromptEmptyKnowledgeUsesPlaceholder(t *testing.T) {
	prompt := BuildSystemPrompt(models.ToneCasual, "   ")
	assert.Contains(t, prompt, noKnowledgePlaceholder)
}

func TestBuildSystemPromptContainsEscalationProtocol(t *testing.T) {
	prompt := BuildSystemPrompt(models.ToneFriendly, "")

	assert.Contains(t, prompt, escalationMarker)
	for _, keyword := range escalationKeywords {
		assert.Contains(t, prompt, keyword)
	}
	assert.Contains(t, prompt, "2-3 sentences")
}

func TestBuildSystemPromptIsPure(t *testing.T) {
	first := BuildSystemPrompt(models.ToneFormal, "kb text")
	second := BuildSystemPrompt(models.ToneFormal, "kb text")
	assert.Equal(t, first, second)
}

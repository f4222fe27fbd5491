package services

import "strings"

// FallbackCategory ist die generische Kategorie, wenn keine Regel greift.
const FallbackCategory = "AI Tools"

// categoryRule ordnet ein Keyword-Set einer Kategorie der festen Taxonomie zu.
type categoryRule struct {
	category string
	keywords []string
}

// categoryRules wird in Reihenfolge gescannt; die erste Regel mit Treffer
// gewinnt. Spezifischere Kategorien stehen deshalb vor den breiten.
var categoryRules = []categoryRule{
	// "ide" fehlt bewusst: als Substring trifft es "video", "provider" usw.
	{"Code Assistants", []string{"code generation", "copilot", "coding", "developer", "ide integration", "programming", "repository"}},
	{"Image Generation", []string{"image generation", "text to image", "diffusion", "art generator", "photo editing", "design tool"}},
	{"Video Generation", []string{"video generation", "text to video", "video editing", "animation"}},
	{"Audio & Voice", []string{"text to speech", "speech to text", "voice clone", "transcription", "audio", "music generation"}},
	{"Chatbots", []string{"chatbot", "conversational", "customer support", "virtual assistant"}},
	{"Writing Assistants", []string{"writing", "copywriting", "content creation", "grammar", "summariz"}},
	{"Data & Analytics", []string{"analytics", "data analysis", "business intelligence", "dashboard", "forecasting"}},
	{"Productivity", []string{"productivity", "workflow", "automation", "no-code", "scheduling", "note-taking"}},
}

// DetectCategory bildet Freitext plus Topics auf genau eine Kategorie der
// festen Taxonomie ab. Totale Funktion: nie leer, nie absent.
func DetectCategory(text string, topics []string) string {
	haystack := strings.ToLower(text + " " + strings.Join(topics, " "))
	for _, rule := range categoryRules {
		if containsAny(haystack, rule.keywords) {
			return rule.category
		}
	}
	return FallbackCategory
}

package services

import "testing"

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		topics []string
		want   string
	}{
		{"code assistant", "Copilot-style code generation for your IDE", nil, "Code Assistants"},
		{"image generation", "Turn prompts into art with a diffusion model", nil, "Image Generation"},
		{"video generation", "Text to video in seconds", nil, "Video Generation"},
		{"video is not an ide match", "Video editing with smart cuts", nil, "Video Generation"},
		{"provider is not an ide match", "Forecasting dashboard for energy providers", nil, "Data & Analytics"},
		{"ide integration still matches", "Seamless IDE integration for every language", nil, "Code Assistants"},
		{"audio", "Voice clone and transcription suite", nil, "Audio & Voice"},
		{"chatbot", "Conversational agent for customer support", nil, "Chatbots"},
		{"writing", "Grammar fixes and copywriting help", nil, "Writing Assistants"},
		{"analytics", "Business intelligence dashboard with forecasting", nil, "Data & Analytics"},
		{"productivity", "Workflow automation and scheduling", nil, "Productivity"},
		{"topics only", "SuperTool", []string{"music generation"}, "Audio & Voice"},
		{"first matching rule wins", "Code generation with a chatbot interface", nil, "Code Assistants"},
		{"no match falls back", "A general purpose machine learning library", nil, FallbackCategory},
		{"empty input falls back", "", nil, FallbackCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectCategory(tt.text, tt.topics)
			if got != tt.want {
				t.Errorf("DetectCategory(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// DetectCategory darf nie einen Wert außerhalb der festen Taxonomie liefern.
func TestDetectCategoryIsTotal(t *testing.T) {
	valid := map[string]bool{FallbackCategory: true}
	for _, rule := range categoryRules {
		valid[rule.category] = true
	}

	inputs := []string{"", "xyz", "🤖", "ai", "chatbot diffusion workflow", "näher dran"}
	for _, input := range inputs {
		got := DetectCategory(input, nil)
		if !valid[got] {
			t.Errorf("DetectCategory(%q) = %q, not in taxonomy", input, got)
		}
	}
}

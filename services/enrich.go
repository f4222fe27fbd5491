package services

import (
	"fmt"
	"math/rand"

	"tool-radar/models"
)

// Enricher füllt die optionalen Felder eines kanonischen Tool-Datensatzes, die
// keine Quelle liefert. Hinter einem Interface isoliert, damit der Platzhalter
// später durch eine echte Anreicherung ersetzt werden kann, ohne den Rest der
// Pipeline anzufassen.
type Enricher interface {
	Enrich(tool *models.Tool, category string)
}

var categoryLogos = map[string][]string{
	"Code Assistants":    {"💻", "⌨️", "🛠️"},
	"Image Generation":   {"🎨", "🖼️", "✨"},
	"Video Generation":   {"🎬", "📹", "🎞️"},
	"Audio & Voice":      {"🎙️", "🔊", "🎵"},
	"Chatbots":           {"💬", "🤖", "🗨️"},
	"Writing Assistants": {"✍️", "📝", "📄"},
	"Data & Analytics":   {"📊", "📈", "🔍"},
	"Productivity":       {"⚡", "📅", "✅"},
	FallbackCategory:     {"🤖", "🧠", "✨"},
}

var pricingTiers = []string{
	models.PricingFree,
	models.PricingFreemium,
	models.PricingPaid,
	models.PricingEnterprise,
}

var baseFeatures = []string{"API access", "Web interface", "Regular updates"}

var categoryFeatures = map[string][]string{
	"Code Assistants":    {"IDE integration", "Multi-language support", "Inline suggestions"},
	"Image Generation":   {"Style presets", "High-resolution export", "Batch generation"},
	"Video Generation":   {"Template library", "Scene editing", "Export presets"},
	"Audio & Voice":      {"Voice cloning", "Multi-language voices", "Studio quality export"},
	"Chatbots":           {"Custom knowledge base", "Multi-channel deployment", "Conversation analytics"},
	"Writing Assistants": {"Tone adjustment", "Plagiarism check", "SEO suggestions"},
	"Data & Analytics":   {"Custom dashboards", "Automated reports", "Data connectors"},
	"Productivity":       {"Workflow automation", "Third-party integrations", "Team collaboration"},
}

var basePros = []string{"Easy to get started", "Active development", "Good documentation"}

var baseCons = []string{"Limited free tier", "Requires account signup", "Young ecosystem"}

// placeholderEnricher würfelt die Platzhalter-Defaults aus festen Listen. Eine
// bewusste Vereinfachung, solange es keinen echten Anreicherungs-Schritt gibt.
type placeholderEnricher struct {
	rng *rand.Rand
}

// NewPlaceholderEnricher erstellt einen Enricher mit eigenem Seed, damit Tests
// deterministisch bleiben können.
func NewPlaceholderEnricher(seed int64) Enricher {
	return &placeholderEnricher{rng: rand.New(rand.NewSource(seed))}
}

// Enrich befüllt alle noch leeren optionalen Felder.
func (e *placeholderEnricher) Enrich(tool *models.Tool, category string) {
	if tool.Logo == "" {
		logos, ok := categoryLogos[category]
		if !ok {
			logos = categoryLogos[FallbackCategory]
		}
		tool.Logo = logos[e.rng.Intn(len(logos))]
	}

	if tool.Pricing == "" {
		tool.Pricing = pricingTiers[e.rng.Intn(len(pricingTiers))]
	}

	if len(tool.Features) == 0 {
		features := append([]string{}, baseFeatures...)
		if extra, ok := categoryFeatures[category]; ok {
			features = append(features, extra[:min(3, len(extra))]...)
		}
		tool.Features = models.JSONList(features)
	}

	if len(tool.Pros) == 0 {
		tool.Pros = models.JSONList(basePros)
	}
	if len(tool.Cons) == 0 {
		tool.Cons = models.JSONList(baseCons)
	}

	if tool.WeeklyUsers == 0 {
		tool.WeeklyUsers = 1000 + e.rng.Intn(49000)
	}
	if tool.Growth == "" {
		tool.Growth = fmt.Sprintf("+%d%%", 5+e.rng.Intn(36))
	}
}

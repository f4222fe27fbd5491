package services

import (
	"strings"

	"tool-radar/providers"
)

// exclusionTerms markieren Nachrichten-, Medizin-, Rechts- und Security-Artikel,
// die trotz AI-Bezug keine Tools sind. Ein Treffer dominiert jedes andere Signal.
var exclusionTerms = []string{
	"dies at", "passed away", "obituary", "funeral",
	"patient", "diagnosis", "clinical trial", "cancer treatment", "health breakthrough",
	"lawsuit", "court ruling", "regulation", "lawmakers", "antitrust", "indicted",
	"data breach", "vulnerability", "exploit", "ransomware", "phishing",
	"layoffs", "stock price", "quarterly earnings", "ipo filing",
	"election", "war in", "killed in",
}

// toolKeywords sind Phrasen, die auf ein tatsächliches Tool hindeuten.
var toolKeywords = []string{
	"ai assistant", "ai agent", "ai tool", "ai platform", "ai-powered",
	"code generation", "copilot", "chatbot",
	"image generation", "video generation", "text to speech", "speech to text",
	"language model api", "writing assistant", "ai writer",
	"automation tool", "no-code ai", "prompt engineering tool",
}

// knownToolDomains ist die kuratierte Allow-Liste bekannter Tool-Anbieter.
var knownToolDomains = []string{
	"openai.com", "anthropic.com", "midjourney.com", "huggingface.co",
	"replicate.com", "perplexity.ai", "stability.ai", "runwayml.com",
	"cohere.com", "elevenlabs.io", "jasper.ai", "copy.ai", "synthesia.io",
	"cursor.com", "notion.so", "zapier.com",
}

// genericToolExtensions sind breite Tool-typische TLDs bzw. Pfade.
var genericToolExtensions = []string{
	".ai", ".io/", ".app", ".dev", ".tools", ".so/", "producthunt.com/posts/",
}

// aiMentions sind explizite AI/ML-Nennungen, die die Code-Hosting-Regel
// zusätzlich zur Keyword-Phrase verlangt.
var aiMentions = []string{
	" ai ", " ai-", " ai,", " ai.", "artificial intelligence",
	"machine learning", "deep learning", "neural network",
	"llm", "gpt", "language model",
}

// signals bündelt die unabhängigen, vorab berechneten Klassifizierungs-Signale.
type signals struct {
	excluded     bool
	hasKeyword   bool
	hasDomain    bool
	hasExtension bool
	hasAIMention bool
}

// classifierRule ist eine Zeile der geordneten Regel-Tabelle: die erste Regel,
// deren applies-Prädikat zutrifft, entscheidet.
type classifierRule struct {
	name    string
	applies func(sourceName string, sig signals) bool
	verdict func(sig signals) bool
}

// classifierRules ist geordnet: die Veto-Regel steht vorn und dominiert, danach
// folgen die quellenspezifischen Kombinationen, zuletzt der Default. Neue
// Quellen bekommen eine neue Zeile, bestehende Regeln bleiben unberührt.
var classifierRules = []classifierRule{
	{
		name:    "exclusion-veto",
		applies: func(_ string, sig signals) bool { return sig.excluded },
		verdict: func(signals) bool { return false },
	},
	{
		name:    "code-hosting",
		applies: sourceIn(providers.SourceGitHub),
		verdict: func(sig signals) bool { return sig.hasKeyword && sig.hasAIMention },
	},
	{
		name:    "discussion-and-aggregator",
		applies: sourceIn(providers.SourceReddit, providers.SourceHackerNews),
		verdict: func(sig signals) bool {
			return sig.hasKeyword && (sig.hasDomain || sig.hasExtension)
		},
	},
	{
		name:    "community-voting",
		applies: sourceIn(providers.SourceProductHunt),
		verdict: func(sig signals) bool { return sig.hasKeyword || sig.hasDomain },
	},
	{
		name:    "default",
		applies: func(string, signals) bool { return true },
		verdict: func(sig signals) bool {
			return sig.hasKeyword || sig.hasDomain || sig.hasExtension
		},
	},
}

// IsAITool entscheidet deterministisch, ob ein Kandidat ein echtes AI-Tool ist.
// Reine Funktion: identische Eingaben liefern immer dasselbe Urteil.
func IsAITool(name, description string, topics []string, website, sourceName string) bool {
	text := strings.ToLower(name + " " + description + " " + strings.Join(topics, " "))
	site := strings.ToLower(website)

	sig := signals{
		excluded:     containsAny(text, exclusionTerms),
		hasKeyword:   containsAny(text, toolKeywords),
		hasDomain:    containsAny(site, knownToolDomains),
		hasExtension: containsAny(site, genericToolExtensions),
		hasAIMention: containsAny(" "+text+" ", aiMentions),
	}

	for _, rule := range classifierRules {
		if rule.applies(sourceName, sig) {
			return rule.verdict(sig)
		}
	}
	return false
}

func sourceIn(names ...string) func(string, signals) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(sourceName string, _ signals) bool {
		_, ok := set[sourceName]
		return ok
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

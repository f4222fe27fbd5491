package providers

import (
	"context"

	"tool-radar/models"
)

// Namen der eingebauten Quellen.
const (
	SourceProductHunt = "producthunt"
	SourceGitHub      = "github"
	SourceReddit      = "reddit"
	SourceHackerNews  = "hackernews"
)

// Provider ist das Interface, das jede Discovery-Quelle implementieren muss.
// Fetch darf keine Fehler über die eigene Grenze hinaus werfen: bei
// Transport- oder API-Fehlern loggt der Adapter eine Warnung und liefert
// seine Fallback-Liste (oder eine leere Liste) mit nil-Fehler zurück.
type Provider interface {
	// Fetch liefert die aktuellen Kandidaten der Quelle in standardisierter Form.
	Fetch(ctx context.Context) ([]models.RawCandidate, error)

	// Name gibt den eindeutigen Namen der Quelle zurück (z.B. "producthunt").
	Name() string
}

package services

import (
	"math"

	"tool-radar/models"
	"tool-radar/providers"
)

// ratingProfile beschreibt, mit welchen Metriken und Nennern eine Quelle
// bewertet wird: eine Primär-Metrik plus ein kommentarbasierter Sekundär-Term.
type ratingProfile struct {
	primary      string
	primaryDiv   float64
	secondary    string
	secondaryDiv float64
}

var ratingProfiles = map[string]ratingProfile{
	providers.SourceProductHunt: {primary: "votes", primaryDiv: 100, secondary: "comments", secondaryDiv: 50},
	providers.SourceGitHub:      {primary: "stars", primaryDiv: 1000, secondary: "forks", secondaryDiv: 100},
	providers.SourceReddit:      {primary: "upvotes", primaryDiv: 100, secondary: "comments", secondaryDiv: 100},
	providers.SourceHackerNews:  {primary: "points", primaryDiv: 100, secondary: "comments", secondaryDiv: 50},
}

// defaultProfile greift für unbekannte Quellen.
var defaultProfile = ratingProfile{primary: "votes", primaryDiv: 100, secondary: "comments", secondaryDiv: 100}

// Rating normalisiert die nativen Engagement-Metriken einer Quelle auf ein
// Rating in [4.0, 5.0]. Beide Terme sind gedeckelt; ohne jedes Engagement
// bleibt das Rating bei 4.0, mehr als 5.0 ist nicht erreichbar.
func Rating(candidate *models.RawCandidate) float64 {
	profile, ok := ratingProfiles[candidate.SourceName]
	if !ok {
		profile = defaultProfile
	}

	rating := 4.0 +
		0.5*capRatio(candidate.Metric(profile.primary), profile.primaryDiv) +
		0.5*capRatio(candidate.Metric(profile.secondary), profile.secondaryDiv)
	rating = math.Min(rating, 5.0)

	return math.Round(rating*10) / 10
}

// capRatio deckelt auf [0, 1]; negative Werte (z.B. heruntergewählte
// Reddit-Posts) zählen wie fehlendes Engagement.
func capRatio(value, denominator float64) float64 {
	return math.Max(0, math.Min(value/denominator, 1.0))
}

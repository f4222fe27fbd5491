package services

import (
	"testing"

	"tool-radar/models"
)

func TestEnrichFillsEmptyFields(t *testing.T) {
	enricher := NewPlaceholderEnricher(42)
	tool := &models.Tool{Name: "chatflow"}

	enricher.Enrich(tool, "Chatbots")

	if tool.Logo == "" {
		t.Error("Logo not filled")
	}
	validPricing := false
	for _, tier := range pricingTiers {
		if tool.Pricing == tier {
			validPricing = true
		}
	}
	if !validPricing {
		t.Errorf("Pricing = %q, not a known tier", tool.Pricing)
	}
	if len(tool.Features) == 0 {
		t.Error("Features not filled")
	}
	if len(tool.Pros) == 0 || len(tool.Cons) == 0 {
		t.Error("Pros/Cons not filled")
	}
	if tool.WeeklyUsers < 1000 || tool.WeeklyUsers >= 50000 {
		t.Errorf("WeeklyUsers = %d, outside placeholder range", tool.WeeklyUsers)
	}
	if growth := tool.GrowthPercent(); growth < 5 || growth > 40 {
		t.Errorf("Growth = %q, outside placeholder range", tool.Growth)
	}
}

func TestEnrichKeepsExistingValues(t *testing.T) {
	enricher := NewPlaceholderEnricher(42)
	tool := &models.Tool{
		Name:        "chatflow",
		Logo:        "🧪",
		Pricing:     models.PricingFree,
		WeeklyUsers: 777,
		Growth:      "+99%",
	}

	enricher.Enrich(tool, "Chatbots")

	if tool.Logo != "🧪" {
		t.Errorf("Logo overwritten: %q", tool.Logo)
	}
	if tool.Pricing != models.PricingFree {
		t.Errorf("Pricing overwritten: %q", tool.Pricing)
	}
	if tool.WeeklyUsers != 777 {
		t.Errorf("WeeklyUsers overwritten: %d", tool.WeeklyUsers)
	}
	if tool.Growth != "+99%" {
		t.Errorf("Growth overwritten: %q", tool.Growth)
	}
}

func TestEnrichIsDeterministicPerSeed(t *testing.T) {
	first := &models.Tool{Name: "chatflow"}
	second := &models.Tool{Name: "chatflow"}

	NewPlaceholderEnricher(7).Enrich(first, "Chatbots")
	NewPlaceholderEnricher(7).Enrich(second, "Chatbots")

	if first.Logo != second.Logo || first.Pricing != second.Pricing ||
		first.WeeklyUsers != second.WeeklyUsers || first.Growth != second.Growth {
		t.Errorf("same seed produced different enrichment: %+v vs %+v", first, second)
	}
}

func TestEnrichUnknownCategoryUsesFallbackLogos(t *testing.T) {
	enricher := NewPlaceholderEnricher(1)
	tool := &models.Tool{Name: "mystery"}
	enricher.Enrich(tool, "Unknown Category")

	found := false
	for _, logo := range categoryLogos[FallbackCategory] {
		if tool.Logo == logo {
			found = true
		}
	}
	if !found {
		t.Errorf("Logo %q not from fallback set", tool.Logo)
	}
}

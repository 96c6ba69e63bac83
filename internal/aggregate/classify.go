package aggregate

import (
	"fmt"
	"sort"
	"strings"
)

// InferProduct maps a campaign name onto the product line it advertises.
// Keyword matching mirrors the naming conventions of the account.
func InferProduct(name string) string {
	t := strings.ToLower(name)
	switch {
	case containsAny(t, "termlife", "term life", "term-life", "life insurance"):
		return "Term Life"
	case strings.Contains(t, "dental"):
		return "Dental Network"
	case containsAny(t, "disability", "idi"):
		return "Disability"
	case containsAny(t, "annuity", "annuities", "rila", "retirement"):
		return "Annuities"
	case containsAny(t, "recruit", "credential", "join", "provider"):
		return "Join Our Network"
	}
	return "Other"
}

// InferIntentBucket classifies a campaign name into a funnel bucket.
func InferIntentBucket(name string) string {
	t := strings.ToLower(name)
	nonbrand := containsAny(t, "nonbrand", "non-brand", "nonbranded", "non-branded")
	switch {
	case strings.Contains(t, "google_brand") || strings.HasPrefix(t, "google_brand"):
		return "Brand"
	case !nonbrand && (strings.Contains(t, "-brand-") || strings.Contains(t, "-branded") || strings.HasSuffix(t, "-branded")):
		return "Brand"
	case containsAny(t, "group", "employer", "worksite", "abm-"):
		return "Group"
	case containsAny(t, "leadgen", "conversion", "quote", "quotes"):
		return "Nonbrand Lead Gen"
	}
	return "Education/Midfunnel"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// classifySearchTerm labels a search term against the account's median
// converting CPA: converters with an efficient CPA are winners, spenders
// with nothing to show are losers, everything else is neutral.
func classifySearchTerm(spend, conversions, cpa, medianCPA float64) (label, reason string) {
	if conversions >= 1 {
		if medianCPA == 0 || (cpa > 0 && cpa <= medianCPA*0.8) {
			return "winner", fmt.Sprintf("Converted (%.1f) with efficient CPA ($%.2f).", conversions, cpa)
		}
		return "neutral", fmt.Sprintf("Converted (%.1f) but CPA above efficient threshold.", conversions)
	}
	if spend >= 100 && conversions == 0 {
		return "loser", fmt.Sprintf("Spent $%.2f with 0 conversions.", spend)
	}
	return "neutral", fmt.Sprintf("Mixed signal (spend $%.2f, conv %.1f).", spend, conversions)
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

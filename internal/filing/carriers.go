// Package filing analyzes carrier rate-filing documents: carrier
// identification, rate-hike / medical-loss-ratio / actuarial-value
// extraction, and per-region price tables.
package filing

import "strings"

// UnknownCarrier is the sentinel used when no carrier keyword matches.
const UnknownCarrier = "Unknown Carrier"

// carrierKeyword maps an uppercase keyword to the carrier it identifies.
// Registration order is the tie-break when matched keywords have equal
// length.
type carrierKeyword struct {
	Keyword string
	Carrier string
}

var carrierRegistry = []carrierKeyword{
	{Keyword: "UNITEDHEALTHCARE", Carrier: "UnitedHealthcare"},
	{Keyword: "UNITED HEALTHCARE", Carrier: "UnitedHealthcare"},
	{Keyword: "BLUE CROSS BLUE SHIELD", Carrier: "Blue Cross Blue Shield"},
	{Keyword: "BLUE CROSS", Carrier: "Blue Cross"},
	{Keyword: "BLUE SHIELD", Carrier: "Blue Shield"},
	{Keyword: "KAISER PERMANENTE", Carrier: "Kaiser Permanente"},
	{Keyword: "KAISER", Carrier: "Kaiser Permanente"},
	{Keyword: "AETNA", Carrier: "Aetna"},
	{Keyword: "CIGNA", Carrier: "Cigna"},
	{Keyword: "HUMANA", Carrier: "Humana"},
	{Keyword: "ANTHEM", Carrier: "Anthem"},
	{Keyword: "CENTENE", Carrier: "Centene"},
	{Keyword: "MOLINA", Carrier: "Molina Healthcare"},
	{Keyword: "OSCAR", Carrier: "Oscar Health"},
}

// IdentifyCarrier scans text for registered carrier keywords. Among all
// matched keywords the longest wins, so a specific match ("BLUE CROSS BLUE
// SHIELD") overrides a generic one ("BLUE CROSS"); equal lengths fall back
// to registration order.
func IdentifyCarrier(text string) string {
	upper := strings.ToUpper(text)

	best := UnknownCarrier
	bestLen := 0
	for _, entry := range carrierRegistry {
		if !strings.Contains(upper, entry.Keyword) {
			continue
		}
		if len(entry.Keyword) > bestLen {
			best = entry.Carrier
			bestLen = len(entry.Keyword)
		}
	}
	return best
}

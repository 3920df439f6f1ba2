package domain

import "strings"

// DeliveryFrequency is the closed set of supported shipment cadences.
type DeliveryFrequency string

const (
	FrequencyDaily    DeliveryFrequency = "daily"
	FrequencyWeekly   DeliveryFrequency = "weekly"
	FrequencyBiweekly DeliveryFrequency = "biweekly"
	FrequencyMonthly  DeliveryFrequency = "monthly"
)

var frequencyLeadDays = map[DeliveryFrequency]int{
	FrequencyDaily:    1,
	FrequencyWeekly:   7,
	FrequencyBiweekly: 14,
	FrequencyMonthly:  30,
}

// frequencyAliases maps normalized spellings seen in supplier sheets to the
// canonical value. Normalization strips spaces, hyphens and underscores.
var frequencyAliases = map[string]DeliveryFrequency{
	"daily":       FrequencyDaily,
	"everyday":    FrequencyDaily,
	"weekly":      FrequencyWeekly,
	"everyweek":   FrequencyWeekly,
	"biweekly":    FrequencyBiweekly,
	"fortnightly": FrequencyBiweekly,
	"monthly":     FrequencyMonthly,
	"everymonth":  FrequencyMonthly,
}

// ParseFrequency resolves a raw frequency cell to a canonical value.
// Unknown cadences are a schema violation and the row is quarantined.
func ParseFrequency(raw string) (DeliveryFrequency, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	freq, ok := frequencyAliases[key]
	return freq, ok
}

// LeadTimeDays returns the delivery lead time in days for the frequency.
func (f DeliveryFrequency) LeadTimeDays() int {
	if days, ok := frequencyLeadDays[f]; ok {
		return days
	}
	return frequencyLeadDays[FrequencyMonthly]
}

// Valid reports whether f is one of the canonical frequencies.
func (f DeliveryFrequency) Valid() bool {
	_, ok := frequencyLeadDays[f]
	return ok
}

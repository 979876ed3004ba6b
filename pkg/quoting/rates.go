// Package quoting holds the pure pricing and proposal-drafting logic.
// Nothing in here touches the database.
package quoting

import "e24.in/crm/models"

// WeeksPerMonth approximates the average number of weeks in a month (52/12).
// Must stay at exactly 4.33 for numeric compatibility with stored quotes.
const WeeksPerMonth = 4.33

// FallbackRate is returned for any unknown (serviceType, guardType) pair.
const FallbackRate = 25

var defaultRates = map[string]map[string]float64{
	models.ServiceConstructionSite: {
		models.GuardUnarmed: 25,
		models.GuardArmed:   35,
		models.GuardPatrol:  30,
	},
	models.ServiceCommercialProperty: {
		models.GuardUnarmed: 22,
		models.GuardArmed:   32,
		models.GuardPatrol:  28,
	},
}

// DefaultRate looks up the standard hourly rate for a service/guard
// combination, falling back to FallbackRate for unknown pairs.
func DefaultRate(serviceType, guardType string) float64 {
	if guards, ok := defaultRates[serviceType]; ok {
		if rate, ok := guards[guardType]; ok {
			return rate
		}
	}
	return FallbackRate
}

// MonthlyEstimate converts an hourly rate and weekly hours into a monthly
// figure.
func MonthlyEstimate(hourlyRate, hoursPerWeek float64) float64 {
	return hourlyRate * hoursPerWeek * WeeksPerMonth
}

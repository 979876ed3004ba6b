package quoting

import (
	"fmt"
	"strconv"
	"strings"

	"e24.in/crm/models"
)

// ComposeDraft expands the proposal template for a lead. Same inputs always
// produce byte-identical output; there is no time-dependent content.
func ComposeDraft(lead *models.Lead, serviceType, guardType string, hoursPerWeek float64, doc *KnowledgeDoc) string {
	var b strings.Builder

	fmt.Fprintf(&b, "PROPOSAL FOR %s\n\n", strings.ToUpper(lead.CompanyName))

	if doc != nil && doc.Context.Name != "" {
		fmt.Fprintf(&b, "Prepared by %s\n\n", doc.Context.Name)
	}

	fmt.Fprintf(&b, "SCOPE OF SERVICES: %s (%s)\n",
		strings.ReplaceAll(serviceType, "_", " "), guardType)
	fmt.Fprintf(&b, "COVERAGE: %s Hours Per Week\n\n",
		strconv.FormatFloat(hoursPerWeek, 'f', -1, 64))

	city := lead.City
	if city == "" {
		city = "your location"
	}
	b.WriteString("OUR APPROACH:\n")
	fmt.Fprintf(&b, "Elite 24 will provide licensed %s security personnel to monitor the premises at %s.\n",
		strings.ToLower(guardType), city)

	switch serviceType {
	case models.ServiceConstructionSite:
		b.WriteString("- Access control for contractors and deliveries.\n")
		b.WriteString("- After-hours patrol to prevent theft and vandalism.\n")
	case models.ServiceCommercialProperty:
		b.WriteString("- Tenant safety and visible deterrence.\n")
		b.WriteString("- Regular foot patrols of common areas.\n")
	}

	if doc != nil && len(doc.Rules) > 0 {
		b.WriteString("\nNOTES:\n")
		for _, rule := range doc.Rules {
			fmt.Fprintf(&b, "- %s\n", rule)
		}
	}

	return b.String()
}

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/andresuchdata/logisim/internal/domain"
)

func fmtPct(label string, v float64) string {
	return fmt.Sprintf("%s (%.1f%%)", label, v)
}

// WriteExecutive renders the management summary of a run.
func WriteExecutive(w io.Writer, s Summary, period string, generated time.Time) error {
	var b strings.Builder

	fmt.Fprintf(&b, "===== %s LOGISTICS REPORT =====\n", strings.ToUpper(period))

	b.WriteString("\nOperations summary:\n")
	fmt.Fprintf(&b, "Days simulated: %d\n", s.Days)
	fmt.Fprintf(&b, "Total orders received: %d\n", s.OrdersTotal)
	fmt.Fprintf(&b, "Total units requested: %d\n", s.UnitsRequested)
	fmt.Fprintf(&b, "Total units delivered: %d\n", s.UnitsDelivered)
	fmt.Fprintf(&b, "Total backlog: %d units (%.1f%%)\n", s.BacklogUnits, s.BacklogPct)
	fmt.Fprintf(&b, "Vehicles dispatched: %d\n", s.VehiclesUsed)
	fmt.Fprintf(&b, "Transport cost: %s\n", s.TransportCost.StringFixed(2))

	b.WriteString("\nGlobal indicators:\n")
	fmt.Fprintf(&b, "OTIF: %.1f %%\n", s.OTIF)
	fmt.Fprintf(&b, "Fill Rate: %.1f %%\n", s.FillRate)
	fmt.Fprintf(&b, "Backlog Rate: %.1f %%\n", s.BacklogRate)
	fmt.Fprintf(&b, "Picking productivity: %.2f units/h\n", s.PickingProductivity)
	fmt.Fprintf(&b, "Fleet utilization: %.1f %%\n", s.FleetUtilization)

	b.WriteString("\nActive alerts:\n")
	if s.Stable() {
		b.WriteString(" - Operation stable within parameters.\n")
	}
	for _, a := range s.ActiveAlerts {
		fmt.Fprintf(&b, " ! %s\n", a)
	}

	b.WriteString("\nRecommendations:\n")
	for _, r := range s.Recommendations {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	fmt.Fprintf(&b, "\n%s\n", strings.Repeat("-", 50))
	fmt.Fprintf(&b, "Generated: %s\n", generated.Format("02/01/2006 15:04"))

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderAlerts formats alerts as a numbered list.
func RenderAlerts(alerts []domain.Alert) string {
	if len(alerts) == 0 {
		return "No active alerts."
	}

	var b strings.Builder
	b.WriteString("=== ALERTS DETECTED ===\n")
	for i, a := range alerts {
		fmt.Fprintf(&b, "\n%d. Day %d %s alert - %s\n", i+1, a.Day, strings.ToUpper(a.Severity.String()), a.Indicator)
		fmt.Fprintf(&b, "   Value: %.1f\n", a.Value)
		fmt.Fprintf(&b, "   Message: %s\n", a.Message)
		fmt.Fprintf(&b, "   Recommendation: %s\n", a.Recommendation)
	}
	return b.String()
}

// StrategicAlertCount is the number of alerts from which strategic
// recommendations are added.
const StrategicAlertCount = 3

// Recommendations groups alert recommendations by urgency. Informative
// alerts only count toward the strategic threshold.
func Recommendations(alerts []domain.Alert) []string {
	var critical, important []string
	for _, a := range alerts {
		switch a.Severity {
		case domain.SeverityCritical:
			critical = appendUnique(critical, a.Recommendation)
		case domain.SeverityImportant:
			important = appendUnique(important, a.Recommendation)
		}
	}

	out := make([]string, 0)
	if len(critical) > 0 {
		out = append(out, "IMMEDIATE CRITICAL ACTIONS:")
		for _, r := range critical {
			out = append(out, "  * "+r)
		}
	}
	if len(important) > 0 {
		out = append(out, "SHORT-TERM IMPORTANT ACTIONS:")
		for _, r := range important {
			out = append(out, "  * "+r)
		}
	}
	if len(alerts) >= StrategicAlertCount {
		out = append(out,
			"STRATEGIC RECOMMENDATIONS:",
			"  * Run a full supply chain analysis",
			"  * Consider an advanced warehouse management system",
			"  * Review supplier and client agreements",
		)
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

package advisory

import "strings"

const framerMarker = "framer"

var (
	framerAlternativesEnglish = []string{"Neem-based pesticide", "Bio-friendly pesticide X"}
	framerAlternativesMarathi = []string{"नीम आधारित कीटकनाशक", "जैव-मैत्रीपूर्ण कीटकनाशक X"}
)

// applyFramerPatch adds the default bio alternatives when an English target crop mentions "framer".
// Applying it twice yields the same report.
func applyFramerPatch(report Report) Report {
	if !mentionsFramer(report.English.TargetCrops) {
		return report
	}
	report.English.Alternatives = union(report.English.Alternatives, framerAlternativesEnglish)
	report.Marathi.Alternatives = union(report.Marathi.Alternatives, framerAlternativesMarathi)
	return report
}

func mentionsFramer(crops []string) bool {
	for _, crop := range crops {
		if strings.Contains(strings.ToLower(crop), framerMarker) {
			return true
		}
	}
	return false
}

func union(existing, extra []string) []string {
	merged := make([]string, 0, len(existing)+len(extra))
	merged = append(merged, existing...)
	merged = append(merged, extra...)
	return normalizeList(merged)
}

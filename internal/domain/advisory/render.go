package advisory

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var reportTemplate = template.Must(template.New("advisory").Parse(`<h2>📑 Pesticide Advisory Report</h2>
{{range $i, $s := .}}{{if $i}}
<hr/>
{{end}}
<h3>{{$s.Heading}}</h3>
{{range $s.Fields}}<p><b>{{.Label}}:</b> {{.Value}}</p>
{{end}}{{end}}`))

type labels struct {
	heading      string
	pesticide    string
	tradeNames   string
	manufacturer string
	dosage       string
	targetCrops  string
	diseases     string
	suitability  string
	summary      string
	alternatives string
}

var (
	englishLabels = labels{
		heading:      "🇬🇧 English",
		pesticide:    "🧴 Pesticide",
		tradeNames:   "🏷️ Trade Names",
		manufacturer: "🏭 Manufacturer",
		dosage:       "💧 Dosage",
		targetCrops:  "🌱 Target Crops",
		diseases:     "🦠 Controls Diseases",
		suitability:  "⭐ Suitability",
		summary:      "📝 Summary",
		alternatives: "🔄 Alternative Pesticides",
	}
	marathiLabels = labels{
		heading:      "🇮🇳 मराठी",
		pesticide:    "🧴 कीटकनाशक",
		tradeNames:   "🏷️ व्यापारी नावे",
		manufacturer: "🏭 उत्पादक",
		dosage:       "💧 डोस",
		targetCrops:  "🌱 पिके",
		diseases:     "🦠 रोग नियंत्रण",
		suitability:  "⭐ उपयुक्तता",
		summary:      "📝 सारांश",
		alternatives: "🔄 पर्यायी कीटकनाशके",
	}
)

type htmlField struct {
	Label string
	Value string
}

type htmlSection struct {
	Heading string
	Fields  []htmlField
}

func sectionView(s Section, l labels) htmlSection {
	return htmlSection{
		Heading: l.heading,
		Fields: []htmlField{
			{Label: l.pesticide, Value: s.Pesticide},
			{Label: l.tradeNames, Value: strings.Join(s.TradeNames, ", ")},
			{Label: l.manufacturer, Value: s.Manufacturer},
			{Label: l.dosage, Value: s.RecommendedDosage},
			{Label: l.targetCrops, Value: strings.Join(s.TargetCrops, ", ")},
			{Label: l.diseases, Value: strings.Join(s.ControlsDiseases, ", ")},
			{Label: l.suitability, Value: s.Suitability},
			{Label: l.summary, Value: s.Summary},
			{Label: l.alternatives, Value: strings.Join(s.Alternatives, ", ")},
		},
	}
}

// renderReport builds the bilingual HTML view. Model text is escaped.
func renderReport(report Report) (string, error) {
	var buf bytes.Buffer
	sections := []htmlSection{
		sectionView(report.English, englishLabels),
		sectionView(report.Marathi, marathiLabels),
	}
	if err := reportTemplate.Execute(&buf, sections); err != nil {
		return "", fmt.Errorf("render advisory html: %w", err)
	}
	return buf.String(), nil
}

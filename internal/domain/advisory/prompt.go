package advisory

import "fmt"

const systemPrompt = "You are an agricultural advisor."

const schemaTemplate = `Inputs:
- Pesticide: %s
- Crop: %s
- Disease: %s

Your Task:
Generate a bilingual pesticide advisory report in two sections:
1. Full report in English.
2. Full report in Marathi.

Output Format: strict JSON only (no markdown).
{
  "english": {
    "pesticide": "...",
    "trade_names": ["..."],
    "manufacturer": "...",
    "recommended_dosage": "...",
    "target_crops": ["..."],
    "controls_diseases": ["..."],
    "suitability": "High/Medium/Low",
    "lab_tested": true,
    "alternatives": ["..."],
    "summary": "..."
  },
  "marathi": {
    "pesticide": "...",
    "trade_names": ["..."],
    "manufacturer": "...",
    "recommended_dosage": "...",
    "target_crops": ["..."],
    "controls_diseases": ["..."],
    "suitability": "उच्च/मध्यम/कमी",
    "lab_tested": true,
    "alternatives": ["..."],
    "summary": "..."
  }
}`

func buildPrompt(req Request) string {
	return fmt.Sprintf(schemaTemplate, req.Pesticide, req.Crop, req.Disease)
}

package advisory

import (
	"encoding/json"
	"regexp"
	"strings"

	apperrors "github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/errors"
)

const excerptLimit = 500

var (
	fencePattern  = regexp.MustCompile("```(?:json)?")
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// parseReport decodes model output, tolerating code fences and prose around the JSON object.
func parseReport(content string) (Report, error) {
	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(strings.TrimSpace(content), ""))

	report, err := decodeReport(cleaned)
	if err == nil {
		return report, nil
	}
	if match := objectPattern.FindString(cleaned); match != "" {
		if report, err = decodeReport(match); err == nil {
			return report, nil
		}
	}
	return Report{}, apperrors.Wrap(apperrors.CodeInvalidResponse, "model returned invalid JSON: "+excerpt(cleaned, excerptLimit), err)
}

func decodeReport(text string) (Report, error) {
	var report Report
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		return Report{}, err
	}
	report.English = report.English.normalize()
	report.Marathi = report.Marathi.normalize()
	return report, nil
}

func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

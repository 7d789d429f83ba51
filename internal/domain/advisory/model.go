package advisory

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Request carries the three advisory inputs.
type Request struct {
	Pesticide string `json:"pesticide"`
	Crop      string `json:"crop"`
	Disease   string `json:"disease"`
}

// Section is one language's half of the advisory.
type Section struct {
	Pesticide         string   `json:"pesticide"`
	TradeNames        []string `json:"trade_names"`
	Manufacturer      string   `json:"manufacturer"`
	RecommendedDosage string   `json:"recommended_dosage"`
	TargetCrops       []string `json:"target_crops"`
	ControlsDiseases  []string `json:"controls_diseases"`
	Suitability       string   `json:"suitability"`
	LabTested         bool     `json:"lab_tested"`
	Alternatives      []string `json:"alternatives"`
	Summary           string   `json:"summary"`
}

// UnmarshalJSON accepts a bare string wherever a list is expected and
// "true"/"false" strings for lab_tested.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw struct {
		Pesticide         string          `json:"pesticide"`
		TradeNames        json.RawMessage `json:"trade_names"`
		Manufacturer      string          `json:"manufacturer"`
		RecommendedDosage string          `json:"recommended_dosage"`
		TargetCrops       json.RawMessage `json:"target_crops"`
		ControlsDiseases  json.RawMessage `json:"controls_diseases"`
		Suitability       string          `json:"suitability"`
		LabTested         json.RawMessage `json:"lab_tested"`
		Alternatives      json.RawMessage `json:"alternatives"`
		Summary           string          `json:"summary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	out := Section{
		Pesticide:         raw.Pesticide,
		Manufacturer:      raw.Manufacturer,
		RecommendedDosage: raw.RecommendedDosage,
		Suitability:       raw.Suitability,
		Summary:           raw.Summary,
	}
	if out.TradeNames, err = coerceStringArray(raw.TradeNames); err != nil {
		return err
	}
	if out.TargetCrops, err = coerceStringArray(raw.TargetCrops); err != nil {
		return err
	}
	if out.ControlsDiseases, err = coerceStringArray(raw.ControlsDiseases); err != nil {
		return err
	}
	if out.Alternatives, err = coerceStringArray(raw.Alternatives); err != nil {
		return err
	}
	if out.LabTested, err = coerceBool(raw.LabTested); err != nil {
		return err
	}
	*s = out
	return nil
}

// normalize replaces nil lists with empty ones and deduplicates alternatives.
func (s Section) normalize() Section {
	s.TradeNames = nonNil(s.TradeNames)
	s.TargetCrops = nonNil(s.TargetCrops)
	s.ControlsDiseases = nonNil(s.ControlsDiseases)
	s.Alternatives = normalizeList(s.Alternatives)
	return s
}

// Report is the structured bilingual advisory.
type Report struct {
	English Section `json:"english"`
	Marathi Section `json:"marathi"`
}

// Record is returned to callers of Generate.
type Record struct {
	Input      Request `json:"input"`
	Structured Report  `json:"ai_response"`
	HTML       string  `json:"html"`
	ReportURL  string  `json:"report_url,omitempty"`
}

// Config controls the provider call.
type Config struct {
	Model       string
	Temperature float32
	MaxAttempts int
	Backoff     time.Duration
}

func coerceStringArray(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		if strings.TrimSpace(single) == "" {
			return nil, nil
		}
		return []string{single}, nil
	case '[':
		var many []string
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, err
		}
		return many, nil
	default:
		return nil, errors.New("unsupported list format")
	}
}

func coerceBool(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return false, err
		}
		value, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return false, nil
		}
		return value, nil
	}
	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, err
	}
	return value, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{})
	for _, item := range items {
		clean := strings.TrimSpace(item)
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}

package alerts

import (
	"fmt"
	"strings"
)

const (
	// DefaultRainThresholdMM is the daily rainfall at which spraying is unsafe.
	DefaultRainThresholdMM = 1.0
	// IrrigationLookbackDays bounds the window the irrigation rule inspects.
	IrrigationLookbackDays = 10

	dryDayLimitMM = 1.0
)

// EvaluatePesticideSpray flags spraying as risky when any forecast day reaches threshold.
// An empty forecast is reported as missing data, never as a safe window.
func EvaluatePesticideSpray(days []ForecastDay, threshold float64) Decision {
	if len(days) == 0 {
		return Decision{
			Message: "No weather data found. Check the local forecast before spraying pesticides.",
			noData:  true,
		}
	}

	rainy := make([]string, 0, len(days))
	for _, day := range days {
		if day.PrecipitationMM >= threshold {
			rainy = append(rainy, fmt.Sprintf("%s (%.1f mm)", day.Date.Format("Jan 02"), day.PrecipitationMM))
		}
	}
	if len(rainy) == 0 {
		return Decision{Message: "No significant rain expected. Safe to spray pesticides in the forecast window."}
	}
	return Decision{
		Triggered: true,
		Message:   fmt.Sprintf("Rain expected on %d day(s): %s.\nDo NOT spray pesticides.", len(rainy), strings.Join(rainy, ", ")),
	}
}

// EvaluateIrrigationNeed reports a dry spell when every one of the last
// IrrigationLookbackDays days stayed below 1 mm.
func EvaluateIrrigationNeed(days []ForecastDay, location string) Decision {
	recent := days
	if len(recent) > IrrigationLookbackDays {
		recent = recent[len(recent)-IrrigationLookbackDays:]
	}

	needed := Decision{
		Triggered: true,
		Message:   fmt.Sprintf("Irrigation Alert: No rain in last %d days at %s. Consider irrigating crops.", IrrigationLookbackDays, location),
	}
	// all-of over an empty window holds
	if len(recent) == 0 {
		return needed
	}
	for _, day := range recent {
		if day.PrecipitationMM >= dryDayLimitMM {
			return Decision{Message: fmt.Sprintf("Irrigation not required. Recent rain sufficient at %s.", location)}
		}
	}
	return needed
}

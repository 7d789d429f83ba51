package alerts

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvaluatePesticideSprayPuneScenario(t *testing.T) {
	days := []ForecastDay{
		{Date: day(t, "2024-07-01"), PrecipitationMM: 0.2},
		{Date: day(t, "2024-07-02"), PrecipitationMM: 1.5},
		{Date: day(t, "2024-07-03"), PrecipitationMM: 0.0},
	}

	decision := EvaluatePesticideSpray(days, DefaultRainThresholdMM)
	require.True(t, decision.Triggered)
	require.Contains(t, decision.Message, "Rain expected on 1 day(s): Jul 02 (1.5 mm).")
	require.NotContains(t, decision.Message, "Jul 01")
	require.NotContains(t, decision.Message, "Jul 03")
}

func TestEvaluatePesticideSprayThresholdIsInclusive(t *testing.T) {
	days := []ForecastDay{
		{Date: day(t, "2024-07-01"), PrecipitationMM: 1.0},
		{Date: day(t, "2024-07-05"), PrecipitationMM: 12.34},
	}

	decision := EvaluatePesticideSpray(days, 1.0)
	require.True(t, decision.Triggered)
	require.Equal(t, "Rain expected on 2 day(s): Jul 01 (1.0 mm), Jul 05 (12.3 mm).\nDo NOT spray pesticides.", decision.Message)
}

func TestEvaluatePesticideSprayNoRain(t *testing.T) {
	days := []ForecastDay{
		{Date: day(t, "2024-07-01"), PrecipitationMM: 0.9},
		{Date: day(t, "2024-07-02"), PrecipitationMM: 0},
	}

	decision := EvaluatePesticideSpray(days, 1.0)
	require.False(t, decision.Triggered)
	require.False(t, decision.noData)
	require.Contains(t, decision.Message, "Safe to spray")
}

func TestEvaluatePesticideSprayEmptyForecastIsReported(t *testing.T) {
	decision := EvaluatePesticideSpray(nil, 1.0)
	require.False(t, decision.Triggered)
	require.True(t, decision.noData)
	require.Contains(t, decision.Message, "No weather data found")
	require.NotContains(t, decision.Message, "Safe to spray")
}

func TestEvaluatePesticideSprayListsQualifyingDaysInOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	start := day(t, "2024-01-01")
	for i := 0; i < 200; i++ {
		days := make([]ForecastDay, 1+rng.Intn(15))
		var expected []string
		for j := range days {
			days[j] = ForecastDay{Date: start.AddDate(0, 0, j), PrecipitationMM: float64(rng.Intn(30)) / 10}
			if days[j].PrecipitationMM >= 1.0 {
				expected = append(expected, fmt.Sprintf("%s (%.1f mm)", days[j].Date.Format("Jan 02"), days[j].PrecipitationMM))
			}
		}

		decision := EvaluatePesticideSpray(days, 1.0)
		require.Equal(t, len(expected) > 0, decision.Triggered)
		if decision.Triggered {
			require.Contains(t, decision.Message, strings.Join(expected, ", ")+".")
			require.Contains(t, decision.Message, fmt.Sprintf("on %d day(s)", len(expected)))
		}
	}
}

func TestEvaluateIrrigationNeed(t *testing.T) {
	cases := []struct {
		name      string
		precip    []float64
		triggered bool
	}{
		{name: "dry spell", precip: []float64{0, 0.5, 0.99, 0}, triggered: true},
		{name: "one wet day", precip: []float64{0, 0, 1.0, 0}, triggered: false},
		{name: "wet day outside lookback", precip: []float64{25, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, triggered: true},
		{name: "wet day on lookback edge", precip: []float64{0, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0}, triggered: false},
		{name: "empty window", precip: nil, triggered: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days := make([]ForecastDay, len(tc.precip))
			for i, p := range tc.precip {
				days[i] = ForecastDay{Date: day(t, "2024-07-01").AddDate(0, 0, i), PrecipitationMM: p}
			}
			decision := EvaluateIrrigationNeed(days, "Pune")
			require.Equal(t, tc.triggered, decision.Triggered)
			require.Contains(t, decision.Message, "Pune")
		})
	}
}

func TestEvaluateIrrigationNeedMatchesAllDryRule(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		days := make([]ForecastDay, rng.Intn(IrrigationLookbackDays+1))
		allDry := true
		for j := range days {
			days[j] = ForecastDay{PrecipitationMM: float64(rng.Intn(15)) / 10}
			if days[j].PrecipitationMM >= 1.0 {
				allDry = false
			}
		}
		require.Equal(t, allDry, EvaluateIrrigationNeed(days, "Nashik").Triggered)
	}
}

func TestEvaluatorsArePure(t *testing.T) {
	days := []ForecastDay{{Date: day(t, "2024-07-02"), PrecipitationMM: 2}}
	require.Equal(t, EvaluatePesticideSpray(days, 1), EvaluatePesticideSpray(days, 1))
	require.Equal(t, EvaluateIrrigationNeed(days, "Pune"), EvaluateIrrigationNeed(days, "Pune"))
	require.Equal(t, 2.0, days[0].PrecipitationMM)
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return ts
}

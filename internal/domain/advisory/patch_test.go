package advisory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyFramerPatchAddsAlternatives(t *testing.T) {
	report := Report{
		English: Section{TargetCrops: []string{"Cotton", "Small FRAMER plots"}, Alternatives: []string{"Neem-based pesticide", "Spinosad"}},
		Marathi: Section{Alternatives: []string{}},
	}

	patched := applyFramerPatch(report)
	require.ElementsMatch(t, []string{"Neem-based pesticide", "Spinosad", "Bio-friendly pesticide X"}, patched.English.Alternatives)
	require.ElementsMatch(t, []string{"नीम आधारित कीटकनाशक", "जैव-मैत्रीपूर्ण कीटकनाशक X"}, patched.Marathi.Alternatives)
}

func TestApplyFramerPatchIsIdempotent(t *testing.T) {
	report := Report{
		English: Section{TargetCrops: []string{"framer"}, Alternatives: []string{"A"}},
		Marathi: Section{Alternatives: []string{"ब"}},
	}

	once := applyFramerPatch(report)
	twice := applyFramerPatch(once)
	require.Equal(t, once, twice)
}

func TestApplyFramerPatchIgnoresOtherCrops(t *testing.T) {
	report := Report{
		English: Section{TargetCrops: []string{"Wheat", "Farmer's choice"}, Alternatives: []string{"A"}},
		Marathi: Section{TargetCrops: []string{"framer"}, Alternatives: []string{"ब"}},
	}
	require.Equal(t, report, applyFramerPatch(report))
}

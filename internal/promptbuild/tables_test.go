package promptbuild

import "testing"

func TestToneTableComplete(t *testing.T) {
	if len(toneDescriptions) != len(AllTones) {
		t.Fatalf("tone table has %d entries, want %d", len(toneDescriptions), len(AllTones))
	}
	for _, tone := range AllTones {
		d, ok := tone.Describe()
		if !ok || d == "" {
			t.Fatalf("tone %q has no description", tone)
		}
	}
}

func TestAudienceTableComplete(t *testing.T) {
	if len(audienceDescriptions) != len(AllAudienceLevels) {
		t.Fatalf("audience table has %d entries, want %d", len(audienceDescriptions), len(AllAudienceLevels))
	}
	for _, level := range AllAudienceLevels {
		d, ok := level.Describe()
		if !ok || d == "" {
			t.Fatalf("audience level %q has no description", level)
		}
	}
}

func TestStructureTableComplete(t *testing.T) {
	if len(structureDescriptions) != len(AllStructures) {
		t.Fatalf("structure table has %d entries, want %d", len(structureDescriptions), len(AllStructures))
	}
	for _, s := range AllStructures {
		d, ok := s.Describe()
		if !ok || d == "" {
			t.Fatalf("structure %q has no description", s)
		}
	}
}

func TestUnknownEnumValuesHaveNoDescription(t *testing.T) {
	if _, ok := Tone("sarcastic").Describe(); ok {
		t.Fatalf("unexpected description for unknown tone")
	}
	if _, ok := AudienceLevel("expert").Describe(); ok {
		t.Fatalf("unexpected description for unknown audience level")
	}
	if _, ok := Structure("haiku").Describe(); ok {
		t.Fatalf("unexpected description for unknown structure")
	}
	if LengthUnit("pages").Valid() {
		t.Fatalf("unexpected valid length unit")
	}
}

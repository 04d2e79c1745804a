package presets

import "testing"

func TestAllMatchesSpecTable(t *testing.T) {
	for _, name := range All() {
		s := Spec(name)
		if s.Name == "" {
			t.Errorf("preset %v has no Spec entry", name)
		}
		if s.Sides != 1 && s.Sides != 2 {
			t.Errorf("preset %v has invalid Sides=%d", name, s.Sides)
		}
		if s.SizeCode() < 0 {
			t.Errorf("preset %v has SectorSize=%d, not a valid 128<<N size", name, s.SectorSize)
		}
	}
}

func TestMGTPresetsShareGeometry(t *testing.T) {
	disciple := Spec(MGTDiscipleplus3)
	sam := Spec(SAMCoupe)
	if disciple.Sides != sam.Sides || disciple.Tracks != sam.Tracks || disciple.SectorsPerTrack != sam.SectorsPerTrack {
		t.Errorf("DISCiPLE/+D and SAM MGT presets should share geometry: %+v vs %+v", disciple, sam)
	}
	if disciple.Sides != 2 || disciple.Tracks != 80 || disciple.SectorsPerTrack != 10 {
		t.Errorf("unexpected MGT geometry: %+v", disciple)
	}
}

func TestNameString(t *testing.T) {
	if AmstradCPCSystem.String() != "Amstrad CPC System" {
		t.Errorf("got %q", AmstradCPCSystem.String())
	}
	if Name(999).String() != "Unknown" {
		t.Errorf("out-of-range Name should print Unknown, got %q", Name(999).String())
	}
}

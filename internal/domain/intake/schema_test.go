package intake

import (
	"reflect"
	"testing"
)

func TestRegistryCanonicalOrder(t *testing.T) {
	reg := NewRegistry()

	want := []string{
		SectionHistory,
		SectionLifestyle,
		SectionWomensHealth,
		SectionCardiovascular,
		SectionRespiratory,
		SectionDigestive,
		SectionNeurological,
		SectionMusculoskeletal,
		SectionEndocrine,
		SectionChildhoodImmun,
		SectionAdultImmun,
	}
	if got := reg.CanonicalOrder(); !reflect.DeepEqual(got, want) {
		t.Errorf("CanonicalOrder() = %v, want %v", got, want)
	}
}

func TestRegistryStepsFor(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name       string
		gender     string
		wantTotal  int
		wantWomens bool
	}{
		{"female includes womens health", "female", 11, true},
		{"male excludes womens health", "male", 10, false},
		{"empty gender excludes womens health", "", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := reg.StepsFor(tt.gender)
			if len(steps) != tt.wantTotal {
				t.Fatalf("len(steps) = %d, want %d", len(steps), tt.wantTotal)
			}
			if got := reg.TotalSteps(tt.gender); got != tt.wantTotal {
				t.Errorf("TotalSteps(%q) = %d, want %d", tt.gender, got, tt.wantTotal)
			}
			has := false
			for _, id := range steps {
				if id == SectionWomensHealth {
					has = true
				}
			}
			if has != tt.wantWomens {
				t.Errorf("womens_health present = %v, want %v", has, tt.wantWomens)
			}
			// Relative order of the shared sections must match the canonical
			// order regardless of gender.
			prev := -1
			canonical := reg.CanonicalOrder()
			for _, id := range steps {
				idx := indexOf(canonical, id)
				if idx <= prev {
					t.Errorf("section %q out of canonical order", id)
				}
				prev = idx
			}
		})
	}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()

	sec, ok := reg.Lookup(SectionLifestyle)
	if !ok {
		t.Fatal("Lookup(lifestyle) not found")
	}
	f, ok := sec.Field("cigarettes_per_day")
	if !ok {
		t.Fatal("lifestyle is missing cigarettes_per_day")
	}
	if f.Kind != KindInt {
		t.Errorf("cigarettes_per_day kind = %q, want %q", f.Kind, KindInt)
	}

	if _, ok := reg.Lookup("dental"); ok {
		t.Error("Lookup(dental) found, want miss")
	}
}

// Sections are merged into one flat JSONB document per student, so a field
// name reused across sections would let a later submission clobber an
// earlier one. The registry must keep field names globally unique.
func TestFieldNamesDisjointAcrossSections(t *testing.T) {
	reg := NewRegistry()

	seen := make(map[string]string)
	for _, id := range reg.CanonicalOrder() {
		sec, _ := reg.Lookup(id)
		for _, f := range sec.Fields {
			if owner, dup := seen[f.Name]; dup {
				t.Errorf("field %q declared in both %q and %q", f.Name, owner, id)
			}
			seen[f.Name] = id
		}
	}
}

func TestEveryFieldHasDeclaredKind(t *testing.T) {
	reg := NewRegistry()

	valid := map[FieldKind]bool{KindString: true, KindBool: true, KindInt: true, KindDate: true}
	for _, id := range reg.CanonicalOrder() {
		sec, _ := reg.Lookup(id)
		if len(sec.Fields) == 0 {
			t.Errorf("section %q has no fields", id)
		}
		for _, f := range sec.Fields {
			if !valid[f.Kind] {
				t.Errorf("section %q field %q has unknown kind %q", id, f.Name, f.Kind)
			}
		}
	}
}

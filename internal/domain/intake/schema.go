package intake

// FieldKind declares how a raw client value for a field should be coerced
// before validation. Kinds are declared per field rather than inferred from
// field names.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindBool   FieldKind = "bool"
	KindInt    FieldKind = "int"
	KindDate   FieldKind = "date"
)

// Field is a single entry in a section schema.
type Field struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`
}

// Section is the validation contract for one page of the intake form.
type Section struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Field returns the named field declaration, if it exists.
func (s *Section) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Section identifiers in canonical order. SectionWomensHealth is only part
// of the sequence for female students.
const (
	SectionHistory         = "history"
	SectionLifestyle       = "lifestyle"
	SectionWomensHealth    = "womens_health"
	SectionCardiovascular  = "cardiovascular"
	SectionRespiratory     = "respiratory"
	SectionDigestive       = "digestive"
	SectionNeurological    = "neurological"
	SectionMusculoskeletal = "musculoskeletal"
	SectionEndocrine       = "endocrine"
	SectionChildhoodImmun  = "childhood_immunizations"
	SectionAdultImmun      = "adult_immunizations"
)

// GenderFemale is the gender value that includes the women's health section
// in the step sequence.
const GenderFemale = "female"

// Registry maps section ids to their schemas and fixes the canonical order
// in which sections must be completed. The set is fixed at deployment time.
type Registry struct {
	sections map[string]*Section
	order    []string
}

// NewRegistry builds the registry with the full intake form definition.
func NewRegistry() *Registry {
	sections := []*Section{
		{
			ID:    SectionHistory,
			Title: "Medical History",
			Fields: []Field{
				{Name: "general_health", Kind: KindString},
				{Name: "inpatient_admit", Kind: KindBool},
				{Name: "inpatient_details", Kind: KindString},
				{Name: "ongoing_conditions", Kind: KindString},
				{Name: "family_history", Kind: KindString},
				{Name: "surgery_history", Kind: KindBool},
				{Name: "surgery_details", Kind: KindString},
				{Name: "last_checkup_date", Kind: KindDate},
			},
		},
		{
			ID:    SectionLifestyle,
			Title: "Lifestyle",
			Fields: []Field{
				{Name: "smokes", Kind: KindBool},
				{Name: "cigarettes_per_day", Kind: KindInt},
				{Name: "alcohol", Kind: KindBool},
				{Name: "alcohol_days_per_week", Kind: KindInt},
				{Name: "exercise_days_per_week", Kind: KindInt},
				{Name: "diet_notes", Kind: KindString},
			},
		},
		{
			ID:    SectionWomensHealth,
			Title: "Women's Health",
			Fields: []Field{
				{Name: "last_menstrual_period", Kind: KindDate},
				{Name: "menstrual_regular", Kind: KindBool},
				{Name: "pregnancies", Kind: KindInt},
				{Name: "contraception", Kind: KindString},
			},
		},
		{
			ID:    SectionCardiovascular,
			Title: "Cardiovascular Conditions",
			Fields: []Field{
				{Name: "hypertension", Kind: KindBool},
				{Name: "hypertension_since", Kind: KindDate},
				{Name: "chest_pain", Kind: KindBool},
				{Name: "palpitations", Kind: KindBool},
				{Name: "cardio_notes", Kind: KindString},
			},
		},
		{
			ID:    SectionRespiratory,
			Title: "Respiratory Conditions",
			Fields: []Field{
				{Name: "asthma", Kind: KindBool},
				{Name: "asthma_since", Kind: KindDate},
				{Name: "inhaler_use", Kind: KindBool},
				{Name: "tuberculosis", Kind: KindBool},
				{Name: "respiratory_notes", Kind: KindString},
			},
		},
		{
			ID:    SectionDigestive,
			Title: "Digestive Conditions",
			Fields: []Field{
				{Name: "ulcer", Kind: KindBool},
				{Name: "reflux", Kind: KindBool},
				{Name: "hepatitis", Kind: KindBool},
				{Name: "digestive_notes", Kind: KindString},
			},
		},
		{
			ID:    SectionNeurological,
			Title: "Neurological Conditions",
			Fields: []Field{
				{Name: "seizures", Kind: KindBool},
				{Name: "seizure_last_date", Kind: KindDate},
				{Name: "migraines", Kind: KindBool},
				{Name: "migraine_days_per_month", Kind: KindInt},
				{Name: "neuro_notes", Kind: KindString},
			},
		},
		{
			ID:    SectionMusculoskeletal,
			Title: "Musculoskeletal Conditions",
			Fields: []Field{
				{Name: "fractures", Kind: KindBool},
				{Name: "fracture_details", Kind: KindString},
				{Name: "joint_pain", Kind: KindBool},
				{Name: "back_pain", Kind: KindBool},
			},
		},
		{
			ID:    SectionEndocrine,
			Title: "Endocrine Conditions",
			Fields: []Field{
				{Name: "diabetes", Kind: KindBool},
				{Name: "diabetes_since", Kind: KindDate},
				{Name: "thyroid_disorder", Kind: KindBool},
				{Name: "endocrine_notes", Kind: KindString},
			},
		},
		{
			ID:    SectionChildhoodImmun,
			Title: "Childhood Immunizations",
			Fields: []Field{
				{Name: "bcg", Kind: KindBool},
				{Name: "measles", Kind: KindBool},
				{Name: "polio", Kind: KindBool},
				{Name: "tetanus_last_date", Kind: KindDate},
			},
		},
		{
			ID:    SectionAdultImmun,
			Title: "Adult Immunizations",
			Fields: []Field{
				{Name: "hepatitis_b", Kind: KindBool},
				{Name: "hepatitis_b_doses", Kind: KindInt},
				{Name: "covid", Kind: KindBool},
				{Name: "covid_doses", Kind: KindInt},
				{Name: "influenza_last_date", Kind: KindDate},
			},
		},
	}

	r := &Registry{sections: make(map[string]*Section, len(sections))}
	for _, s := range sections {
		r.sections[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

// Lookup returns the schema for a section id.
func (r *Registry) Lookup(id string) (*Section, bool) {
	s, ok := r.sections[id]
	return s, ok
}

// CanonicalOrder returns the full ordered list of section ids, including the
// women's health section.
func (r *Registry) CanonicalOrder() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// StepsFor returns the ordered section ids a student of the given gender must
// complete. The women's health section is excluded for non-female students.
func (r *Registry) StepsFor(gender string) []string {
	var out []string
	for _, id := range r.order {
		if id == SectionWomensHealth && gender != GenderFemale {
			continue
		}
		out = append(out, id)
	}
	return out
}

// TotalSteps returns the number of steps for the given gender: 11 for female
// students, 10 otherwise.
func (r *Registry) TotalSteps(gender string) int {
	return len(r.StepsFor(gender))
}

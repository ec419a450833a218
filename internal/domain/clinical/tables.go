package clinical

// noteStep is one note in a plan: its type and the sentence appended to the
// chief complaint in the subjective section.
type noteStep struct {
	Type   string
	Suffix string
}

// bucket selects a plan for bases strictly below Upper.
type bucket struct {
	Upper int
	Plan  []noteStep
}

// rule applies to the visits it matches, checked in order.
type rule struct {
	Name    string
	Match   func(outcome, service string) bool
	Buckets []bucket
}

var (
	admission = noteStep{NoteSOAP, "Ingreso"}
	evolution = noteStep{NoteEvolution, "Evolucion"}
	discharge = noteStep{NoteDischarge, "Alta"}
	emergency = noteStep{NoteEvolution, "Urgencias"}
	consult   = noteStep{NoteSOAP, "Consulta"}
	followUp  = noteStep{NoteEvolution, "Seguimiento"}
)

var noteRules = []rule{
	{
		Name:  "admission",
		Match: func(outcome, _ string) bool { return outcome == OutcomeAdmission },
		Buckets: []bucket{
			{50, []noteStep{admission, evolution, discharge}},
			{80, []noteStep{admission, evolution}},
			{100, []noteStep{admission}},
		},
	},
	{
		Name:  "emergency",
		Match: func(_, service string) bool { return service == ServiceEmergency },
		Buckets: []bucket{
			{70, []noteStep{emergency}},
		},
	},
	{
		Name:  "ambulatory",
		Match: func(string, string) bool { return true },
		Buckets: []bucket{
			{70, []noteStep{consult}},
			{80, []noteStep{consult, followUp}},
		},
	},
}

func notePlan(outcome, service string, base int) []noteStep {
	for _, r := range noteRules {
		if !r.Match(outcome, service) {
			continue
		}
		for _, b := range r.Buckets {
			if base < b.Upper {
				return b.Plan
			}
		}
		return nil
	}
	return nil
}

// Template is the diagnosis-specific clinical text of a note.
type Template struct {
	Chief      string
	Assessment string
	Plan       string
}

var templates = map[string]Template{
	"MALARIA": {"Fiebre y escalofrios", "Sospecha de malaria", "Prueba rapida, antipaludico y control en 48h"},
	"ETI_IRA": {"Tos y rinorrea", "Infeccion respiratoria aguda", "Sintomaticos y signos de alarma"},
	"DIARREA": {"Diarrea aguda", "Deshidratacion leve", "SRO, dieta y control en 24h"},
	"TB":      {"Tos cronica", "Probable TB", "Derivar al programa TB y solicitar pruebas"},
	"HIV":     {"Control VIH", "VIH en seguimiento", "Consejeria, pruebas y seguimiento"},
}

var defaultTemplate = Template{"Consulta general", "Evaluacion clinica", "Indicaciones generales y control"}

func templateFor(diagnosisID string) Template {
	if t, ok := templates[diagnosisID]; ok {
		return t
	}
	return defaultTemplate
}

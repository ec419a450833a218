// Package roster fabricates a reproducible health-workforce population from
// facility staffing quotas. The same seed and quotas always produce the same
// streams, in the same order.
package roster

import (
	"fmt"
	"strings"

	"github.com/sigesalud/dashboard/internal/platform/detrand"
)

// DefaultSeed is the seed used by the population step unless configured.
const DefaultSeed int64 = 20250108

const (
	nationality = "Guinea Ecuatorial"
	emailDomain = "sigesalud.ge"
)

var (
	firstNamesMale   = []string{"Juan", "Luis", "Pedro", "Carlos", "Miguel", "Jose", "Andres", "Ramon", "Victor", "Samuel"}
	firstNamesFemale = []string{"Maria", "Ana", "Carmen", "Luisa", "Elena", "Rosa", "Teresa", "Alicia", "Patricia", "Sonia"}
	lastNames        = []string{"Ndong", "Nze", "Obiang", "Esono", "Ela", "Biyogo", "Abaga", "Okori", "Mba", "Nsue"}

	departments = []string{"CONSULTA_EXTERNA", "URGENCIAS", "MATERNIDAD", "LABORATORIO", "CIRUGIA", "MEDICINA_INTERNA"}

	specialties = map[string][]string{
		CadreDoctor:     {"MEDICINA_GENERAL", "PEDIATRIA", "GINECOLOGIA", "CIRUGIA", "MEDICINA_INTERNA"},
		CadreNurse:      {"ENFERMERIA_GENERAL", "OBSTETRICA", "PEDIATRICA"},
		CadreTechnician: {"LABORATORIO", "RADIOLOGIA", "FARMACIA"},
		CadreSupport:    {"ADMINISTRATIVO", "LOGISTICA", "ADMISION"},
	}
	genericSpecialty = []string{"GENERAL"}

	positionTitles = map[string][]string{
		CadreDoctor:     {"Medico General", "Medico Especialista"},
		CadreNurse:      {"Enfermera", "Enfermera Jefe"},
		CadreTechnician: {"Tecnico", "Tecnico Senior"},
		CadreSupport:    {"Administrativo", "ApoyoLogistico"},
	}
	genericPosition = []string{"Personal"}

	licensePrefix = map[string]string{
		CadreDoctor:     "GE-MED",
		CadreNurse:      "GE-ENF",
		CadreTechnician: "GE-TEC",
	}

	historyRole = map[string]string{
		CadreSupport: "Apoyo",
		CadreNurse:   "Enfermeria",
		CadreDoctor:  "Medico",
	}

	degreeName = map[string]string{
		CadreDoctor:     "Doctor en Medicina",
		CadreNurse:      "Licenciatura en Enfermeria",
		CadreTechnician: "Tecnico Superior",
	}

	employmentTypes = []detrand.Weighted[string]{
		{Value: "PUBLICO", Weight: 70},
		{Value: "CONTRATO", Weight: 25},
		{Value: "COOPERACION", Weight: 5},
	}

	statusTypes = []detrand.Weighted[string]{
		{Value: StatusActive, Weight: 95},
		{Value: "BAJA", Weight: 2},
		{Value: "TRASLADO", Weight: 2},
		{Value: "JUBILADO", Weight: 1},
	}
)

// Generator holds the state of one generation run. Id counters run across the
// whole run and are never reset per facility.
type Generator struct {
	rng         *detrand.RNG
	facilityIDs []string

	workerSeq     int
	assignmentSeq int
	historySeq    int
	credentialSeq int

	out Roster
}

// Generate builds the roster for the quotas. facilityIDs is the pool past
// postings are drawn from.
func Generate(quotas []Quota, facilityIDs []string, seed int64) Roster {
	g := &Generator{
		rng:         detrand.NewRNG(seed),
		facilityIDs: facilityIDs,
	}
	for _, q := range quotas {
		g.addMany(q.FacilityID, CadreDoctor, q.Doctors)
		g.addMany(q.FacilityID, CadreNurse, q.Nurses)
		g.addMany(q.FacilityID, CadreTechnician, q.Technicians)
		g.addMany(q.FacilityID, CadreSupport, q.SupportStaff)
	}
	return g.out
}

func (g *Generator) addMany(facilityID, cadre string, n int) {
	for i := 0; i < n; i++ {
		g.addWorker(facilityID, cadre)
	}
}

func (g *Generator) addWorker(facilityID, cadre string) {
	r := g.rng

	sex := "F"
	if r.Float() < 0.5 {
		sex = "M"
	}
	var first string
	if sex == "M" {
		first = detrand.Pick(r, firstNamesMale)
	} else {
		first = detrand.Pick(r, firstNamesFemale)
	}
	last1 := detrand.Pick(r, lastNames)
	last2 := detrand.Pick(r, lastNames)
	dob := g.date(1965 + r.Intn(25))

	specs, ok := specialties[cadre]
	if !ok {
		specs = genericSpecialty
	}
	specialty := detrand.Pick(r, specs)
	employment := detrand.WeightedPick(r, employmentTypes)
	status := detrand.WeightedPick(r, statusTypes)

	g.workerSeq++
	workerID := fmt.Sprintf("HW_%06d", g.workerSeq)

	var license *string
	if prefix, ok := licensePrefix[cadre]; ok {
		l := fmt.Sprintf("%s-%05d", prefix, r.Intn(99999))
		license = &l
	}

	phone := fmt.Sprintf("+240%09d", 600000000+r.Intn(199999999))

	g.out.Workers = append(g.out.Workers, Worker{
		WorkerID:       workerID,
		FullName:       first + " " + last1 + " " + last2,
		Sex:            sex,
		DOB:            dob,
		Nationality:    nationality,
		Cadre:          cadre,
		Specialty:      specialty,
		LicenseNumber:  license,
		EmploymentType: employment,
		Status:         status,
		Contact: Contact{
			Phone: phone,
			Email: strings.ToLower(first) + "." + strings.ToLower(last1) + "@" + emailDomain,
		},
	})

	titles, ok := positionTitles[cadre]
	if !ok {
		titles = genericPosition
	}
	position := detrand.Pick(r, titles)
	department := detrand.Pick(r, departments)
	start := g.date(2021 + r.Intn(4))
	fte := 1.0
	if r.Float() < 0.1 {
		fte = 0.5
	}

	g.assignmentSeq++
	g.out.Assignments = append(g.out.Assignments, Assignment{
		AssignmentID:  fmt.Sprintf("ASG_%06d", g.assignmentSeq),
		WorkerID:      workerID,
		FacilityID:    facilityID,
		PositionTitle: position,
		Department:    department,
		StartDate:     start,
		FTE:           fte,
	})

	g.addHistory(workerID, facilityID, cadre)
	g.addCredentials(workerID, cadre)
}

func (g *Generator) addHistory(workerID, currentFacility, cadre string) {
	r := g.rng
	entries := r.Intn(3)
	if entries == 0 {
		return
	}
	others := make([]string, 0, len(g.facilityIDs))
	for _, id := range g.facilityIDs {
		if id != currentFacility {
			others = append(others, id)
		}
	}
	role, ok := historyRole[cadre]
	if !ok {
		role = "Tecnico"
	}
	for i := 0; i < entries; i++ {
		var facility *string
		if prev := detrand.Pick(r, others); prev != "" {
			facility = &prev
		}
		startYear := 2016 + r.Intn(4)
		endYear := startYear + 1 + r.Intn(2)
		start := g.date(startYear)
		end := g.date(endYear)

		g.historySeq++
		g.out.History = append(g.out.History, HistoryEntry{
			HistoryID:  fmt.Sprintf("HIS_%06d", g.historySeq),
			WorkerID:   workerID,
			FacilityID: facility,
			Role:       role,
			StartDate:  start,
			EndDate:    end,
			Notes:      "Rotacion previa",
		})
	}
}

func (g *Generator) addCredentials(workerID, cadre string) {
	r := g.rng
	degree, ok := degreeName[cadre]
	if !ok {
		degree = "Administracion"
	}
	awarded := g.date(2006 + r.Intn(10))
	g.credentialSeq++
	g.out.Credentials = append(g.out.Credentials, Credential{
		CredentialID: fmt.Sprintf("CRD_%06d", g.credentialSeq),
		WorkerID:     workerID,
		Type:         "TITULO",
		Name:         degree,
		Institution:  "Universidad Nacional",
		Country:      nationality,
		DateAwarded:  awarded,
	})

	if r.Float() >= 0.25 {
		return
	}
	certified := g.date(2018 + r.Intn(6))
	var expires *string
	if r.Float() < 0.3 {
		e := fmt.Sprintf("%d-12-31", 2026+r.Intn(3))
		expires = &e
	}
	g.credentialSeq++
	g.out.Credentials = append(g.out.Credentials, Credential{
		CredentialID: fmt.Sprintf("CRD_%06d", g.credentialSeq),
		WorkerID:     workerID,
		Type:         "CERTIFICACION",
		Name:         "Certificacion en servicio",
		Institution:  "Ministerio de Salud",
		Country:      nationality,
		DateAwarded:  certified,
		ExpiresOn:    expires,
	})
}

// date draws month then day for the given year.
func (g *Generator) date(year int) string {
	month := 1 + g.rng.Intn(12)
	day := 1 + g.rng.Intn(28)
	return fmt.Sprintf("%d-%02d-%02d", year, month, day)
}

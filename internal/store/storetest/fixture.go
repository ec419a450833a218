// Package storetest holds the fixture dataset shared by backend and service
// tests, plus helpers that open every backend over it.
package storetest

import (
	"encoding/json"
	"time"

	"github.com/sigesalud/dashboard/internal/domain/roster"
	"github.com/sigesalud/dashboard/internal/store/dataset"
)

// Today is the reference clock of the fixture: two days after the last visit.
var Today = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

// Clock returns Today.
func Clock() time.Time { return Today }

func str(s string) *string { return &s }

func raw(s string) json.RawMessage { return json.RawMessage(s) }

// Dataset returns a fresh copy of the fixture.
func Dataset() *dataset.Dataset {
	ds := &dataset.Dataset{
		Regions: []dataset.Region{
			{RegionID: dataset.T("CONTINENTAL"), Name: dataset.T("Region Continental")},
			{RegionID: dataset.T("INSULAR"), Name: dataset.T("Region Insular")},
		},
		Provinces: []dataset.Province{
			{ProvinceID: dataset.T("BIOKO_NORTE"), Name: dataset.T("Bioko Norte"), Region: dataset.T("INSULAR")},
			{ProvinceID: dataset.T("KIE_NTEM"), Name: dataset.T("Kie-Ntem"), Region: dataset.T("CONTINENTAL")},
			{ProvinceID: dataset.T("LITORAL"), Name: dataset.T("Litoral"), Region: dataset.T("CONTINENTAL")},
		},
		Districts: []dataset.District{
			{DistrictID: dataset.T("BANEY"), Name: dataset.T("Baney"), ProvinceID: dataset.T("BIOKO_NORTE"), Region: dataset.T("INSULAR")},
			{DistrictID: dataset.T("BATA"), Name: dataset.T("Bata"), ProvinceID: dataset.T("LITORAL"), Region: dataset.T("CONTINENTAL")},
			{DistrictID: dataset.T("EBEBIYIN"), Name: dataset.T("Ebebiyin"), ProvinceID: dataset.T("KIE_NTEM"), Region: dataset.T("CONTINENTAL")},
			{DistrictID: dataset.T("MALABO"), Name: dataset.T("Malabo"), ProvinceID: dataset.T("BIOKO_NORTE"), Region: dataset.T("INSULAR")},
		},
		Municipalities: []dataset.Municipality{
			{MunicipalityID: dataset.T("MUN_MALABO"), Name: dataset.T("Malabo"), DistrictID: dataset.T("MALABO"), ProvinceID: dataset.T("BIOKO_NORTE"), Region: dataset.T("INSULAR")},
			{MunicipalityID: dataset.T("MUN_BATA"), Name: dataset.T("Bata"), DistrictID: dataset.T("BATA"), ProvinceID: dataset.T("LITORAL"), Region: dataset.T("CONTINENTAL")},
		},
		Facilities: []dataset.Facility{
			{
				FacilityID: dataset.T("F1"), Name: dataset.T("Centro de Salud Ela Nguema"), Region: dataset.T("INSULAR"),
				Province: dataset.T("BIOKO_NORTE"), District: dataset.T("MALABO"), City: dataset.T("Malabo"),
				FacilityType: dataset.T("CENTRO_SALUD"), ReferenceLevel: dataset.T("1"), Ownership: dataset.T("PUBLICO"),
				Services: raw(`["CONSULTA_EXTERNA"]`), Contacts: raw(`{"phones":["+240 333 091 100"]}`),
			},
			{
				FacilityID: dataset.T("F2"), Name: dataset.T("Hospital Regional de Bata"), Region: dataset.T("CONTINENTAL"),
				Province: dataset.T("LITORAL"), District: dataset.T("BATA"), City: dataset.T("Bata"),
				FacilityType: dataset.T("HOSPITAL"), ReferenceLevel: dataset.T("3"), Ownership: dataset.T("PUBLICO"),
				Services:    raw(`["URGENCIAS","LABORATORIO","MATERNIDAD"]`),
				Contacts:    raw(`{"phones":["+240 333 082 200"],"email":"hrb@sigesalud.ge"}`),
				AddressNote: dataset.T("Paseo Maritimo"), DataQuality: raw(`{"geo_verified":true}`),
				MapPos: raw(`{"zone":"CONTINENTAL","x":40,"y":55}`),
			},
			{
				FacilityID: dataset.T("F3"), Name: dataset.T("Hospital de Ebebiyin"), Region: dataset.T("CONTINENTAL"),
				Province: dataset.T("KIE_NTEM"), District: dataset.T("EBEBIYIN"), City: dataset.T("Ebebiyin"),
				FacilityType: dataset.T("HOSPITAL"), ReferenceLevel: dataset.T("2"), Ownership: dataset.T("PUBLICO"),
			},
			{
				FacilityID: dataset.T("F4"), Name: dataset.T("Clinica La Paz"), Region: dataset.T("INSULAR"),
				Province: dataset.T("BIOKO_NORTE"), District: dataset.T("MALABO"), City: dataset.T("Malabo"),
				FacilityType: dataset.T("CLINICA"), ReferenceLevel: dataset.T("1"), Ownership: dataset.T("PRIVADO"),
			},
		},
		Diseases: []dataset.Disease{
			{DiseaseID: dataset.T("ETI_IRA"), Name: dataset.T("Infeccion respiratoria aguda"), ICDLike: dataset.T("J06")},
			{DiseaseID: dataset.T("HTA"), ICDLike: dataset.T("I10")},
			{DiseaseID: dataset.T("MALARIA"), Name: dataset.T("Malaria"), ICDLike: dataset.T("B54")},
			{DiseaseID: dataset.T("TB"), Name: dataset.T("Tuberculosis"), ICDLike: dataset.T("A15")},
		},
		Patients: []dataset.Patient{
			{PatientID: dataset.T("P001"), FullName: dataset.T("Ana Mba Ela"), Sex: dataset.T("F"), DOB: dataset.T("1990-04-02"), DistrictID: dataset.T("MALABO"), MunicipalityID: dataset.T("MUN_MALABO"), FacilityID: dataset.T("F1")},
			{PatientID: dataset.T("P002"), FullName: dataset.T("Juan Nze Obiang"), Sex: dataset.T("M"), DOB: dataset.T("1985-11-20"), DistrictID: dataset.T("BATA"), MunicipalityID: dataset.T("MUN_BATA"), FacilityID: dataset.T("F2")},
			{PatientID: dataset.T("P003"), FullName: dataset.T("Maria Esono Nsue"), Sex: dataset.T("F"), DOB: dataset.T("2001-07-09"), DistrictID: dataset.T("BATA"), MunicipalityID: dataset.T("MUN_BATA"), FacilityID: dataset.T("F2")},
			{PatientID: dataset.T("P004"), FullName: dataset.T("Pedro Abaga Ndong"), Sex: dataset.T("M"), DOB: dataset.T("1978-01-30"), DistrictID: dataset.T("EBEBIYIN"), FacilityID: dataset.T("F3")},
		},
		Visits: []dataset.Visit{
			{VisitID: dataset.T("VIS_000005"), PatientID: dataset.T("P001"), FacilityID: dataset.T("F1"), Date: dataset.T("2025-03-10"), Service: dataset.T("CONSULTA_EXTERNA"), DiagnosisID: dataset.T("MALARIA"), DiagnosisCode: dataset.T("B54"), Outcome: dataset.T("ALTA")},
			{VisitID: dataset.T("VIS_000020"), PatientID: dataset.T("P002"), FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-09"), Service: dataset.T("URGENCIAS"), DiagnosisID: dataset.T("ETI_IRA"), DiagnosisCode: dataset.T("J06"), Outcome: dataset.T("ALTA")},
			{VisitID: dataset.T("VIS_000028"), PatientID: dataset.T("P002"), FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-05"), Service: dataset.T("MEDICINA_INTERNA"), DiagnosisID: dataset.T("TB"), DiagnosisCode: dataset.T("A15"), Outcome: dataset.T("INGRESO")},
			{VisitID: dataset.T("VIS_000090"), PatientID: dataset.T("P003"), FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-02"), Service: dataset.T("URGENCIAS"), DiagnosisID: dataset.T("DIARREA"), DiagnosisCode: dataset.T("A09"), Outcome: dataset.T("DEFUNCION")},
			{VisitID: dataset.T("VIS_000001"), PatientID: dataset.T("P001"), FacilityID: dataset.T("F4"), Date: dataset.T("2025-02-20"), Service: dataset.T("CONSULTA_EXTERNA"), DiagnosisID: dataset.T("HIV"), DiagnosisCode: dataset.T("B20"), Outcome: dataset.T("ALTA")},
			{VisitID: dataset.T("VIS_000002"), PatientID: dataset.T("P003"), FacilityID: dataset.T("F3"), Date: dataset.T("2025-01-15"), Service: dataset.T("CONSULTA_EXTERNA"), DiagnosisID: dataset.T("MALARIA"), DiagnosisCode: dataset.T("B54"), Outcome: dataset.T("ALTA")},
		},
		Alerts: []dataset.Alert{
			{AlertID: dataset.T("A1"), Date: dataset.T("2025-03-09"), Type: dataset.T("STOCKOUT"), Severity: dataset.T("ALTA"), Scope: dataset.T("FACILITY"), ScopeID: dataset.T("F2"), ProvinceID: dataset.T("LITORAL"), Region: dataset.T("CONTINENTAL"), Message: dataset.T("Rotura de stock de amoxicilina")},
			{AlertID: dataset.T("A2"), Date: dataset.T("2025-03-01"), Type: dataset.T("OUTBREAK"), Severity: dataset.T("MEDIA"), Scope: dataset.T("DISTRICT"), ScopeID: dataset.T("MALABO"), ProvinceID: dataset.T("BIOKO_NORTE"), Region: dataset.T("INSULAR"), Message: dataset.T("Aumento de casos de malaria")},
			{AlertID: dataset.T("A3"), Date: dataset.T("2025-02-01"), Type: dataset.T("REPORTING"), Severity: dataset.T("BAJA"), Scope: dataset.T("FACILITY"), ScopeID: dataset.T("F1"), ProvinceID: dataset.T("BIOKO_NORTE"), Message: dataset.T("Informe semanal pendiente")},
		},
		StockCatalog: []dataset.StockItem{
			{ItemID: dataset.T("ACT"), Name: dataset.T("Artemeter-lumefantrina"), Category: dataset.T("ANTIPALUDICO"), Unit: dataset.T("blister")},
			{ItemID: dataset.T("AMOX"), Name: dataset.T("Amoxicilina 500mg"), Category: dataset.T("ANTIBIOTICO"), Unit: dataset.T("caja")},
			{ItemID: dataset.T("RDT"), Name: dataset.T("Prueba rapida malaria"), Category: dataset.T("LABORATORIO"), Unit: dataset.T("unidad")},
		},
		StockLevels: []dataset.StockLevel{
			{FacilityID: dataset.T("F1"), ItemID: dataset.T("RDT"), Month: dataset.T("2025-02"), StockOnHand: dataset.I(5), MinLevel: dataset.I(10), ExpiryNearest: dataset.T("2025-09-30")},
			{FacilityID: dataset.T("F1"), ItemID: dataset.T("RDT"), Month: dataset.T("2025-03"), StockOnHand: dataset.I(20), MinLevel: dataset.I(10), ExpiryNearest: dataset.T("2025-09-30")},
			{FacilityID: dataset.T("F1"), ItemID: dataset.T("ACT"), Month: dataset.T("2025-03"), StockOnHand: dataset.I(3), MinLevel: dataset.I(10), ExpiryNearest: dataset.T("2025-06-30")},
			{FacilityID: dataset.T("F2"), ItemID: dataset.T("AMOX"), Month: dataset.T("2025-03"), StockOnHand: dataset.I(0), MinLevel: dataset.I(15)},
			{FacilityID: dataset.T("F2"), ItemID: dataset.T("RDT"), Month: dataset.T("2025-03"), StockOnHand: dataset.I(8), MinLevel: dataset.I(8), ExpiryNearest: dataset.T("2025-12-31")},
			{FacilityID: dataset.T("F2"), ItemID: dataset.T("SRO"), Month: dataset.T("2025-03"), StockOnHand: dataset.I(1), MinLevel: dataset.I(5)},
			{FacilityID: dataset.T("F3"), ItemID: dataset.T("ACT"), Month: dataset.T("2025-03"), StockOnHand: dataset.I(50), MinLevel: dataset.I(10), ExpiryNearest: dataset.T("2026-01-31")},
		},
		Quotas: []roster.Quota{
			{FacilityID: "F1", Doctors: 1, Nurses: 3},
			{FacilityID: "F2", Doctors: 2, Nurses: 4, Technicians: 1, SupportStaff: 1},
			{FacilityID: "F3", Doctors: 1, Nurses: 1},
		},
		Epi: []dataset.EpiRecord{
			{DistrictID: dataset.T("MALABO"), ProvinceID: dataset.T("BIOKO_NORTE"), Region: dataset.T("INSULAR"), Week: dataset.I(9), WeekStart: dataset.T("2025-02-24"), DiseaseID: dataset.T("MALARIA"), Cases: dataset.I(12)},
			{DistrictID: dataset.T("BATA"), ProvinceID: dataset.T("LITORAL"), Region: dataset.T("CONTINENTAL"), Week: dataset.I(9), WeekStart: dataset.T("2025-02-24"), DiseaseID: dataset.T("MALARIA"), Cases: dataset.I(7)},
			{DistrictID: dataset.T("MALABO"), ProvinceID: dataset.T("BIOKO_NORTE"), Region: dataset.T("INSULAR"), Week: dataset.I(10), WeekStart: dataset.T("2025-03-03"), DiseaseID: dataset.T("MALARIA"), Cases: dataset.I(9)},
			{DistrictID: dataset.T("BATA"), ProvinceID: dataset.T("LITORAL"), Region: dataset.T("CONTINENTAL"), Week: dataset.I(10), WeekStart: dataset.T("2025-03-03"), DiseaseID: dataset.T("MALARIA"), Cases: dataset.I(15)},
			{DistrictID: dataset.T("EBEBIYIN"), ProvinceID: dataset.T("KIE_NTEM"), Region: dataset.T("CONTINENTAL"), Week: dataset.I(10), WeekStart: dataset.T("2025-03-03"), DiseaseID: dataset.T("MALARIA"), Cases: dataset.I(4)},
			{DistrictID: dataset.T("MALABO"), ProvinceID: dataset.T("BIOKO_NORTE"), Region: dataset.T("INSULAR"), Week: dataset.I(11), WeekStart: dataset.T("2025-03-10"), DiseaseID: dataset.T("MALARIA"), Cases: dataset.I(6)},
			{DistrictID: dataset.T("BATA"), ProvinceID: dataset.T("LITORAL"), Region: dataset.T("CONTINENTAL"), Week: dataset.I(10), WeekStart: dataset.T("2025-03-03"), DiseaseID: dataset.T("ETI_IRA"), Cases: dataset.I(20)},
		},
		LabSummary: []dataset.LabSummary{
			{FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-10"), TestsOrdered: dataset.I(40), TestsCompleted: dataset.I(35), AvgTurnaroundHours: dataset.N(6.5), RejectedSamples: dataset.I(2), TestsByCategory: raw(`{"MALARIA":20,"HEMATOLOGIA":20}`)},
			{FacilityID: dataset.T("F3"), Date: dataset.T("2025-03-10"), TestsOrdered: dataset.I(20), TestsCompleted: dataset.I(18), AvgTurnaroundHours: dataset.N(8), RejectedSamples: dataset.I(1)},
			{FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-08"), TestsOrdered: dataset.I(30), TestsCompleted: dataset.I(28), AvgTurnaroundHours: dataset.N(7), RejectedSamples: dataset.I(0)},
			{FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-05"), TestsOrdered: dataset.I(10), TestsCompleted: dataset.I(9), AvgTurnaroundHours: dataset.N(5.5), RejectedSamples: dataset.I(1)},
			{FacilityID: dataset.T("F2"), Date: dataset.T("2025-02-20"), TestsOrdered: dataset.I(50), TestsCompleted: dataset.I(45), AvgTurnaroundHours: dataset.N(9), RejectedSamples: dataset.I(3)},
		},
		LabIndicators: []dataset.LabIndicator{
			{FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-10"), DiseaseID: dataset.T("MALARIA"), TestType: dataset.T("RDT"), TotalTested: dataset.I(30), TotalPositive: dataset.I(9)},
			{FacilityID: dataset.T("F3"), Date: dataset.T("2025-03-09"), DiseaseID: dataset.T("MALARIA"), TestType: dataset.T("RDT"), TotalTested: dataset.I(10), TotalPositive: dataset.I(2)},
			{FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-08"), DiseaseID: dataset.T("TB"), TestType: dataset.T("GENEXPERT"), TotalTested: dataset.I(5), TotalPositive: dataset.I(1)},
			{FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-06"), DiseaseID: dataset.T("HIV"), TestType: dataset.T("RAPID"), TotalTested: dataset.I(12), TotalPositive: dataset.I(1)},
		},
		LabAlerts: []dataset.LabAlert{
			{AlertID: dataset.T("LA1"), Date: dataset.T("2025-03-09"), Type: dataset.T("RDT_STOCK_LOW"), Severity: dataset.T("ALTA"), FacilityID: dataset.T("F2"), Message: dataset.T("RDT con stock bajo")},
			{AlertID: dataset.T("LA2"), Date: dataset.T("2025-03-10"), Type: dataset.T("MACHINE_DOWNTIME"), Severity: dataset.T("MEDIA"), FacilityID: dataset.T("F3"), Message: dataset.T("Analizador fuera de servicio")},
			{AlertID: dataset.T("LA3"), Date: dataset.T("2025-02-01"), Type: dataset.T("POSITIVITY_SPIKE"), Severity: dataset.T("ALTA"), FacilityID: dataset.T("F2"), Message: dataset.T("Aumento de positividad")},
		},
	}
	ds.SetRoster(Roster())
	return ds
}

// Roster is a small hand-written HR population over the fixture facilities.
// F1 has no staff at all.
func Roster() roster.Roster {
	return roster.Roster{
		Workers: []roster.Worker{
			{WorkerID: "HW_000001", FullName: "Carlos Ndong Mba", Sex: "M", DOB: "1975-05-14", Nationality: "GQ", Cadre: roster.CadreDoctor, Specialty: "MEDICINA_GENERAL", LicenseNumber: str("GE-MED-10001"), EmploymentType: "PUBLICO", Status: roster.StatusActive, Contact: roster.Contact{Phone: "+240222100001", Email: "carlos.ndong@sigesalud.ge"}},
			{WorkerID: "HW_000002", FullName: "Rosa Ela Nsue", Sex: "F", DOB: "1988-09-02", Nationality: "GQ", Cadre: roster.CadreNurse, Specialty: "ENFERMERIA_GENERAL", LicenseNumber: str("GE-ENF-20002"), EmploymentType: "PUBLICO", Status: roster.StatusActive, Contact: roster.Contact{Phone: "+240222100002", Email: "rosa.ela@sigesalud.ge"}},
			{WorkerID: "HW_000003", FullName: "Luis Obiang Nze", Sex: "M", DOB: "1970-01-22", Nationality: "GQ", Cadre: roster.CadreNurse, Specialty: "ENFERMERIA_GENERAL", LicenseNumber: str("GE-ENF-20003"), EmploymentType: "CONTRATO", Status: "BAJA", Contact: roster.Contact{Phone: "+240222100003", Email: "luis.obiang@sigesalud.ge"}},
			{WorkerID: "HW_000004", FullName: "Elena Biyogo Abaga", Sex: "F", DOB: "1992-03-30", Nationality: "GQ", Cadre: roster.CadreTechnician, Specialty: "LABORATORIO", LicenseNumber: str("GE-TEC-30004"), EmploymentType: "PUBLICO", Status: roster.StatusActive, Contact: roster.Contact{Phone: "+240222100004", Email: "elena.biyogo@sigesalud.ge"}},
			{WorkerID: "HW_000005", FullName: "Samuel Okori Esono", Sex: "M", DOB: "1981-12-11", Nationality: "CU", Cadre: roster.CadreDoctor, Specialty: "PEDIATRIA", LicenseNumber: str("GE-MED-10005"), EmploymentType: "COOPERACION", CooperationProgram: str("BRIGADA_CUBANA"), Status: "TRASLADO", Contact: roster.Contact{Phone: "+240222100005", Email: "samuel.okori@sigesalud.ge"}},
			{WorkerID: "HW_000006", FullName: "Teresa Abaga Mba", Sex: "F", DOB: "1995-06-18", Nationality: "GQ", Cadre: roster.CadreSupport, Specialty: "SERVICIOS_GENERALES", EmploymentType: "CONTRATO", Status: roster.StatusActive, Contact: roster.Contact{Phone: "+240222100006", Email: "teresa.abaga@sigesalud.ge"}},
		},
		Assignments: []roster.Assignment{
			{AssignmentID: "ASG_000001", WorkerID: "HW_000001", FacilityID: "F2", PositionTitle: "Medico General", Department: "URGENCIAS", StartDate: "2022-04-01", FTE: 1},
			{AssignmentID: "ASG_000002", WorkerID: "HW_000002", FacilityID: "F2", PositionTitle: "Enfermera", Department: "URGENCIAS", StartDate: "2023-01-16", FTE: 1},
			{AssignmentID: "ASG_000003", WorkerID: "HW_000003", FacilityID: "F2", PositionTitle: "Enfermero", Department: "MATERNIDAD", StartDate: "2019-06-01", EndDate: str("2024-12-31"), FTE: 1},
			{AssignmentID: "ASG_000004", WorkerID: "HW_000004", FacilityID: "F3", PositionTitle: "Tecnico de Laboratorio", Department: "LABORATORIO", StartDate: "2021-09-01", EndDate: str(""), FTE: 0.5},
			{AssignmentID: "ASG_000005", WorkerID: "HW_000005", FacilityID: "F3", PositionTitle: "Pediatra", Department: "CONSULTA_EXTERNA", StartDate: "2024-02-15", FTE: 1, ShiftPattern: str("DIURNO")},
			{AssignmentID: "ASG_000006", WorkerID: "HW_000006", FacilityID: "F2", PositionTitle: "Auxiliar", Department: "CONSULTA_EXTERNA", StartDate: "2023-07-03", FTE: 1},
		},
		History: []roster.HistoryEntry{
			{HistoryID: "HIS_000001", WorkerID: "HW_000001", FacilityID: str("F3"), Role: "Medico General", StartDate: "2018-01-10", EndDate: "2019-05-02", Notes: "Traslado interno"},
			{HistoryID: "HIS_000002", WorkerID: "HW_000001", FacilityID: str("F1"), Role: "Medico General", StartDate: "2020-02-01", EndDate: "2021-03-03", Notes: "Reasignacion"},
			{HistoryID: "HIS_000003", WorkerID: "HW_000002", FacilityID: str("F1"), Role: "Enfermera", StartDate: "2017-05-05", EndDate: "2019-08-30", Notes: "Traslado interno"},
		},
		Credentials: []roster.Credential{
			{CredentialID: "CRD_000001", WorkerID: "HW_000001", Type: "DEGREE", Name: "Licenciatura en Medicina", Institution: "UNGE", Country: "GQ", DateAwarded: "2001-07-15"},
			{CredentialID: "CRD_000002", WorkerID: "HW_000002", Type: "CERTIFICATION", Name: "Soporte Vital Basico", Institution: "Cruz Roja", Country: "GQ", DateAwarded: "2023-03-01", ExpiresOn: str("2025-03-01")},
			{CredentialID: "CRD_000003", WorkerID: "HW_000004", Type: "CERTIFICATION", Name: "Bioseguridad", Institution: "OMS", Country: "GQ", DateAwarded: "2024-05-20", ExpiresOn: str("2025-05-20")},
			{CredentialID: "CRD_000004", WorkerID: "HW_000005", Type: "CERTIFICATION", Name: "Atencion Integrada", Institution: "UNICEF", Country: "CU", DateAwarded: "2022-12-31", ExpiresOn: str("2025-12-31")},
			{CredentialID: "CRD_000005", WorkerID: "HW_000006", Type: "CERTIFICATION", Name: "Manejo de Residuos", Institution: "MINSABS", Country: "GQ", DateAwarded: "2024-03-12", ExpiresOn: str("2025-03-12")},
		},
	}
}

// Empty returns a dataset with reference tables only: no visits, epi, stock,
// lab or HR rows. It exercises every fallback path.
func Empty() *dataset.Dataset {
	full := Dataset()
	return &dataset.Dataset{
		Regions:    full.Regions,
		Provinces:  full.Provinces,
		Districts:  full.Districts,
		Facilities: full.Facilities,
	}
}

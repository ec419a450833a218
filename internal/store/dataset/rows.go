package dataset

import (
	"github.com/sigesalud/dashboard/internal/domain/roster"
	"github.com/sigesalud/dashboard/internal/store"
)

// Rows converts one collection to storage rows. Every row carries every column
// of the entity's table, with nil for absent values, so both backends see the
// same shape.
func (d *Dataset) Rows(e store.Entity) []store.Row {
	switch e {
	case store.Facilities:
		return mapRows(d.Facilities, facilityRow)
	case store.Patients:
		return mapRows(d.Patients, func(p Patient) store.Row {
			return store.Row{
				"patient_id": p.PatientID.Value(), "full_name": p.FullName.Value(), "sex": p.Sex.Value(),
				"dob": p.DOB.Value(), "district_id": p.DistrictID.Value(),
				"municipality_id": p.MunicipalityID.Value(), "facility_id": p.FacilityID.Value(),
			}
		})
	case store.Visits:
		return mapRows(d.Visits, func(v Visit) store.Row {
			return store.Row{
				"visit_id": v.VisitID.Value(), "patient_id": v.PatientID.Value(), "facility_id": v.FacilityID.Value(),
				"date": v.Date.Value(), "service": v.Service.Value(), "diagnosis_id": v.DiagnosisID.Value(),
				"diagnosis_code": v.DiagnosisCode.Value(), "outcome": v.Outcome.Value(),
			}
		})
	case store.Alerts:
		return mapRows(d.Alerts, func(a Alert) store.Row {
			return store.Row{
				"alert_id": a.AlertID.Value(), "date": a.Date.Value(), "type": a.Type.Value(),
				"severity": a.Severity.Value(), "scope": a.Scope.Value(), "scope_id": a.ScopeID.Value(),
				"province_id": a.ProvinceID.Value(), "region": a.Region.Value(), "message": a.Message.Value(),
			}
		})
	case store.StockCatalog:
		return mapRows(d.StockCatalog, func(s StockItem) store.Row {
			return store.Row{
				"item_id": s.ItemID.Value(), "name": s.Name.Value(),
				"category": s.Category.Value(), "unit": s.Unit.Value(),
			}
		})
	case store.StockLevels:
		return mapRows(d.StockLevels, func(s StockLevel) store.Row {
			return store.Row{
				"facility_id": s.FacilityID.Value(), "item_id": s.ItemID.Value(), "month": s.Month.Value(),
				"stock_on_hand": s.StockOnHand.Value(), "min_level": s.MinLevel.Value(),
				"expiry_nearest": s.ExpiryNearest.Value(),
			}
		})
	case store.StaffingQuotas:
		return mapRows(d.Quotas, func(q roster.Quota) store.Row {
			return store.Row{
				"facility_id": q.FacilityID, "doctors": int64(q.Doctors), "nurses": int64(q.Nurses),
				"technicians": int64(q.Technicians), "support_staff": int64(q.SupportStaff),
				"cooperation_program": ptr(q.CooperationProgram),
			}
		})
	case store.Workers:
		return mapRows(d.Workers, workerRow)
	case store.Assignments:
		return mapRows(d.Assignments, func(a roster.Assignment) store.Row {
			return store.Row{
				"assignment_id": a.AssignmentID, "worker_id": a.WorkerID, "facility_id": a.FacilityID,
				"position_title": nullable(a.PositionTitle), "department": nullable(a.Department),
				"start_date": nullable(a.StartDate), "end_date": ptr(a.EndDate), "fte": a.FTE,
				"shift_pattern": ptr(a.ShiftPattern),
			}
		})
	case store.WorkHistory:
		return mapRows(d.History, func(h roster.HistoryEntry) store.Row {
			return store.Row{
				"history_id": h.HistoryID, "worker_id": h.WorkerID, "facility_id": ptr(h.FacilityID),
				"role": nullable(h.Role), "start_date": nullable(h.StartDate), "end_date": nullable(h.EndDate),
				"notes": nullable(h.Notes),
			}
		})
	case store.Credentials:
		return mapRows(d.Credentials, func(c roster.Credential) store.Row {
			return store.Row{
				"credential_id": c.CredentialID, "worker_id": c.WorkerID, "type": nullable(c.Type),
				"name": nullable(c.Name), "institution": nullable(c.Institution), "country": nullable(c.Country),
				"date_awarded": nullable(c.DateAwarded), "expires_on": ptr(c.ExpiresOn),
			}
		})
	case store.EpiWeekly:
		return mapRows(d.Epi, func(r EpiRecord) store.Row {
			return store.Row{
				"district_id": r.DistrictID.Value(), "province_id": r.ProvinceID.Value(), "region": r.Region.Value(),
				"week": r.Week.Value(), "week_start": r.WeekStart.Value(), "disease_id": r.DiseaseID.Value(),
				"cases": r.Cases.Value(),
			}
		})
	case store.Regions:
		return mapRows(d.Regions, func(r Region) store.Row {
			return store.Row{"region_id": r.RegionID.Value(), "name": r.Name.Value()}
		})
	case store.Provinces:
		return mapRows(d.Provinces, func(p Province) store.Row {
			return store.Row{"province_id": p.ProvinceID.Value(), "name": p.Name.Value(), "region": p.Region.Value()}
		})
	case store.Districts:
		return mapRows(d.Districts, func(x District) store.Row {
			return store.Row{
				"district_id": x.DistrictID.Value(), "name": x.Name.Value(),
				"province_id": x.ProvinceID.Value(), "region": x.Region.Value(),
			}
		})
	case store.Municipalities:
		return mapRows(d.Municipalities, func(m Municipality) store.Row {
			return store.Row{
				"municipality_id": m.MunicipalityID.Value(), "name": m.Name.Value(),
				"district_id": m.DistrictID.Value(), "province_id": m.ProvinceID.Value(), "region": m.Region.Value(),
			}
		})
	case store.Diseases:
		return mapRows(d.Diseases, func(x Disease) store.Row {
			return store.Row{"disease_id": x.DiseaseID.Value(), "name": x.Name.Value(), "icd_like": x.ICDLike.Value()}
		})
	case store.LabDailySummary:
		return mapRows(d.LabSummary, func(s LabSummary) store.Row {
			return store.Row{
				"facility_id": s.FacilityID.Value(), "date": s.Date.Value(),
				"tests_ordered": s.TestsOrdered.Value(), "tests_completed": s.TestsCompleted.Value(),
				"avg_turnaround_hours": s.AvgTurnaroundHours.Value(), "rejected_samples": s.RejectedSamples.Value(),
				"tests_by_category_json": jsonText(s.TestsByCategory, "{}"),
			}
		})
	case store.LabDiseaseIndicators:
		return mapRows(d.LabIndicators, func(x LabIndicator) store.Row {
			return store.Row{
				"facility_id": x.FacilityID.Value(), "date": x.Date.Value(), "disease_id": x.DiseaseID.Value(),
				"test_type": x.TestType.Value(), "total_tested": x.TotalTested.Value(),
				"total_positive": x.TotalPositive.Value(),
			}
		})
	case store.LabAlerts:
		return mapRows(d.LabAlerts, func(a LabAlert) store.Row {
			return store.Row{
				"alert_id": a.AlertID.Value(), "date": a.Date.Value(), "type": a.Type.Value(),
				"severity": a.Severity.Value(), "facility_id": a.FacilityID.Value(), "message": a.Message.Value(),
			}
		})
	}
	return nil
}

func facilityRow(f Facility) store.Row {
	return store.Row{
		"facility_id": f.FacilityID.Value(), "name": f.Name.Value(), "region": f.Region.Value(),
		"province": f.Province.Value(), "district": f.District.Value(), "city": f.City.Value(),
		"facility_type": f.FacilityType.Value(), "reference_level": f.ReferenceLevel.Value(),
		"ownership": f.Ownership.Value(), "services_json": jsonText(f.Services, "[]"),
		"contacts_json": jsonText(f.Contacts, "{}"), "address_note": f.AddressNote.Value(),
		"data_quality_json": jsonText(f.DataQuality, "{}"), "map_pos_json": jsonText(f.MapPos, ""),
	}
}

func workerRow(w roster.Worker) store.Row {
	return store.Row{
		"worker_id": w.WorkerID, "full_name": w.FullName, "sex": nullable(w.Sex), "dob": nullable(w.DOB),
		"nationality": nullable(w.Nationality), "cadre": nullable(w.Cadre), "specialty": nullable(w.Specialty),
		"license_number": ptr(w.LicenseNumber), "employment_type": nullable(w.EmploymentType),
		"cooperation_program": ptr(w.CooperationProgram), "status": nullable(w.Status),
		"phone": nullable(w.Contact.Phone), "email": nullable(w.Contact.Email),
	}
}

// nullable maps the empty string of a required-looking field to null, the
// way absent keys in source files are stored.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func mapRows[T any](in []T, fn func(T) store.Row) []store.Row {
	out := make([]store.Row, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

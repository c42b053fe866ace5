package importer

import (
	"context"

	"orgmanager-backend/models"

	"gorm.io/gorm"
)

type doctorHandler struct{}

var doctorSchema = newSchema(
	[]string{"name", "crm", "crm_state", "specialty", "email", "phone", "status"},
	"organization_id",
)

func (doctorHandler) kind() EntityType             { return Doctors }
func (doctorHandler) policy() writePolicy          { return policyUpsert }
func (doctorHandler) schema() fieldSchema          { return doctorSchema }
func (doctorHandler) naturalKey(rec Record) string { return scopedKey(rec, "crm") }

func (doctorHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	name := p.requireString("name")
	crm := p.requireString("crm")
	orgID := p.requireID("organization_id")
	if p.err != nil {
		return "", p.err
	}
	if err := ensureOrganization(tx, orgID); err != nil {
		return "", err
	}

	var doctor models.Doctor
	found, err := findOne(tx, &doctor, "crm = ? AND organization_id = ?", crm, orgID)
	if err != nil {
		return "", err
	}

	doctor.OrganizationID = orgID
	doctor.CRM = crm
	doctor.CRMState = p.optString("crm_state")
	doctor.Name = name
	doctor.Specialty = p.optString("specialty")
	doctor.Email = p.optString("email")
	doctor.Phone = p.optString("phone")
	doctor.Status = p.lowerOr("status", "active")

	return write(tx, found, &doctor, "doctor")
}

type patientHandler struct{}

var patientSchema = newSchema(
	[]string{"name", "cpf", "email", "phone", "gender", "address", "diagnosis", "status"},
	"organization_id", "birth_date", "doctor_id",
)

func (patientHandler) kind() EntityType             { return Patients }
func (patientHandler) policy() writePolicy          { return policyUpsert }
func (patientHandler) schema() fieldSchema          { return patientSchema }
func (patientHandler) naturalKey(rec Record) string { return scopedKey(rec, "cpf") }

func (patientHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	name := p.requireString("name")
	cpf := p.requireString("cpf")
	orgID := p.requireID("organization_id")
	doctorID := p.optID("doctor_id")
	birthDate := p.optTime("birth_date")
	if p.err != nil {
		return "", p.err
	}
	if err := ensureOrganization(tx, orgID); err != nil {
		return "", err
	}
	if doctorID != nil {
		if err := ensureExists(tx, &models.Doctor{}, "doctor", *doctorID, &orgID); err != nil {
			return "", err
		}
	}

	var patient models.Patient
	found, err := findOne(tx, &patient, "cpf = ? AND organization_id = ?", cpf, orgID)
	if err != nil {
		return "", err
	}

	patient.OrganizationID = orgID
	patient.CPF = cpf
	patient.Name = name
	patient.Email = p.optString("email")
	patient.Phone = p.optString("phone")
	patient.BirthDate = birthDate
	patient.Gender = p.optString("gender")
	patient.Address = p.optString("address")
	patient.Diagnosis = p.optString("diagnosis")
	patient.DoctorID = doctorID
	patient.Status = p.lowerOr("status", "active")

	return write(tx, found, &patient, "patient")
}

type appointmentHandler struct{}

var appointmentSchema = newSchema(
	[]string{"time", "type", "status", "notes"},
	"organization_id", "patient_id", "doctor_id", "date", "duration",
)

func (appointmentHandler) kind() EntityType         { return Appointments }
func (appointmentHandler) policy() writePolicy      { return policyAppend }
func (appointmentHandler) schema() fieldSchema      { return appointmentSchema }
func (appointmentHandler) naturalKey(Record) string { return "" }

func (appointmentHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	orgID := p.requireID("organization_id")
	patientID := p.requireID("patient_id")
	doctorID := p.requireID("doctor_id")
	date := p.requireTime("date")
	duration := p.intOr("duration", 30)
	if p.err != nil {
		return "", p.err
	}
	if duration <= 0 {
		return "", invalidRow("invalid value for duration: %d", duration)
	}
	if err := ensureOrganization(tx, orgID); err != nil {
		return "", err
	}
	if err := ensureExists(tx, &models.Patient{}, "patient", patientID, &orgID); err != nil {
		return "", err
	}
	if err := ensureExists(tx, &models.Doctor{}, "doctor", doctorID, &orgID); err != nil {
		return "", err
	}

	appointment := models.Appointment{
		OrganizationID: orgID,
		PatientID:      patientID,
		DoctorID:       doctorID,
		Date:           date,
		Time:           p.optString("time"),
		Duration:       duration,
		Type:           p.lowerOr("type", "consultation"),
		Status:         p.lowerOr("status", "scheduled"),
		Notes:          p.optString("notes"),
	}
	return write(tx, false, &appointment, "appointment")
}

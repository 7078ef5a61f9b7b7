package models

import "strings"

type UserRole string
type DoctorStatus string
type Gender string

const (
	UserRolePatient UserRole = "PATIENT"
	UserRoleDoctor  UserRole = "DOCTOR"
	UserRoleAdmin   UserRole = "ADMIN"

	DoctorStatusPending  DoctorStatus = "PENDING"
	DoctorStatusApproved DoctorStatus = "APPROVED"
	DoctorStatusRejected DoctorStatus = "REJECTED"

	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender normalises a gender filter value. Anything outside the known
// set yields false.
func ParseGender(s string) (Gender, bool) {
	switch Gender(strings.ToUpper(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	default:
		return "", false
	}
}

package domain

import "strings"

// Role is the login type carried in the access token.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleHOD      Role = "HOD"
	RoleAdmin    Role = "Admin"
	RoleCEO      Role = "CEO"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleHOD, RoleAdmin, RoleCEO:
		return true
	}
	return false
}

type EmployeeType string

const (
	EmployeeConfirmed   EmployeeType = "Confirmed"
	EmployeeIntern      EmployeeType = "Intern"
	EmployeeContractual EmployeeType = "Contractual"
	EmployeeProbation   EmployeeType = "Probation"
)

// AccruesMonthly reports whether paid leave is credited one day per month instead of yearly.
func (t EmployeeType) AccruesMonthly() bool {
	return t == EmployeeIntern || t == EmployeeContractual || t == EmployeeProbation
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func SameDepartment(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

package employee

import (
	"fmt"

	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/shared/apperror"
)

// Section is a group of profile fields that an admin locks or unlocks as a unit.
type Section string

const (
	SectionBasicInfo Section = "basicInfo"
	SectionPosition  Section = "position"
	SectionStatutory Section = "statutory"
	SectionPayment   Section = "payment"
	SectionDocuments Section = "documents"
)

type sectionSpec struct {
	name   Section
	lock   func(e *Employee) *bool
	fields []string
}

// sections is ordered so editable field lists are stable.
var sections = []sectionSpec{
	{
		name:   SectionBasicInfo,
		lock:   func(e *Employee) *bool { return &e.BasicInfoLocked },
		fields: []string{"full_name", "email", "mobile_number", "gender"},
	},
	{
		name:   SectionPosition,
		lock:   func(e *Employee) *bool { return &e.PositionLocked },
		fields: []string{"department", "designation", "date_of_joining", "employee_type"},
	},
	{
		name:   SectionStatutory,
		lock:   func(e *Employee) *bool { return &e.StatutoryLocked },
		fields: []string{"pan_number", "uan_number"},
	},
	{
		name:   SectionPayment,
		lock:   func(e *Employee) *bool { return &e.PaymentLocked },
		fields: []string{"payment_type", "bank_account_number"},
	},
	{
		name:   SectionDocuments,
		lock:   func(e *Employee) *bool { return &e.DocumentsLocked },
		fields: []string{"profile_picture"},
	},
}

func findSection(name Section) (sectionSpec, bool) {
	for _, s := range sections {
		if s.name == name {
			return s, true
		}
	}
	return sectionSpec{}, false
}

func sectionOf(field string) (sectionSpec, bool) {
	for _, s := range sections {
		for _, f := range s.fields {
			if f == field {
				return s, true
			}
		}
	}
	return sectionSpec{}, false
}

// EditableFields lists the fields of every unlocked section.
func EditableFields(e Employee) []string {
	var out []string
	for _, s := range sections {
		if !*s.lock(&e) {
			out = append(out, s.fields...)
		}
	}
	return out
}

// CheckUpdate fails when any of fields belongs to a locked section.
func CheckUpdate(e Employee, fields []string) error {
	for _, f := range fields {
		s, ok := sectionOf(f)
		if !ok {
			return apperror.InvalidField(f)
		}
		if *s.lock(&e) {
			err := apperror.Wrap(employeeerrors.ErrSectionLocked, employeeerrors.ErrSectionLocked.Code,
				fmt.Sprintf("The %s section of the profile is locked", s.name), employeeerrors.ErrSectionLocked.HTTPStatus)
			err.Details = map[string]string{"section": string(s.name), "field": f}
			return err
		}
	}
	return nil
}

// Locks reports the lock flag of every section.
func Locks(e Employee) map[Section]bool {
	out := make(map[Section]bool, len(sections))
	for _, s := range sections {
		out[s.name] = *s.lock(&e)
	}
	return out
}

// SetLocks applies the requested lock flags; unknown section names fail before anything changes.
func SetLocks(e *Employee, want map[Section]bool) error {
	for name := range want {
		if _, ok := findSection(name); !ok {
			return employeeerrors.ErrUnknownSection
		}
	}
	for name, locked := range want {
		s, _ := findSection(name)
		*s.lock(e) = locked
	}
	return nil
}

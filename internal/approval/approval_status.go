package approval

import (
	"strings"

	approvalerrors "go-hrms/internal/approval/errors"
	"go-hrms/internal/domain"
)

type Kind string

const (
	KindLeave Kind = "LEAVE"
	KindOD    Kind = "OD"
	KindOT    Kind = "OT"
)

type Stage string

const (
	StageHOD   Stage = "hod"
	StageCEO   Stage = "ceo"
	StageAdmin Stage = "admin"
)

// Stages in resolution order.
var Stages = []Stage{StageHOD, StageCEO, StageAdmin}

func ParseStage(s string) (Stage, error) {
	st := Stage(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Stages {
		if st == known {
			return st, nil
		}
	}
	return "", approvalerrors.ErrUnknownStage
}

// Role is the login role entitled to resolve the stage.
func (s Stage) Role() domain.Role {
	switch s {
	case StageHOD:
		return domain.RoleHOD
	case StageCEO:
		return domain.RoleCEO
	case StageAdmin:
		return domain.RoleAdmin
	}
	return ""
}

type Decision string

const (
	Pending  Decision = "Pending"
	Approved Decision = "Approved"
	Rejected Decision = "Rejected"
)

func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case Approved, Rejected:
		return Decision(s), nil
	}
	return "", approvalerrors.ErrInvalidDecision
}

// Status is embedded in every request table with the status_ column prefix.
type Status struct {
	HOD   Decision `gorm:"column:hod;type:varchar(10);not null" json:"hod"`
	CEO   Decision `gorm:"column:ceo;type:varchar(10);not null" json:"ceo"`
	Admin Decision `gorm:"column:admin;type:varchar(10);not null" json:"admin"`
}

// InitialStatus auto-approves the department head stage for requests raised by an HOD or an Admin.
func InitialStatus(creator domain.Role) Status {
	s := Status{HOD: Pending, CEO: Pending, Admin: Pending}
	if creator == domain.RoleHOD || creator == domain.RoleAdmin {
		s.HOD = Approved
	}
	return s
}

func (s Status) Get(stage Stage) Decision {
	switch stage {
	case StageHOD:
		return s.HOD
	case StageCEO:
		return s.CEO
	case StageAdmin:
		return s.Admin
	}
	return ""
}

func (s Status) with(stage Stage, d Decision) Status {
	switch stage {
	case StageHOD:
		s.HOD = d
	case StageCEO:
		s.CEO = d
	case StageAdmin:
		s.Admin = d
	}
	return s
}

// Resolve moves exactly one stage out of Pending. It never mutates s.
func (s Status) Resolve(stage Stage, d Decision) (Status, error) {
	if d != Approved && d != Rejected {
		return s, approvalerrors.ErrInvalidDecision
	}
	if stage.Role() == "" {
		return s, approvalerrors.ErrUnknownStage
	}
	if s.Get(stage) != Pending {
		return s, approvalerrors.ErrStageResolved
	}
	for _, earlier := range Stages {
		if earlier == stage {
			break
		}
		switch s.Get(earlier) {
		case Rejected:
			return s, approvalerrors.ErrRequestClosed
		case Pending:
			return s, approvalerrors.ErrOutOfSequence
		}
	}
	return s.with(stage, d), nil
}

func (s Status) Rejected() bool {
	return s.HOD == Rejected || s.CEO == Rejected || s.Admin == Rejected
}

func (s Status) FinallyApproved() bool {
	return s.HOD == Approved && s.CEO == Approved && s.Admin == Approved
}

// NextStage is the first pending stage of an open request.
func (s Status) NextStage() (Stage, bool) {
	if s.Rejected() {
		return "", false
	}
	for _, st := range Stages {
		if s.Get(st) == Pending {
			return st, true
		}
	}
	return "", false
}

// Overall summarizes the three stages into one word for listings.
func (s Status) Overall() Decision {
	switch {
	case s.Rejected():
		return Rejected
	case s.FinallyApproved():
		return Approved
	}
	return Pending
}

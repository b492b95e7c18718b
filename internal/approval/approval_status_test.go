package approval_test

import (
	"testing"

	"go-hrms/internal/approval"
	approvalerrors "go-hrms/internal/approval/errors"
	"go-hrms/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestInitialStatus(t *testing.T) {
	cases := []struct {
		role domain.Role
		hod  approval.Decision
	}{
		{domain.RoleEmployee, approval.Pending},
		{domain.RoleCEO, approval.Pending},
		{domain.RoleHOD, approval.Approved},
		{domain.RoleAdmin, approval.Approved},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			s := approval.InitialStatus(tc.role)
			assert.Equal(t, tc.hod, s.HOD)
			assert.Equal(t, approval.Pending, s.CEO)
			assert.Equal(t, approval.Pending, s.Admin)
		})
	}
}

func TestStatusResolve(t *testing.T) {
	fresh := approval.InitialStatus(domain.RoleEmployee)

	t.Run("stages resolve in order", func(t *testing.T) {
		s, err := fresh.Resolve(approval.StageHOD, approval.Approved)
		assert.NoError(t, err)
		s, err = s.Resolve(approval.StageCEO, approval.Approved)
		assert.NoError(t, err)
		assert.False(t, s.FinallyApproved())
		s, err = s.Resolve(approval.StageAdmin, approval.Approved)
		assert.NoError(t, err)
		assert.True(t, s.FinallyApproved())
		assert.Equal(t, approval.Approved, s.Overall())
	})

	t.Run("receiver is not mutated", func(t *testing.T) {
		_, err := fresh.Resolve(approval.StageHOD, approval.Approved)
		assert.NoError(t, err)
		assert.Equal(t, approval.Pending, fresh.HOD)
	})

	t.Run("stage resolves once", func(t *testing.T) {
		s, _ := fresh.Resolve(approval.StageHOD, approval.Approved)
		_, err := s.Resolve(approval.StageHOD, approval.Rejected)
		assert.ErrorIs(t, err, approvalerrors.ErrStageResolved)
	})

	t.Run("later stage waits for earlier", func(t *testing.T) {
		_, err := fresh.Resolve(approval.StageCEO, approval.Approved)
		assert.ErrorIs(t, err, approvalerrors.ErrOutOfSequence)
		_, err = fresh.Resolve(approval.StageAdmin, approval.Approved)
		assert.ErrorIs(t, err, approvalerrors.ErrOutOfSequence)
	})

	t.Run("rejection closes the request", func(t *testing.T) {
		s, err := fresh.Resolve(approval.StageHOD, approval.Rejected)
		assert.NoError(t, err)
		assert.True(t, s.Rejected())
		assert.Equal(t, approval.Rejected, s.Overall())

		_, ok := s.NextStage()
		assert.False(t, ok)

		_, err = s.Resolve(approval.StageCEO, approval.Approved)
		assert.ErrorIs(t, err, approvalerrors.ErrRequestClosed)
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		_, err := fresh.Resolve(approval.StageHOD, approval.Pending)
		assert.ErrorIs(t, err, approvalerrors.ErrInvalidDecision)
	})

	t.Run("hod created request starts at ceo", func(t *testing.T) {
		s := approval.InitialStatus(domain.RoleHOD)
		next, ok := s.NextStage()
		assert.True(t, ok)
		assert.Equal(t, approval.StageCEO, next)

		_, err := s.Resolve(approval.StageCEO, approval.Approved)
		assert.NoError(t, err)
	})
}

func TestParseStageAndDecision(t *testing.T) {
	st, err := approval.ParseStage(" HOD ")
	assert.NoError(t, err)
	assert.Equal(t, approval.StageHOD, st)
	assert.Equal(t, domain.RoleHOD, st.Role())

	_, err = approval.ParseStage("manager")
	assert.ErrorIs(t, err, approvalerrors.ErrUnknownStage)

	d, err := approval.ParseDecision("Rejected")
	assert.NoError(t, err)
	assert.Equal(t, approval.Rejected, d)

	_, err = approval.ParseDecision("Pending")
	assert.ErrorIs(t, err, approvalerrors.ErrInvalidDecision)
}

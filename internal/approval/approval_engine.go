package approval

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	approvalerrors "go-hrms/internal/approval/errors"
	"go-hrms/internal/audit"
	"go-hrms/internal/domain"

	"go.uber.org/zap"
)

type Authorizer interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, employeeID, message string)
}

type Directory interface {
	// Approvers returns the employees who resolve stage for a requester of department.
	Approvers(ctx context.Context, stage Stage, department string) ([]string, error)
}

type Actor struct {
	EmployeeID string
	Role       domain.Role
}

// Hook is the kind specific side effect of the final admin approval. InTx runs inside the
// transition's transaction and aborts it on error. AfterCommit runs once the transition is durable.
type Hook struct {
	InTx        func(ctx context.Context, tx *sql.Tx, s Subject, actor Actor) error
	AfterCommit func(ctx context.Context, s Subject)
}

type ResolveCommand struct {
	Kind      Kind
	RequestID string
	Stage     Stage
	Decision  Decision
	Actor     Actor
}

type Engine interface {
	Register(kind Kind, store Store, hook Hook)
	Resolve(ctx context.Context, cmd ResolveCommand) (Subject, error)
	NotifySubmitted(ctx context.Context, s Subject)
}

type binding struct {
	store Store
	hook  Hook
}

type engine struct {
	db         *sql.DB
	authorizer Authorizer
	notifier   Notifier
	directory  Directory
	auditor    audit.Recorder
	mu         sync.RWMutex
	kinds      map[Kind]binding
	logger     *zap.Logger
}

func NewEngine(db *sql.DB, authorizer Authorizer, notifier Notifier, directory Directory, auditor audit.Recorder, logger ...*zap.Logger) Engine {
	l := zap.L().Named("approval.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.engine")
	}
	return &engine{
		db:         db,
		authorizer: authorizer,
		notifier:   notifier,
		directory:  directory,
		auditor:    auditor,
		kinds:      make(map[Kind]binding),
		logger:     l,
	}
}

func (e *engine) Register(kind Kind, store Store, hook Hook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.kinds[kind] = binding{store: store, hook: hook}
}

func (e *engine) binding(kind Kind) (binding, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.kinds[kind]
	return b, ok
}

func (e *engine) Resolve(ctx context.Context, cmd ResolveCommand) (Subject, error) {
	log := e.logger.With(
		zap.String("kind", string(cmd.Kind)),
		zap.String("request_id", cmd.RequestID),
		zap.String("stage", string(cmd.Stage)),
		zap.String("decision", string(cmd.Decision)),
		zap.String("actor_id", cmd.Actor.EmployeeID),
	)

	if cmd.Decision != Approved && cmd.Decision != Rejected {
		return Subject{}, approvalerrors.ErrInvalidDecision
	}
	if cmd.Stage.Role() == "" {
		return Subject{}, approvalerrors.ErrUnknownStage
	}

	allowed, err := e.authorizer.Enforce(domain.EnforceRequest{
		Role:     string(cmd.Actor.Role),
		Resource: "approval:" + string(cmd.Stage),
		Action:   "resolve",
	})
	if err != nil {
		log.Error("authorize stage failed", zap.Error(err))
		return Subject{}, err
	}
	if !allowed {
		log.Warn("stage resolution forbidden", zap.String("role", string(cmd.Actor.Role)))
		return Subject{}, approvalerrors.ErrRoleMismatch
	}

	b, ok := e.binding(cmd.Kind)
	if !ok {
		return Subject{}, approvalerrors.ErrUnknownKind
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("resolve stage begin tx failed", zap.Error(err))
		return Subject{}, err
	}
	defer tx.Rollback()

	qs := b.store.WithTx(tx)
	subject, err := qs.LockForUpdate(ctx, cmd.RequestID)
	if err != nil {
		return Subject{}, err
	}

	next, err := subject.Status.Resolve(cmd.Stage, cmd.Decision)
	if err != nil {
		log.Warn("stage transition rejected", zap.Error(err))
		return Subject{}, err
	}

	saved, err := qs.SaveStatus(ctx, cmd.RequestID, subject.Status, next)
	if err != nil {
		log.Error("save stage transition failed", zap.Error(err))
		return Subject{}, err
	}
	if !saved {
		return Subject{}, approvalerrors.ErrConcurrentUpdate
	}
	subject.Status = next

	final := next.FinallyApproved()
	if final && b.hook.InTx != nil {
		if err := b.hook.InTx(ctx, tx, subject, cmd.Actor); err != nil {
			log.Warn("final approval hook failed", zap.Error(err))
			return Subject{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("resolve stage commit failed", zap.Error(err))
		return Subject{}, err
	}

	if final && b.hook.AfterCommit != nil {
		b.hook.AfterCommit(ctx, subject)
	}

	e.announce(ctx, subject, cmd)
	e.auditor.Record(ctx, audit.Entry{
		Action:      fmt.Sprintf("%s_%s_%s", subject.Kind, strings.ToUpper(string(cmd.Stage)), strings.ToUpper(string(cmd.Decision))),
		TargetID:    subject.ID,
		PerformedBy: cmd.Actor.EmployeeID,
		Details: map[string]any{
			"employee_id": subject.EmployeeID,
			"status":      subject.Status,
		},
	})

	log.Info("stage resolved", zap.String("overall", string(subject.Status.Overall())))
	return subject, nil
}

// NotifySubmitted tells the approvers of the first pending stage about a new request.
func (e *engine) NotifySubmitted(ctx context.Context, s Subject) {
	stage, ok := s.Status.NextStage()
	if !ok {
		return
	}
	e.notifyApprovers(ctx, s, stage, fmt.Sprintf("New %s request awaiting your approval: %s", kindLabel(s.Kind), s.Summary))
}

func (e *engine) announce(ctx context.Context, s Subject, cmd ResolveCommand) {
	e.notifier.Notify(ctx, s.EmployeeID, fmt.Sprintf("Your %s request (%s) was %s at the %s stage",
		kindLabel(s.Kind), s.Summary, strings.ToLower(string(cmd.Decision)), strings.ToUpper(string(cmd.Stage))))

	if cmd.Decision != Approved {
		return
	}
	if next, ok := s.Status.NextStage(); ok {
		e.notifyApprovers(ctx, s, next, fmt.Sprintf("%s request (%s) awaits your approval", kindLabel(s.Kind), s.Summary))
	}
}

func (e *engine) notifyApprovers(ctx context.Context, s Subject, stage Stage, message string) {
	approvers, err := e.directory.Approvers(ctx, stage, s.Department)
	if err != nil {
		e.logger.Warn("lookup approvers failed",
			zap.String("stage", string(stage)),
			zap.String("department", s.Department),
			zap.Error(err),
		)
		return
	}
	for _, id := range approvers {
		e.notifier.Notify(ctx, id, message)
	}
}

func kindLabel(k Kind) string {
	switch k {
	case KindLeave:
		return "leave"
	case KindOD:
		return "OD"
	case KindOT:
		return "OT claim"
	}
	return strings.ToLower(string(k))
}

package rbac

import (
	"context"
	"sync"

	"go-hrms/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Load(ctx context.Context) error
	Enforce(req domain.EnforceRequest) (bool, error)
	Policies() []Policy
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewService wraps enforcer; repo may be nil when only the built-in policies apply.
func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()

	for _, in := range Inherits {
		if _, err := s.enforcer.AddGroupingPolicy(string(in[0]), string(in[1])); err != nil {
			return err
		}
	}

	policies := append([]Policy(nil), DefaultPolicies...)
	if s.repo != nil {
		rows, err := s.repo.ListPolicies(ctx)
		if err != nil {
			s.logger.Error("load stored policies failed", zap.Error(err))
			return err
		}
		for _, row := range rows {
			policies = append(policies, Policy{Role: domain.Role(row.Role), Resource: row.Resource, Action: row.Action})
		}
	}

	for _, p := range policies {
		if _, err := s.enforcer.AddPolicy(string(p.Role), p.Resource, p.Action); err != nil {
			return err
		}
	}

	s.logger.Info("rbac policy loaded", zap.Int("policies", len(policies)))
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Policies() []Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules, _ := s.enforcer.GetPolicy()
	out := make([]Policy, 0, len(rules))
	for _, r := range rules {
		if len(r) < 3 {
			continue
		}
		out = append(out, Policy{Role: domain.Role(r[0]), Resource: r[1], Action: r[2]})
	}
	return out
}

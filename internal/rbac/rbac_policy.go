package rbac

import "go-hrms/internal/domain"

const (
	ActionResolve = "resolve"
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionReadAll = "read_all"
	ActionManage  = "manage"
)

// StageResource is the object a role must hold "resolve" on to decide an approval stage.
func StageResource(stage string) string {
	return "approval:" + stage
}

type Policy struct {
	Role     domain.Role
	Resource string
	Action   string
}

// Inherits lists role inheritance; every privileged role can do what an employee can.
var Inherits = [][2]domain.Role{
	{domain.RoleHOD, domain.RoleEmployee},
	{domain.RoleCEO, domain.RoleEmployee},
	{domain.RoleAdmin, domain.RoleEmployee},
}

var DefaultPolicies = []Policy{
	{domain.RoleEmployee, "leave", ActionCreate},
	{domain.RoleEmployee, "leave", ActionRead},
	{domain.RoleEmployee, "od", ActionCreate},
	{domain.RoleEmployee, "od", ActionRead},
	{domain.RoleEmployee, "overtime", ActionCreate},
	{domain.RoleEmployee, "overtime", ActionRead},
	{domain.RoleEmployee, "attendance", ActionRead},
	{domain.RoleEmployee, "balance", ActionRead},
	{domain.RoleEmployee, "employee", ActionRead},

	{domain.RoleHOD, StageResource("hod"), ActionResolve},
	{domain.RoleHOD, "attendance", ActionReadAll},
	{domain.RoleHOD, "request", ActionReadAll},
	{domain.RoleHOD, "employee", ActionReadAll},

	{domain.RoleCEO, StageResource("ceo"), ActionResolve},
	{domain.RoleCEO, "attendance", ActionReadAll},
	{domain.RoleCEO, "request", ActionReadAll},
	{domain.RoleCEO, "balance", ActionReadAll},
	{domain.RoleCEO, "employee", ActionReadAll},

	{domain.RoleAdmin, StageResource("admin"), ActionResolve},
	{domain.RoleAdmin, "attendance", ActionReadAll},
	{domain.RoleAdmin, "request", ActionReadAll},
	{domain.RoleAdmin, "balance", ActionReadAll},
	{domain.RoleAdmin, "employee", ActionReadAll},
	{domain.RoleAdmin, "employee", ActionManage},
	{domain.RoleAdmin, "rbac", ActionManage},
}

// Package auth provides role-based capability checks and JWT bearer authentication.
package auth

import "slices"

// Role is the closed set of account roles.
type Role string

const (
	RoleCitizen         Role = "citizen"
	RoleDepartmentAdmin Role = "department_admin"
)

// Capability names a guarded operation.
type Capability string

const (
	CapSubmitComplaint           Capability = "complaints:submit"
	CapViewComplaint             Capability = "complaints:view"
	CapListComplaints            Capability = "complaints:list"
	CapUpdateComplaintStatus     Capability = "complaints:update_status"
	CapUploadCircular            Capability = "circulars:upload"
	CapViewCirculars             Capability = "circulars:view"
	CapGenerateRTI               Capability = "documents:rti"
	CapGenerateSchemeApplication Capability = "documents:scheme_application"
	CapGenerateNotice            Capability = "documents:official_notice"
	CapGenerateWorkOrder         Capability = "documents:work_order"
	CapManageUsers               Capability = "users:manage"
)

var grants = map[Role][]Capability{
	RoleCitizen: {
		CapSubmitComplaint,
		CapViewComplaint,
		CapViewCirculars,
		CapGenerateRTI,
		CapGenerateSchemeApplication,
	},
	RoleDepartmentAdmin: {
		CapViewComplaint,
		CapListComplaints,
		CapUpdateComplaintStatus,
		CapUploadCircular,
		CapViewCirculars,
		CapGenerateRTI,
		CapGenerateSchemeApplication,
		CapGenerateNotice,
		CapGenerateWorkOrder,
		CapManageUsers,
	},
}

// Roles returns every defined role.
func Roles() []Role {
	return []Role{RoleCitizen, RoleDepartmentAdmin}
}

// ParseRole validates s against the defined roles.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r is a defined role.
func (r Role) Valid() bool {
	_, ok := grants[r]
	return ok
}

// Can reports whether r is granted capability c. Undefined roles are granted nothing.
func (r Role) Can(c Capability) bool {
	return slices.Contains(grants[r], c)
}

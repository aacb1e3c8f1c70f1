package entities

type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// Actor is the authenticated caller of an operation. Sessions are managed
// elsewhere; the billing core only checks roles and ownership.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

func (a Actor) Owns(p Project) bool {
	return a.ID != "" && a.ID == p.OwnerID
}

// CanManage reports whether a may sign or cancel quotes of p.
func (a Actor) CanManage(p Project) bool {
	return a.IsStaff() || a.Owns(p)
}

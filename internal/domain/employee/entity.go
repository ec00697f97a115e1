package employee

import "time"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// Employee is the read-only directory projection used for attendance accounting.
type Employee struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// JoinedOn reports whether the employee was created on the given local day.
func (e Employee) JoinedOn(day time.Time) bool {
	next := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())
	return !e.CreatedAt.Before(day) && e.CreatedAt.Before(next)
}

// EmployedBy reports whether the employee existed by the end of the given local day.
func (e Employee) EmployedBy(day time.Time) bool {
	next := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())
	return e.CreatedAt.Before(next)
}

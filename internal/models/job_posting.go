package models

// Title holds the five groups captured from a posting's title line. Only
// Role is always present; the rest are nil when the group did not match.
type Title struct {
	Seniority   *string
	Role        string
	RoleType    *string
	Internship  *string
	Opportunity *string
}

// Tuple returns the groups in capture order.
func (t Title) Tuple() [5]*string {
	role := t.Role
	return [5]*string{t.Seniority, &role, t.RoleType, t.Internship, t.Opportunity}
}

type Location struct {
	Mode       string
	Relocation *string
}

type JobPosting struct {
	ID         string
	Date       string
	Title      Title
	Location   *Location
	Languages  []string
	Frameworks []string
}

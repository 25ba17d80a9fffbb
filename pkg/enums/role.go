package enums

// Role partitions account capabilities. Admins manage inventory cost bases,
// user accounts, settings, and the transfer audit log; workers record sales
// and initiate transfers for their clinic.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleWorker:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

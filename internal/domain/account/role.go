package account

type Role string

const (
	RoleBarber   Role = "barber"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleBarber || r == RoleCustomer
}

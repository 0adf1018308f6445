package entity

// Role is the single role an account holds.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleBusinessOwner Role = "business_owner"
	RoleCustomer      Role = "customer"
)

var validRoles = map[Role]bool{
	RoleAdmin:         true,
	RoleBusinessOwner: true,
	RoleCustomer:      true,
}

func IsValidRole(r string) bool {
	return validRoles[Role(r)]
}

// Account is the authenticated caller as seen by the catalog layer.
// Credentials and verification state live with the auth layer.
type Account struct {
	Id   int
	Role Role
}

func (a Account) IsBusinessOwner() bool {
	return a.Role == RoleBusinessOwner
}

// Business represents the businesses table. OwnerId references the owning account.
type Business struct {
	Id      int    `db:"id"`
	OwnerId int    `db:"owner_id"`
	Name    string `db:"name"`
}

// FeaturedBusiness is a business with the number of products it lists.
type FeaturedBusiness struct {
	Business
	ProductCount int `db:"product_count"`
}

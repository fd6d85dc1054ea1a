package users

// CreateUserRequest represents the data needed to create a new user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
}

// Balances holds the starting balance for each user creation path
type Balances struct {
	// Created is granted to users registered through the HTTP create call
	Created int `yaml:"http_default_balance"`
	// Implicit is granted to users first seen through a socket action
	Implicit int `yaml:"socket_default_balance"`
}

// DefaultBalances returns the standard starting balances
func DefaultBalances() Balances {
	return Balances{
		Created:  100,
		Implicit: 500,
	}
}

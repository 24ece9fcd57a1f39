package account

const AccountCreatedMessage = "Account successfully created."

type CreateAccountInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Timestamp string `json:"timestamp" validate:"required"`
}

// CreateAccountResult carries a token only when passwords are hashed.
type CreateAccountResult struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string `json:"token"`
}

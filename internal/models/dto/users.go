package dto

type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=150"`
	Username  string `json:"username" validate:"required,max=50"`
	Phone     string `json:"phone" validate:"required,max=30"`
	Password  string `json:"password" validate:"required,min=8"`
	AboutMe   string `json:"about_me" validate:"max=2000"`
	Address   string `json:"address" validate:"max=255"`
}

// UpdateUserRequest carries a partial update: nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=150"`
	Username  *string `json:"username" validate:"omitempty,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	AboutMe   *string `json:"about_me" validate:"omitempty,max=2000"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
}

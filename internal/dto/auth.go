package dto

// RegistrationForm is posted by the sign-up page.
type RegistrationForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150"`
	FirstName string `form:"firstname" json:"firstname" validate:"max=150"`
	LastName  string `form:"lastname" json:"lastname" validate:"max=150"`
	Password  string `form:"psw" json:"psw" validate:"required,max=128"`
}

// LoginForm is posted by the login page.
type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"psw" json:"psw" validate:"required"`
}

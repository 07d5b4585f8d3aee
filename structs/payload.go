package structs

// RegisterBody is the registration request. It arrives as a multipart form
// (the optional image file rides alongside) but JSON is accepted too.
type RegisterBody struct {
	Name                 string `json:"name" form:"name" validate:"required,max=255"`
	Email                string `json:"email" form:"email" validate:"required,email,max=255"`
	Password             string `json:"password" form:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"required,eqfield=Password"`
}

// LoginBody is the credential login request.
type LoginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SocialTokenBody is the token-exchange request carrying a provider access
// token obtained by the client directly.
type SocialTokenBody struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// UserResponse is the public view of an account. ID carries the obfuscated
// form, never the raw record ID.
type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Image    string `json:"image,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// RegisterResponse confirms account creation.
type RegisterResponse struct {
	Message string `json:"message"`
	User    struct {
		Email string `json:"email"`
	} `json:"user"`
}

// TokenResponse is the social token-exchange reply.
type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	User        *UserResponse `json:"user"`
	Message     string        `json:"message"`
}

package forms

type EmailForm struct {
	Email string `json:"email" binding:"required,email,max=254" example:"student@example.com"`
}

type VerifyOTPForm struct {
	Email string `json:"email" binding:"required,email,max=254" example:"student@example.com"`
	OTP   string `json:"otp" binding:"required,len=6,numeric" example:"123456"`
}

type RegisterForm struct {
	Name            string `json:"name" binding:"required,min=2,max=100" example:"Asha Rao"`
	Email           string `json:"email" binding:"required,email,max=254" example:"student@example.com"`
	Password        string `json:"password" binding:"required,strongpassword" example:"Secret#123"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password" example:"Secret#123"`
	AcceptTerms     bool   `json:"accept_terms" binding:"accepted" example:"true"`
	IsAdult         bool   `json:"is_adult" binding:"accepted" example:"true"`
}

type LoginForm struct {
	Email    string `json:"email" binding:"required,email" example:"student@example.com"`
	Password string `json:"password" binding:"required" example:"Secret#123"`
}

type PasswordOTPForm struct {
	ResetID string `json:"reset_id" binding:"required,uuid" example:"0b6c1b1e-8f77-4c1f-9d0e-5a3f7a0b9c11"`
	OTP     string `json:"otp" binding:"required,len=6,numeric" example:"123456"`
}

type ResetPasswordForm struct {
	ResetID         string `json:"reset_id" binding:"required,uuid" example:"0b6c1b1e-8f77-4c1f-9d0e-5a3f7a0b9c11"`
	Password        string `json:"password" binding:"required,strongpassword" example:"Secret#123"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password" example:"Secret#123"`
}

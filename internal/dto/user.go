package dto

type LoginRequest struct {
	UserEmail    string `json:"useremail"`
	UserPassword string `json:"userpassword"`
}

type SendVerificationRequest struct {
	UserEmail string `json:"useremail"`
}

type RegisterRequest struct {
	Username         string `json:"username"`
	UserPassword     string `json:"userpassword"`
	UserEmail        string `json:"useremail"`
	VerificationCode string `json:"verification_code"`
}

// User is the backend's user payload. The backend echoes the password
// field; managers must not persist it beyond the session.
type User struct {
	UserEmail    string `json:"useremail"`
	Username     string `json:"username"`
	UserPassword string `json:"userpassword"`
	UID          int64  `json:"uid"`
}

type UserEnvelope struct {
	User User `json:"user"`
}

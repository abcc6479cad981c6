package session

import "time"

// AuthView identifies which auth sub-view is active while logged out.
type AuthView string

const (
	ViewLogin          AuthView = "login"
	ViewActivation     AuthView = "activation"
	ViewRegister       AuthView = "register"
	ViewForgotPassword AuthView = "forgot"
)

// Config holds session controller configuration
type Config struct {
	TokenSecret      string
	TokenDuration    time.Duration
	ObserveInterval  time.Duration // Credential store poll fallback
	SimulatedLatency time.Duration // Artificial delay on login/activation/registration
}

// RegistrationForm carries the fields collected by the register view.
// Registration always succeeds; there is no server to reject it.
type RegistrationForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"-"`
	Country  string `json:"country,omitempty"`
}

// State is a read-only snapshot of the session.
type State struct {
	Authenticated bool     `json:"authenticated"`
	AuthView      AuthView `json:"auth_view"`
	Username      string   `json:"username,omitempty"`
}

// SessionError is a user-correctable failure surfaced inline by the caller.
type SessionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e SessionError) Error() string {
	return e.Message
}

// Common session errors
var (
	ErrInvalidCredentials    = SessionError{Code: "INVALID_CREDENTIALS", Message: "invalid username or password"}
	ErrInvalidActivationCode = SessionError{Code: "INVALID_ACTIVATION_CODE", Message: "activation code is invalid or already used"}
	ErrSubmissionInFlight    = SessionError{Code: "SUBMISSION_IN_FLIGHT", Message: "a submission is already in progress"}
)

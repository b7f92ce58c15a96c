package authsdk

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh and POST /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned by POST /auth/login.
type TokenResponse struct {
	// AccessToken is the HS256 JWT carrying sub, username, iat and exp.
	AccessToken string `json:"access_token"`

	// RefreshToken is the opaque token used to obtain new access tokens.
	RefreshToken string `json:"refresh_token"`
}

// AccessTokenResponse is returned by POST /auth/refresh.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// MessageResponse is returned by POST /auth/logout.
type MessageResponse struct {
	Message string `json:"message"`
}

// LogoutMessage is the message of every logout response.
const LogoutMessage = "successfully logout"

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the response structure for health check endpoints.
// /health only sets Status; /readyz fills in everything.
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains the status of critical dependencies (only in /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the credential store connection status
	Database string `json:"database"`
}

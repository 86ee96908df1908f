package store

import "github.com/atinyakov/subwaymap/internal/models"

// MsgLoginFailed is the outcome message of a failed login or token resume.
const MsgLoginFailed = "login failed"

// LoginStatus is the status record of the session store.
type LoginStatus struct {
	Status
	// Failed is set by a rejected login and cleared only by ClearLoginFailure.
	Failed bool
}

// SessionState is the single authenticated session.
type SessionState struct {
	Email         string
	Token         string
	Authenticated bool
	LoginStatus   LoginStatus
}

// ReduceLogin applies the outcome of Login or ResumeByToken; both commands
// converge on the same transitions. A rejection never clears a previously
// valid session.
func ReduceLogin(s SessionState, o Outcome[models.Credentials]) SessionState {
	switch o := o.(type) {
	case Submitted[models.Credentials]:
		s.LoginStatus.Loading = true
	case Resolved[models.Credentials]:
		s.Email = o.Value.Email
		s.Token = o.Value.AccessToken
		s.Authenticated = true
		s.LoginStatus.Loading = false
		s.LoginStatus.Message = ""
	case Rejected[models.Credentials]:
		s.LoginStatus.Failed = true
		s.LoginStatus.Loading = false
		s.LoginStatus.Message = MsgLoginFailed
	}
	return s
}

// Logout clears identity and token. The login status is left as it is.
func Logout(s SessionState) SessionState {
	s.Email = ""
	s.Token = ""
	s.Authenticated = false
	return s
}

// ClearLoginFailure resets only the failure flag.
func ClearLoginFailure(s SessionState) SessionState {
	s.LoginStatus.Failed = false
	return s
}

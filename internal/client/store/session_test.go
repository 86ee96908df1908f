package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/subwaymap/internal/models"
)

func login(s SessionState, o Outcome[models.Credentials]) SessionState {
	return ReduceLogin(ReduceLogin(s, Submitted[models.Credentials]{}), o)
}

func TestLogin_Success(t *testing.T) {
	s := ReduceLogin(SessionState{}, Submitted[models.Credentials]{})
	assert.True(t, s.LoginStatus.Loading)

	s = ReduceLogin(s, Resolved[models.Credentials]{Value: models.Credentials{Email: "a@b.com", AccessToken: "tok"}})
	assert.Equal(t, "a@b.com", s.Email)
	assert.Equal(t, "tok", s.Token)
	assert.True(t, s.Authenticated)
	assert.False(t, s.LoginStatus.Loading)
}

func TestResumeWithStaleToken(t *testing.T) {
	s := login(SessionState{}, Rejected[models.Credentials]{Err: errors.New("401")})
	assert.False(t, s.Authenticated)
	assert.Empty(t, s.Email)
	assert.Empty(t, s.Token)
	assert.True(t, s.LoginStatus.Failed)
	assert.False(t, s.LoginStatus.Loading)
	assert.Equal(t, MsgLoginFailed, s.LoginStatus.Message)
}

func TestLogin_FailureKeepsPreviousSession(t *testing.T) {
	s := login(SessionState{}, Resolved[models.Credentials]{Value: models.Credentials{Email: "a@b.com", AccessToken: "tok"}})
	s = login(s, Rejected[models.Credentials]{Err: errors.New("boom")})

	assert.True(t, s.Authenticated)
	assert.Equal(t, "a@b.com", s.Email)
	assert.Equal(t, "tok", s.Token)
	assert.True(t, s.LoginStatus.Failed)
}

func TestLogout_LeavesLoginStatus(t *testing.T) {
	s := login(SessionState{}, Rejected[models.Credentials]{Err: errors.New("first try")})
	s = login(s, Resolved[models.Credentials]{Value: models.Credentials{Email: "a@b.com", AccessToken: "tok"}})
	s = Logout(s)

	assert.Empty(t, s.Email)
	assert.Empty(t, s.Token)
	assert.False(t, s.Authenticated)
	assert.True(t, s.LoginStatus.Failed)
}

func TestClearLoginFailure(t *testing.T) {
	s := login(SessionState{}, Rejected[models.Credentials]{Err: errors.New("x")})
	s = ClearLoginFailure(s)
	assert.False(t, s.LoginStatus.Failed)
	assert.Equal(t, MsgLoginFailed, s.LoginStatus.Message)
}

func TestLogin_ReentersSubmitted(t *testing.T) {
	s := login(SessionState{}, Rejected[models.Credentials]{Err: errors.New("x")})
	s = ReduceLogin(s, Submitted[models.Credentials]{})
	assert.True(t, s.LoginStatus.Loading)
}

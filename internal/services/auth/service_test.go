package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tikitakatoe/internal/dependencies/mocks"
	"github.com/mcoot/tikitakatoe/internal/storage/memory"
	"github.com/mcoot/tikitakatoe/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	session, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.NotEmpty(session.UserID)
	s.Equal("alice", session.Username)
	s.Equal(s.clock.Now().Add(7*24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestRegisterPersistsUser() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	user, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(session.UserID, user.ID)
	s.NotEqual("password123", user.PasswordHash)
}

func (s *ServiceSuite) TestRegisterFailsIfUsernameExists() {
	_, _ = s.service.Register(s.ctx, "alice", "password123")

	_, err := s.service.Register(s.ctx, "alice", "different456")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestRegisterValidatesInput() {
	_, err := s.service.Register(s.ctx, "al", "password123")
	s.ErrorIs(err, ErrInvalidUsername)

	_, err = s.service.Register(s.ctx, "alice smith", "password123")
	s.ErrorIs(err, ErrInvalidUsername)

	_, err = s.service.Register(s.ctx, "alice", "short")
	s.ErrorIs(err, ErrPasswordTooShort)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, _ := s.service.Register(s.ctx, "alice", "password123")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal(registered.UserID, session.UserID)
	s.NotEqual(registered.Token, session.Token)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "password123")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Session tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.UserID, validated.UserID)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession("invalid-token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	s.clock.Advance(7*24*time.Hour + time.Second)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionNoopForUnknownToken() {
	s.NotPanics(func() {
		s.service.InvalidateSession("unknown-token")
	})
}

func (s *ServiceSuite) TestGetUser() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	user, err := s.service.GetUser(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal("alice", user.Username)

	_, err = s.service.GetUser(s.ctx, "invalid")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	old, _ := s.service.Register(s.ctx, "alice", "password123")
	s.clock.Advance(6 * 24 * time.Hour)
	fresh, _ := s.service.Login(s.ctx, "alice", "password123")
	s.clock.Advance(2 * 24 * time.Hour)

	s.Equal(1, s.service.CleanExpiredSessions())

	_, err := s.service.ValidateSession(old.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}

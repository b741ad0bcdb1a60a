package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcotuliovd/betimfc-v0/internal/config"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
)

type fakeUsers struct {
	mu          sync.Mutex
	byEmail     map[string]user.User
	memberships map[string]*membership.Membership
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]user.User{}, memberships: map[string]*membership.Membership{}}
}

func (f *fakeUsers) Create(_ context.Context, u user.User) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return user.User{}, ErrEmailTaken
	}
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) ActiveMembership(_ context.Context, userID string) (*membership.Membership, error) {
	return f.memberships[userID], nil
}

type recordingMailer struct {
	to, subject, body string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func newRouter(users Users, cfg config.Config, mailer *recordingMailer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(Dependencies{Cfg: cfg, Users: users, Mailer: mailer})
	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/forgot-password", h.ForgotPassword)
	return r
}

func post(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func validRegistration() user.Registration {
	return user.Registration{
		Name: "Ana Souza", Email: "Ana@Example.com ", Password: "secret123",
		Phone: "31999990000", CPF: "12345678900", BirthDate: "1990-05-01",
		AcceptTerms: true,
	}
}

type userEnvelope struct {
	User user.Identity `json:"user"`
}

func decodeUser(t *testing.T, w *httptest.ResponseRecorder) user.Identity {
	t.Helper()
	var env userEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.User
}

func TestRegisterCreatesNonMember(t *testing.T) {
	users := newFakeUsers()
	r := newRouter(users, config.Defaults(), &recordingMailer{})

	w := post(r, "/api/auth/register", validRegistration())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	id := decodeUser(t, w)
	assert.NotEmpty(t, id.ID)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.Equal(t, membership.None, id.MembershipType)
	assert.Nil(t, id.MembershipExpiresAt)

	stored, err := users.ByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.BirthDate)
	assert.Empty(t, stored.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	r := newRouter(newFakeUsers(), config.Defaults(), &recordingMailer{})

	missingName := validRegistration()
	missingName.Name = ""
	missingCPF := validRegistration()
	missingCPF.CPF = ""
	noTerms := validRegistration()
	noTerms.AcceptTerms = false
	badDate := validRegistration()
	badDate.BirthDate = "01/05/1990"

	for name, reg := range map[string]user.Registration{
		"missing name": missingName,
		"missing cpf":  missingCPF,
		"no terms":     noTerms,
		"bad date":     badDate,
	} {
		t.Run(name, func(t *testing.T) {
			w := post(r, "/api/auth/register", reg)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newRouter(newFakeUsers(), config.Defaults(), &recordingMailer{})
	require.Equal(t, http.StatusCreated, post(r, "/api/auth/register", validRegistration()).Code)

	w := post(r, "/api/auth/register", validRegistration())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	r := newRouter(newFakeUsers(), config.Defaults(), &recordingMailer{})
	w := post(r, "/api/auth/login", loginReq{Email: "nobody@example.com", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginMissingFields(t *testing.T) {
	r := newRouter(newFakeUsers(), config.Defaults(), &recordingMailer{})
	w := post(r, "/api/auth/login", loginReq{Email: "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAnyPasswordReportsActiveMembership(t *testing.T) {
	users := newFakeUsers()
	r := newRouter(users, config.Defaults(), &recordingMailer{})
	created := decodeUser(t, post(r, "/api/auth/register", validRegistration()))

	end := time.Now().Add(90 * 24 * time.Hour).UTC().Truncate(time.Second)
	users.memberships[created.ID] = &membership.Membership{
		UserID: created.ID, Plan: membership.Quarterly, Status: membership.StatusActive, EndDate: end,
	}

	w := post(r, "/api/auth/login", loginReq{Email: "ANA@example.com", Password: "whatever"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	id := decodeUser(t, w)
	assert.Equal(t, created.ID, id.ID)
	assert.Equal(t, membership.Quarterly, id.MembershipType)
	require.NotNil(t, id.MembershipExpiresAt)
	assert.True(t, end.Equal(*id.MembershipExpiresAt))
}

func TestLoginVerifiesPasswordsWhenEnabled(t *testing.T) {
	cfg := config.Defaults()
	cfg.VerifyPasswords = true
	users := newFakeUsers()
	r := newRouter(users, cfg, &recordingMailer{})
	require.Equal(t, http.StatusCreated, post(r, "/api/auth/register", validRegistration()).Code)

	stored, _ := users.ByEmail(context.Background(), "ana@example.com")
	assert.NotEmpty(t, stored.PasswordHash)

	assert.Equal(t, http.StatusUnauthorized,
		post(r, "/api/auth/login", loginReq{Email: "ana@example.com", Password: "wrong"}).Code)
	assert.Equal(t, http.StatusOK,
		post(r, "/api/auth/login", loginReq{Email: "ana@example.com", Password: "secret123"}).Code)
}

func TestForgotPassword(t *testing.T) {
	mailer := &recordingMailer{}
	r := newRouter(newFakeUsers(), config.Defaults(), mailer)
	require.Equal(t, http.StatusCreated, post(r, "/api/auth/register", validRegistration()).Code)

	w := post(r, "/api/auth/forgot-password", forgotReq{Email: "nobody@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, mailer.to)

	w = post(r, "/api/auth/forgot-password", forgotReq{Email: "ana@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", mailer.to)
	assert.Contains(t, mailer.body, config.Defaults().RecoveryURL())
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "pw"))
	assert.False(t, CheckPassword(hash, "other"))
	assert.False(t, CheckPassword("", "pw"))
}

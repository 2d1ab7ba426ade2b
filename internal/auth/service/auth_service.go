package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blogger-platform/internal/mail"
	"blogger-platform/internal/results"
	"blogger-platform/internal/security"
	sessiondomain "blogger-platform/internal/session/domain"
	userdomain "blogger-platform/internal/user/domain"
)

const loginFailedMessage = "Incorrect login or password"

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByLogin(ctx context.Context, login string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*userdomain.User, error)
	GetByConfirmationCode(ctx context.Context, code string) (*userdomain.User, error)
	GetByRecoveryCode(ctx context.Context, code string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	Confirm(ctx context.Context, id string) error
	SetConfirmationCode(ctx context.Context, id, code string, expiresAt time.Time) error
	SetRecoveryCode(ctx context.Context, id, code string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	Get(ctx context.Context, userID, deviceID string) (*sessiondomain.Session, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*sessiondomain.Session, error)
	ListByUser(ctx context.Context, userID string) ([]*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	UpdateIfCurrent(ctx context.Context, userID, deviceID, prevJTI, jti string, issuedAt, expiresAt time.Time, ip string) (bool, error)
	Delete(ctx context.Context, userID, deviceID string) (bool, error)
	DeleteAllExcept(ctx context.Context, userID, currentDeviceID string) (int64, error)
	DeleteAllByUser(ctx context.Context, userID string) error
}

// TokenPair is what a successful login or refresh hands back to the caller.
// The handler transports the refresh token as an HTTP-only cookie and the
// access token in the response body.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserView is the /auth/me projection.
type UserView struct {
	UserID string `json:"userId"`
	Login  string `json:"login"`
	Email  string `json:"email"`
}

// DeviceView is one entry of the devices list.
type DeviceView struct {
	DeviceID       string    `json:"deviceId"`
	IP             string    `json:"ip"`
	Title          string    `json:"title"`
	LastActiveDate time.Time `json:"lastActiveDate"`
}

// AuthService ties the credential store, session store, token codec, and email
// gateway together: registration with email confirmation, login, refresh-token
// rotation, logout, password recovery, and device-session management.
//
// Policy decisions baked in here: an unconfirmed account cannot log in, and a
// successful password reset invalidates every session of the user.
type AuthService struct {
	users           UserRepo
	sessions        SessionRepo
	hasher          *security.Hasher
	tokens          *security.TokenProvider
	mailer          mail.Sender
	log             *zap.Logger
	confirmationTTL time.Duration
	recoveryTTL     time.Duration
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(
	users UserRepo,
	sessions SessionRepo,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	mailer mail.Sender,
	log *zap.Logger,
	confirmationTTL, recoveryTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:           users,
		sessions:        sessions,
		hasher:          hasher,
		tokens:          tokens,
		mailer:          mailer,
		log:             log,
		confirmationTTL: confirmationTTL,
		recoveryTTL:     recoveryTTL,
	}
}

// Register creates an unconfirmed account and emails a single-use confirmation
// code. Login and email collisions each report against their own field.
func (s *AuthService) Register(ctx context.Context, login, email, password string) (string, results.Result) {
	login = strings.TrimSpace(login)
	email = strings.TrimSpace(strings.ToLower(email))

	var fieldErrs []results.FieldError
	byLogin, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return "", s.internal("register: get by login", err)
	}
	if byLogin != nil {
		fieldErrs = append(fieldErrs, results.FieldError{Message: "login already exists", Field: "login"})
	}
	byEmail, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", s.internal("register: get by email", err)
	}
	if byEmail != nil {
		fieldErrs = append(fieldErrs, results.FieldError{Message: "email already exists", Field: "email"})
	}
	if len(fieldErrs) > 0 {
		return "", results.Result{Code: results.BadRequest, Errors: fieldErrs}
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return "", s.internal("register: hash password", err)
	}
	now := time.Now().UTC()
	code := security.NewCode()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Login:        login,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		Confirmation: userdomain.EmailConfirmation{
			Code:      code,
			ExpiresAt: now.Add(s.confirmationTTL),
			Status:    userdomain.NotConfirmed,
		},
	}
	if err := user.Validate(); err != nil {
		return "", results.BadRequestf("", err.Error())
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", s.internal("register: create user", err)
	}

	subject, html := mail.ConfirmationEmail(code)
	s.sendMail(email, subject, html)
	return user.ID, results.OK()
}

// ConfirmRegistration redeems a confirmation code. The code is single-use:
// unknown, already-applied, and expired codes are indistinguishable to the caller.
func (s *AuthService) ConfirmRegistration(ctx context.Context, code string) results.Result {
	user, err := s.users.GetByConfirmationCode(ctx, code)
	if err != nil {
		return s.internal("confirm: get by code", err)
	}
	if user == nil || user.IsConfirmed() {
		return results.BadRequestf("code", "confirmation code is incorrect, expired or already been applied")
	}
	if security.CodeExpired(user.Confirmation.ExpiresAt, time.Now().UTC()) {
		return results.BadRequestf("code", "confirmation code is incorrect, expired or already been applied")
	}
	if err := s.users.Confirm(ctx, user.ID); err != nil {
		return s.internal("confirm: update user", err)
	}
	return results.OK()
}

// ResendConfirmation regenerates the confirmation code and re-sends the email.
// Rate limiting happens at the middleware; this only guards account state.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) results.Result {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return s.internal("resend: get by email", err)
	}
	if user == nil {
		return results.BadRequestf("email", "email is not registered")
	}
	if user.IsConfirmed() {
		return results.BadRequestf("email", "email is already confirmed")
	}
	code := security.NewCode()
	if err := s.users.SetConfirmationCode(ctx, user.ID, code, time.Now().UTC().Add(s.confirmationTTL)); err != nil {
		return s.internal("resend: set code", err)
	}
	subject, html := mail.ConfirmationEmail(code)
	s.sendMail(email, subject, html)
	return results.OK()
}

// Login authenticates by login or email and opens a new device session. All
// failure causes collapse into one generic Unauthorized: not found, wrong
// password, and unconfirmed account are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, loginOrEmail, password, userAgent, ip string) (*TokenPair, results.Result) {
	user, err := s.users.GetByLoginOrEmail(ctx, strings.TrimSpace(loginOrEmail))
	if err != nil {
		return nil, s.internal("login: get user", err)
	}
	if user == nil {
		return nil, results.Unauthorizedf(loginFailedMessage)
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, results.Unauthorizedf(loginFailedMessage)
	}
	if !user.IsConfirmed() {
		return nil, results.Unauthorizedf(loginFailedMessage)
	}

	deviceID := uuid.New().String()
	accessToken, _, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, s.internal("login: issue access token", err)
	}
	refreshToken, jti, iat, exp, err := s.tokens.IssueRefresh(user.ID, deviceID)
	if err != nil {
		return nil, s.internal("login: issue refresh token", err)
	}
	sess := &sessiondomain.Session{
		UserID:     user.ID,
		DeviceID:   deviceID,
		DeviceName: deviceName(userAgent),
		IP:         ip,
		RefreshJTI: jti,
		IssuedAt:   iat,
		ExpiresAt:  exp,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, s.internal("login: create session", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, results.OK()
}

// Refresh rotates the refresh token: each token is single-use, bound to the
// session row via its jti. Presenting a superseded token fails even when it is
// cryptographically valid, and the rotation itself is a conditional update so
// two racing refreshes produce exactly one winner.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ip string) (*TokenPair, results.Result) {
	sess, res := s.resolveSession(ctx, refreshToken)
	if res.Failed() {
		return nil, res
	}
	newRefresh, jti, iat, exp, err := s.tokens.IssueRefresh(sess.UserID, sess.DeviceID)
	if err != nil {
		return nil, s.internal("refresh: issue refresh token", err)
	}
	ok, err := s.sessions.UpdateIfCurrent(ctx, sess.UserID, sess.DeviceID, sess.RefreshJTI, jti, iat, exp, ip)
	if err != nil {
		return nil, s.internal("refresh: rotate session", err)
	}
	if !ok {
		return nil, results.Unauthorizedf("refresh token is no longer valid")
	}
	accessToken, _, err := s.tokens.IssueAccess(sess.UserID)
	if err != nil {
		return nil, s.internal("refresh: issue access token", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefresh}, results.OK()
}

// Logout deletes the session matching the refresh token. A second logout with
// the now-stale token fails Unauthorized, which is the expected behavior.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) results.Result {
	sess, res := s.resolveSession(ctx, refreshToken)
	if res.Failed() {
		return res
	}
	deleted, err := s.sessions.Delete(ctx, sess.UserID, sess.DeviceID)
	if err != nil {
		return s.internal("logout: delete session", err)
	}
	if !deleted {
		return results.Unauthorizedf("refresh token is no longer valid")
	}
	return results.OK()
}

// PasswordRecovery always reports success so callers cannot probe which emails
// are registered. When the account exists a recovery code is stored and mailed.
func (s *AuthService) PasswordRecovery(ctx context.Context, email string) results.Result {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return s.internal("recovery: get by email", err)
	}
	if user == nil {
		return results.OK()
	}
	code := security.NewCode()
	if err := s.users.SetRecoveryCode(ctx, user.ID, code, time.Now().UTC().Add(s.recoveryTTL)); err != nil {
		return s.internal("recovery: set code", err)
	}
	subject, html := mail.RecoveryEmail(code)
	s.sendMail(email, subject, html)
	return results.OK()
}

// NewPassword redeems a recovery code, stores the new password hash, and
// invalidates every session of the user: a password change must not leave old
// refresh tokens usable.
func (s *AuthService) NewPassword(ctx context.Context, recoveryCode, newPassword string) results.Result {
	user, err := s.users.GetByRecoveryCode(ctx, recoveryCode)
	if err != nil {
		return s.internal("new password: get by code", err)
	}
	if user == nil || security.CodeExpired(user.Recovery.ExpiresAt, time.Now().UTC()) {
		return results.BadRequestf("recoveryCode", "recovery code is incorrect or expired")
	}
	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return s.internal("new password: hash", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return s.internal("new password: update", err)
	}
	if err := s.sessions.DeleteAllByUser(ctx, user.ID); err != nil {
		return s.internal("new password: revoke sessions", err)
	}
	return results.OK()
}

// CurrentUser returns the /auth/me projection for an authenticated user id.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*UserView, results.Result) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.internal("me: get user", err)
	}
	if user == nil {
		return nil, results.Unauthorizedf("unauthorized")
	}
	return &UserView{UserID: user.ID, Login: user.Login, Email: user.Email}, results.OK()
}

// ListDevices returns the caller's live device sessions. Rows whose refresh
// lifetime already passed are filtered out (lazy invalidation).
func (s *AuthService) ListDevices(ctx context.Context, refreshToken string) ([]DeviceView, results.Result) {
	sess, res := s.resolveSession(ctx, refreshToken)
	if res.Failed() {
		return nil, res
	}
	all, err := s.sessions.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, s.internal("devices: list", err)
	}
	now := time.Now().UTC()
	views := make([]DeviceView, 0, len(all))
	for _, d := range all {
		if d.Expired(now) {
			continue
		}
		views = append(views, DeviceView{
			DeviceID:       d.DeviceID,
			IP:             d.IP,
			Title:          d.DeviceName,
			LastActiveDate: d.IssuedAt,
		})
	}
	return views, results.OK()
}

// TerminateOtherDevices deletes every session of the caller except the current one.
func (s *AuthService) TerminateOtherDevices(ctx context.Context, refreshToken string) results.Result {
	sess, res := s.resolveSession(ctx, refreshToken)
	if res.Failed() {
		return res
	}
	if _, err := s.sessions.DeleteAllExcept(ctx, sess.UserID, sess.DeviceID); err != nil {
		return s.internal("devices: delete others", err)
	}
	return results.OK()
}

// TerminateDevice deletes one session by device id. A session that exists but
// belongs to another user is Forbidden; one that does not exist is NotFound.
func (s *AuthService) TerminateDevice(ctx context.Context, refreshToken, targetDeviceID string) results.Result {
	sess, res := s.resolveSession(ctx, refreshToken)
	if res.Failed() {
		return res
	}
	target, err := s.sessions.GetByDeviceID(ctx, targetDeviceID)
	if err != nil {
		return s.internal("devices: get target", err)
	}
	if target == nil {
		return results.NotFoundf("device session not found")
	}
	if target.UserID != sess.UserID {
		return results.Forbiddenf("device session belongs to another user")
	}
	if _, err := s.sessions.Delete(ctx, target.UserID, target.DeviceID); err != nil {
		return s.internal("devices: delete target", err)
	}
	return results.OK()
}

// resolveSession verifies the refresh token and binds it to its live session
// row: the token's jti must equal the stored jti, which is what detects reuse
// of a superseded token. Expired rows are dropped lazily here.
func (s *AuthService) resolveSession(ctx context.Context, refreshToken string) (*sessiondomain.Session, results.Result) {
	userID, deviceID, jti, _, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, results.Unauthorizedf("refresh token is missing or invalid")
	}
	sess, err := s.sessions.Get(ctx, userID, deviceID)
	if err != nil {
		return nil, s.internal("resolve session: get", err)
	}
	if sess == nil {
		return nil, results.Unauthorizedf("refresh token is no longer valid")
	}
	if sess.Expired(time.Now().UTC()) {
		if _, err := s.sessions.Delete(ctx, userID, deviceID); err != nil {
			s.log.Warn("failed to drop expired session", zap.Error(err))
		}
		return nil, results.Unauthorizedf("refresh token is no longer valid")
	}
	if sess.RefreshJTI != jti {
		return nil, results.Unauthorizedf("refresh token is no longer valid")
	}
	return sess, results.OK()
}

// sendMail is fire-and-forget: a mail gateway failure is logged, never
// surfaced to the caller of Register/ResendConfirmation/PasswordRecovery.
func (s *AuthService) sendMail(to, subject, html string) {
	if err := s.mailer.Send(to, subject, html); err != nil {
		s.log.Error("mail send failed", zap.String("to", to), zap.Error(err))
	}
}

func (s *AuthService) internal(op string, err error) results.Result {
	s.log.Error(op, zap.Error(err))
	return results.InternalErr()
}

func deviceName(userAgent string) string {
	ua := strings.TrimSpace(userAgent)
	if ua == "" {
		return "Unknown device"
	}
	return ua
}

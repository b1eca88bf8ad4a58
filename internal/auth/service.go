package auth

import (
	"errors"
	"time"

	"aruanda-service/internal/model"
	"aruanda-service/internal/store"
	"aruanda-service/pkg/config"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MasterAdminID is the synthetic id of the configured master admin session.
// The master admin is never a row in the user directory.
const MasterAdminID = "master-1"

// Service implements the session/authorization model and the directory
// operations on top of a Store. It is constructed once at startup and
// passed to the handlers; there is no ambient singleton.
type Service struct {
	store  store.Store
	master config.MasterAdminConfig
	log    *zap.Logger
}

// NewService creates the auth service.
func NewService(st store.Store, cfg *config.Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, master: cfg.MasterAdmin, log: log}
}

// LoginResult carries the authenticated user and, for non-master sessions,
// the resolved temple.
type LoginResult struct {
	User   *model.User
	Temple *model.Temple
}

// Login authenticates a principal. The configured master credential pair
// yields a tenant-less master session. Everyone else must name an active
// temple and hold an approved account in it.
func (s *Service) Login(email, password, templeID string) (*LoginResult, error) {
	if email == s.master.Email && password == s.master.Password {
		now := time.Now()
		return &LoginResult{User: &model.User{
			ID:        MasterAdminID,
			Name:      s.master.Name,
			Email:     s.master.Email,
			Role:      model.RoleMasterAdmin,
			Active:    true,
			LastLogin: &now,
		}}, nil
	}

	if templeID == "" {
		return nil, ErrTempleRequired
	}

	temple, err := s.store.GetTemple(templeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTempleNotFound
		}
		return nil, err
	}
	if !temple.IsActive() {
		return nil, ErrTempleInactive
	}

	user, err := s.store.GetUserByEmailAndTemple(email, templeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrPendingApproval
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("temple_id", templeID),
		zap.String("role", user.Role))

	return &LoginResult{User: user, Temple: temple}, nil
}

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	ZipCode      string `json:"zip_code"`
	TempleID     string `json:"temple_id"`
}

// Register creates a pending account. The account cannot authenticate until
// a temple admin approves it; registration never returns a session.
func (s *Service) Register(in RegisterInput) (*model.User, error) {
	if in.TempleID == "" {
		return nil, ErrTempleRequired
	}

	temple, err := s.store.GetTemple(in.TempleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTempleNotFound
		}
		return nil, err
	}
	if !temple.IsActive() {
		return nil, ErrTempleInactive
	}

	// Email uniqueness is global, not per-temple.
	if _, err := s.store.GetUserByEmail(in.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		Password:     string(hashed),
		Phone:        in.Phone,
		Address:      in.Address,
		Neighborhood: in.Neighborhood,
		City:         in.City,
		State:        in.State,
		Country:      in.Country,
		ZipCode:      in.ZipCode,
		Role:         model.RoleUser,
		TempleID:     in.TempleID,
		Active:       false,
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Info("User registered, pending approval",
		zap.String("email", user.Email),
		zap.String("temple_id", user.TempleID))

	return user, nil
}

// ResetPassword confirms the email exists and triggers the recovery flow.
// The reference flow stops at the confirmation; no credential is changed
// here.
func (s *Service) ResetPassword(email string) error {
	if _, err := s.store.GetUserByEmail(email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.log.Info("Password reset link requested", zap.String("email", email))
	return nil
}

// ChangePassword verifies the current password before re-hashing the new
// one. The master admin credential pair lives in configuration and cannot
// be changed here.
func (s *Service) ChangePassword(sess *Session, current, newPassword string) error {
	if sess.IsMasterAdmin() {
		return ErrForbidden
	}
	user, err := s.store.GetUser(sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.store.UpdateUser(user)
}

// ProfileInput is the whitelisted set of self-editable fields.
type ProfileInput struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Neighborhood *string `json:"neighborhood"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Country      *string `json:"country"`
	ZipCode      *string `json:"zip_code"`
}

// UpdateProfile lets any authenticated principal edit their own contact
// fields. Role, temple and approval state are never touched here.
func (s *Service) UpdateProfile(sess *Session, in ProfileInput) (*model.User, error) {
	if sess.IsMasterAdmin() {
		// The master admin has no directory row to update.
		return nil, ErrForbidden
	}
	user, err := s.store.GetUser(sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil && *in.Email != user.Email {
		if _, err := s.store.GetUserByEmail(*in.Email); err == nil {
			return nil, ErrEmailAlreadyExists
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		user.Email = *in.Email
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.Neighborhood != nil {
		user.Neighborhood = *in.Neighborhood
	}
	if in.City != nil {
		user.City = *in.City
	}
	if in.State != nil {
		user.State = *in.State
	}
	if in.Country != nil {
		user.Country = *in.Country
	}
	if in.ZipCode != nil {
		user.ZipCode = *in.ZipCode
	}
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// targetUser loads a directory row and enforces tenant scope: temple admins
// may only act on users of their own temple, the master admin on anyone.
func (s *Service) targetUser(sess *Session, id string) (*model.User, error) {
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	user, err := s.store.GetUser(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !sess.IsMasterAdmin() && user.TempleID != sess.TempleID {
		return nil, ErrForbidden
	}
	return user, nil
}

// ApproveUser activates a pending account.
func (s *Service) ApproveUser(sess *Session, id string) (*model.User, error) {
	user, err := s.targetUser(sess, id)
	if err != nil {
		return nil, err
	}
	user.Active = true
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}
	s.log.Info("User approved", zap.String("user_id", user.ID), zap.String("approved_by", sess.UserID))
	return user, nil
}

// RejectUser deletes a pending account.
func (s *Service) RejectUser(sess *Session, id string) error {
	user, err := s.targetUser(sess, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteUser(user.ID); err != nil {
		return err
	}
	s.log.Info("User rejected", zap.String("user_id", user.ID), zap.String("rejected_by", sess.UserID))
	return nil
}

// PromoteUser raises a regular user to temple admin.
func (s *Service) PromoteUser(sess *Session, id string) (*model.User, error) {
	user, err := s.targetUser(sess, id)
	if err != nil {
		return nil, err
	}
	user.Role = model.RoleTempleAdmin
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DemoteUser lowers a temple admin back to a regular user.
func (s *Service) DemoteUser(sess *Session, id string) (*model.User, error) {
	user, err := s.targetUser(sess, id)
	if err != nil {
		return nil, err
	}
	user.Role = model.RoleUser
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// TempleUsers returns the full directory for the master admin, or the rows
// of the caller's temple otherwise.
func (s *Service) TempleUsers(sess *Session) ([]model.User, error) {
	if sess.IsMasterAdmin() {
		return s.store.ListUsers()
	}
	return s.store.ListTempleUsers(sess.TempleID)
}

// --- Temple directory (master admin only) ---

// SelectableTemples lists the temples offered at login/registration time.
// Inactive temples are never selectable.
func (s *Service) SelectableTemples() ([]model.Temple, error) {
	return s.store.ListActiveTemples()
}

// Temples lists the full directory for the master admin's management view.
func (s *Service) Temples(sess *Session) ([]model.Temple, error) {
	if !sess.IsMasterAdmin() {
		return nil, ErrForbidden
	}
	return s.store.ListTemples()
}

// CreateTemple adds a tenant.
func (s *Service) CreateTemple(sess *Session, t *model.Temple) error {
	if !sess.IsMasterAdmin() {
		return ErrForbidden
	}
	return s.store.CreateTemple(t)
}

// UpdateTemple edits a tenant.
func (s *Service) UpdateTemple(sess *Session, t *model.Temple) error {
	if !sess.IsMasterAdmin() {
		return ErrForbidden
	}
	err := s.store.UpdateTemple(t)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTempleNotFound
	}
	return err
}

// DeleteTemple removes a tenant and cascades to its users.
func (s *Service) DeleteTemple(sess *Session, id string) error {
	if !sess.IsMasterAdmin() {
		return ErrForbidden
	}
	err := s.store.DeleteTemple(id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTempleNotFound
	}
	if err == nil {
		s.log.Info("Temple deleted, users cascaded", zap.String("temple_id", id))
	}
	return err
}

// GetTemple resolves a temple for an authenticated session.
func (s *Service) GetTemple(id string) (*model.Temple, error) {
	t, err := s.store.GetTemple(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTempleNotFound
	}
	return t, err
}

// --- Temple admin administration (master admin only) ---

// AdminInput is the payload for creating a temple administrator.
type AdminInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	TempleID string `json:"temple_id"`
}

// AddTempleAdmin creates an active temple_admin account. Email uniqueness
// is global, as with self-registration.
func (s *Service) AddTempleAdmin(sess *Session, in AdminInput) (*model.User, error) {
	if !sess.IsMasterAdmin() {
		return nil, ErrForbidden
	}
	if in.TempleID == "" {
		return nil, ErrTempleRequired
	}
	if _, err := s.store.GetTemple(in.TempleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTempleNotFound
		}
		return nil, err
	}
	if _, err := s.store.GetUserByEmail(in.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Phone:    in.Phone,
		Role:     model.RoleTempleAdmin,
		TempleID: in.TempleID,
		Active:   true,
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateTempleAdmin edits a directory row as the master admin.
func (s *Service) UpdateTempleAdmin(sess *Session, user *model.User) error {
	if !sess.IsMasterAdmin() {
		return ErrForbidden
	}
	err := s.store.UpdateUser(user)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// DeleteTempleAdmin removes a directory row as the master admin.
func (s *Service) DeleteTempleAdmin(sess *Session, id string) error {
	if !sess.IsMasterAdmin() {
		return ErrForbidden
	}
	err := s.store.DeleteUser(id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// User loads a directory row for handlers that merge partial updates.
func (s *Service) User(id string) (*model.User, error) {
	u, err := s.store.GetUser(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/images"
	"storefront/internal/metrics"
	"storefront/internal/repository/slot"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

type memberRepo interface {
	Create(ctx context.Context, m domain.Member) (*domain.Member, error)
	GetByAccount(ctx context.Context, account string) (*domain.Member, error)
	CountByAccount(ctx context.Context, account string) (int, error)
	Delete(ctx context.Context, id string) error
	UpdateProfileImage(ctx context.Context, id, path string) error
}

type imageSaver interface {
	Save(ctx context.Context, data []byte, name string) (string, error)
}

// Service tracks the single logged-in account and manages member records.
type Service struct {
	members memberRepo
	slots   slot.Store
	images  imageSaver
	logger  *log.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

func New(members memberRepo, slots slot.Store, images imageSaver, logger *log.Logger, rec metrics.Recorder) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		members: members,
		slots:   slots,
		images:  images,
		logger:  logger,
		metrics: metrics.OrNop(rec),
		now:     time.Now,
	}
}

// RegisterInput carries the registration form. Age arrives as typed text.
type RegisterInput struct {
	Name            string     `json:"name"`
	Age             string     `json:"age"`
	Birthday        *time.Time `json:"birthday"`
	Email           string     `json:"email"`
	Gender          string     `json:"gender"`
	Account         string     `json:"account"`
	Password        string     `json:"password"`
	ConfirmPassword string     `json:"confirmPassword"`
	ProfileImage    []byte     `json:"profileImage"`
}

// Register validates the form and creates a member. Checks run in a fixed order and the
// first failure is returned.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	start := s.now()
	id, err := s.register(ctx, in)
	s.metrics.Observe("register", err == nil, s.now().Sub(start))
	return id, err
}

func (s *Service) register(ctx context.Context, in RegisterInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", ErrEmptyName
	}
	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil || age <= 0 {
		return "", ErrInvalidAge
	}
	email := strings.TrimSpace(in.Email)
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	account := NormalizeAccount(in.Account)
	if account == "" {
		return "", ErrEmptyAccount
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return "", ErrWeakPassword
	}
	if in.Password != in.ConfirmPassword {
		return "", ErrPasswordMismatch
	}
	count, err := s.members.CountByAccount(ctx, account)
	if err != nil {
		return "", fmt.Errorf("count members: %w", err)
	}
	if count > 0 {
		return "", ErrAccountTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	m := domain.Member{
		Account:      account,
		PasswordHash: string(hashed),
		Name:         name,
		Age:          age,
		Birthday:     in.Birthday,
		Email:        email,
		Gender:       domain.ParseGender(strings.ToLower(strings.TrimSpace(in.Gender))),
		CreatedAt:    s.now().UTC(),
	}
	created, err := s.members.Create(ctx, m)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return "", ErrAccountTaken
		}
		return "", fmt.Errorf("create member: %w", err)
	}
	if len(in.ProfileImage) > 0 {
		s.attachProfileImage(ctx, created, in.ProfileImage)
	}
	return created.ID, nil
}

// attachProfileImage stores the registration picture for a member that already exists.
// Failures are logged and the member is kept without an image.
func (s *Service) attachProfileImage(ctx context.Context, m *domain.Member, data []byte) {
	path, err := s.images.Save(ctx, data, images.ProfileImageName(m.Account))
	if err != nil {
		s.logger.Printf("session: save profile image account=%s error=%v", m.Account, err)
		return
	}
	if err := s.members.UpdateProfileImage(ctx, m.ID, path); err != nil {
		s.logger.Printf("session: record profile image account=%s error=%v", m.Account, err)
	}
}

// NormalizeAccount trims surrounding whitespace; accounts are stored and looked up trimmed.
func NormalizeAccount(account string) string {
	return strings.TrimSpace(account)
}

// Login checks the password against the stored hash and records account as current.
// The slot is left untouched on failure.
func (s *Service) Login(ctx context.Context, account, password string) error {
	start := s.now()
	err := s.login(ctx, account, password)
	s.metrics.Observe("login", err == nil, s.now().Sub(start))
	return err
}

func (s *Service) login(ctx context.Context, account, password string) error {
	m, err := s.members.GetByAccount(ctx, NormalizeAccount(account))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("get member: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	if err := s.slots.Set(ctx, slot.CurrentAccountKey, m.Account); err != nil {
		return fmt.Errorf("store current account: %w", err)
	}
	return nil
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.slots.Remove(ctx, slot.CurrentAccountKey); err != nil {
		return fmt.Errorf("clear current account: %w", err)
	}
	return nil
}

// Current returns the logged-in account, if any.
func (s *Service) Current(ctx context.Context) (string, bool, error) {
	account, ok, err := s.slots.Get(ctx, slot.CurrentAccountKey)
	if err != nil {
		return "", false, fmt.Errorf("read current account: %w", err)
	}
	if !ok || account == "" {
		return "", false, nil
	}
	return account, true, nil
}

// Member loads the record of the logged-in account.
func (s *Service) Member(ctx context.Context) (*domain.Member, error) {
	account, ok, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return s.members.GetByAccount(ctx, account)
}

// DeleteAccount removes the logged-in member and logs out. Nothing happens when no member
// matches the current account. The profile image file is left in the document area.
func (s *Service) DeleteAccount(ctx context.Context) error {
	m, err := s.Member(ctx)
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) || errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.members.Delete(ctx, m.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete member: %w", err)
	}
	return s.Logout(ctx)
}

// UpdateProfileImage replaces the profile picture of the logged-in member.
func (s *Service) UpdateProfileImage(ctx context.Context, data []byte) (string, error) {
	m, err := s.Member(ctx)
	if err != nil {
		return "", err
	}
	path, err := s.images.Save(ctx, data, images.ProfileImageName(m.Account))
	if err != nil {
		s.logger.Printf("session: save profile image account=%s error=%v", m.Account, err)
		return "", fmt.Errorf("save profile image: %w", err)
	}
	if err := s.members.UpdateProfileImage(ctx, m.ID, path); err != nil {
		return "", fmt.Errorf("update profile image: %w", err)
	}
	return path, nil
}

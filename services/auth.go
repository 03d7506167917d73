package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notekit/server/database"
)

const tokenTTL = 60 * time.Minute
const otpTTL = 10 * time.Minute

// ErrInvalidCredentials is returned for a bad email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles signup, login, the OTP password-reset flow, and JWT
// issuance/verification.
type AuthService struct {
	store     *database.Store
	mailer    *Mailer
	jwtSecret []byte
}

func NewAuthService(store *database.Store, mailer *Mailer, jwtSecret string) *AuthService {
	return &AuthService{
		store:     store,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
	}
}

// Signup registers a new account and sends a best-effort welcome mail.
// TODO: hash passwords with bcrypt instead of storing them verbatim.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) error {
	if email == "" {
		return database.Invalidf("email is required")
	}

	users := s.store.Users()
	if _, err := users.Get(ctx, email); err == nil {
		return database.Invalidf("email already registered")
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	user := database.User{Name: name, Email: email, Password: password}
	if err := users.Put(ctx, email, user); err != nil {
		return err
	}

	go func() {
		body := fmt.Sprintf("Hi %s, signup successful. Your password: %s", name, password)
		if err := s.mailer.Send(email, "Welcome!", body); err != nil {
			log.Printf("Warning: failed to send welcome email: %v", err)
		}
	}()
	return nil
}

// Login checks credentials and returns a signed token plus the account
// display name.
func (s *AuthService) Login(ctx context.Context, email, password string) (token, name string, err error) {
	user, err := s.getUser(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}
	if user.Password != password {
		return "", "", ErrInvalidCredentials
	}

	token, err = s.CreateToken(email)
	if err != nil {
		return "", "", err
	}
	return token, user.Name, nil
}

// ForgotPassword stores a fresh 6-digit OTP on the account and mails it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.getUser(ctx, email)
	if err != nil {
		return userErr(err)
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	expires := time.Now().UTC().Add(otpTTL)
	user.OTP = otp
	user.OTPExpires = &expires

	if err := s.store.Users().Put(ctx, email, user); err != nil {
		return err
	}

	go func() {
		if err := s.mailer.Send(email, "Password Reset OTP", "Your OTP is: "+otp); err != nil {
			log.Printf("Warning: failed to send OTP email: %v", err)
		}
	}()
	return nil
}

// VerifyOTP checks the submitted OTP and clears it on success.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	user, err := s.getUser(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return database.Invalidf("invalid email or OTP")
	}
	if err != nil {
		return err
	}
	if otp == "" || user.OTP != otp {
		return database.Invalidf("invalid email or OTP")
	}
	if user.OTPExpires == nil || user.OTPExpires.Before(time.Now().UTC()) {
		return database.Invalidf("expired OTP")
	}

	user.OTP = ""
	user.OTPExpires = nil
	return s.store.Users().Put(ctx, email, user)
}

// ResetPassword replaces the account password.
func (s *AuthService) ResetPassword(ctx context.Context, email, password string) error {
	user, err := s.getUser(ctx, email)
	if err != nil {
		return userErr(err)
	}
	user.Password = password
	return s.store.Users().Put(ctx, email, user)
}

// GetUser returns the account for email.
func (s *AuthService) GetUser(ctx context.Context, email string) (*database.User, error) {
	user, err := s.getUser(ctx, email)
	if err != nil {
		return nil, userErr(err)
	}
	return &user, nil
}

// CreateToken generates a signed JWT for the given subject.
func (s *AuthService) CreateToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken validates a JWT and returns the subject email.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return "", errors.New("subject claim missing")
	}
	return email, nil
}

func (s *AuthService) getUser(ctx context.Context, email string) (database.User, error) {
	var user database.User
	raw, err := s.store.Users().Get(ctx, email)
	if err != nil {
		return user, err
	}
	if err := unmarshalDoc(raw, &user); err != nil {
		return user, err
	}
	return user, nil
}

func userErr(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("user not found: %w", err)
	}
	return err
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

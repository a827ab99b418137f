package services

import (
	"fmt"
	"log"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	accountRepo repositories.AccountRepository
	jwtSecret   []byte
	tokenDurat  time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(accountRepo repositories.AccountRepository, jwtSecret string) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  24 * time.Hour, // Token valid for 24 hours
	}
}

// RegisterAccount registers a new account, hashes its password, and saves it.
// Accounts default to the User role; privileged roles are assigned out of
// band, never through registration.
func (s *AuthService) RegisterAccount(account *models.Account) error {
	// Check if username or email already exists
	existing, err := s.accountRepo.GetByUsername(account.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("username '%s' already taken", account.Username)
	}
	existing, err = s.accountRepo.GetByEmail(account.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("email '%s' already registered", account.Email)
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	account.Password = string(hashedPassword) // Store the hashed password
	account.Role = models.RoleUser

	if err := s.accountRepo.Create(account); err != nil {
		return fmt.Errorf("failed to register account: %w", err)
	}
	return nil
}

// LoginAccount authenticates an account and returns a JWT token if successful.
// The token carries the account's role so handlers can gate order views by it.
func (s *AuthService) LoginAccount(username, password string) (string, error) {
	account, err := s.accountRepo.GetByUsername(username)
	if err != nil || account == nil {
		// It's good practice not to reveal if the username exists or not for security
		return "", fmt.Errorf("invalid credentials")
	}

	// Compare the provided password with the hashed password
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	// Generate JWT token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": account.ID,
		"username":   account.Username,
		"role":       string(account.Role),
		"exp":        time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":        time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

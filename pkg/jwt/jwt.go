package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subjects de cada tipo de sesión. Un token de un tipo nunca se acepta como el otro.
const (
	SubjectTenant = "tenant"
	SubjectBoss   = "boss"
)

// ErrWrongSubject el token es válido pero de otro tipo de sesión.
var ErrWrongSubject = errors.New("jwt: tipo de sesión incorrecto")

// TenantClaims identidad de un usuario dentro de una empresa. El rol NO viaja en el token:
// se vuelve a leer de la base en cada petición.
type TenantClaims struct {
	jwt.RegisteredClaims
	UserID        string `json:"user_id"`
	CompanyID     string `json:"company_id"`
	CompanyUserID string `json:"company_user_id"`
}

// BossClaims identidad de un operador de la plataforma.
type BossClaims struct {
	jwt.RegisteredClaims
	BossID string `json:"boss_id"`
}

func registered(subject, issuer string, expMinutes int) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
	}
}

func sign(secret string, claims jwt.Claims) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parse(secret, tokenString string, claims jwt.Claims) error {
	if secret == "" {
		return fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("claims inválidos")
	}
	return nil
}

// GenerateTenant firma un token de sesión de tenant.
func GenerateTenant(secret, issuer string, expMinutes int, userID, companyID, companyUserID string) (string, error) {
	return sign(secret, TenantClaims{
		RegisteredClaims: registered(SubjectTenant, issuer, expMinutes),
		UserID:           userID,
		CompanyID:        companyID,
		CompanyUserID:    companyUserID,
	})
}

// ParseTenant valida el token y devuelve sus claims.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o es de otro tipo.
func ParseTenant(secret, tokenString string) (*TenantClaims, error) {
	var claims TenantClaims
	if err := parse(secret, tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.Subject != SubjectTenant {
		return nil, ErrWrongSubject
	}
	if claims.UserID == "" || claims.CompanyID == "" || claims.CompanyUserID == "" {
		return nil, fmt.Errorf("claims incompletos")
	}
	return &claims, nil
}

// GenerateBoss firma un token de sesión de boss.
func GenerateBoss(secret, issuer string, expMinutes int, bossID string) (string, error) {
	return sign(secret, BossClaims{
		RegisteredClaims: registered(SubjectBoss, issuer, expMinutes),
		BossID:           bossID,
	})
}

// ParseBoss valida un token de boss y devuelve el boss_id.
func ParseBoss(secret, tokenString string) (string, error) {
	var claims BossClaims
	if err := parse(secret, tokenString, &claims); err != nil {
		return "", err
	}
	if claims.Subject != SubjectBoss || claims.BossID == "" {
		return "", ErrWrongSubject
	}
	return claims.BossID, nil
}

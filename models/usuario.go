package models

import (
	"time"
)

// Roles de usuario
const (
	RolAdmin  = "admin"
	RolMedico = "medico"
)

// Usuario representa la tabla users en la base de datos
type Usuario struct {
	ID           int       `json:"id" db:"id"`
	Nombre       string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Rol          string    `json:"role" db:"role"`
	MFAEnabled   bool      `json:"mfa_enabled" db:"mfa_enabled"`
	MFASecret    string    `json:"-" db:"mfa_secret"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UsuarioResponse representa la respuesta sin datos sensibles
type UsuarioResponse struct {
	ID         int    `json:"id"`
	Nombre     string `json:"name"`
	Email      string `json:"email"`
	Rol        string `json:"role"`
	MFAEnabled bool   `json:"mfa_enabled"`
}

// Respuesta construye la vista pública del usuario
func (u *Usuario) Respuesta() UsuarioResponse {
	return UsuarioResponse{
		ID:         u.ID,
		Nombre:     u.Nombre,
		Email:      u.Email,
		Rol:        u.Rol,
		MFAEnabled: u.MFAEnabled,
	}
}

// LoginRequest representa la solicitud de login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfa_code,omitempty"`
}

// LoginResponse representa la respuesta del login
type LoginResponse struct {
	OK      bool            `json:"ok"`
	Token   string          `json:"token"`
	Usuario UsuarioResponse `json:"usuario"`
}

// MFASetupResponse contiene el secreto TOTP y su QR en PNG (base64)
type MFASetupResponse struct {
	OK         bool   `json:"ok"`
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauth_url"`
	QRPNG      string `json:"qr_png"`
}

// MFAVerifyRequest contiene el código de 6 dígitos
type MFAVerifyRequest struct {
	Code string `json:"code"`
}

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/heydoctor/backend/models"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// RepositorioUsuarios accede a la tabla users
type RepositorioUsuarios struct {
	db DBTX
}

func NuevoRepositorioUsuarios(db DBTX) *RepositorioUsuarios {
	return &RepositorioUsuarios{db: db}
}

const columnasUsuario = `id, name, email, password_hash, role, mfa_enabled, COALESCE(mfa_secret, ''), created_at`

func escanearUsuario(row pgx.Row) (*models.Usuario, error) {
	var u models.Usuario
	err := row.Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &u.Rol, &u.MFAEnabled, &u.MFASecret, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// BuscarPorEmail busca un usuario por su email
func (r *RepositorioUsuarios) BuscarPorEmail(ctx context.Context, email string) (*models.Usuario, error) {
	u, err := escanearUsuario(r.db.QueryRow(ctx,
		"SELECT "+columnasUsuario+" FROM users WHERE email = $1", email))
	if err != nil && !errors.Is(err, ErrNoEncontrado) {
		return nil, fmt.Errorf("buscar usuario %s: %w", email, err)
	}
	return u, err
}

// BuscarPorID busca un usuario por su id
func (r *RepositorioUsuarios) BuscarPorID(ctx context.Context, id int) (*models.Usuario, error) {
	u, err := escanearUsuario(r.db.QueryRow(ctx,
		"SELECT "+columnasUsuario+" FROM users WHERE id = $1", id))
	if err != nil && !errors.Is(err, ErrNoEncontrado) {
		return nil, fmt.Errorf("buscar usuario %d: %w", id, err)
	}
	return u, err
}

// GuardarSecretoMFA deja un secreto TOTP pendiente de verificación
func (r *RepositorioUsuarios) GuardarSecretoMFA(ctx context.Context, id int, secreto string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE users SET mfa_secret = $1, mfa_enabled = FALSE WHERE id = $2", secreto, id)
	if err != nil {
		return fmt.Errorf("guardar secreto MFA: %w", err)
	}
	return nil
}

// ActivarMFA marca el MFA como activo después de verificar un código
func (r *RepositorioUsuarios) ActivarMFA(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET mfa_enabled = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("activar MFA: %w", err)
	}
	return nil
}

// AsegurarAdmin crea el usuario administrador si todavía no existe.
// Devuelve true si lo creó.
func (r *RepositorioUsuarios) AsegurarAdmin(ctx context.Context, nombre, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, errors.New("ADMIN_EMAIL y ADMIN_PASSWORD son requeridos para crear el administrador")
	}

	var existe bool
	if err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&existe); err != nil {
		return false, fmt.Errorf("verificar administrador: %w", err)
	}
	if existe {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("procesar la contraseña: %w", err)
	}
	if _, err := r.db.Exec(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4)",
		nombre, email, string(hash), models.RolAdmin); err != nil {
		return false, fmt.Errorf("crear administrador: %w", err)
	}
	return true, nil
}

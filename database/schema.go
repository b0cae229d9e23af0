package database

import (
	"context"
	"fmt"
)

const crearTablaUsuarios = `
CREATE TABLE IF NOT EXISTS users (
	id            SERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'medico',
	mfa_enabled   BOOLEAN NOT NULL DEFAULT FALSE,
	mfa_secret    TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const crearTablaPacientes = `
CREATE TABLE IF NOT EXISTS patients (
	id         SERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	rut        TEXT,
	history    JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const crearTablaMedico = `
CREATE TABLE IF NOT EXISTS doctor (
	id        SERIAL PRIMARY KEY,
	name      TEXT NOT NULL,
	specialty TEXT NOT NULL DEFAULT ''
)`

// Bases existentes anteriores a MFA
var columnasMFA = []string{
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS mfa_enabled BOOLEAN NOT NULL DEFAULT FALSE`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS mfa_secret TEXT`,
}

// CrearEsquema crea las tablas si no existen. No modifica datos.
func CrearEsquema(ctx context.Context, db DBTX) error {
	sentencias := append([]string{crearTablaUsuarios, crearTablaPacientes, crearTablaMedico}, columnasMFA...)
	for _, s := range sentencias {
		if _, err := db.Exec(ctx, s); err != nil {
			return fmt.Errorf("crear esquema: %w", err)
		}
	}
	return nil
}

package entity

import "time"

// Roles de operador. CAJERO atiende ventanilla y crea solicitudes;
// ADMIN las resuelve y administra tarifas.
type OperatorRole string

const (
	RoleCajero OperatorRole = "CAJERO"
	RoleAdmin  OperatorRole = "ADMIN"
)

// Operator es un usuario del sistema (personal del municipio).
type Operator struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         OperatorRole
	Active       bool
	CreatedAt    time.Time
}

package entities

import "strings"

type Role string

const (
	RoleComercial     Role = "comercial"
	RoleJefeComercial Role = "jefe_comercial"
	RoleCompras       Role = "compras"
	RoleAdmin         Role = "admin"
)

// NormalizeRole maps stored role names (including the historical "vanessa"
// alias for the sales supervisor) onto a Role. Unknown values fall back to
// comercial.
func NormalizeRole(r string) Role {
	switch s := strings.ToLower(strings.TrimSpace(r)); s {
	case "vanessa", string(RoleJefeComercial):
		return RoleJefeComercial
	case string(RoleCompras):
		return RoleCompras
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleComercial
	}
}

// Actor is the caller identity resolved by the identity provider.
// The core only reads it.
type Actor struct {
	UID         string
	Email       string
	DisplayName string
	Rol         Role
}

// Vendedor snapshots the actor as the owner of a new quotation.
func (a Actor) Vendedor() Vendedor {
	nombre := strings.TrimSpace(a.DisplayName)
	if nombre == "" {
		nombre = strings.TrimSpace(a.Email)
	}
	return Vendedor{
		UID:    strings.TrimSpace(a.UID),
		Nombre: nombre,
		Email:  strings.TrimSpace(a.Email),
	}
}

package middleware

import (
	"net/http"
	"strings"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ActorKey = "actor"

var (
	errAuthRequired  = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Autenticación requerida", http.StatusUnauthorized)
	errInvalidToken  = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Token inválido o expirado", http.StatusUnauthorized)
	errForbiddenRole = pkg.NewDomainErrorSimple("FORBIDDEN", "Permisos insuficientes", http.StatusForbidden)
)

// JWTClaims are the identity claims issued by the identity provider.
type JWTClaims struct {
	UID    string `json:"uid"`
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

// Actor resolves the claims into the caller identity. The subject is used
// when no explicit uid claim is present.
func (c *JWTClaims) Actor() entities.Actor {
	uid := c.UID
	if uid == "" {
		uid = c.Subject
	}
	return entities.Actor{
		UID:         uid,
		Email:       c.Email,
		DisplayName: c.Nombre,
		Rol:         entities.NormalizeRole(c.Rol),
	}
}

// JWTAuth validates the HS256 bearer token and stores the Actor on the context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(errAuthRequired.HTTPStatus, errAuthRequired.ToHTTPError())
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(errInvalidToken.HTTPStatus, errInvalidToken.ToHTTPError())
			return
		}

		actor := claims.Actor()
		if actor.UID == "" {
			c.AbortWithStatusJSON(errInvalidToken.HTTPStatus, errInvalidToken.ToHTTPError())
			return
		}
		c.Set(ActorKey, actor)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in roles.
func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	allowed := make(map[entities.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(errAuthRequired.HTTPStatus, errAuthRequired.ToHTTPError())
			return
		}
		if !allowed[actor.Rol] {
			c.AbortWithStatusJSON(errForbiddenRole.HTTPStatus, errForbiddenRole.ToHTTPError())
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated caller, if any.
func GetActor(c *gin.Context) (entities.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return entities.Actor{}, false
	}
	actor, ok := v.(entities.Actor)
	return actor, ok
}

// IssueToken signs claims for actor. Used by tooling and tests.
func IssueToken(secret string, actor entities.Actor, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = actor.UID
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UID:              actor.UID,
		Email:            actor.Email,
		Nombre:           actor.DisplayName,
		Rol:              string(actor.Rol),
		RegisteredClaims: claims,
	})
	return t.SignedString([]byte(secret))
}

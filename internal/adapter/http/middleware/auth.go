package middleware

import (
	"client_portal/internal/domain/entities"
	"client_portal/pkg"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

var errUnauthorized = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid bearer token", http.StatusUnauthorized)

// Auth resolves the caller from an HS256 bearer token. The token must carry
// "sub" and may carry "role"; anything but staff or admin is a client.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
			return
		}
		actor, err := ParseActor(raw, secret)
		if err != nil {
			log.Printf("[http][auth] token rejected path=%s err=%v", c.FullPath(), err)
			c.AbortWithStatusJSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ParseActor verifies token and maps its claims to an Actor.
func ParseActor(token string, secret []byte) (entities.Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return entities.Actor{}, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return entities.Actor{}, fmt.Errorf("invalid token claims")
	}
	sub, _ := claims.GetSubject()
	if strings.TrimSpace(sub) == "" {
		return entities.Actor{}, fmt.Errorf("token has no subject")
	}
	role, _ := claims["role"].(string)
	return entities.Actor{ID: sub, Role: normalizeRole(role)}, nil
}

// IssueToken signs an HS256 token for actor. Used by local tooling and tests.
func IssueToken(actor entities.Actor, secret []byte, claims jwt.MapClaims) (string, error) {
	mc := jwt.MapClaims{"sub": actor.ID, "role": string(actor.Role)}
	for k, v := range claims {
		mc[k] = v
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(secret)
}

// ActorFrom returns the actor set by Auth.
func ActorFrom(c *gin.Context) (entities.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return entities.Actor{}, false
	}
	actor, ok := v.(entities.Actor)
	return actor, ok
}

// SetActor stores actor on the request context, as Auth does.
func SetActor(c *gin.Context, actor entities.Actor) {
	c.Set(actorKey, actor)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func normalizeRole(role string) entities.Role {
	switch entities.Role(strings.ToLower(strings.TrimSpace(role))) {
	case entities.RoleStaff:
		return entities.RoleStaff
	case entities.RoleAdmin:
		return entities.RoleAdmin
	default:
		return entities.RoleClient
	}
}

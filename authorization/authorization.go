package authorization

import (
	"errors"
	"net/http"

	"MediBook/auth"
	"MediBook/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const principalKey = "principal"

var ErrNoPrincipal = errors.New("no principal in context")

/*
* Collect the Authorization header and the role's cookie
* The first candidate that verifies under the role's secret wins
* Store the principal in the context
 */
func JWTAuth(issuer *auth.Issuer, role auth.Role) gin.HandlerFunc {
	ns, ok := issuer.Namespace(role)
	if !ok {
		panic("authorization: no namespace configured for role " + string(role))
	}
	return func(c *gin.Context) {
		candidates := make([]string, 0, 2)
		if header := c.GetHeader("Authorization"); header != "" {
			candidates = append(candidates, header)
		}
		if cookie, err := c.Cookie(ns.CookieName); err == nil && cookie != "" {
			candidates = append(candidates, cookie)
		}

		var lastErr error
		for _, raw := range candidates {
			principal, err := issuer.Verify(role, raw)
			if err != nil {
				lastErr = err
				continue
			}
			c.Set(principalKey, principal)
			c.Next()
			return
		}

		if lastErr != nil {
			log.Debug().Err(lastErr).Str("role", string(role)).Str("path", c.Request.URL.Path).Msg("Rejected token")
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(util.MISSING_TOKEN))
	}
}

func PrincipalFrom(c *gin.Context) (auth.Principal, error) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, ErrNoPrincipal
	}
	principal, ok := v.(auth.Principal)
	if !ok {
		return auth.Principal{}, ErrNoPrincipal
	}
	return principal, nil
}

// SetCookie writes the role's session cookie. An empty token with a negative
// max age clears it.
func SetCookie(c *gin.Context, ns auth.Namespace, token string, secure bool) {
	maxAge := int(ns.TTL.Seconds())
	if token == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ns.CookieName, token, maxAge, "/", "", secure, true)
}

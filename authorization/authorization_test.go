package authorization

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MediBook/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	issuer, err := auth.NewIssuer(
		auth.Namespace{Role: auth.RoleUser, Secret: []byte("u"), CookieName: "usertoken", TTL: time.Hour},
		auth.Namespace{Role: auth.RoleDoctor, Secret: []byte("d"), CookieName: "doctortoken", TTL: time.Hour},
	)
	require.NoError(t, err)
	return issuer
}

func newRouter(issuer *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/doctor", JWTAuth(issuer, auth.RoleDoctor), func(c *gin.Context) {
		p, err := PrincipalFrom(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, p.ID.Hex())
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	issuer := newIssuer(t)
	r := newRouter(issuer)
	id := primitive.NewObjectID()
	doctorToken, _, err := issuer.Issue(auth.RoleDoctor, id)
	require.NoError(t, err)
	userToken, _, err := issuer.Issue(auth.RoleUser, id)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "no carrier", want: http.StatusUnauthorized},
		{name: "bearer header", header: "Bearer " + doctorToken, want: http.StatusOK},
		{name: "raw header", header: doctorToken, want: http.StatusOK},
		{name: "cookie", cookie: doctorToken, want: http.StatusOK},
		{name: "user token rejected", header: "Bearer " + userToken, want: http.StatusUnauthorized},
		{name: "bad header falls back to cookie", header: "Bearer junk", cookie: doctorToken, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/doctor", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "doctortoken", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, id.Hex(), w.Body.String())
			}
		})
	}
}

func TestPrincipalFromEmptyContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := PrincipalFrom(c)
	assert.ErrorIs(t, err, ErrNoPrincipal)
}

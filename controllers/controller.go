package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"MediBook/auth"
	"MediBook/authorization"
	"MediBook/services"
	"MediBook/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth         *services.AuthService
	Doctors      *services.DoctorService
	Users        *services.UserService
	Appointments *services.AppointmentService
	Reports      *services.ReportService
	Issuer       *auth.Issuer
	DB           Pinger
	CookieSecure bool
	// LoginLimit guards the sign-in endpoints. Nil disables it.
	LoginLimit gin.HandlerFunc
}

type Controller struct {
	auth         *services.AuthService
	doctors      *services.DoctorService
	users        *services.UserService
	appointments *services.AppointmentService
	reports      *services.ReportService
	issuer       *auth.Issuer
	db           Pinger
	cookieSecure bool
	loginLimit   gin.HandlerFunc
}

func New(d Deps) *Controller {
	limit := d.LoginLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	return &Controller{
		auth:         d.Auth,
		doctors:      d.Doctors,
		users:        d.Users,
		appointments: d.Appointments,
		reports:      d.Reports,
		issuer:       d.Issuer,
		db:           d.DB,
		cookieSecure: d.CookieSecure,
		loginLimit:   limit,
	}
}

func (ctl *Controller) requireAuth(role auth.Role) gin.HandlerFunc {
	return authorization.JWTAuth(ctl.issuer, role)
}

// principal is only called behind requireAuth.
func principal(c *gin.Context) (auth.Principal, bool) {
	p, err := authorization.PrincipalFrom(c)
	if err != nil {
		util.Fail(c, util.Unauthorized(util.MISSING_TOKEN, err))
		return auth.Principal{}, false
	}
	return p, true
}

/*
* Bind the JSON body
* Report validator failures field by field
 */
func bind(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		util.Fail(c, bindError(err))
		return false
	}
	return true
}

// bindOptional accepts an empty body and leaves dest untouched.
func bindOptional(c *gin.Context, dest interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		util.Fail(c, bindError(err))
		return false
	}
	return true
}

func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return util.Validation(util.INCOMPLETE_CONTENT + ": " + strings.Join(fields, ", "))
	}
	return util.Validation(util.INVALID_REQUEST_BODY)
}

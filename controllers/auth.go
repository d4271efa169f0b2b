package controllers

import (
	"context"
	"net/http"

	"MediBook/auth"
	"MediBook/authorization"
	"MediBook/models"
	"MediBook/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Auth(r *gin.Engine) {
	r.POST("/signup", ctl.loginLimit, ctl.Signup)
	r.POST("/signin", ctl.loginLimit, ctl.signin(auth.RoleUser, ctl.auth.LoginUser))
	r.GET("/logout", ctl.logout(auth.RoleUser))

	r.POST("/doctor/signin", ctl.loginLimit, ctl.signin(auth.RoleDoctor, ctl.auth.LoginDoctor))
	r.GET("/doctor/logout", ctl.logout(auth.RoleDoctor))

	r.POST("/admin/signin", ctl.loginLimit, ctl.signin(auth.RoleAdmin, ctl.auth.LoginAdmin))
	r.GET("/admin/logout", ctl.logout(auth.RoleAdmin))
}

/*
* Bind the registration fields
* Pass to the service
 */
func (ctl *Controller) Signup(c *gin.Context) {
	var in models.RegisterUserInput
	if !bind(c, &in) {
		return
	}
	profile, err := ctl.auth.RegisterUser(c.Request.Context(), in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(profile))
}

type loginFunc func(ctx context.Context, in models.LoginInput) (*models.LoginResult, error)

/*
* Bind the credentials and pass to the role's login
* Set the role's cookie and return the token in the body too
 */
func (ctl *Controller) signin(role auth.Role, login loginFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.LoginInput
		if !bind(c, &in) {
			return
		}
		result, err := login(c.Request.Context(), in)
		if err != nil {
			util.Fail(c, err)
			return
		}
		ns, _ := ctl.issuer.Namespace(role)
		authorization.SetCookie(c, ns, result.Token, ctl.cookieSecure)
		c.JSON(http.StatusOK, result)
	}
}

// logout always succeeds, with or without a session.
func (ctl *Controller) logout(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, _ := ctl.issuer.Namespace(role)
		authorization.SetCookie(c, ns, "", ctl.cookieSecure)
		c.JSON(http.StatusOK, util.MessageResponse("logged out"))
	}
}

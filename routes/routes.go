package routes

import (
	"MediBook/controllers"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, ctl *controllers.Controller) {

	//public
	ctl.Health(r)
	ctl.Auth(r)
	ctl.Public(r)
	//private routes, each group checks its own role
	ctl.Patient(r)
	ctl.Doctor(r)
	ctl.Admin(r)
}

package controllers

import (
	"net/http"

	"MediBook/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Public(r *gin.Engine) {
	public := r.Group("/public")
	{
		public.GET("/doctor", ctl.ListDoctors)
		public.GET("/doctor/:id", ctl.GetDoctor)
	}
}

func (ctl *Controller) ListDoctors(c *gin.Context) {
	doctors, err := ctl.doctors.ListDoctors(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(doctors))
}

func (ctl *Controller) GetDoctor(c *gin.Context) {
	doctor, err := ctl.doctors.GetDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(doctor))
}

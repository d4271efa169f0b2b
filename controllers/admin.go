package controllers

import (
	"net/http"

	"MediBook/auth"
	"MediBook/models"
	"MediBook/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Admin(r *gin.Engine) {
	admin := r.Group("/admin", ctl.requireAuth(auth.RoleAdmin))
	{
		admin.GET("/appointment", ctl.AllAppointments)
		admin.GET("/report", ctl.FinancialReport)
		admin.POST("/doctor", ctl.CreateDoctor)
		admin.PUT("/appointment/:id/payment", ctl.UpdatePayment)
	}
}

func (ctl *Controller) AllAppointments(c *gin.Context) {
	appointments, err := ctl.appointments.ListAll(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (ctl *Controller) FinancialReport(c *gin.Context) {
	report, err := ctl.reports.Financial(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (ctl *Controller) CreateDoctor(c *gin.Context) {
	var in models.CreateDoctorInput
	if !bind(c, &in) {
		return
	}
	doctor, err := ctl.doctors.CreateDoctor(c.Request.Context(), in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(doctor))
}

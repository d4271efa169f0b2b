package controllers

import (
	"net/http"

	"MediBook/auth"
	"MediBook/models"
	"MediBook/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Patient(r *gin.Engine) {
	patient := r.Group("/patient", ctl.requireAuth(auth.RoleUser))
	{
		patient.GET("", ctl.PatientAppointments)
		patient.GET("/profile", ctl.PatientProfile)
		patient.POST("/appointment", ctl.BookAppointment)
		patient.GET("/appointment/:id", ctl.GetAppointment)
		patient.PUT("/appointment/:id/cancel", ctl.CancelAppointment)
		patient.PUT("/appointment/:id/payment", ctl.UpdatePayment)
	}
}

func (ctl *Controller) PatientAppointments(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appointments, err := ctl.appointments.ListForUser(c.Request.Context(), p.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_appointments": appointments})
}

func (ctl *Controller) PatientProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	user, err := ctl.users.Profile(c.Request.Context(), p.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

/*
* Bind doctor, disease and date
* The patient comes from the session, never from the body
 */
func (ctl *Controller) BookAppointment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in models.CreateAppointmentInput
	if !bind(c, &in) {
		return
	}
	appointment, err := ctl.appointments.Create(c.Request.Context(), p.ID, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// GetAppointment serves patients, doctors and admins alike; the service
// checks ownership.
func (ctl *Controller) GetAppointment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appointment, err := ctl.appointments.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (ctl *Controller) CancelAppointment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appointment, err := ctl.appointments.Cancel(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (ctl *Controller) UpdatePayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in models.PaymentInput
	if !bind(c, &in) {
		return
	}
	appointment, err := ctl.appointments.UpdatePayment(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

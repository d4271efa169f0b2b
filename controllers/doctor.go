package controllers

import (
	"net/http"

	"MediBook/auth"
	"MediBook/models"
	"MediBook/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Doctor(r *gin.Engine) {
	doctor := r.Group("/doctor", ctl.requireAuth(auth.RoleDoctor))
	{
		doctor.GET("/appointments", ctl.DoctorAppointments)
		doctor.GET("/doctor-patient", ctl.DoctorPatients)
		doctor.GET("/appointment/:id", ctl.GetAppointment)
		doctor.PUT("/approve-appointment/:id", ctl.ApproveAppointment)
		doctor.PUT("/reject-appointment/:id", ctl.RejectAppointment)
		doctor.PUT("/complete-appointment/:id", ctl.CompleteAppointment)
		doctor.PUT("/cancel-appointment/:id", ctl.CancelAppointment)
		doctor.PUT("/update-medicine", ctl.UpdateMedicine)
		doctor.PUT("/change-date", ctl.ChangeDate)
		doctor.GET("/profile", ctl.DoctorProfile)
		doctor.PUT("/profile", ctl.UpdateDoctorProfile)
	}
}

func (ctl *Controller) DoctorAppointments(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appointments, err := ctl.appointments.ListForDoctor(c.Request.Context(), p.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"all_appointments": appointments})
}

// DoctorPatients returns the same list unwrapped, as the patient management view expects.
func (ctl *Controller) DoctorPatients(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appointments, err := ctl.appointments.ListForDoctor(c.Request.Context(), p.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

/*
* The body is optional; approvedDate defaults to now
* The doctor comes from the session
 */
func (ctl *Controller) ApproveAppointment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in models.ApproveInput
	if !bindOptional(c, &in) {
		return
	}
	appointment, err := ctl.appointments.Approve(c.Request.Context(), p.ID, c.Param("id"), in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (ctl *Controller) RejectAppointment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appointment, err := ctl.appointments.Reject(c.Request.Context(), p.ID, c.Param("id"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (ctl *Controller) CompleteAppointment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appointment, err := ctl.appointments.Complete(c.Request.Context(), p.ID, c.Param("id"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (ctl *Controller) UpdateMedicine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in models.ClinicalNotesInput
	if !bind(c, &in) {
		return
	}
	if _, err := ctl.appointments.UpdateClinicalNotes(c.Request.Context(), p.ID, in); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse("clinical notes updated"))
}

// ChangeDate answers 200 without a body.
func (ctl *Controller) ChangeDate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in models.RescheduleInput
	if !bind(c, &in) {
		return
	}
	if _, err := ctl.appointments.Reschedule(c.Request.Context(), p.ID, in); err != nil {
		util.Fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (ctl *Controller) DoctorProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	doctor, err := ctl.doctors.Profile(c.Request.Context(), p.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

func (ctl *Controller) UpdateDoctorProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in models.DoctorProfileUpdate
	if !bind(c, &in) {
		return
	}
	doctor, err := ctl.doctors.UpdateProfile(c.Request.Context(), p.ID, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

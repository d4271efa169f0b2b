package models

import "time"

type FinancialReport struct {
	TotalAppointments  int                       `json:"totalAppointments"`
	PaidAppointments   int                       `json:"paidAppointments"`
	UnpaidAppointments int                       `json:"unpaidAppointments"`
	TotalRevenue       float64                   `json:"totalRevenue"`
	RevenueByMonth     map[string]float64        `json:"revenueByMonth"`
	StatusCounts       map[AppointmentStatus]int `json:"statusCounts"`
	GeneratedAt        time.Time                 `json:"generatedAt"`
}

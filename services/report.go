package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"MediBook/cache"
	"MediBook/models"
	"MediBook/util"

	"github.com/rs/zerolog/log"
)

type ReportService struct {
	appointments AppointmentStore
	cache        cache.Cache
	ttl          time.Duration
	now          func() time.Time
}

func NewReportService(appointments AppointmentStore, c cache.Cache, ttl time.Duration) *ReportService {
	return &ReportService{appointments: appointments, cache: c, ttl: ttl, now: time.Now}
}

// Financial serves the cached report when one exists.
func (s *ReportService) Financial(ctx context.Context) (*models.FinancialReport, error) {
	var cached models.FinancialReport
	if cacheGet(ctx, s.cache, util.FinancialReportKey, &cached) {
		return &cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh rebuilds the report from the appointment list and caches it.
func (s *ReportService) Refresh(ctx context.Context) (*models.FinancialReport, error) {
	appointments, err := s.appointments.List(ctx, models.AppointmentFilter{})
	if err != nil {
		log.Error().Err(err).Msg("Error from appointments.List")
		return nil, util.Internal(err)
	}
	report := BuildFinancialReport(appointments, s.now().UTC())
	cacheSet(ctx, s.cache, util.FinancialReportKey, report, s.ttl)
	return &report, nil
}

func (s *ReportService) Invalidate(ctx context.Context) {
	cacheDelete(ctx, s.cache, util.FinancialReportKey)
}

/*
* Count every appointment by status and payment
* Paid appointments add their revenue to the total and to the month of the appointment date
 */
func BuildFinancialReport(appointments []models.Appointment, generatedAt time.Time) models.FinancialReport {
	report := models.FinancialReport{
		TotalAppointments: len(appointments),
		RevenueByMonth:    map[string]float64{},
		StatusCounts:      make(map[models.AppointmentStatus]int, len(models.AllStatuses)),
		GeneratedAt:       generatedAt,
	}
	for _, st := range models.AllStatuses {
		report.StatusCounts[st] = 0
	}

	for _, a := range appointments {
		report.StatusCounts[a.Status]++
		if a.Payment != models.PaymentPaid {
			report.UnpaidAppointments++
			continue
		}
		report.PaidAppointments++
		revenue := Revenue(a)
		report.TotalRevenue += revenue
		report.RevenueByMonth[a.Date.UTC().Format("2006-01")] += revenue
	}
	return report
}

// Revenue is the recorded payment amount, falling back to the invoice.
func Revenue(a models.Appointment) float64 {
	if a.PaymentAmount != nil {
		return *a.PaymentAmount
	}
	return InvoiceValue(a.Invoice)
}

// InvoiceValue reads the leading integer of an invoice string, 0 when there is none.
func InvoiceValue(invoice string) float64 {
	s := strings.TrimSpace(invoice)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return float64(n)
}

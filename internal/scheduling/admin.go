package scheduling

import (
	"context"
	"sort"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/repository"
)

// AllAppointments lists every appointment in the clinic, newest first.
func (s *Service) AllAppointments(ctx context.Context) ([]models.Appointment, error) {
	appts, err := s.repo.ListAppointments(ctx, repository.AppointmentFilter{})
	if err != nil {
		return nil, s.fail("list appointments", err)
	}
	sort.SliceStable(appts, func(i, j int) bool {
		return appts[i].DateTime.After(appts[j].DateTime)
	})
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}

// Appointment fetches a single appointment without an ownership check.
func (s *Service) Appointment(ctx context.Context, id string) (*models.Appointment, error) {
	if err := requireID("appointment id", id); err != nil {
		return nil, err
	}
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, s.fail("get appointment", err)
	}
	return appt, nil
}

// ClinicStats are the counters on the administrator dashboard.
type ClinicStats struct {
	Doctors  int            `json:"doctors"`
	Patients int            `json:"patients"`
	Today    int            `json:"today"`
	ByStatus map[string]int `json:"byStatus"`
}

// ClinicStats counts users per role, today's appointments and appointments
// per status. Every known status is present in ByStatus, zero or not.
func (s *Service) ClinicStats(ctx context.Context) (*ClinicStats, error) {
	doctors, err := s.repo.ListUsersByRole(ctx, models.RoleDoctor)
	if err != nil {
		return nil, s.fail("list doctors", err)
	}
	patients, err := s.repo.ListUsersByRole(ctx, models.RolePatient)
	if err != nil {
		return nil, s.fail("list patients", err)
	}

	today := midnight(s.clock())
	appts, err := s.repo.ListAppointments(ctx, repository.AppointmentFilter{})
	if err != nil {
		return nil, s.fail("list appointments", err)
	}

	stats := &ClinicStats{
		Doctors:  len(doctors),
		Patients: len(patients),
		ByStatus: map[string]int{
			string(models.StatusPending):   0,
			string(models.StatusConfirmed): 0,
			string(models.StatusCompleted): 0,
			string(models.StatusCancelled): 0,
		},
	}
	tomorrow := today.AddDate(0, 0, 1)
	for _, a := range appts {
		stats.ByStatus[string(a.Status)]++
		if !a.DateTime.Before(today) && a.DateTime.Before(tomorrow) {
			stats.Today++
		}
	}
	return stats, nil
}

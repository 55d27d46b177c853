package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/repository"
)

// BookingRequest asks for a slot. Date is YYYY-MM-DD and Time HH:MM.
type BookingRequest struct {
	DoctorID  string
	PatientID string
	Date      string
	Time      string
	Notes     string
}

// BookAppointment reserves a slot for a patient.
//
// The slot set is recomputed inside the same transaction as the insert,
// after taking a row lock on the doctor's config, so two requests for the
// same slot are serialized and the loser gets ErrConflict. The unique
// active-slot index rejects anything that slips past the check.
func (s *Service) BookAppointment(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	if err := requireID("doctor id", req.DoctorID); err != nil {
		return nil, err
	}
	if err := requireID("patient id", req.PatientID); err != nil {
		return nil, err
	}
	day, err := ParseDate(req.Date, s.loc)
	if err != nil {
		return nil, err
	}
	offset, err := ParseClock(req.Time)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireUser(ctx, req.DoctorID, models.RoleDoctor); err != nil {
		return nil, err
	}
	if _, err := s.requireUser(ctx, req.PatientID, models.RolePatient); err != nil {
		return nil, err
	}
	// The config row must exist before the transaction so it can be locked.
	if _, err := s.ensureConfig(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	var appt *models.Appointment
	err = s.repo.Transact(ctx, func(tx repository.Repository) error {
		cfg, err := tx.LockConfig(ctx, req.DoctorID)
		if err != nil {
			return err
		}

		free, occupied, err := openSlots(ctx, tx, req.DoctorID, day, cfg.SlotDuration(), s.clock())
		if err != nil {
			return err
		}
		if occupied[offset] {
			return fmt.Errorf("%w: %s %s is already booked", ErrConflict, req.Date, req.Time)
		}
		if !containsSlot(free, offset) {
			return fmt.Errorf("%w: %s %s is not an available slot", ErrConflict, req.Date, req.Time)
		}

		appt = &models.Appointment{
			DoctorID:     req.DoctorID,
			PatientID:    req.PatientID,
			DateTime:     at(day, offset),
			Modality:     cfg.Modality,
			PatientNotes: strings.TrimSpace(req.Notes),
		}
		appt.SetStatus(models.StatusPending)

		if err := tx.CreateAppointment(ctx, appt); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: %s %s is already booked", ErrConflict, req.Date, req.Time)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("book appointment", err)
	}

	s.log.Info().
		Str("appointment_id", appt.ID).
		Str("doctor_id", appt.DoctorID).
		Str("patient_id", appt.PatientID).
		Time("date_time", appt.DateTime).
		Msg("appointment booked")
	return appt, nil
}

// errNoAccess is returned both for appointments the actor does not own and
// for ids that do not exist, so a denial says nothing about existence.
var errNoAccess = fmt.Errorf("%w: not allowed to modify this appointment", ErrForbidden)

func containsSlot(slots []time.Duration, t time.Duration) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}

// updateAppointment loads an appointment inside a transaction, lets mutate
// change it and saves the result.
func (s *Service) updateAppointment(ctx context.Context, op, id string, mutate func(*models.Appointment) error) (*models.Appointment, error) {
	if err := requireID("appointment id", id); err != nil {
		return nil, err
	}

	var appt *models.Appointment
	err := s.repo.Transact(ctx, func(tx repository.Repository) error {
		current, err := tx.GetAppointment(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return errNoAccess
		}
		if err != nil {
			return err
		}
		if err := mutate(current); err != nil {
			return err
		}
		if err := tx.SaveAppointment(ctx, current); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: slot is held by another appointment", ErrConflict)
			}
			return err
		}
		appt = current
		return nil
	})
	if err != nil {
		return nil, s.fail(op, err)
	}
	return appt, nil
}

// CancelAsPatient cancels an appointment on behalf of the patient who owns
// it. Only pending appointments can be cancelled this way.
func (s *Service) CancelAsPatient(ctx context.Context, appointmentID string, actor models.Actor) (*models.Appointment, error) {
	if actor.Role != models.RolePatient {
		return nil, fmt.Errorf("%w: only patients can cancel through this operation", ErrForbidden)
	}
	appt, err := s.updateAppointment(ctx, "cancel appointment", appointmentID, func(a *models.Appointment) error {
		if a.PatientID != actor.ID {
			return errNoAccess
		}
		if a.Status != models.StatusPending {
			return fmt.Errorf("%w: a %s appointment cannot be cancelled", ErrInvalidState, a.Status)
		}
		a.SetStatus(models.StatusCancelled)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("appointment_id", appt.ID).Str("patient_id", actor.ID).Msg("appointment cancelled by patient")
	return appt, nil
}

var doctorTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled},
}

func canTransition(from, to models.AppointmentStatus) bool {
	for _, allowed := range doctorTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// UpdateStatusAsDoctor moves one of the doctor's appointments to status.
// Completed and cancelled appointments are final.
func (s *Service) UpdateStatusAsDoctor(ctx context.Context, appointmentID string, actor models.Actor, status models.AppointmentStatus) (*models.Appointment, error) {
	if actor.Role != models.RoleDoctor {
		return nil, fmt.Errorf("%w: only doctors can change appointment status", ErrForbidden)
	}
	if !status.Valid() || status == models.StatusPending {
		return nil, fmt.Errorf("%w: status %q cannot be set", ErrInvalidInput, status)
	}
	appt, err := s.updateAppointment(ctx, "update appointment status", appointmentID, func(a *models.Appointment) error {
		if a.DoctorID != actor.ID {
			return errNoAccess
		}
		if !canTransition(a.Status, status) {
			return fmt.Errorf("%w: cannot move a %s appointment to %s", ErrInvalidState, a.Status, status)
		}
		a.SetStatus(status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("appointment_id", appt.ID).Str("status", string(status)).Msg("appointment status updated")
	return appt, nil
}

// SaveDoctorNotes stores the doctor's notes on one of their appointments.
func (s *Service) SaveDoctorNotes(ctx context.Context, appointmentID string, actor models.Actor, notes string) (*models.Appointment, error) {
	if actor.Role != models.RoleDoctor {
		return nil, fmt.Errorf("%w: only doctors can write notes", ErrForbidden)
	}
	return s.updateAppointment(ctx, "save doctor notes", appointmentID, func(a *models.Appointment) error {
		if a.DoctorID != actor.ID {
			return errNoAccess
		}
		a.DoctorNotes = notes
		return nil
	})
}

// PatientAppointments splits a patient's appointments into upcoming ones
// (active and in the future, soonest first) and the rest (newest first).
type PatientAppointments struct {
	Upcoming []models.Appointment `json:"upcoming"`
	Past     []models.Appointment `json:"past"`
}

// ListForPatient returns the patient's appointments.
func (s *Service) ListForPatient(ctx context.Context, patientID string) (*PatientAppointments, error) {
	if err := requireID("patient id", patientID); err != nil {
		return nil, err
	}
	appts, err := s.repo.ListAppointments(ctx, repository.AppointmentFilter{PatientID: patientID})
	if err != nil {
		return nil, s.fail("list appointments", err)
	}

	now := s.clock()
	out := &PatientAppointments{Upcoming: []models.Appointment{}, Past: []models.Appointment{}}
	for _, a := range appts {
		if a.Status.IsActive() && !a.DateTime.Before(now) {
			out.Upcoming = append(out.Upcoming, a)
		} else {
			out.Past = append(out.Past, a)
		}
	}
	sort.SliceStable(out.Past, func(i, j int) bool {
		return out.Past[i].DateTime.After(out.Past[j].DateTime)
	})
	return out, nil
}

// DoctorAppointmentFilter narrows ListForDoctor. View is "day" (the
// default) or "week"; a week view covers Monday to Sunday around Date, or
// around today when Date is empty. Upcoming keeps pending appointments from
// now on and overrides Status.
type DoctorAppointmentFilter struct {
	Status   string
	Date     string
	View     string
	Upcoming bool
}

const (
	ViewDay  = "day"
	ViewWeek = "week"
)

func parseView(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", ViewDay, "dia":
		return ViewDay, nil
	case ViewWeek, "semana":
		return ViewWeek, nil
	}
	return "", fmt.Errorf("%w: view must be day or week", ErrInvalidInput)
}

// weekOf returns midnight on the Monday of day's week.
func weekOf(day time.Time) time.Time {
	day = midnight(day)
	return day.AddDate(0, 0, -int(models.WeekdayOf(day)))
}

// ListForDoctor returns the doctor's appointments in chronological order.
func (s *Service) ListForDoctor(ctx context.Context, doctorID string, f DoctorAppointmentFilter) ([]models.Appointment, error) {
	if err := requireID("doctor id", doctorID); err != nil {
		return nil, err
	}

	filter := repository.AppointmentFilter{DoctorID: doctorID}
	if f.Status != "" {
		status := models.AppointmentStatus(strings.ToLower(f.Status))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
		}
		filter.Statuses = []models.AppointmentStatus{status}
	}
	view, err := parseView(f.View)
	if err != nil {
		return nil, err
	}
	switch {
	case view == ViewWeek:
		day := s.clock()
		if f.Date != "" {
			if day, err = ParseDate(f.Date, s.loc); err != nil {
				return nil, err
			}
		}
		filter.From = weekOf(day)
		filter.To = filter.From.AddDate(0, 0, 7)
	case f.Date != "":
		day, err := ParseDate(f.Date, s.loc)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = day, day.AddDate(0, 0, 1)
	}
	if f.Upcoming {
		filter.Statuses = []models.AppointmentStatus{models.StatusPending}
		if now := s.clock(); filter.From.Before(now) {
			filter.From = now
		}
	}

	appts, err := s.repo.ListAppointments(ctx, filter)
	if err != nil {
		return nil, s.fail("list appointments", err)
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}

// DoctorStats are the counters on a doctor's dashboard.
type DoctorStats struct {
	Today           int `json:"today"`
	ThisWeek        int `json:"thisWeek"`
	PendingUpcoming int `json:"pendingUpcoming"`
	Patients        int `json:"patients"`
}

// Stats computes the dashboard counters for a doctor. The week runs Monday
// to Sunday.
func (s *Service) Stats(ctx context.Context, doctorID string) (*DoctorStats, error) {
	if err := requireID("doctor id", doctorID); err != nil {
		return nil, err
	}
	appts, err := s.repo.ListAppointments(ctx, repository.AppointmentFilter{DoctorID: doctorID})
	if err != nil {
		return nil, s.fail("list appointments", err)
	}

	now := s.clock()
	today := midnight(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := weekOf(today)
	weekEnd := weekStart.AddDate(0, 0, 7)

	stats := &DoctorStats{}
	patients := make(map[string]struct{})
	for _, a := range appts {
		patients[a.PatientID] = struct{}{}
		if !a.DateTime.Before(today) && a.DateTime.Before(tomorrow) {
			stats.Today++
		}
		if !a.DateTime.Before(weekStart) && a.DateTime.Before(weekEnd) {
			stats.ThisWeek++
		}
		if a.Status == models.StatusPending && !a.DateTime.Before(now) {
			stats.PendingUpcoming++
		}
	}
	stats.Patients = len(patients)
	return stats, nil
}

// DoctorPatients lists the distinct patients who hold or held an
// appointment with the doctor, sorted by name. Patients whose account has
// since disappeared are skipped.
func (s *Service) DoctorPatients(ctx context.Context, doctorID string) ([]models.User, error) {
	if err := requireID("doctor id", doctorID); err != nil {
		return nil, err
	}
	appts, err := s.repo.ListAppointments(ctx, repository.AppointmentFilter{DoctorID: doctorID})
	if err != nil {
		return nil, s.fail("list appointments", err)
	}

	seen := make(map[string]bool, len(appts))
	patients := []models.User{}
	for _, a := range appts {
		if seen[a.PatientID] {
			continue
		}
		seen[a.PatientID] = true
		u, err := s.repo.GetUser(ctx, a.PatientID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, s.fail("get patient", err)
		}
		patients = append(patients, *u)
	}
	sort.SliceStable(patients, func(i, j int) bool {
		if patients[i].LastName != patients[j].LastName {
			return patients[i].LastName < patients[j].LastName
		}
		return patients[i].FirstName < patients[j].FirstName
	})
	return patients, nil
}

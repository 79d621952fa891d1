package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hadirly/attendance-backend-go/internal/domain/attendance"
	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/domain/dedup"
	"github.com/hadirly/attendance-backend-go/internal/domain/employee"
	"github.com/hadirly/attendance-backend-go/internal/domain/inbound"
	"github.com/hadirly/attendance-backend-go/internal/domain/notification"
	"github.com/hadirly/attendance-backend-go/internal/pkg/validator"
	attendanceService "github.com/hadirly/attendance-backend-go/internal/service/attendance"
	"golang.org/x/sync/singleflight"
)

// Rejection codes carried in the webhook response and replayed on
// duplicate deliveries.
const (
	CodeCheckedIn        = "CHECKED_IN"
	CodeCheckedOut       = "CHECKED_OUT"
	CodeUnknownDevice    = "UNKNOWN_DEVICE"
	CodeUnknownEmployee  = "UNKNOWN_EMPLOYEE"
	CodeSelfieRequired   = "SELFIE_REQUIRED"
	CodeOutOfGeofence    = "OUT_OF_GEOFENCE"
	CodeLocationRequired = "LOCATION_REQUIRED"
	CodeOutsideWindow    = "OUTSIDE_WINDOW"
	CodeNoCheckInYet     = "NO_CHECK_IN_YET"
	CodeAlreadyFinalized = "ALREADY_FINALIZED"
	CodeAlreadyOnLeave   = "ALREADY_ON_LEAVE"
	CodeUnrecognized     = "UNRECOGNIZED_COMMAND"
	CodeNoShift          = "NO_SHIFT_CONFIGURED"
)

// inFlightPolls bounds how long a caller waits for another process that
// holds the in-flight reservation for the same fingerprint.
const (
	inFlightPolls    = 10
	inFlightInterval = 100 * time.Millisecond
)

// SelfieArchiver copies the provider-hosted media to durable storage
// and returns a stable URL. Best effort: on failure the provider URL is
// kept as the reference.
type SelfieArchiver interface {
	Archive(ctx context.Context, companyID, employeeID string, day time.Time, mediaURL string) (string, error)
}

// Service is the ingestion pipeline: normalize, resolve tenant and
// employee, dedup, verify, classify, commit, notify.
type Service struct {
	companyRepo  company.CompanyRepository
	employeeRepo employee.EmployeeRepository
	recorder     *attendanceService.RecorderService
	store        dedup.Store
	dispatcher   notification.Dispatcher
	archiver     SelfieArchiver
	dedupTTL     time.Duration

	flight singleflight.Group
}

func NewService(
	companyRepo company.CompanyRepository,
	employeeRepo employee.EmployeeRepository,
	recorder *attendanceService.RecorderService,
	store dedup.Store,
	dispatcher notification.Dispatcher,
	archiver SelfieArchiver,
	dedupTTL time.Duration,
) *Service {
	if dedupTTL <= 0 {
		dedupTTL = 24 * time.Hour
	}
	return &Service{
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		recorder:     recorder,
		store:        store,
		dispatcher:   dispatcher,
		archiver:     archiver,
		dedupTTL:     dedupTTL,
	}
}

// Ingest processes one provider webhook delivery. Business rejections
// come back as a non-accepted Outcome, never as an error: the webhook
// delivery itself succeeded. An error return means a transport or
// persistence failure the provider should retry.
func (s *Service) Ingest(ctx context.Context, payload inbound.Payload, receivedAt time.Time) (dedup.Outcome, error) {
	ev, err := inbound.Normalize(payload, receivedAt)
	if err != nil {
		return dedup.Outcome{}, err
	}

	// Tenant resolution comes before the idempotency guard so an
	// unconfigured device never pollutes the dedup store.
	comp, err := s.companyRepo.GetByDeviceID(ctx, ev.DeviceID)
	if err != nil {
		if errors.Is(err, company.ErrUnknownDevice) {
			slog.Warn("Dropping event from unregistered device", "device_id", ev.DeviceID, "sender", ev.Sender)
			return outcomeFor(false, CodeUnknownDevice, company.ErrUnknownDevice.Error(), ""), nil
		}
		return dedup.Outcome{}, fmt.Errorf("failed to resolve device: %w", err)
	}
	if comp.Status != company.StatusActive {
		slog.Warn("Dropping event for disabled company", "company_id", comp.ID, "device_id", ev.DeviceID)
		return outcomeFor(false, CodeUnknownDevice, company.ErrCompanyDisabled.Error(), ""), nil
	}

	phone := validator.NormalizePhone(ev.Sender)
	if !validator.IsValidPhoneNumber(phone) {
		slog.Warn("Dropping event with unusable sender number", "device_id", ev.DeviceID, "sender", ev.Sender)
		return outcomeFor(false, CodeUnknownEmployee, employee.ErrUnknownEmployee.Error(), ""), nil
	}

	emp, err := s.employeeRepo.GetByPhone(ctx, comp.ID, phone)
	if err != nil {
		if errors.Is(err, employee.ErrUnknownEmployee) {
			s.dispatchAsync(func(bg context.Context) {
				_ = s.dispatcher.DispatchAlert(bg, notification.ManagerAlert{
					CompanyID:  comp.ID,
					Summary:    fmt.Sprintf("Unrecognized sender %s attempted check-in on device %s", ev.Sender, ev.DeviceID),
					OccurredAt: receivedAt,
				})
			})
			return outcomeFor(false, CodeUnknownEmployee, employee.ErrUnknownEmployee.Error(), ""), nil
		}
		return dedup.Outcome{}, fmt.Errorf("failed to resolve employee: %w", err)
	}
	if emp.Status != employee.StatusActive {
		return outcomeFor(false, CodeUnknownEmployee, employee.ErrEmployeeInactive.Error(), ""), nil
	}

	return s.guarded(ctx, comp, emp, ev)
}

// guarded runs the verification gate and state machine at most once per
// fingerprint. Concurrent duplicates inside the process collapse on the
// singleflight group; duplicates across processes resolve through the
// store's compare-and-set reservation.
func (s *Service) guarded(ctx context.Context, comp company.Company, emp employee.Employee, ev inbound.Event) (dedup.Outcome, error) {
	fingerprint := ev.Fingerprint()

	v, err, _ := s.flight.Do(fingerprint, func() (interface{}, error) {
		for poll := 0; ; poll++ {
			res, err := s.store.Reserve(ctx, fingerprint, s.dedupTTL)
			if errors.Is(err, dedup.ErrInFlight) {
				if poll >= inFlightPolls {
					return nil, fmt.Errorf("fingerprint %s still in flight: %w", fingerprint, err)
				}
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(inFlightInterval):
				}
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to reserve fingerprint: %w", err)
			}

			if res.Completed != nil {
				return *res.Completed, nil
			}
			break
		}

		outcome, err := s.process(ctx, comp, emp, ev)
		if err != nil {
			// Internal failure: drop the reservation so the provider's
			// retry can run the pipeline again.
			if relErr := s.store.Release(ctx, fingerprint); relErr != nil {
				slog.Error("Failed to release fingerprint", "fingerprint", fingerprint, "error", relErr)
			}
			return nil, err
		}

		if err := s.store.Complete(ctx, fingerprint, outcome, s.dedupTTL); err != nil {
			slog.Error("Failed to store outcome", "fingerprint", fingerprint, "error", err)
		}

		// Reply exactly once per processed event, here inside the
		// flight. Replayed duplicates answer from the store without
		// re-sending the employee's confirmation.
		s.reply(comp, emp, ev, outcome)
		return outcome, nil
	})
	if err != nil {
		return dedup.Outcome{}, err
	}
	return v.(dedup.Outcome), nil
}

// process runs the verification gate and the state machine. Business
// rejections become non-accepted outcomes; only infrastructure failures
// return an error.
func (s *Service) process(ctx context.Context, comp company.Company, emp employee.Employee, ev inbound.Event) (dedup.Outcome, error) {
	verified, err := Verify(comp, ev)
	if err != nil {
		if code, ok := rejectionCode(err); ok {
			return outcomeFor(false, code, err.Error(), ""), nil
		}
		return dedup.Outcome{}, err
	}

	if verified.SelfieURL != "" && s.archiver != nil {
		stable, err := s.archiver.Archive(ctx, comp.ID, emp.ID, ev.ReceivedAt.In(comp.Location()), verified.SelfieURL)
		if err != nil {
			slog.Warn("Selfie archive failed, keeping provider URL", "employee_id", emp.ID, "error", err)
		} else {
			verified.SelfieURL = stable
		}
	}

	record, decision, err := s.recorder.Apply(ctx, comp, emp, verified)
	if err != nil {
		if code, ok := rejectionCode(err); ok {
			return outcomeFor(false, code, err.Error(), ""), nil
		}
		return dedup.Outcome{}, fmt.Errorf("failed to apply attendance event: %w", err)
	}

	switch decision.Action {
	case attendanceService.ActionCheckIn:
		msg := fmt.Sprintf("Check-in recorded, status %s", decision.Status)
		if decision.LateMinutes > 0 {
			msg = fmt.Sprintf("%s (%d minutes late)", msg, decision.LateMinutes)
		}
		return outcomeFor(true, CodeCheckedIn, msg, record.ID), nil
	case attendanceService.ActionCheckOut:
		msg := fmt.Sprintf("Check-out recorded, worked %dh%02dm", decision.WorkMinutes/60, decision.WorkMinutes%60)
		return outcomeFor(true, CodeCheckedOut, msg, record.ID), nil
	}

	return dedup.Outcome{}, fmt.Errorf("unexpected decision action %q", decision.Action)
}

// reply sends the employee-facing confirmation or rejection message.
// Fire-and-forget: delivery never blocks or fails the webhook response.
func (s *Service) reply(comp company.Company, emp employee.Employee, ev inbound.Event, outcome dedup.Outcome) {
	text := outcome.Message
	if outcome.Code == CodeUnrecognized {
		text = fmt.Sprintf("Unrecognized command. Send %q to check in or %q to check out.",
			comp.CheckInKeyword, comp.CheckOutKeyword)
	}

	s.dispatchAsync(func(bg context.Context) {
		_ = s.dispatcher.DispatchReply(bg, notification.ReplyMessage{
			DeviceID:   ev.DeviceID,
			To:         emp.Phone,
			Text:       text,
			OccurredAt: ev.ReceivedAt,
		})
	})
}

// dispatchAsync detaches a notification send from the request lifetime.
func (s *Service) dispatchAsync(fn func(ctx context.Context)) {
	if s.dispatcher == nil {
		return
	}
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		fn(bg)
	}()
}

func outcomeFor(accepted bool, code, message, recordID string) dedup.Outcome {
	return dedup.Outcome{
		Accepted: accepted,
		Code:     code,
		Message:  message,
		RecordID: recordID,
	}
}

// rejectionCode maps business-level errors to their response codes.
// Anything unmapped is an infrastructure failure and stays an error.
func rejectionCode(err error) (string, bool) {
	switch {
	case errors.Is(err, inbound.ErrSelfieRequired):
		return CodeSelfieRequired, true
	case errors.Is(err, inbound.ErrOutOfGeofence):
		return CodeOutOfGeofence, true
	case errors.Is(err, inbound.ErrLocationRequired):
		return CodeLocationRequired, true
	case errors.Is(err, attendance.ErrOutsideWindow):
		return CodeOutsideWindow, true
	case errors.Is(err, attendance.ErrNoCheckInYet):
		return CodeNoCheckInYet, true
	case errors.Is(err, attendance.ErrAlreadyFinalized):
		return CodeAlreadyFinalized, true
	case errors.Is(err, attendance.ErrAlreadyOnLeave):
		return CodeAlreadyOnLeave, true
	case errors.Is(err, attendance.ErrUnrecognizedCommand):
		return CodeUnrecognized, true
	case errors.Is(err, attendance.ErrNoShiftConfigured):
		return CodeNoShift, true
	}
	return "", false
}

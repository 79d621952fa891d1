package cron

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hadirly/attendance-backend-go/internal/domain/attendance"
	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/domain/employee"
	"github.com/hadirly/attendance-backend-go/internal/domain/notification"
	"github.com/hadirly/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	alerts []notification.ManagerAlert
}

func (d *recordingDispatcher) DispatchReply(ctx context.Context, msg notification.ReplyMessage) error {
	return nil
}

func (d *recordingDispatcher) DispatchAlert(ctx context.Context, alert notification.ManagerAlert) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, alert)
	return nil
}

func (d *recordingDispatcher) alertCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.alerts)
}

// zoneWithLocalHour picks a fixed-offset IANA zone whose current local
// hour satisfies pred, so the sweep's local-time gate can be tested
// without faking the clock.
func zoneWithLocalHour(t *testing.T, pred func(hour int) bool) string {
	t.Helper()

	candidates := []string{"Etc/GMT"}
	for i := 1; i <= 12; i++ {
		candidates = append(candidates, fmt.Sprintf("Etc/GMT+%d", i))
	}
	for i := 1; i <= 14; i++ {
		candidates = append(candidates, fmt.Sprintf("Etc/GMT-%d", i))
	}

	for _, name := range candidates {
		loc, err := time.LoadLocation(name)
		if err != nil {
			continue
		}
		if pred(time.Now().In(loc).Hour()) {
			return name
		}
	}
	t.Fatal("no timezone satisfies the predicate")
	return ""
}

func sweepFixture(t *testing.T, timezone string, status string) (*AttendanceJobs, *memory.AttendanceRepository, *recordingDispatcher, string) {
	t.Helper()

	comp := company.Company{
		ID:       "comp-1",
		Name:     "Acme",
		Timezone: timezone,
		Status:   status,
	}
	companyRepo := memory.NewCompanyRepository([]company.Company{comp}, nil)
	employeeRepo := memory.NewEmployeeRepository([]employee.Employee{
		{ID: "emp-1", CompanyID: "comp-1", Phone: "628111", Status: employee.StatusActive},
		{ID: "emp-2", CompanyID: "comp-1", Phone: "628222", Status: employee.StatusActive},
		{ID: "emp-3", CompanyID: "comp-1", Phone: "628333", Status: employee.StatusInactive},
	})
	attendanceRepo := memory.NewAttendanceRepository()
	dispatcher := &recordingDispatcher{}

	loc, err := time.LoadLocation(timezone)
	require.NoError(t, err)
	yesterday := time.Now().In(loc).AddDate(0, 0, -1).Format("2006-01-02")

	// emp-1 worked yesterday.
	_, err = attendanceRepo.Mutate(context.Background(), "emp-1", yesterday, func(current *attendance.Record) (*attendance.Record, error) {
		return &attendance.Record{
			EmployeeID: "emp-1",
			CompanyID:  "comp-1",
			Date:       yesterday,
			State:      attendance.StateCheckedOut,
			Status:     attendance.StatusPresent,
		}, nil
	})
	require.NoError(t, err)

	return NewAttendanceJobs(attendanceRepo, employeeRepo, companyRepo, dispatcher), attendanceRepo, dispatcher, yesterday
}

func TestMarkAbsentEmployees(t *testing.T) {
	tz := zoneWithLocalHour(t, func(hour int) bool { return hour <= 2 })
	jobs, repo, dispatcher, yesterday := sweepFixture(t, tz, company.StatusActive)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))

	// Silent active employee gets an ABSENT record.
	rec, err := repo.GetByEmployeeAndDate(context.Background(), "emp-2", yesterday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
	assert.Equal(t, attendance.StateNone, rec.State)

	// The worked day stays untouched.
	rec, err = repo.GetByEmployeeAndDate(context.Background(), "emp-1", yesterday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)

	// Inactive employees are not swept.
	rec, err = repo.GetByEmployeeAndDate(context.Background(), "emp-3", yesterday)
	require.NoError(t, err)
	assert.Nil(t, rec)

	assert.Equal(t, 1, dispatcher.alertCount())
}

func TestMarkAbsentEmployees_RerunIsHarmless(t *testing.T) {
	tz := zoneWithLocalHour(t, func(hour int) bool { return hour <= 2 })
	jobs, repo, _, yesterday := sweepFixture(t, tz, company.StatusActive)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	first, err := repo.GetByEmployeeAndDate(context.Background(), "emp-2", yesterday)
	require.NoError(t, err)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	second, err := repo.GetByEmployeeAndDate(context.Background(), "emp-2", yesterday)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMarkAbsentEmployees_OutsideSweepWindow(t *testing.T) {
	tz := zoneWithLocalHour(t, func(hour int) bool { return hour >= 6 && hour <= 22 })
	jobs, repo, _, yesterday := sweepFixture(t, tz, company.StatusActive)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))

	rec, err := repo.GetByEmployeeAndDate(context.Background(), "emp-2", yesterday)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMarkAbsentEmployees_DisabledCompany(t *testing.T) {
	tz := zoneWithLocalHour(t, func(hour int) bool { return hour <= 2 })
	jobs, repo, _, yesterday := sweepFixture(t, tz, company.StatusDisabled)

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))

	rec, err := repo.GetByEmployeeAndDate(context.Background(), "emp-2", yesterday)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

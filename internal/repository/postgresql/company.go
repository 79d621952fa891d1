package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepository struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepository{db: db}
}

// GetByDeviceID implements company.CompanyRepository.
func (r *companyRepository) GetByDeviceID(ctx context.Context, deviceID string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT c.id, c.name, c.timezone, c.status,
			   c.require_selfie, c.require_location,
			   c.check_in_keyword, c.check_out_keyword, c.early_margin_minutes,
			   c.created_at, c.updated_at
		FROM companies c
		JOIN devices d ON d.company_id = c.id
		WHERE d.device_id = $1
	`

	var comp company.Company
	err := q.QueryRow(ctx, query, deviceID).Scan(
		&comp.ID, &comp.Name, &comp.Timezone, &comp.Status,
		&comp.RequireSelfie, &comp.RequireLocation,
		&comp.CheckInKeyword, &comp.CheckOutKeyword, &comp.EarlyMarginMinutes,
		&comp.CreatedAt, &comp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrUnknownDevice
		}
		return company.Company{}, fmt.Errorf("failed to get company by device: %w", err)
	}

	if err := r.attachConfig(ctx, &comp); err != nil {
		return company.Company{}, err
	}
	return comp, nil
}

// GetByID implements company.CompanyRepository.
func (r *companyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, timezone, status,
			   require_selfie, require_location,
			   check_in_keyword, check_out_keyword, early_margin_minutes,
			   created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	var comp company.Company
	err := q.QueryRow(ctx, query, id).Scan(
		&comp.ID, &comp.Name, &comp.Timezone, &comp.Status,
		&comp.RequireSelfie, &comp.RequireLocation,
		&comp.CheckInKeyword, &comp.CheckOutKeyword, &comp.EarlyMarginMinutes,
		&comp.CreatedAt, &comp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company: %w", err)
	}

	if err := r.attachConfig(ctx, &comp); err != nil {
		return company.Company{}, err
	}
	return comp, nil
}

// GetDeviceByShortCode implements company.CompanyRepository.
func (r *companyRepository) GetDeviceByShortCode(ctx context.Context, code string) (company.Device, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, device_id, short_code, phone, created_at
		FROM devices
		WHERE short_code = $1
	`

	var dev company.Device
	err := q.QueryRow(ctx, query, code).Scan(
		&dev.ID, &dev.CompanyID, &dev.DeviceID, &dev.ShortCode, &dev.Phone, &dev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Device{}, company.ErrUnknownCode
		}
		return company.Device{}, fmt.Errorf("failed to get device by short code: %w", err)
	}

	return dev, nil
}

// attachConfig loads the shifts and office locations the resolver and
// the state machine read on every event.
func (r *companyRepository) attachConfig(ctx context.Context, comp *company.Company) error {
	q := GetQuerier(ctx, r.db)

	shiftQuery := `
		SELECT id, company_id, name, start_minutes, end_minutes, grace_minutes, is_default
		FROM shifts
		WHERE company_id = $1
		ORDER BY is_default DESC, start_minutes ASC
	`
	rows, err := q.Query(ctx, shiftQuery, comp.ID)
	if err != nil {
		return fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sh company.Shift
		if err := rows.Scan(&sh.ID, &sh.CompanyID, &sh.Name, &sh.StartMinutes, &sh.EndMinutes, &sh.GraceMinutes, &sh.IsDefault); err != nil {
			return fmt.Errorf("failed to scan shift: %w", err)
		}
		comp.Shifts = append(comp.Shifts, sh)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read shifts: %w", err)
	}
	rows.Close()

	officeQuery := `
		SELECT id, company_id, name, latitude, longitude, radius_meters
		FROM office_locations
		WHERE company_id = $1
		ORDER BY name ASC
	`
	officeRows, err := q.Query(ctx, officeQuery, comp.ID)
	if err != nil {
		return fmt.Errorf("failed to list office locations: %w", err)
	}
	defer officeRows.Close()

	for officeRows.Next() {
		var office company.OfficeLocation
		if err := officeRows.Scan(&office.ID, &office.CompanyID, &office.Name, &office.Latitude, &office.Longitude, &office.RadiusMeters); err != nil {
			return fmt.Errorf("failed to scan office location: %w", err)
		}
		comp.Offices = append(comp.Offices, office)
	}
	if err := officeRows.Err(); err != nil {
		return fmt.Errorf("failed to read office locations: %w", err)
	}

	return nil
}

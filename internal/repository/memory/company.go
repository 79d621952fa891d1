package memory

import (
	"context"
	"sync"

	"github.com/hadirly/attendance-backend-go/internal/domain/company"
)

// CompanyRepository is a seedable in-memory tenant registry for tests
// and development runs.
type CompanyRepository struct {
	mu        sync.RWMutex
	companies map[string]company.Company
	byDevice  map[string]string
	byCode    map[string]company.Device
}

func NewCompanyRepository(companies []company.Company, devices []company.Device) *CompanyRepository {
	r := &CompanyRepository{
		companies: make(map[string]company.Company, len(companies)),
		byDevice:  make(map[string]string, len(devices)),
		byCode:    make(map[string]company.Device, len(devices)),
	}
	for _, comp := range companies {
		r.companies[comp.ID] = comp
	}
	for _, dev := range devices {
		r.byDevice[dev.DeviceID] = dev.CompanyID
		if dev.ShortCode != "" {
			r.byCode[dev.ShortCode] = dev
		}
	}
	return r
}

// GetByDeviceID implements company.CompanyRepository.
func (r *CompanyRepository) GetByDeviceID(ctx context.Context, deviceID string) (company.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	companyID, ok := r.byDevice[deviceID]
	if !ok {
		return company.Company{}, company.ErrUnknownDevice
	}
	comp, ok := r.companies[companyID]
	if !ok {
		return company.Company{}, company.ErrUnknownDevice
	}
	return comp, nil
}

// GetDeviceByShortCode implements company.CompanyRepository.
func (r *CompanyRepository) GetDeviceByShortCode(ctx context.Context, code string) (company.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dev, ok := r.byCode[code]
	if !ok {
		return company.Device{}, company.ErrUnknownCode
	}
	return dev, nil
}

// GetByID implements company.CompanyRepository.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comp, ok := r.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return comp, nil
}

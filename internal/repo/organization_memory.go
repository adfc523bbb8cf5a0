package repo

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	models "github.com/greenbridge-eco/greenbridge/internal/models"
)

type InMemoryOrganizationRepository struct {
	orgs []models.Organization
}

func NewInMemoryOrganizationRepository() *InMemoryOrganizationRepository {
	return &InMemoryOrganizationRepository{orgs: []models.Organization{}}
}

func (r *InMemoryOrganizationRepository) Create(o models.Organization) (models.Organization, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	o.Status = models.OrgStatusPending
	o.Active = true
	r.orgs = append(r.orgs, o)
	return o, nil
}

func (r *InMemoryOrganizationRepository) GetByID(id string) (models.Organization, error) {
	for _, o := range r.orgs {
		if o.ID == id && o.DeletedAt == nil {
			return o, nil
		}
	}
	return models.Organization{}, ErrOrganizationNotFound
}

func (r *InMemoryOrganizationRepository) Update(o models.Organization) (models.Organization, error) {
	for i, existing := range r.orgs {
		if existing.ID == o.ID && existing.DeletedAt == nil {
			// Status, verification fields and audit stamps are not updatable here.
			o.Status = existing.Status
			o.VerifiedBy = existing.VerifiedBy
			o.VerificationDate = existing.VerificationDate
			o.CreatedBy = existing.CreatedBy
			o.CreatedAt = existing.CreatedAt
			o.Active = existing.Active
			o.UpdatedAt = time.Now().UTC()
			r.orgs[i] = o
			return o, nil
		}
	}
	return models.Organization{}, ErrOrganizationNotFound
}

func matchesOrgFilter(o models.Organization, f OrganizationFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(o.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Type != "" && o.Type != f.Type {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.CreatedBy != "" && o.CreatedBy != f.CreatedBy {
		return false
	}
	return true
}

func (r *InMemoryOrganizationRepository) Filter(f OrganizationFilter) ([]models.Organization, int, error) {
	var filtered []models.Organization
	for _, o := range r.orgs {
		if o.DeletedAt == nil && matchesOrgFilter(o, f) {
			filtered = append(filtered, o)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	page := paginate(len(filtered), f.Offset, f.Limit)
	return filtered[page.start:page.end], len(filtered), nil
}

func (r *InMemoryOrganizationRepository) SetStatus(id, status, verifiedBy, rejectionReason string) (models.Organization, error) {
	for i, o := range r.orgs {
		if o.ID != id || o.DeletedAt != nil {
			continue
		}
		if o.Status != models.OrgStatusPending {
			return models.Organization{}, ErrInvalidTransition
		}
		o.Status = status
		o.RejectionReason = rejectionReason
		o.UpdatedAt = time.Now().UTC()
		if status == models.OrgStatusVerified {
			now := time.Now().UTC()
			o.VerifiedBy = verifiedBy
			o.VerificationDate = &now
		}
		r.orgs[i] = o
		return o, nil
	}
	return models.Organization{}, ErrOrganizationNotFound
}

func (r *InMemoryOrganizationRepository) SoftDelete(id string) error {
	for i, o := range r.orgs {
		if o.ID == id && o.DeletedAt == nil {
			now := time.Now().UTC()
			r.orgs[i].DeletedAt = &now
			r.orgs[i].Active = false
			return nil
		}
	}
	return ErrOrganizationNotFound
}

func (r *InMemoryOrganizationRepository) Clear() {
	r.orgs = []models.Organization{}
}

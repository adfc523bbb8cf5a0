package repo

import models "github.com/greenbridge-eco/greenbridge/internal/models"

type OrganizationFilter struct {
	Name      string
	Type      string
	Status    string
	CreatedBy string
	Offset    *int
	Limit     *int
}

// OrganizationRepository defines data operations for brand/recycler/charity organizations.
type OrganizationRepository interface {
	Create(org models.Organization) (models.Organization, error)
	GetByID(id string) (models.Organization, error)
	Update(org models.Organization) (models.Organization, error)
	Filter(f OrganizationFilter) ([]models.Organization, int, error)
	// SetStatus performs the verification transition: it only succeeds when the
	// organization is currently pending, and stamps the verifier and timestamp.
	SetStatus(id, status, verifiedBy, rejectionReason string) (models.Organization, error)
	SoftDelete(id string) error
}

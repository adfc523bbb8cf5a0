package handlers

import (
	"github.com/greenbridge-eco/greenbridge/internal/auth"
	"github.com/greenbridge-eco/greenbridge/internal/media"
	"github.com/greenbridge-eco/greenbridge/internal/notify"
	repo "github.com/greenbridge-eco/greenbridge/internal/repo"
	"github.com/greenbridge-eco/greenbridge/internal/search"
	"github.com/greenbridge-eco/greenbridge/internal/ws"
)

var (
	userRepo       repo.UserRepository
	tokenRepo      repo.TokenRepository
	orgRepo        repo.OrganizationRepository
	categoryRepo   repo.CategoryRepository
	materialRepo   repo.MaterialRepository
	collectionRepo repo.CollectionRepository
	facilityRepo   repo.FacilityRepository
	dropoffRepo    repo.DropoffRepository
	metricsRepo    repo.MetricsRepository

	refreshStore auth.RefreshStore
	hub          *ws.Hub
	mailer       *notify.Mailer
	mediaStore   *media.Store
	vectorStore  *search.VectorStore
)

// Limits holds the request validation bounds read from configuration.
type Limits struct {
	MinItemWeightKg       float64
	MaxItemWeightKg       float64
	MaxUploadSizeMB       int
	NearbyDefaultRadiusKm float64
}

var limits = Limits{
	MinItemWeightKg:       0.1,
	MaxItemWeightKg:       10000,
	MaxUploadSizeMB:       10,
	NearbyDefaultRadiusKm: 10,
}

func SetUserRepo(r repo.UserRepository)               { userRepo = r }
func SetTokenRepo(r repo.TokenRepository)             { tokenRepo = r }
func SetOrganizationRepo(r repo.OrganizationRepository) { orgRepo = r }
func SetCategoryRepo(r repo.CategoryRepository)       { categoryRepo = r }
func SetMaterialRepo(r repo.MaterialRepository)       { materialRepo = r }
func SetCollectionRepo(r repo.CollectionRepository)   { collectionRepo = r }
func SetFacilityRepo(r repo.FacilityRepository)       { facilityRepo = r }
func SetDropoffRepo(r repo.DropoffRepository)         { dropoffRepo = r }
func SetMetricsRepo(r repo.MetricsRepository)         { metricsRepo = r }

func SetRefreshStore(s auth.RefreshStore)   { refreshStore = s }
func SetHub(h *ws.Hub)                      { hub = h }
func SetMailer(m *notify.Mailer)            { mailer = m }
func SetMediaStore(s *media.Store)          { mediaStore = s }
func SetVectorStore(s *search.VectorStore)  { vectorStore = s }
func SetLimits(l Limits)                    { limits = l }

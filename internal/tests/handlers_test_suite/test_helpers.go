package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/greenbridge-eco/greenbridge/internal/auth"
	api "github.com/greenbridge-eco/greenbridge/internal/http"
	handler "github.com/greenbridge-eco/greenbridge/internal/http/handlers"
	rl "github.com/greenbridge-eco/greenbridge/internal/http/rate_limiter"
	"github.com/greenbridge-eco/greenbridge/internal/models"
	"github.com/greenbridge-eco/greenbridge/internal/repo"
	"github.com/greenbridge-eco/greenbridge/internal/ws"
)

var (
	adminToken    string
	recyclerToken string
	consumerToken string

	userRepo       *repo.InMemoryUserRepository
	tokenRepo      *repo.InMemoryTokenRepository
	orgRepo        *repo.InMemoryOrganizationRepository
	categoryRepo   *repo.InMemoryCategoryRepository
	materialRepo   *repo.InMemoryMaterialRepository
	collectionRepo *repo.InMemoryCollectionRepository
	facilityRepo   *repo.InMemoryFacilityRepository
	dropoffRepo    *repo.InMemoryDropoffRepository
)

func init() {
	// httptest requests all share one RemoteAddr; keep throttling out of the way.
	rl.SetRate(10000, 10000)

	setupTestRepos("secret-pw")
	r := newTestRouter()

	var err error
	if adminToken, err = generateToken(r, "admin@greenbridge.eco", "secret-pw"); err != nil {
		panic(fmt.Sprintf("error generating admin token: %v", err))
	}
	if recyclerToken, err = generateToken(r, "recycler@greenbridge.eco", "secret-pw"); err != nil {
		panic(fmt.Sprintf("error generating recycler token: %v", err))
	}
	if consumerToken, err = generateToken(r, "consumer@greenbridge.eco", "secret-pw"); err != nil {
		panic(fmt.Sprintf("error generating consumer token: %v", err))
	}
}

func newTestRouter() http.Handler {
	return api.NewRouter(api.RouterConfig{})
}

func setupTestRepos(password string) {
	userRepo = repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	tokenRepo = repo.NewInMemoryTokenRepository()
	handler.SetTokenRepo(tokenRepo)

	orgRepo = repo.NewInMemoryOrganizationRepository()
	handler.SetOrganizationRepo(orgRepo)

	categoryRepo = repo.NewInMemoryCategoryRepository()
	handler.SetCategoryRepo(categoryRepo)

	materialRepo = repo.NewInMemoryMaterialRepository()
	handler.SetMaterialRepo(materialRepo)

	collectionRepo = repo.NewInMemoryCollectionRepository()
	collectionRepo.LinkMaterials(materialRepo)
	handler.SetCollectionRepo(collectionRepo)

	facilityRepo = repo.NewInMemoryFacilityRepository()
	handler.SetFacilityRepo(facilityRepo)

	dropoffRepo = repo.NewInMemoryDropoffRepository()
	handler.SetDropoffRepo(dropoffRepo)

	metricsRepo := repo.NewInMemoryMetricsRepository()
	metricsRepo.SetRepositories(userRepo, orgRepo, materialRepo, collectionRepo)
	handler.SetMetricsRepo(metricsRepo)

	handler.SetRefreshStore(auth.NewInMemoryRefreshStore())
	handler.SetHub(ws.NewHub())

	hash, _ := auth.HashPassword(password)
	for _, u := range []models.User{
		{Email: "admin@greenbridge.eco", Role: models.RoleAdmin},
		{Email: "recycler@greenbridge.eco", Role: models.RoleRecycler},
		{Email: "consumer@greenbridge.eco", Role: models.RoleConsumer},
	} {
		u.PasswordHash = hash
		u.Active = true
		u.Verified = true
		if _, err := userRepo.Create(u); err != nil {
			panic(fmt.Sprintf("error seeding user %s: %v", u.Email, err))
		}
	}
}

func generateToken(r http.Handler, email, password string) (string, error) {
	payload := handler.CredentialsRequest{Email: email, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func doJSON(r http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// seedUserToken seeds an active user with the given role and returns a token
// for it.
func seedUserToken(email, role string) string {
	hash, _ := auth.HashPassword("secret-pw")
	if _, err := userRepo.Create(models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		Verified:     true,
	}); err != nil {
		panic(fmt.Sprintf("error seeding user %s: %v", email, err))
	}
	token, err := generateToken(newTestRouter(), email, "secret-pw")
	if err != nil {
		panic(fmt.Sprintf("error logging in as %s: %v", email, err))
	}
	return token
}

func seedCategory(name, code string) models.WasteCategory {
	c, err := categoryRepo.Create(models.WasteCategory{Name: name, Code: code, Recyclable: true})
	if err != nil {
		panic(fmt.Sprintf("error seeding category: %v", err))
	}
	return c
}

func seedMaterial(name, code, categoryID string) models.Material {
	m, err := materialRepo.Create(models.Material{
		Name:        name,
		Code:        code,
		CategoryID:  categoryID,
		Recyclable:  true,
		ValuePerKg:  0.5,
		CO2OffsetKg: 1.5,
	})
	if err != nil {
		panic(fmt.Sprintf("error seeding material: %v", err))
	}
	return m
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

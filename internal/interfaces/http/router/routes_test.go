package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	accountapp "github.com/bilemo/api/internal/application/account"
	catalogapp "github.com/bilemo/api/internal/application/catalog"
	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/infrastructure/auth"
	"github.com/bilemo/api/internal/infrastructure/cache"
	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/bilemo/api/internal/infrastructure/persistence"
	"github.com/bilemo/api/internal/infrastructure/persistence/sqlitetest"
	"github.com/bilemo/api/internal/interfaces/http/dto"
	"github.com/bilemo/api/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testAPI struct {
	engine     *gin.Engine
	db         *gorm.DB
	store      *cache.MemoryTagCache
	adminID    int64
	userID     int64
	adminToken string
	userToken  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := sqlitetest.Open(t)
	store := cache.NewMemoryTagCache(0)
	t.Cleanup(func() { _ = store.Close() })
	revoker := auth.NewMemoryTokenRevoker()
	t.Cleanup(revoker.Close)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "router-test-secret-at-least-32-chars",
		Expiration: time.Hour,
		Issuer:     "bilemo-test",
	})
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	readThrough := cache.NewReadThrough(store, time.Hour)

	accounts := persistence.NewAccountRepositories(db)
	accountTx := persistence.NewAccountTransactionScope(db)
	products := persistence.NewCatalogRepositories(db).Products()
	catalogTx := persistence.NewCatalogTransactionScope(db)

	clientService := accountapp.NewClientService(accounts.Clients(), accountTx, hasher, readThrough)
	customerService := accountapp.NewCustomerService(accounts.Customers(), accounts.Clients(), accountTx, readThrough)
	authService := accountapp.NewAuthService(accounts.Clients(), accountTx, hasher, jwtService, revoker)
	productService := catalogapp.NewProductService(products, catalogTx, readThrough)

	pagination := config.PaginationConfig{DefaultLimit: 5, MaxLimit: 100}
	engine := NewEngine(Dependencies{
		HTTP:       config.HTTPConfig{MaxBodySize: 1 << 20},
		JWTService: jwtService,
		Revoker:    revoker,
		Roles:      clientService.Roles,
	}, Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Client:   handler.NewClientHandler(clientService, pagination),
		Customer: handler.NewCustomerHandler(customerService, pagination),
		Product:  handler.NewProductHandler(productService, pagination),
		Health:   handler.NewHealthHandler(&persistence.Database{DB: db}),
	})

	ctx := context.Background()
	admin, err := clientService.Create(ctx, accountapp.CreateClientRequest{
		Company:  "BileMo",
		Email:    "admin@bilemo.com",
		Password: "password",
		Roles:    []string{account.RoleAdmin},
	})
	require.NoError(t, err)
	user, err := clientService.Create(ctx, accountapp.CreateClientRequest{
		Company:  "Orange",
		Email:    "user@bilemo.com",
		Password: "password",
	})
	require.NoError(t, err)

	token := func(id int64, roles ...string) string {
		tok, err := jwtService.Generate(auth.GenerateTokenInput{ClientID: id, Roles: roles})
		require.NoError(t, err)
		return tok.Value
	}

	return &testAPI{
		engine:     engine,
		db:         db,
		store:      store,
		adminID:    admin.ID,
		userID:     user.ID,
		adminToken: token(admin.ID, account.RoleUser, account.RoleAdmin),
		userToken:  token(user.ID, account.RoleUser),
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestClientCreate_ReturnsLocationAndEmptyCustomers(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/clients", api.adminToken, map[string]any{
		"email":    "a@b.com",
		"company":  "Acme",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data map[string]any
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	id := int64(data["id"].(float64))
	assert.Equal(t, fmt.Sprintf("/api/clients/%d", id), rec.Header().Get("Location"))
	assert.Equal(t, "Acme", data["company"])
	assert.Equal(t, "a@b.com", data["email"])
	assert.NotEmpty(t, data["createdAt"])
	assert.Equal(t, []any{}, data["customers"])
	assert.NotContains(t, data, "password")
}

func TestClientCreate_Validation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/clients", api.adminToken, map[string]any{
		"email":    "not-an-email",
		"company":  "Acme",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	fields := map[string]bool{}
	for _, d := range env.Error.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
}

func TestClientCreate_DuplicateEmail(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/clients", api.adminToken, map[string]any{
		"email":    "user@bilemo.com",
		"company":  "Copycat",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestClientRoutes_AdminOnly(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		method  string
		path    string
		message string
	}{
		{http.MethodGet, "/api/clients", DenyListClients},
		{http.MethodPost, "/api/clients", DenyCreateClient},
		{http.MethodPut, "/api/clients/1", DenyUpdateClient},
		{http.MethodDelete, "/api/clients/1", DenyDeleteClient},
		{http.MethodPost, "/api/products", DenyCreateProduct},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, api.userToken, map[string]any{})
			require.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec).Error.Message)
		})
	}
}

func TestClientRoutes_DemotedAdminLosesAccess(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, fmt.Sprintf("/api/clients/%d", api.adminID), api.adminToken, map[string]any{
		"roles": []string{account.RoleUser},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	// the token still carries ROLE_ADMIN
	rec = api.do(t, http.MethodGet, "/api/clients", api.adminToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, DenyListClients, decode(t, rec).Error.Message)

	rec = api.do(t, http.MethodPost, "/api/products", api.adminToken, map[string]any{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestClientRoutes_PromotedUserGainsAccess(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, fmt.Sprintf("/api/clients/%d", api.userID), api.adminToken, map[string]any{
		"roles": []string{account.RoleUser, account.RoleAdmin},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/clients", api.userToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientRoutes_DeletedClientTokenIsRejected(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodDelete, fmt.Sprintf("/api/clients/%d", api.adminID), api.adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/clients", api.adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClientRoutes_NonCanonicalIDIsNotFound(t *testing.T) {
	api := newTestAPI(t)

	for i := range 10 {
		rec := api.do(t, http.MethodPost, "/api/clients", api.adminToken, map[string]any{
			"email":    fmt.Sprintf("alias%02d@example.com", i),
			"company":  fmt.Sprintf("Alias %02d", i),
			"password": "secret1",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/clients/8", api.adminToken, nil).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/clients/10", api.adminToken, nil).Code)

	for _, id := range []string{"010", "0x3", "1.5", "1_0", "+3"} {
		t.Run(id, func(t *testing.T) {
			rec := api.do(t, http.MethodGet, "/api/clients/"+id, api.adminToken, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			rec = api.do(t, http.MethodDelete, "/api/clients/"+id, api.adminToken, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}

	for _, id := range []string{"3", "8", "10"} {
		rec := api.do(t, http.MethodGet, "/api/clients/"+id, api.adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code, "client %s survives", id)
	}
}

func TestRoutes_RequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/clients/1", "/api/customers", "/api/products"} {
		rec := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestLoginCheck(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/login_check", "", map[string]string{
		"username": "user@bilemo.com",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp accountapp.LoginResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &resp))
	require.NotEmpty(t, resp.Token)

	rec = api.do(t, http.MethodGet, "/api/products", resp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/login_check", "", map[string]string{
		"username": "user@bilemo.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword_OnlySelf(t *testing.T) {
	api := newTestAPI(t)
	body := map[string]string{"oldPassword": "password", "newPassword": "new-secret"}

	rec := api.do(t, http.MethodPut, fmt.Sprintf("/api/clients/%d/password", api.adminID), api.userToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPut, fmt.Sprintf("/api/clients/%d/password", api.userID), api.userToken, body)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/api/login_check", "", map[string]string{
		"username": "user@bilemo.com",
		"password": "new-secret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomerCreate_WithIDClients(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/customers", api.adminToken, map[string]any{
		"email":     "jean.dupont@example.com",
		"firstName": "Jean",
		"lastName":  "Dupont",
		"idClients": []int64{api.adminID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view accountapp.CustomerView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &view))
	assert.Equal(t, fmt.Sprintf("/api/customers/%d", view.ID), rec.Header().Get("Location"))
	require.NotNil(t, view.Clients)
	require.Len(t, *view.Clients, 1)
	assert.Equal(t, api.adminID, (*view.Clients)[0].ID)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/clients/%d", api.adminID), api.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var client accountapp.ClientView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &client))
	require.NotNil(t, client.Customers)
	require.Len(t, *client.Customers, 1)
	assert.Equal(t, view.ID, (*client.Customers)[0].ID)
}

func TestCustomerCreate_UnknownClient(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/customers", api.adminToken, map[string]any{
		"email":     "jean.dupont@example.com",
		"firstName": "Jean",
		"lastName":  "Dupont",
		"idClients": []int64{999},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerUpdate_RemoveIDClientsInvalidatesCache(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	rec := api.do(t, http.MethodPost, "/api/customers", api.adminToken, map[string]any{
		"email":     "jean.dupont@example.com",
		"firstName": "Jean",
		"lastName":  "Dupont",
		"idClients": []int64{api.adminID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created accountapp.CustomerView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))

	rec = api.do(t, http.MethodGet, "/api/customers", api.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, cached, err := api.store.Get(ctx, "getAllCustomers-1-5")
	require.NoError(t, err)
	require.True(t, cached)

	rec = api.do(t, http.MethodPut, fmt.Sprintf("/api/customers/%d", created.ID), api.adminToken, map[string]any{
		"removeIdClients": []int64{api.adminID},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Body.String())

	_, cached, err = api.store.Get(ctx, "getAllCustomers-1-5")
	require.NoError(t, err)
	assert.False(t, cached)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/customers/%d", created.ID), api.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated accountapp.CustomerView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &updated))
	require.NotNil(t, updated.Clients)
	assert.Empty(t, *updated.Clients)
}

func TestCustomer_NonAdminScoping(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/customers", api.adminToken, map[string]any{
		"email":     "owned.by.admin@example.com",
		"firstName": "Alice",
		"lastName":  "Martin",
		"idClients": []int64{api.adminID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var adminCustomer accountapp.CustomerView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &adminCustomer))

	// idClients is ignored for non-admins, the customer is linked to the caller
	rec = api.do(t, http.MethodPost, "/api/customers", api.userToken, map[string]any{
		"email":     "owned.by.user@example.com",
		"firstName": "Bob",
		"lastName":  "Durand",
		"idClients": []int64{api.adminID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var userCustomer accountapp.CustomerView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &userCustomer))
	require.Len(t, *userCustomer.Clients, 1)
	assert.Equal(t, api.userID, (*userCustomer.Clients)[0].ID)

	t.Run("forbidden on another client's customer", func(t *testing.T) {
		path := fmt.Sprintf("/api/customers/%d", adminCustomer.ID)
		assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, path, api.userToken, nil).Code)
		assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodPut, path, api.userToken, map[string]any{"firstName": "Eve"}).Code)
		assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodDelete, path, api.userToken, nil).Code)
	})

	t.Run("list is scoped", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/customers", api.userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decode(t, rec)
		var items []accountapp.CustomerView
		require.NoError(t, json.Unmarshal(env.Data, &items))
		require.Len(t, items, 1)
		assert.Equal(t, userCustomer.ID, items[0].ID)
		assert.Equal(t, int64(1), env.Meta.Total)

		rec = api.do(t, http.MethodGet, "/api/customers", api.adminToken, nil)
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &items))
		assert.Len(t, items, 2)
	})

	t.Run("owner may delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/customers/%d", userCustomer.ID)
		assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, path, api.userToken, nil).Code)
		assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, path, api.userToken, nil).Code)
	})
}

func TestList_Pagination(t *testing.T) {
	api := newTestAPI(t)

	for i := range 10 {
		rec := api.do(t, http.MethodPost, "/api/clients", api.adminToken, map[string]any{
			"email":    fmt.Sprintf("client%02d@example.com", i),
			"company":  fmt.Sprintf("Company %02d", i),
			"password": "secret1",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := api.do(t, http.MethodGet, "/api/clients?page=2&limit=5", api.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	var items []accountapp.ClientView
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 5)
	assert.Less(t, items[0].ID, items[4].ID)
	assert.Equal(t, int64(12), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.Equal(t, 2, env.Meta.Page)

	// non-numeric values fall back to the defaults
	for _, query := range []string{"page=abc&limit=xyz", "page=0x2&limit=1_0", "page=1.5"} {
		rec = api.do(t, http.MethodGet, "/api/clients?"+query, api.adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, query)
		env := decode(t, rec)
		assert.Equal(t, 1, env.Meta.Page, query)
		assert.Equal(t, 5, env.Meta.PageSize, query)
	}

	// leading zeros are read in base 10
	rec = api.do(t, http.MethodGet, "/api/clients?page=010", api.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, decode(t, rec).Meta.Page)

	for _, query := range []string{"page=0", "limit=-1", "limit=101", "page=9223372036854775807"} {
		rec = api.do(t, http.MethodGet, "/api/clients?"+query, api.adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func createProduct(t *testing.T, api *testAPI, configurations int) catalogapp.ProductView {
	t.Helper()

	configs := make([]map[string]any, configurations)
	for i := range configs {
		configs[i] = map[string]any{
			"capacity": "128",
			"color":    fmt.Sprintf("color-%d", i),
			"price":    "999.90",
			"images":   []map[string]string{{"url": fmt.Sprintf("https://cdn.bilemo.com/%d.png", i)}},
		}
	}
	rec := api.do(t, http.MethodPost, "/api/products", api.adminToken, map[string]any{
		"name":           "Galaxy S24",
		"description":    "Smartphone haut de gamme",
		"manufacturer":   "Samsung",
		"screenSize":     6.2,
		"camera":         true,
		"bluetooth":      true,
		"wifi":           true,
		"length":         147,
		"width":          70.6,
		"height":         7.6,
		"weight":         167,
		"das":            0.98,
		"configurations": configs,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view catalogapp.ProductView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &view))
	return view
}

func TestProductUpdate_RemoveConfiguration(t *testing.T) {
	api := newTestAPI(t)
	product := createProduct(t, api, 5)
	require.NotNil(t, product.Configurations)
	require.Len(t, *product.Configurations, 5)
	assert.Equal(t, int64(5), (*product.Configurations)[4].ID)

	path := fmt.Sprintf("/api/products/%d", product.ID)
	rec := api.do(t, http.MethodPut, path, api.adminToken, map[string]any{
		"dataConfigurations": []map[string]any{{"id": 5, "remove": true}},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, path, api.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated catalogapp.ProductView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &updated))
	require.Len(t, *updated.Configurations, 4)
	for _, cfg := range *updated.Configurations {
		assert.NotEqual(t, int64(5), cfg.ID)
	}

	var images int64
	require.NoError(t, api.db.Table("image").Count(&images).Error)
	assert.Equal(t, int64(4), images)
}

func TestProductUpdate_UnknownConfiguration(t *testing.T) {
	api := newTestAPI(t)
	product := createProduct(t, api, 1)

	rec := api.do(t, http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID), api.adminToken, map[string]any{
		"name":               "Renamed",
		"dataConfigurations": []map[string]any{{"id": 5, "remove": true}},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "configuration n'existe pas", decode(t, rec).Error.Message)

	// the rename was rolled back with the rest of the request
	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), api.userToken, nil)
	var unchanged catalogapp.ProductView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &unchanged))
	require.NotNil(t, unchanged.ProductDetailsView)
	assert.Equal(t, "Galaxy S24", unchanged.Name)
}

func TestProduct_NotFoundAndBadID(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/products/999", api.userToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/products/abc", api.userToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/unknown", api.userToken, nil).Code)
}

func TestMalformedJSON(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewBufferString(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+api.adminToken)
	rec := httptest.NewRecorder()
	api.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, decode(t, rec).Error.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "/api", r.prefix)
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.middleware)
}

func TestRouterOptions(t *testing.T) {
	r := NewRouter(gin.New(), WithPrefix("/v2"), WithMiddleware(func(c *gin.Context) { c.Next() }))

	assert.Equal(t, "/v2", r.prefix)
	assert.Len(t, r.middleware, 1)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithMiddleware(func(c *gin.Context) {
		c.Header("X-Api", "1")
		c.Next()
	}))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-Api"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("products", "/products")
		assert.Equal(t, "products", g.Name())
		assert.Equal(t, "/products", g.Prefix())
	})

	t.Run("registers every verb", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("items", "/items").
			GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
			POST("", func(c *gin.Context) { c.String(http.StatusCreated, "created") }).
			PUT("/:id", func(c *gin.Context) { c.String(http.StatusOK, "updated "+c.Param("id")) }).
			DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		g.RegisterRoutes(engine.Group("/api"))

		tests := []struct {
			method string
			path   string
			status int
		}{
			{http.MethodGet, "/api/items", http.StatusOK},
			{http.MethodPost, "/api/items", http.StatusCreated},
			{http.MethodPut, "/api/items/12", http.StatusOK},
			{http.MethodDelete, "/api/items/12", http.StatusNoContent},
		}
		for _, tt := range tests {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("applies middleware only to its routes", func(t *testing.T) {
		engine := gin.New()
		api := engine.Group("/api")

		NewDomainGroup("guarded", "/guarded").
			Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }).
			GET("", func(c *gin.Context) { c.Status(http.StatusOK) }).
			RegisterRoutes(api)
		NewDomainGroup("open", "/open").
			GET("", func(c *gin.Context) { c.Status(http.StatusOK) }).
			RegisterRoutes(api)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/guarded", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/open", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

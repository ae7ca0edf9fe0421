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

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("invoices", "/invoices")
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") })

	NewRouter(engine).Register(g).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/invoices")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("customers", "/customers")
		assert.Equal(t, "customers", g.Name())
		assert.Equal(t, "/customers", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		reply := func(body string) gin.HandlerFunc {
			return func(c *gin.Context) { c.String(http.StatusOK, body) }
		}
		NewDomainGroup("customers", "/customers").
			GET("/:id", reply("get")).
			POST("", reply("post")).
			PUT("/:id", reply("put")).
			DELETE("/:id", reply("delete")).
			Handle(http.MethodPatch, "/:id", reply("patch")).
			RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method, path, body string
		}{
			{http.MethodGet, "/api/v1/customers/1", "get"},
			{http.MethodPost, "/api/v1/customers", "post"},
			{http.MethodPut, "/api/v1/customers/1", "put"},
			{http.MethodDelete, "/api/v1/customers/1", "delete"},
			{http.MethodPatch, "/api/v1/customers/1", "patch"},
		}
		for _, tt := range tests {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
			assert.Equal(t, tt.body, w.Body.String())
		}
	})

	t.Run("middleware covers subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("dashboard", "/dashboard").Use(func(c *gin.Context) {
			c.Header("X-Group", "dashboard")
			c.Next()
		})
		g.Group("invoices", "/invoices").GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/dashboard/invoices")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "dashboard", w.Header().Get("X-Group"))
	})
}

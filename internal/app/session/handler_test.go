package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedbackboard/internal/app/customer"
	"feedbackboard/internal/app/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubCustomers map[string]*customer.Customer

func (s stubCustomers) ForIdentity(_ context.Context, id identity.Identity) (*customer.Customer, error) {
	return s[id.Email()], nil
}

func TestMeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	owner := &customer.Customer{ID: "c1", Email: "owner@acme.com", Name: "Acme", Slug: "acme"}
	h := NewHandler(nil, stubCustomers{owner.Email: owner}, zap.NewNop())

	tests := []struct {
		name         string
		email        string
		wantAnon     bool
		wantCustomer bool
	}{
		{"anonymous", "", true, false},
		{"voter", "voter@x.com", false, false},
		{"owner", "Owner@Acme.com", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.email != "" {
					c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), identity.Identified(tt.email)))
				}
			})
			r.GET("/me", h.Me)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var body struct {
				Data MeResponse `json:"data"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Data.Anonymous != tt.wantAnon {
				t.Fatalf("anonymous = %v, want %v", body.Data.Anonymous, tt.wantAnon)
			}
			if (body.Data.Customer != nil) != tt.wantCustomer {
				t.Fatalf("customer = %+v, want present=%v", body.Data.Customer, tt.wantCustomer)
			}
		})
	}
}

package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kataras/iris/v12"

	"rentify-server/models"
)

// Profile handlers hand the user struct to ctx.JSON by value; the response
// must still pass through the model's marshaler and drop the hash.
func TestProfileResponseHidesPassword(t *testing.T) {
	app := iris.New()
	app.Get("/me", func(ctx iris.Context) {
		user := models.User{Username: "ana", Email: "ana@example.com", Password: "$2a$10$hash"}
		ctx.JSON(user)
	})
	if err := app.Build(); err != nil {
		t.Fatalf("building app: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if _, ok := decoded["password"]; ok {
		t.Fatalf("password hash leaked in response: %s", resp.Body.String())
	}
	if decoded["username"] != "ana" {
		t.Errorf("expected username ana, got %v", decoded["username"])
	}
}

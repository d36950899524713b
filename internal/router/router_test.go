package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"dishlog/internal/llm"
	"dishlog/internal/photo"
	"dishlog/internal/receipt"
	"dishlog/internal/restaurant"
	"dishlog/internal/social"
	"dishlog/internal/stats"
)

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) ParseReceipt(ctx context.Context, imageData string) (string, error) {
	return s.response, s.err
}

func newTestRouter(t *testing.T, client llm.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	photoRepo := photo.NewMemoryRepository()
	receiptRepo := receipt.NewMemoryRepository(photoRepo)
	restaurantRepo := restaurant.NewMemoryRepository()
	socialRepo := social.NewMemoryRepository()

	restaurants := restaurant.NewService(restaurantRepo)
	photos := photo.NewService(photoRepo, receiptRepo)
	receipts := receipt.NewService(receiptRepo, restaurants, photos)
	socialService := social.NewService(socialRepo, photoRepo)
	statsService := stats.NewService(receiptRepo, restaurantRepo, photoRepo)

	if err := socialService.EnsureTestUser(context.Background()); err != nil {
		t.Fatalf("EnsureTestUser failed: %v", err)
	}

	return NewRouter(Deps{
		Restaurants: restaurant.NewHandler(restaurants),
		Receipts:    receipt.NewHandler(receipts, llm.NewExtractor(client)),
		Photos:      photo.NewHandler(photos),
		Social:      social.NewHandler(socialService),
		Stats:       stats.NewHandler(statsService),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &stubClient{})

	w := doJSON(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
}

func TestReceiptFlow(t *testing.T) {
	router := newTestRouter(t, &stubClient{})

	payload := `{
		"restaurantName": "Joe's Diner",
		"datetime": "2024-01-15T19:30:00Z",
		"total": 24.50,
		"lineItems": [
			{"dishName": "Burger", "price": 12.00},
			{"dishName": "Fries", "price": 5.00}
		]
	}`

	w := doJSON(t, router, http.MethodPost, "/api/receipts", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var result receipt.IngestResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if len(result.DishInstances) != 2 {
		t.Fatalf("Expected 2 instances, got %d", len(result.DishInstances))
	}

	// The receipt is retrievable with full details.
	w = doJSON(t, router, http.MethodGet, "/api/receipts/"+result.Receipt.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	// The recent list sees it too.
	w = doJSON(t, router, http.MethodGet, "/api/receipts/recent", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var recent []receipt.Receipt
	if err := json.Unmarshal(w.Body.Bytes(), &recent); err != nil {
		t.Fatalf("Bad recent body: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("Expected 1 recent receipt, got %d", len(recent))
	}

	// Deleting it cascades.
	w = doJSON(t, router, http.MethodDelete, "/api/receipts/"+result.Receipt.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/receipts/"+result.Receipt.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
}

func TestReceiptValidationErrors(t *testing.T) {
	router := newTestRouter(t, &stubClient{})

	w := doJSON(t, router, http.MethodPost, "/api/receipts",
		`{"restaurantName": "", "datetime": "2024-01-15T19:30:00Z", "lineItems": []}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Bad error body: %v", err)
	}
	if body["field"] != "restaurantName" {
		t.Errorf("Expected restaurantName field in error, got %v", body["field"])
	}
}

func TestParseReceiptDegrades(t *testing.T) {
	router := newTestRouter(t, &stubClient{err: context.DeadlineExceeded})

	w := doJSON(t, router, http.MethodPost, "/api/parse-receipt", `{"image": "data:image/jpeg;base64,abc"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body struct {
		Parsed   llm.ParsedReceipt `json:"parsed"`
		Degraded bool              `json:"degraded"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Bad body: %v", err)
	}
	if !body.Degraded {
		t.Error("Expected degraded flag set")
	}
	if body.Parsed.RestaurantName != "" || len(body.Parsed.LineItems) != 0 {
		t.Errorf("Expected empty receipt, got %+v", body.Parsed)
	}
}

func TestPhotoLinkRoundTrip(t *testing.T) {
	router := newTestRouter(t, &stubClient{})

	// Create a receipt to have an instance to link against.
	w := doJSON(t, router, http.MethodPost, "/api/receipts", `{
		"restaurantName": "Joe's Diner",
		"datetime": "2024-01-15T19:30:00Z",
		"lineItems": [{"dishName": "Burger"}]
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	var result receipt.IngestResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Bad body: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/dish-photos", `{"imageUrl": "data:image/jpeg;base64,abc"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created photo.DishPhoto
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Bad photo body: %v", err)
	}

	w = doJSON(t, router, http.MethodPatch, "/api/dish-photos/"+created.ID,
		`{"dishInstanceId": "`+result.DishInstances[0].ID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Linking to a missing instance is a 404.
	w = doJSON(t, router, http.MethodPatch, "/api/dish-photos/"+created.ID,
		`{"dishInstanceId": "missing"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestSocialEndpoints(t *testing.T) {
	router := newTestRouter(t, &stubClient{})

	w := doJSON(t, router, http.MethodPost, "/api/users", `{"username": "alice"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var alice social.User
	if err := json.Unmarshal(w.Body.Bytes(), &alice); err != nil {
		t.Fatalf("Bad user body: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/users/"+alice.ID+"/follow", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/"+alice.ID+"/is-following", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var status map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("Bad body: %v", err)
	}
	if !status["isFollowing"] {
		t.Error("Expected isFollowing true")
	}

	// Self-follow is rejected as a validation error.
	w = doJSON(t, router, http.MethodPost, "/api/users/"+social.TestUserID+"/follow", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on self-follow, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubClient{})

	w := doJSON(t, router, http.MethodGet, "/api/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var overview stats.Overview
	if err := json.Unmarshal(w.Body.Bytes(), &overview); err != nil {
		t.Fatalf("Bad body: %v", err)
	}
	if len(overview.RatingBreakdown) != 4 {
		t.Errorf("Expected 4 rating keys, got %d", len(overview.RatingBreakdown))
	}
}

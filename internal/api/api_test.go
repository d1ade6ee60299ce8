package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/nutrition"
	"glowupp/nutrition-api/internal/provider/openfoodfacts"
	"glowupp/nutrition-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

// Stubs embed the service interface so only the methods a test exercises
// need an implementation.

type stubAuth struct {
	service.AuthService
	register func(name, email, password string) (*domain.User, error)
}

func (s *stubAuth) Register(_ context.Context, name, email, password string) (*domain.User, error) {
	return s.register(name, email, password)
}

type stubNutrition struct {
	service.NutritionService
	getPlan     func(userID string) (*domain.NutritionPlan, error)
	listWeights func(userID string, limit int) ([]domain.WeightEntry, error)
}

func (s *stubNutrition) GetPlan(_ context.Context, userID string) (*domain.NutritionPlan, error) {
	return s.getPlan(userID)
}

func (s *stubNutrition) ListWeights(_ context.Context, userID string, limit int) ([]domain.WeightEntry, error) {
	return s.listWeights(userID, limit)
}

type stubFoodLog struct {
	service.FoodLogService
	lookup      func(code string) (*openfoodfacts.Product, error)
	setWater    func(userID, day string, ml int) (*service.DayView, error)
	addFood     func(userID, day string, in service.FoodInput) (*domain.TrackedFoodEntry, error)
	fromBarcode func(code string, amount float64, unit string) (*domain.TrackedFoodEntry, error)
}

func (s *stubFoodLog) AddFood(_ context.Context, userID, day string, in service.FoodInput) (*domain.TrackedFoodEntry, error) {
	return s.addFood(userID, day, in)
}

func (s *stubFoodLog) AddFromBarcode(_ context.Context, _, _, code, _ string, amount float64, unit string) (*domain.TrackedFoodEntry, error) {
	return s.fromBarcode(code, amount, unit)
}

func (s *stubFoodLog) LookupBarcode(_ context.Context, code string) (*openfoodfacts.Product, error) {
	return s.lookup(code)
}

func (s *stubFoodLog) SetWater(_ context.Context, userID, day string, ml int) (*service.DayView, error) {
	return s.setWater(userID, day, ml)
}

func newTestRouter(svc Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, testSecret, svc)
	return router
}

func signToken(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()
	claims := &jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestPing(t *testing.T) {
	router := newTestRouter(Services{})
	w := doRequest(router, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	userID := primitive.NewObjectID().Hex()
	nutritionSvc := &stubNutrition{getPlan: func(string) (*domain.NutritionPlan, error) {
		return &domain.NutritionPlan{Calories: 2500}, nil
	}}
	router := newTestRouter(Services{Nutrition: nutritionSvc})

	w := doRequest(router, http.MethodGet, "/api/v1/me/nutrition-plan", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/me/nutrition-plan", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/me/nutrition-plan", signToken(t, userID, -time.Minute), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token has expired", errorMessage(t, w))

	w = doRequest(router, http.MethodGet, "/api/v1/me/nutrition-plan", signToken(t, userID, time.Hour), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plan domain.NutritionPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, 2500, plan.Calories)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	claims := &jwtClaims{
		UserID:           primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	router := newTestRouter(Services{})
	w := doRequest(router, http.MethodGet, "/api/v1/me/progress", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister(t *testing.T) {
	auth := &stubAuth{register: func(name, email, _ string) (*domain.User, error) {
		if email == "taken@example.com" {
			return nil, service.ErrUserAlreadyExists
		}
		return &domain.User{ID: primitive.NewObjectID(), DisplayName: name, Email: email, PasswordHash: "secret-hash"}, nil
	}}
	router := newTestRouter(Services{Auth: auth})

	w := doRequest(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "Ana", "email": "not-an-email", "password": "longenough"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "Ana", "email": "taken@example.com", "password": "longenough"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "Ana", "email": "ana@example.com", "password": "longenough"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")

	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ana", resp.Name)
	assert.False(t, resp.HasProfile)
}

func TestGetPlan_ErrorMapping(t *testing.T) {
	userID := primitive.NewObjectID().Hex()
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrProfileIncomplete, http.StatusConflict},
		{service.ErrNoWeightLogged, http.StatusConflict},
		{service.ErrUserNotFound, http.StatusNotFound},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := tc.err
		router := newTestRouter(Services{Nutrition: &stubNutrition{getPlan: func(string) (*domain.NutritionPlan, error) {
			return nil, err
		}}})
		w := doRequest(router, http.MethodGet, "/api/v1/me/nutrition-plan", signToken(t, userID, time.Hour), nil)
		assert.Equal(t, tc.code, w.Code, "%v", tc.err)
	}
}

func TestListWeights_Limit(t *testing.T) {
	userID := primitive.NewObjectID().Hex()
	var gotLimit int
	router := newTestRouter(Services{Nutrition: &stubNutrition{listWeights: func(uid string, limit int) ([]domain.WeightEntry, error) {
		assert.Equal(t, userID, uid)
		gotLimit = limit
		return []domain.WeightEntry{}, nil
	}}})
	token := signToken(t, userID, time.Hour)

	w := doRequest(router, http.MethodGet, "/api/v1/me/weights", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultWeightHistory, gotLimit)

	w = doRequest(router, http.MethodGet, "/api/v1/me/weights?limit=5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, gotLimit)

	w = doRequest(router, http.MethodGet, "/api/v1/me/weights?limit=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLookupBarcode(t *testing.T) {
	foods := &stubFoodLog{lookup: func(code string) (*openfoodfacts.Product, error) {
		switch code {
		case "3017620422003":
			return &openfoodfacts.Product{Barcode: code, Name: "Nutella", Country: "France, Monaco"}, nil
		case "12345678":
			return nil, openfoodfacts.ErrProductNotFound
		case "abc":
			return nil, openfoodfacts.ErrInvalidBarcode
		}
		return nil, openfoodfacts.ErrUnavailable
	}}
	router := newTestRouter(Services{FoodLog: foods})
	token := signToken(t, primitive.NewObjectID().Hex(), time.Hour)

	w := doRequest(router, http.MethodGet, "/api/v1/foods/barcode/3017620422003", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var product openfoodfacts.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, "Nutella", product.Name)

	w = doRequest(router, http.MethodGet, "/api/v1/foods/barcode/12345678", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/foods/barcode/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/foods/barcode/99999999", token, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSetWater(t *testing.T) {
	userID := primitive.NewObjectID().Hex()
	foods := &stubFoodLog{setWater: func(uid, day string, ml int) (*service.DayView, error) {
		if day == "yesterday" {
			return nil, domain.ErrInvalidDay
		}
		return &service.DayView{Date: day, WaterMl: ml}, nil
	}}
	router := newTestRouter(Services{FoodLog: foods})
	token := signToken(t, userID, time.Hour)

	w := doRequest(router, http.MethodPut, "/api/v1/me/logs/2024-06-01/water", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "ml is required")

	w = doRequest(router, http.MethodPut, "/api/v1/me/logs/2024-06-01/water", token, gin.H{"ml": 0})
	require.Equal(t, http.StatusOK, w.Code, "zero is a valid total")

	w = doRequest(router, http.MethodPut, "/api/v1/me/logs/2024-06-01/water", token, gin.H{"ml": 750})
	require.Equal(t, http.StatusOK, w.Code)
	var view service.DayView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "2024-06-01", view.Date)
	assert.Equal(t, 750, view.WaterMl)

	w = doRequest(router, http.MethodPut, "/api/v1/me/logs/yesterday/water", token, gin.H{"ml": 750})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddFood_UnitErrorsAreClientErrors(t *testing.T) {
	foods := &stubFoodLog{addFood: func(_, _ string, in service.FoodInput) (*domain.TrackedFoodEntry, error) {
		n, err := nutrition.ScaleNutrients(in.Reference.Nutrients, in.Reference.Amount, in.Reference.Unit, in.Amount, in.Unit)
		if err != nil {
			return nil, fmt.Errorf("scale nutrients: %w", err)
		}
		return &domain.TrackedFoodEntry{Name: in.Name, Amount: in.Amount, Unit: in.Unit, Nutrients: n}, nil
	}}
	router := newTestRouter(Services{FoodLog: foods})
	token := signToken(t, primitive.NewObjectID().Hex(), time.Hour)

	body := func(unit string) gin.H {
		return gin.H{
			"name": "Rice", "meal": "Lunch", "amount": 150, "unit": unit,
			"reference": gin.H{"amount": 100, "unit": "g", "nutrients": gin.H{"caloriesKcal": 130}},
		}
	}

	w := doRequest(router, http.MethodPost, "/api/v1/me/logs/2024-06-01/foods", token, body("ml"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, nutrition.ErrIncompatibleUnits.Error(), errorMessage(t, w))

	w = doRequest(router, http.MethodPost, "/api/v1/me/logs/2024-06-01/foods", token, body("bowl"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, nutrition.ErrUnsupportedUnit.Error(), errorMessage(t, w))

	w = doRequest(router, http.MethodPost, "/api/v1/me/logs/2024-06-01/foods", token, body("kg"))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAddFromBarcode_UnitErrors(t *testing.T) {
	foods := &stubFoodLog{fromBarcode: func(code string, amount float64, unit string) (*domain.TrackedFoodEntry, error) {
		if unit == "bowl" {
			return nil, fmt.Errorf("scale nutrients: %w", nutrition.ErrUnsupportedUnit)
		}
		return &domain.TrackedFoodEntry{Barcode: code, Amount: amount, Unit: unit}, nil
	}}
	router := newTestRouter(Services{FoodLog: foods})
	token := signToken(t, primitive.NewObjectID().Hex(), time.Hour)

	w := doRequest(router, http.MethodPost, "/api/v1/me/logs/2024-06-01/barcode", token,
		gin.H{"barcode": "5449000000996", "meal": "Lunch", "amount": 330, "unit": "ml"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/me/logs/2024-06-01/barcode", token,
		gin.H{"barcode": "5449000000996", "meal": "Lunch", "amount": 1, "unit": "bowl"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubFollows struct {
	service.FollowService
	follow   func(followerID, followeeID string) (bool, error)
	status   func(viewerID, userID string) (*service.FollowStatus, error)
	unfollow func(followerID, followeeID string) error
	lists    map[string][]domain.Follow
}

func (s *stubFollows) Follow(_ context.Context, followerID, followeeID string) (bool, error) {
	return s.follow(followerID, followeeID)
}

func (s *stubFollows) Unfollow(_ context.Context, followerID, followeeID string) error {
	return s.unfollow(followerID, followeeID)
}

func (s *stubFollows) Status(_ context.Context, viewerID, userID string) (*service.FollowStatus, error) {
	return s.status(viewerID, userID)
}

func (s *stubFollows) Followers(_ context.Context, userID string, limit int) ([]domain.Follow, error) {
	all := s.lists[userID]
	return all[:min(limit, len(all))], nil
}

func TestFollowRoutes(t *testing.T) {
	me := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	following := false
	follows := &stubFollows{
		follow: func(followerID, followeeID string) (bool, error) {
			switch {
			case followerID == followeeID:
				return false, service.ErrCannotFollowSelf
			case followeeID != other:
				return false, service.ErrUserNotFound
			}
			created := !following
			following = true
			return created, nil
		},
		unfollow: func(_, _ string) error {
			if !following {
				return service.ErrNotFollowing
			}
			following = false
			return nil
		},
		status: func(_, userID string) (*service.FollowStatus, error) {
			n := 0
			if following {
				n = 1
			}
			return &service.FollowStatus{UserID: userID, IsFollowing: following, Followers: n}, nil
		},
	}
	router := newTestRouter(Services{Follows: follows})
	token := signToken(t, me, time.Hour)
	path := "/api/v1/users/" + other + "/follow"

	w := doRequest(router, http.MethodPost, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var status service.FollowStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.IsFollowing)
	assert.Equal(t, 1, status.Followers)

	w = doRequest(router, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code, "already following")

	w = doRequest(router, http.MethodPost, "/api/v1/users/"+me+"/follow", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrCannotFollowSelf.Error(), errorMessage(t, w))

	w = doRequest(router, http.MethodPost, "/api/v1/users/"+primitive.NewObjectID().Hex()+"/follow", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.IsFollowing)

	w = doRequest(router, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListFollowers_Limit(t *testing.T) {
	star := primitive.NewObjectID().Hex()
	var fans []domain.Follow
	for i := 0; i < 3; i++ {
		fans = append(fans, domain.Follow{ID: primitive.NewObjectID(), FollowerID: primitive.NewObjectID()})
	}
	router := newTestRouter(Services{Follows: &stubFollows{lists: map[string][]domain.Follow{star: fans}}})
	token := signToken(t, primitive.NewObjectID().Hex(), time.Hour)

	w := doRequest(router, http.MethodGet, "/api/v1/users/"+star+"/followers?limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.Follow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	w = doRequest(router, http.MethodGet, "/api/v1/users/"+star+"/followers", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 3)

	w = doRequest(router, http.MethodGet, "/api/v1/users/"+star+"/followers?limit=zero", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordEvent_RejectsFollowerKinds(t *testing.T) {
	router := newTestRouter(Services{})
	token := signToken(t, primitive.NewObjectID().Hex(), time.Hour)

	w := doRequest(router, http.MethodPost, "/api/v1/me/progress/events", token, gin.H{"kind": "follower_gained"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]error{
		"":               errMissingAuthHeader,
		"Bearer":         errMalformedBearer,
		"Bearer ":        errMalformedBearer,
		"Basic abc":      errMalformedBearer,
		"Bearer a b":     errMalformedBearer,
		"bearer abc.def": nil,
		"BEARER abc.def": nil,
	}
	for header, want := range cases {
		token, err := bearerToken(header)
		if want != nil {
			assert.ErrorIs(t, err, want, "header %q", header)
			continue
		}
		require.NoError(t, err, "header %q", header)
		assert.Equal(t, "abc.def", token)
	}
}

func TestAuthMiddleware_RequiresExpiryAndSubject(t *testing.T) {
	router := newTestRouter(Services{})
	sign := func(claims *jwtClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return token
	}

	w := doRequest(router, http.MethodGet, "/api/v1/me/progress", sign(&jwtClaims{UserID: primitive.NewObjectID().Hex()}), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token has expired", errorMessage(t, w))

	w = doRequest(router, http.MethodGet, "/api/v1/me/progress", sign(&jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, errMissingSubject.Error(), errorMessage(t, w))
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchadmin/internal/database"
	"churchadmin/internal/repository"
	"churchadmin/internal/security"
	"churchadmin/internal/service"
	"churchadmin/migrations"
)

const (
	testUsername = "admin"
	testPassword = "correct-horse"
)

type testAPI struct {
	handler http.Handler
	cookie  *http.Cookie
	csrf    string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "church.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(ctx, migrations.FS))

	loc := time.FixedZone("PHT", 8*60*60)
	memberRepo := repository.NewMemberRepository(db)
	authService := service.NewAuthService(repository.NewAdminRepository(db))
	_, err = authService.CreateAdmin(ctx, testUsername, testPassword)
	require.NoError(t, err)

	tokens := security.NewTokenManager("test-secret", time.Hour)
	csrf := security.NewCSRFGenerator("test-secret")
	router := &Router{
		Middleware:     NewMiddleware(tokens, csrf, security.NewRateLimiter(5, time.Minute), false),
		Health:         NewHealthHandler(db),
		Auth:           NewAuthHandler(authService, tokens, csrf),
		Members:        NewMemberHandler(service.NewMemberService(db, memberRepo, loc)),
		Attendance:     NewAttendanceHandler(service.NewAttendanceService(db, repository.NewAttendanceRepository(db), memberRepo, loc)),
		Offerings:      NewOfferingHandler(service.NewOfferingService(repository.NewOfferingRepository(db), memberRepo, loc)),
		PrayerRequests: NewPrayerRequestHandler(service.NewPrayerRequestService(repository.NewPrayerRequestRepository(db), memberRepo, nil, loc)),
	}
	return &testAPI{handler: router.Handler()}
}

func (a *testAPI) send(t *testing.T, method, path string, body any, withCSRF bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	if withCSRF {
		req.Header.Set(security.CSRFHeader, a.csrf)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// do sends an authenticated request carrying the CSRF token
func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return a.send(t, method, path, body, true)
}

func (a *testAPI) login(t *testing.T) {
	t.Helper()

	rec := a.send(t, http.MethodPost, "/api/auth/login", map[string]string{"username": testUsername, "password": testPassword}, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body sessionResponse
	decodeBody(t, rec, &body)
	require.NotEmpty(t, body.CSRFToken)
	a.csrf = body.CSRFToken

	for _, c := range rec.Result().Cookies() {
		if c.Name == security.SessionCookieName {
			a.cookie = c
		}
	}
	require.NotNil(t, a.cookie, "session cookie")
	assert.True(t, a.cookie.HttpOnly)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func newMemberBody(first, last string) map[string]any {
	return map[string]any{
		"firstName":    first,
		"lastName":     last,
		"dateOfBirth":  "1988-02-29",
		"placeOfBirth": "Davao",
		"sex":          "MALE",
	}
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)

	rec := api.send(t, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestLoginAndSession(t *testing.T) {
	api := newTestAPI(t)

	rec := api.send(t, http.MethodPost, "/api/auth/login", map[string]string{"username": testUsername, "password": "wrong-password"}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)

	api.login(t)

	rec = api.send(t, http.MethodGet, "/api/auth/session", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var body sessionResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, testUsername, body.Admin.Username)
	assert.Equal(t, api.csrf, body.CSRFToken)

	rec = api.send(t, http.MethodPost, "/api/auth/logout", nil, false)
	assert.Equal(t, http.StatusForbidden, rec.Code, "logout needs the CSRF token")
	assert.Empty(t, rec.Result().Cookies())

	rec = api.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, security.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	api := newTestAPI(t)

	rec := api.send(t, http.MethodGet, "/api/members", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	api.cookie = &http.Cookie{Name: security.SessionCookieName, Value: "not-a-token"}
	rec = api.send(t, http.MethodGet, "/api/offerings/stats", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMutationsRequireCSRFToken(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	rec := api.send(t, http.MethodPost, "/api/members", newMemberBody("Jose", "Rizal"), false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.send(t, http.MethodGet, "/api/members", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/members", newMemberBody("Jose", "Rizal"))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestMemberLifecycle(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	rec := api.do(t, http.MethodPost, "/api/members", newMemberBody("Andres", "Bonifacio"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID        int64  `json:"id"`
		FirstName string `json:"firstName"`
		UserType  string `json:"userType"`
	}
	decodeBody(t, rec, &created)
	assert.Equal(t, "MEMBER", created.UserType)
	path := "/api/members/" + jsonNumber(created.ID)

	rec = api.do(t, http.MethodPut, path, map[string]any{"firstName": "Andy"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &created)
	assert.Equal(t, "Andy", created.FirstName)

	rec = api.do(t, http.MethodGet, "/api/members?search=andy&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items       []json.RawMessage `json:"items"`
		TotalCount  int64             `json:"totalCount"`
		TotalPages  int               `json:"totalPages"`
		CurrentPage int               `json:"currentPage"`
	}
	decodeBody(t, rec, &list)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, 1, list.CurrentPage)

	rec = api.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Member not found", decodeError(t, rec).Message)
}

func TestValidationErrorsNameFields(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	rec := api.do(t, http.MethodPost, "/api/members", map[string]any{"firstName": "Only"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "BAD_REQUEST", body.Code)
	assert.Contains(t, body.Fields, "lastName")
	assert.Contains(t, body.Fields, "dateOfBirth")

	rec = api.do(t, http.MethodGet, "/api/members?page=first", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Fields, "page")

	rec = api.do(t, http.MethodGet, "/api/members/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRosterOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	rec := api.do(t, http.MethodPost, "/api/members", newMemberBody("Gabriela", "Silang"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var member struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &member)

	rec = api.do(t, http.MethodPost, "/api/attendance/roster", map[string]any{
		"date": "2024-05-05",
		"type": "SUNDAY_SERVICE",
		"memberAttendances": []map[string]any{
			{"memberId": member.ID, "status": "PRESENT"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var written struct {
		Success    bool `json:"success"`
		Count      int  `json:"count"`
		Attendance struct {
			ID int64 `json:"id"`
		} `json:"attendance"`
	}
	decodeBody(t, rec, &written)
	assert.True(t, written.Success)
	assert.Equal(t, 1, written.Count)
	sessionID := jsonNumber(written.Attendance.ID)

	rec = api.do(t, http.MethodPost, "/api/attendance", map[string]any{"date": "2024-05-05", "type": "SUNDAY_SERVICE"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/attendance/roster?attendanceId="+sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var roster struct {
		Members           []json.RawMessage `json:"members"`
		MemberAttendances []struct {
			MemberID int64  `json:"memberId"`
			Status   string `json:"status"`
		} `json:"memberAttendances"`
	}
	decodeBody(t, rec, &roster)
	assert.Len(t, roster.Members, 1)
	require.Len(t, roster.MemberAttendances, 1)
	assert.Equal(t, "PRESENT", roster.MemberAttendances[0].Status)

	rec = api.do(t, http.MethodPut, "/api/attendance/"+sessionID+"/roster", map[string]any{"memberAttendances": []any{}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &written)
	assert.Equal(t, 0, written.Count)

	rec = api.do(t, http.MethodPut, "/api/attendance/9999/roster", map[string]any{"memberAttendances": []any{}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOfferingStatsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	for _, body := range []map[string]any{
		{"date": "2024-06-02", "type": "TITHE", "amount": 1500.50, "receiptNumber": "OR-1"},
		{"date": "2024-06-02", "type": "OFFERING", "amount": 200, "isAnonymous": true},
	} {
		rec := api.do(t, http.MethodPost, "/api/offerings", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := api.do(t, http.MethodPost, "/api/offerings", map[string]any{"date": "2024-06-03", "type": "TITHE", "amount": 10, "receiptNumber": "OR-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/offerings/stats?startDate=2024-06-01&endDate=2024-06-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		TotalAmount    float64            `json:"totalAmount"`
		TotalRecords   int64              `json:"totalRecords"`
		AmountByType   map[string]float64 `json:"amountByType"`
		AnonymousCount int64              `json:"anonymousCount"`
	}
	decodeBody(t, rec, &stats)
	assert.Equal(t, 1700.5, stats.TotalAmount)
	assert.Equal(t, int64(2), stats.TotalRecords)
	assert.Equal(t, 1500.5, stats.AmountByType["TITHE"])
	assert.Equal(t, int64(1), stats.AnonymousCount)

	rec = api.do(t, http.MethodGet, "/api/offerings?isAnonymous=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		TotalCount  int64   `json:"totalCount"`
		TotalAmount float64 `json:"totalAmount"`
	}
	decodeBody(t, rec, &list)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, 200.0, list.TotalAmount)
}

func TestPrayerRequestOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	rec := api.do(t, http.MethodPost, "/api/prayer-requests", map[string]any{
		"title":       "Healing",
		"description": "For Lola's recovery",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/prayer-requests/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		TotalCount      int64            `json:"totalCount"`
		CountByStatus   map[string]int64 `json:"countByStatus"`
		CountByUserType map[string]int64 `json:"countByUserType"`
	}
	decodeBody(t, rec, &stats)
	assert.Equal(t, int64(1), stats.TotalCount)
	assert.Equal(t, int64(1), stats.CountByStatus["PENDING"])
	assert.Equal(t, int64(1), stats.CountByUserType["GUEST"])
}

func TestLoginRateLimit(t *testing.T) {
	api := newTestAPI(t)
	creds := map[string]string{"username": testUsername, "password": "wrong-password"}

	attempt := func(i int) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(creds))
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", &buf)
		// A fresh forwarding header per attempt must not buy a fresh bucket.
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 5; i++ {
		rec := attempt(i)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := attempt(5)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, CodeTooManyRequests, decodeError(t, rec).Code)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

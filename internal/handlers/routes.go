package handlers

import (
	"net/http"

	"churchadmin/internal/metrics"
)

// Router bundles the handlers served by the API
type Router struct {
	Middleware     *Middleware
	Health         *HealthHandler
	Auth           *AuthHandler
	Members        *MemberHandler
	Attendance     *AttendanceHandler
	Offerings      *OfferingHandler
	PrayerRequests *PrayerRequestHandler
}

// Handler registers every route and wraps the mux with logging and
// request metrics
func (rt *Router) Handler() http.Handler {
	m := rt.Middleware
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", rt.Health.Healthz)
	mux.Handle("GET /metrics", metrics.Handler())

	// Auth
	mux.HandleFunc("POST /api/auth/login", m.RateLimit(rt.Auth.Login))
	mux.HandleFunc("POST /api/auth/logout", m.Admin(rt.Auth.Logout))
	mux.HandleFunc("GET /api/auth/session", m.RequireAdmin(rt.Auth.Session))

	// Members
	mux.HandleFunc("GET /api/members", m.Admin(rt.Members.List))
	mux.HandleFunc("POST /api/members", m.Admin(rt.Members.Create))
	mux.HandleFunc("GET /api/members/{id}", m.Admin(rt.Members.Get))
	mux.HandleFunc("PUT /api/members/{id}", m.Admin(rt.Members.Update))
	mux.HandleFunc("DELETE /api/members/{id}", m.Admin(rt.Members.Delete))

	// Attendance
	mux.HandleFunc("GET /api/attendance", m.Admin(rt.Attendance.List))
	mux.HandleFunc("POST /api/attendance", m.Admin(rt.Attendance.Create))
	mux.HandleFunc("GET /api/attendance/roster", m.Admin(rt.Attendance.Roster))
	mux.HandleFunc("POST /api/attendance/roster", m.Admin(rt.Attendance.CreateWithRoster))
	mux.HandleFunc("GET /api/attendance/{id}", m.Admin(rt.Attendance.Get))
	mux.HandleFunc("PUT /api/attendance/{id}", m.Admin(rt.Attendance.Update))
	mux.HandleFunc("DELETE /api/attendance/{id}", m.Admin(rt.Attendance.Delete))
	mux.HandleFunc("PUT /api/attendance/{id}/roster", m.Admin(rt.Attendance.ReplaceRoster))

	// Offerings
	mux.HandleFunc("GET /api/offerings", m.Admin(rt.Offerings.List))
	mux.HandleFunc("POST /api/offerings", m.Admin(rt.Offerings.Create))
	mux.HandleFunc("GET /api/offerings/stats", m.Admin(rt.Offerings.Stats))
	mux.HandleFunc("GET /api/offerings/{id}", m.Admin(rt.Offerings.Get))
	mux.HandleFunc("PUT /api/offerings/{id}", m.Admin(rt.Offerings.Update))
	mux.HandleFunc("DELETE /api/offerings/{id}", m.Admin(rt.Offerings.Delete))

	// Prayer requests
	mux.HandleFunc("GET /api/prayer-requests", m.Admin(rt.PrayerRequests.List))
	mux.HandleFunc("POST /api/prayer-requests", m.Admin(rt.PrayerRequests.Create))
	mux.HandleFunc("GET /api/prayer-requests/stats", m.Admin(rt.PrayerRequests.Stats))
	mux.HandleFunc("GET /api/prayer-requests/{id}", m.Admin(rt.PrayerRequests.Get))
	mux.HandleFunc("PUT /api/prayer-requests/{id}", m.Admin(rt.PrayerRequests.Update))
	mux.HandleFunc("DELETE /api/prayer-requests/{id}", m.Admin(rt.PrayerRequests.Delete))

	return Logging(metrics.InstrumentHandler(mux))
}

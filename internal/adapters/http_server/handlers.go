// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hostelhub/internal/app"
	"hostelhub/internal/domain"
)

type Handlers struct {
	Rooms    *app.RoomService
	Bookings *app.BookingService
	Reports  *app.ReportService
	Identity *app.IdentityService
	Tokens   Verifier
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/auth/register", h.register)
	s.mux.Post("/v1/auth/login", h.login)
	s.mux.Get("/v1/rooms", h.listAvailableRooms)
	s.mux.With(OptionalAuth(h.Tokens)).Post("/v1/bookings", h.createBooking)

	s.mux.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Tokens))
		r.Get("/v1/auth/me", h.profile)
		r.Get("/v1/bookings", h.listMyBookings)
		r.Get("/v1/bookings/{id}", h.getBooking)
		r.Post("/v1/bookings/{id}/cancel", h.cancelBooking)
		r.Post("/v1/bookings/{id}/extend", h.extendBooking)
		r.Delete("/v1/bookings/{id}", h.deleteBooking)
	})

	s.mux.Route("/v1/admin", func(r chi.Router) {
		r.Use(RequireAuth(h.Tokens), RequireAdmin)
		r.Get("/rooms", h.adminListRooms)
		r.Post("/rooms", h.adminCreateRoom)
		r.Put("/rooms/{id}", h.adminUpdateRoom)
		r.Delete("/rooms/{id}", h.adminDeleteRoom)
		r.Get("/bookings", h.adminListBookings)
		r.Put("/bookings/{id}", h.adminUpdateBooking)
		r.Get("/users", h.adminListUsers)
		r.Get("/reports/occupancy", h.reportOccupancy)
		r.Get("/reports/revenue", h.reportRevenue)
		r.Get("/reports/booked-rooms", h.reportBookedRooms)
		r.Get("/reports/popular-rooms", h.reportPopularRooms)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps the domain error taxonomy onto problem responses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "not allowed")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "store temporarily unavailable")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// ---- payload shapes ----

type roomPayload struct {
	ID               string   `json:"id"`
	Number           string   `json:"number"`
	Beds             int      `json:"beds"`
	Type             string   `json:"type"`
	Floor            int      `json:"floor"`
	SelfContained    bool     `json:"selfContained"`
	Balcony          bool     `json:"balcony"`
	Available        bool     `json:"available"`
	BasePrice        float64  `json:"basePrice"`
	SeasonalPrice    *float64 `json:"seasonalPrice,omitempty"`
	UnderMaintenance bool     `json:"underMaintenance,omitempty"`
	Amenities        []string `json:"amenities,omitempty"`
}

func toRoomPayload(r domain.Room) roomPayload {
	return roomPayload{
		ID:               r.ID,
		Number:           r.Number,
		Beds:             r.Beds,
		Type:             string(r.Type),
		Floor:            r.Floor,
		SelfContained:    r.SelfContained,
		Balcony:          r.Balcony,
		Available:        r.Available,
		BasePrice:        r.BasePrice,
		SeasonalPrice:    r.SeasonalPrice,
		UnderMaintenance: r.UnderMaintenance,
		Amenities:        r.Amenities,
	}
}

func toRoomPayloads(rooms []domain.Room) []roomPayload {
	out := make([]roomPayload, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomPayload(r))
	}
	return out
}

type extensionPayload struct {
	PreviousEndDate time.Time `json:"previousEndDate"`
	NewEndDate      time.Time `json:"newEndDate"`
	AdditionalCost  float64   `json:"additionalCost"`
	ExtendedAt      time.Time `json:"extendedAt"`
}

type bookingPayload struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId,omitempty"`
	Name            string             `json:"name"`
	Course          string             `json:"course"`
	University      string             `json:"university"`
	CourseDuration  string             `json:"courseDuration"`
	StudentID       string             `json:"studentId"`
	PersonalPhone   string             `json:"personalPhone"`
	CaretakerPhone  string             `json:"caretakerPhone"`
	RoomID          string             `json:"room"`
	StartDate       time.Time          `json:"startDate"`
	EndDate         *time.Time         `json:"endDate,omitempty"`
	Price           float64            `json:"price"`
	GroupSize       int                `json:"groupSize"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"paymentStatus"`
	Extensions      []extensionPayload `json:"extensionHistory,omitempty"`
	SpecialRequests string             `json:"specialRequests,omitempty"`
	BookedAt        time.Time          `json:"bookingDate"`
}

func toBookingPayload(b domain.Booking) bookingPayload {
	p := bookingPayload{
		ID:              b.ID,
		Name:            b.Name,
		Course:          b.Course,
		University:      b.University,
		CourseDuration:  b.CourseDuration,
		StudentID:       b.StudentID,
		PersonalPhone:   b.PersonalPhone,
		CaretakerPhone:  b.CaretakerPhone,
		RoomID:          b.RoomID,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		Price:           b.Price,
		GroupSize:       b.GroupSize,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		SpecialRequests: b.SpecialRequests,
		BookedAt:        b.BookedAt,
	}
	if id, ok := b.Owner.UserID(); ok {
		p.UserID = id
	}
	for _, e := range b.Extensions {
		p.Extensions = append(p.Extensions, extensionPayload(e))
	}
	return p
}

func toBookingPayloads(bs []domain.Booking) []bookingPayload {
	out := make([]bookingPayload, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingPayload(b))
	}
	return out
}

// ---- auth ----

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
		Phone    string `json:"phone"`
	}
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	tok, err := h.Identity.Register(r.Context(), app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": tok})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	tok, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	u, err := h.Identity.Profile(r.Context(), id.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"fullName": u.FullName,
		"phone":    u.Phone,
		"role":     u.Role,
	})
}

// ---- rooms (public) ----

func (h *Handlers) listAvailableRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Rooms.List(r.Context(), domain.RoomFilter{OnlyAvailable: true})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomPayloads(rooms))
}

// ---- bookings ----

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string     `json:"name"`
		Course          string     `json:"course"`
		University      string     `json:"university"`
		CourseDuration  string     `json:"courseDuration"`
		StudentID       string     `json:"studentId"`
		PersonalPhone   string     `json:"personalPhone"`
		CaretakerPhone  string     `json:"caretakerPhone"`
		Room            string     `json:"room"`
		GroupSize       int        `json:"groupSize"`
		StartDate       *time.Time `json:"startDate"`
		EndDate         *time.Time `json:"endDate"`
		SpecialRequests string     `json:"specialRequests"`
	}
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	owner := domain.Anonymous()
	if id, ok := identityFrom(r); ok {
		owner = domain.OwnedBy(id.UserID)
	}

	b, err := h.Bookings.Create(r.Context(), app.CreateBookingInput{
		Name:            req.Name,
		Course:          req.Course,
		University:      req.University,
		CourseDuration:  req.CourseDuration,
		StudentID:       req.StudentID,
		PersonalPhone:   req.PersonalPhone,
		CaretakerPhone:  req.CaretakerPhone,
		RoomID:          req.Room,
		GroupSize:       req.GroupSize,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		SpecialRequests: req.SpecialRequests,
		Owner:           owner,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingPayload(b))
}

func (h *Handlers) listMyBookings(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	bs, err := h.Bookings.ListMine(r.Context(), id.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingPayloads(bs))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	b, err := h.Bookings.GetByID(r.Context(), chi.URLParam(r, "id"), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingPayload(b))
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	b, err := h.Bookings.Cancel(r.Context(), chi.URLParam(r, "id"), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingPayload(b))
}

func (h *Handlers) extendBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewEndDate time.Time `json:"newEndDate"`
	}
	if err := decode(r, &req); err != nil || req.NewEndDate.IsZero() {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "newEndDate is required")
		return
	}
	id, _ := identityFrom(r)
	b, err := h.Bookings.Extend(r.Context(), chi.URLParam(r, "id"), req.NewEndDate, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingPayload(b))
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	if err := h.Bookings.Delete(r.Context(), chi.URLParam(r, "id"), id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "booking removed"})
}

// ---- admin: rooms ----

type roomRequest struct {
	Number           *string   `json:"number"`
	Beds             *int      `json:"beds"`
	Type             *string   `json:"type"`
	Floor            *int      `json:"floor"`
	SelfContained    *bool     `json:"selfContained"`
	Balcony          *bool     `json:"balcony"`
	Available        *bool     `json:"available"`
	BasePrice        *float64  `json:"basePrice"`
	SeasonalPrice    **float64 `json:"seasonalPrice"`
	UnderMaintenance *bool     `json:"underMaintenance"`
	Amenities        []string  `json:"amenities"`
}

func (h *Handlers) adminListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Rooms.List(r.Context(), domain.RoomFilter{})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomPayloads(rooms))
}

func (h *Handlers) adminCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	room := domain.Room{Available: true}
	if req.Number != nil {
		room.Number = *req.Number
	}
	if req.Beds != nil {
		room.Beds = *req.Beds
	}
	if req.Type != nil {
		room.Type = domain.RoomType(*req.Type)
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	if req.SelfContained != nil {
		room.SelfContained = *req.SelfContained
	}
	if req.Balcony != nil {
		room.Balcony = *req.Balcony
	}
	if req.Available != nil {
		room.Available = *req.Available
	}
	if req.BasePrice != nil {
		room.BasePrice = *req.BasePrice
	}
	if req.SeasonalPrice != nil {
		room.SeasonalPrice = *req.SeasonalPrice
	}
	if req.UnderMaintenance != nil {
		room.UnderMaintenance = *req.UnderMaintenance
	}
	room.Amenities = req.Amenities

	created, err := h.Rooms.Create(r.Context(), room)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomPayload(created))
}

func (h *Handlers) adminUpdateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	patch := domain.RoomPatch{
		Number:           req.Number,
		Beds:             req.Beds,
		Floor:            req.Floor,
		SelfContained:    req.SelfContained,
		Balcony:          req.Balcony,
		Available:        req.Available,
		BasePrice:        req.BasePrice,
		SeasonalPrice:    req.SeasonalPrice,
		UnderMaintenance: req.UnderMaintenance,
		Amenities:        req.Amenities,
	}
	if req.Type != nil {
		rt := domain.RoomType(*req.Type)
		patch.Type = &rt
	}
	room, err := h.Rooms.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomPayload(room))
}

func (h *Handlers) adminDeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.Rooms.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "room removed"})
}

// ---- admin: bookings ----

func (h *Handlers) adminListBookings(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	bs, err := h.Bookings.ListAll(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingPayloads(bs))
}

func (h *Handlers) adminUpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status        *string `json:"status"`
		PaymentStatus *string `json:"paymentStatus"`
	}
	if err := decode(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	var st *domain.BookingStatus
	if req.Status != nil {
		v := domain.BookingStatus(*req.Status)
		st = &v
	}
	var ps *domain.PaymentStatus
	if req.PaymentStatus != nil {
		v := domain.PaymentStatus(*req.PaymentStatus)
		ps = &v
	}

	id, _ := identityFrom(r)
	b, err := h.Bookings.AdminUpdateStatus(r.Context(), chi.URLParam(r, "id"), st, ps, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingPayload(b))
}

func (h *Handlers) adminListUsers(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	users, err := h.Identity.Users(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]any{
			"id":       u.ID,
			"username": u.Username,
			"email":    u.Email,
			"fullName": u.FullName,
			"phone":    u.Phone,
			"role":     u.Role,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- admin: reports ----

func (h *Handlers) reportOccupancy(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Reports.Occupancy(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalRooms":    rep.TotalRooms,
		"occupiedRooms": rep.OccupiedRooms,
		"occupancyRate": rep.OccupancyRate,
	})
}

func (h *Handlers) reportRevenue(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Reports.Revenue(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	breakdown := make([]map[string]any, 0, len(rep.MonthlyBreakdown))
	for _, m := range rep.MonthlyBreakdown {
		breakdown = append(breakdown, map[string]any{"month": m.Month, "amount": m.Amount})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"monthly":          rep.Monthly,
		"quarterly":        rep.Quarterly,
		"annual":           rep.Annual,
		"monthlyBreakdown": breakdown,
	})
}

func (h *Handlers) reportBookedRooms(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.BookedRooms(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		entry := map[string]any{
			"roomNumber":   row.RoomNumber,
			"occupantName": row.OccupantName,
			"checkIn":      row.CheckIn,
		}
		if row.CheckOut != nil {
			entry["checkOut"] = *row.CheckOut
			entry["daysLeft"] = row.DaysLeft
		} else {
			entry["checkOut"] = "Indefinite"
			entry["daysLeft"] = "Indefinite"
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) reportPopularRooms(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.PopularRooms(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{
			"room":         toRoomPayload(row.Room),
			"bookingCount": row.BookingCount,
			"revenue":      row.Revenue,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

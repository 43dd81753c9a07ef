// Package mecalinktest provides an in-memory MecaLink API for tests.
package mecalinktest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/mecalink/admin-gateway/internal/domain"
)

type account struct {
	password string
	user     domain.User
}

// Notification is a notification received by the fake server.
type Notification struct {
	Path string
	Body map[string]any
}

type failure struct {
	status int
	msg    string
}

// Server answers the MecaLink endpoints used by the gateway from memory.
// Protected endpoints accept the tokens issued by its login endpoint.
type Server struct {
	*httptest.Server

	mu              sync.Mutex
	accounts        map[string]account
	tokens          map[string]domain.User
	Clients         []domain.User
	Garages         []domain.Garage
	Checklists      []domain.Checklist
	ServiceRequests []domain.ServiceRequest
	Advertisements  []domain.Advertisement
	Stats           domain.Stats
	Period          []domain.PeriodPoint
	Sent            []Notification
	Requests        []string
	failures        map[string]failure
}

func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		accounts: make(map[string]account),
		tokens:   make(map[string]domain.User),
		failures: make(map[string]failure),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	return s
}

// AddAccount registers credentials that the login endpoint accepts.
func (s *Server) AddAccount(password string, user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[user.Email] = account{password: password, user: user}
}

// Revoke makes every token issued so far invalid.
func (s *Server) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = make(map[string]domain.User)
}

// Fail makes "METHOD /path" answer status with msg until cleared with a
// zero status.
func (s *Server) Fail(method, path string, status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := method + " " + path
	if status == 0 {
		delete(s.failures, key)
		return
	}
	s.failures[key] = failure{status: status, msg: msg}
}

// Notifications returns the notifications received so far.
func (s *Server) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Notification{}, s.Sent...)
}

// LastRequest returns the last "METHOD /path?query" received.
func (s *Server) LastRequest() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.Requests) == 0 {
		return ""
	}
	return s.Requests[len(s.Requests)-1]
}

// Hits counts the requests made to "METHOD /path", query ignored.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.Requests {
		if strings.SplitN(r, "?", 2)[0] == method+" "+path {
			n++
		}
	}

	return n
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		line += "?" + r.URL.RawQuery
	}
	s.Requests = append(s.Requests, line)

	if f, ok := s.failures[r.Method+" "+r.URL.Path]; ok {
		reply(w, f.status, map[string]any{"success": false, "msg": f.msg})
		return
	}

	switch {
	case r.URL.Path == "/auth/login":
		s.login(w, r)
		return
	case r.URL.Path == "/diagnostic":
		s.diagnose(w, r)
		return
	}

	if _, ok := s.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]; !ok {
		reply(w, http.StatusUnauthorized, map[string]any{"success": false, "msg": "Token invalide"})
		return
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/admin/auth/me":
		ok(w, s.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")])
	case r.URL.Path == "/admin/profile" && r.Method == http.MethodPut:
		s.updateProfile(w, r)
	case r.URL.Path == "/admin/stats":
		ok(w, s.Stats)
	case r.URL.Path == "/admin/stats/period":
		ok(w, map[string]any{"data": s.Period})
	case r.URL.Path == "/admin/users" && r.Method == http.MethodGet:
		ok(w, map[string]any{"users": s.Clients})
	case r.URL.Path == "/admin/garages" && r.Method == http.MethodGet:
		ok(w, map[string]any{"garages": s.Garages})
	case r.URL.Path == "/admin/checklists":
		s.listChecklists(w, r)
	case r.URL.Path == "/admin/service-requests":
		ok(w, map[string]any{"serviceRequests": s.ServiceRequests})
	case r.URL.Path == "/advertisements" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.Advertisements)
	case r.URL.Path == "/advertisements" && r.Method == http.MethodPost:
		s.createAdvertisement(w, r)
	case len(segments) == 2 && segments[0] == "advertisements":
		s.advertisement(w, r, segments[1])
	case strings.HasPrefix(r.URL.Path, "/admin/notifications/"):
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.Sent = append(s.Sent, Notification{Path: r.URL.Path, Body: body})
		reply(w, http.StatusOK, map[string]any{"success": true, "msg": "Notification envoyée"})
	case len(segments) == 3 && segments[0] == "admin":
		s.adminItem(w, r, segments[1], segments[2])
	default:
		reply(w, http.StatusNotFound, map[string]any{"success": false, "msg": "Route introuvable"})
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&creds)

	acc, found := s.accounts[creds.Email]
	if !found || acc.password != creds.Password {
		reply(w, http.StatusBadRequest, map[string]any{"success": false, "msg": "Identifiants invalides"})
		return
	}

	token := fmt.Sprintf("token-%s-%d", acc.user.ID, len(s.Requests))
	s.tokens[token] = acc.user
	ok(w, map[string]any{"token": token, "user": acc.user})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	user := s.tokens[token]

	var update struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&update)

	acc := s.accounts[user.Email]
	delete(s.accounts, user.Email)
	user.Name, user.Email, user.Phone = update.Name, update.Email, update.Phone
	if update.Password != "" {
		acc.password = update.Password
	}
	acc.user = user
	s.accounts[user.Email] = acc
	s.tokens[token] = user

	reply(w, http.StatusOK, map[string]any{
		"success": true,
		"msg":     "Profil mis à jour avec succès",
		"data":    map[string]any{"user": user},
	})
}

func (s *Server) diagnose(w http.ResponseWriter, r *http.Request) {
	var req domain.DiagnosticRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	writeJSON(w, http.StatusOK, domain.Diagnostic{
		Diagnostic: fmt.Sprintf("Révision conseillée pour %s à %d km", req.Marque, req.Km),
	})
}

func (s *Server) listChecklists(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total := len(s.Checklists)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	pages := (total + limit - 1) / limit

	ok(w, map[string]any{
		"checklists": s.Checklists[start:end],
		"page":       page,
		"limit":      limit,
		"total":      total,
		"pages":      pages,
	})
}

func (s *Server) adminItem(w http.ResponseWriter, r *http.Request, collection, id string) {
	switch collection {
	case "users":
		for i, u := range s.Clients {
			if u.ID != id {
				continue
			}
			if r.Method == http.MethodDelete {
				s.Clients = append(s.Clients[:i:i], s.Clients[i+1:]...)
				reply(w, http.StatusOK, map[string]any{"success": true, "msg": "Utilisateur supprimé"})
				return
			}
			ok(w, u)
			return
		}
	case "garages":
		for i, g := range s.Garages {
			if g.ID != id {
				continue
			}
			if r.Method == http.MethodDelete {
				s.Garages = append(s.Garages[:i:i], s.Garages[i+1:]...)
				reply(w, http.StatusOK, map[string]any{"success": true, "msg": "Garage supprimé"})
				return
			}
			ok(w, g)
			return
		}
	case "checklists":
		for _, c := range s.Checklists {
			if c.ID == id {
				ok(w, c)
				return
			}
		}
	case "service-requests":
		for _, sr := range s.ServiceRequests {
			if sr.ID == id {
				ok(w, sr)
				return
			}
		}
	}

	reply(w, http.StatusNotFound, map[string]any{"success": false, "msg": "Ressource introuvable"})
}

func (s *Server) createAdvertisement(w http.ResponseWriter, r *http.Request) {
	ad := domain.Advertisement{ID: fmt.Sprintf("ad-%d", len(s.Advertisements)+1)}
	if err := readAdvertisement(r, &ad); err != nil {
		reply(w, http.StatusBadRequest, map[string]any{"success": false, "msg": err.Error()})
		return
	}

	s.Advertisements = append(s.Advertisements, ad)
	writeJSON(w, http.StatusCreated, ad)
}

func (s *Server) advertisement(w http.ResponseWriter, r *http.Request, id string) {
	for i, ad := range s.Advertisements {
		if ad.ID != id {
			continue
		}

		switch r.Method {
		case http.MethodDelete:
			s.Advertisements = append(s.Advertisements[:i:i], s.Advertisements[i+1:]...)
			reply(w, http.StatusOK, map[string]any{"success": true, "msg": "Publicité supprimée"})
		case http.MethodPut:
			if err := readAdvertisement(r, &ad); err != nil {
				reply(w, http.StatusBadRequest, map[string]any{"success": false, "msg": err.Error()})
				return
			}
			s.Advertisements[i] = ad
			writeJSON(w, http.StatusOK, ad)
		default:
			ok(w, ad)
		}
		return
	}

	reply(w, http.StatusNotFound, map[string]any{"success": false, "msg": "Publicité introuvable"})
}

// readAdvertisement accepts the multipart form or the JSON body sent by the
// client.
func readAdvertisement(r *http.Request, ad *domain.Advertisement) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return json.NewDecoder(r.Body).Decode(ad)
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		return err
	}
	if r.FormValue("title") == "" {
		return errors.New("le titre est requis")
	}
	ad.Title = r.FormValue("title")
	ad.Description = r.FormValue("description")
	ad.Link = r.FormValue("link")
	ad.IsActive, _ = strconv.ParseBool(r.FormValue("isActive"))
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		ad.ImageURL = "/uploads/" + files[0].Filename
	}

	return nil
}

func ok(w http.ResponseWriter, data any) {
	reply(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func reply(w http.ResponseWriter, status int, body map[string]any) {
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

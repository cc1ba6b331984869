package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/goRoles/internal"
	"github.com/MrEthical07/goRoles/internal/rate"
	"github.com/MrEthical07/goRoles/middleware"
	"github.com/gorilla/mux"
)

type callerKey struct{}

type caller struct {
	id   string
	role string
}

func (c caller) admin() bool { return c.role == RoleAdmin }

// requireAccount rejects tokens whose account no longer exists.
func (s *Server) requireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		s.mu.Lock()
		a, exists := s.accounts[claims.ID]
		var c caller
		if exists {
			c = caller{id: a.id, role: a.role}
		}
		s.mu.Unlock()

		if !exists {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, c)))
	})
}

func callerFrom(r *http.Request) caller {
	c, _ := r.Context().Value(callerKey{}).(caller)
	return c
}

/* ==== SESSION ==== */

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	email := ""
	if body.Email != nil {
		email = normalizeEmail(*body.Email)
	}
	ip := clientIP(r)

	if s.opts.Limiter != nil {
		if err := s.opts.Limiter.CheckLogin(r.Context(), email, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				writeMessage(w, http.StatusTooManyRequests, "Too many login attempts")
				return
			}
			s.opts.Logger.Error("login throttle unavailable", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Login unavailable")
			return
		}
	}

	s.mu.Lock()
	var a *account
	if id, found := s.byEmail[email]; found {
		a = s.accounts[id]
	}
	var hash, id string
	verified := false
	if a != nil {
		hash, id, verified = a.passwordHash, a.id, !a.verified.IsZero()
	}
	s.mu.Unlock()

	valid := false
	if verified {
		match, err := s.hasher.Verify(body.Password, hash)
		valid = err == nil && match
	}
	if !valid {
		if s.opts.Limiter != nil {
			if err := s.opts.Limiter.RecordFailure(r.Context(), email, ip); err != nil {
				s.opts.Logger.Warn("login failure not recorded", "error", err)
			}
		}
		writeMessage(w, http.StatusBadRequest, "Email or password is incorrect")
		return
	}
	if s.opts.Limiter != nil {
		if err := s.opts.Limiter.Reset(r.Context(), email, ip); err != nil {
			s.opts.Logger.Warn("login throttle not reset", "error", err)
		}
	}

	s.issueSession(w, id)
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid token")
		return
	}

	s.mu.Lock()
	entry, ok := s.refresh[internal.HashToken(cookie.Value)]
	valid := ok && !entry.revoked && time.Now().Before(entry.expires)
	var id string
	if valid {
		if _, exists := s.accounts[entry.accountID]; !exists {
			valid = false
		}
		// Rotation: the presented token is spent either way.
		entry.revoked = true
		id = entry.accountID
	}
	s.mu.Unlock()

	if !valid {
		writeMessage(w, http.StatusBadRequest, "Invalid token")
		return
	}
	s.issueSession(w, id)
}

func (s *Server) revokeToken(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	token := body.Token
	if token == "" {
		if cookie, err := r.Cookie(refreshCookie); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		writeMessage(w, http.StatusBadRequest, "Token is required")
		return
	}

	c := callerFrom(r)
	s.mu.Lock()
	entry, found := s.refresh[internal.HashToken(token)]
	switch {
	case !found:
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "Invalid token")
		return
	case entry.accountID != c.id && !c.admin():
		s.mu.Unlock()
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	entry.revoked = true
	s.mu.Unlock()

	writeMessage(w, http.StatusOK, "Token revoked")
}

func (s *Server) issueSession(w http.ResponseWriter, id string) {
	s.mu.Lock()
	a, ok := s.accounts[id]
	if !ok {
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "Invalid token")
		return
	}
	view := a.view()
	s.mu.Unlock()

	credential, _, err := s.tokens.Issue(view.ID, view.Role)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	refresh, err := internal.NewOpaqueToken()
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	expires := time.Now().Add(s.opts.RefreshTTL)

	s.mu.Lock()
	s.refresh[internal.HashToken(refresh)] = &refreshEntry{accountID: id, expires: expires}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    refresh,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	view.JWTToken = credential
	writeJSON(w, http.StatusOK, view)
}

/* ==== ACCOUNT ==== */

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	if body.Email == nil || normalizeEmail(*body.Email) == "" || body.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if body.Password != body.ConfirmPassword {
		writeMessage(w, http.StatusBadRequest, "Passwords must match")
		return
	}
	if !body.AcceptTerms {
		writeMessage(w, http.StatusBadRequest, "Accept Terms & Conditions is required")
		return
	}

	const registered = "Registration successful, please check your email for verification instructions"
	email := normalizeEmail(*body.Email)

	s.mu.Lock()
	_, exists := s.byEmail[email]
	s.mu.Unlock()
	if exists {
		// The existing owner is told out of band; the caller sees the same answer.
		writeMessage(w, http.StatusOK, registered)
		return
	}

	hash, err := s.hasher.Hash(body.Password)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	token, err := internal.NewOpaqueToken()
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	if _, exists := s.byEmail[email]; exists {
		s.mu.Unlock()
		writeMessage(w, http.StatusOK, registered)
		return
	}
	role := RoleUser
	if len(s.accounts) == 0 {
		role = RoleAdmin
	}
	a := s.newAccountLocked(email, hash, role)
	applyProfile(a, body)
	s.verify[internal.HashToken(token)] = a.id
	s.outbox[email] = token
	s.mu.Unlock()

	writeMessage(w, http.StatusOK, registered)
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	if internal.ValidateOpaqueToken(body.Token) != nil {
		writeMessage(w, http.StatusBadRequest, "Verification failed")
		return
	}

	key := internal.HashToken(body.Token)
	s.mu.Lock()
	id, found := s.verify[key]
	a := s.accounts[id]
	if found && a != nil {
		a.verified = time.Now()
		delete(s.verify, key)
	}
	s.mu.Unlock()

	if !found || a == nil {
		writeMessage(w, http.StatusBadRequest, "Verification failed")
		return
	}
	writeMessage(w, http.StatusOK, "Verification successful, you can now login")
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	const sent = "Please check your email for password reset instructions"
	if body.Email == nil {
		writeMessage(w, http.StatusBadRequest, "Email is required")
		return
	}
	email := normalizeEmail(*body.Email)

	token, err := internal.NewOpaqueToken()
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	if id, found := s.byEmail[email]; found {
		s.resets[internal.HashToken(token)] = resetEntry{accountID: id, expires: time.Now().Add(s.opts.ResetTTL)}
		s.outbox[email] = token
	}
	s.mu.Unlock()

	writeMessage(w, http.StatusOK, sent)
}

func (s *Server) validateResetToken(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	_, valid := s.lookupResetLocked(body.Token)
	s.mu.Unlock()

	if !valid {
		writeMessage(w, http.StatusBadRequest, "Invalid token")
		return
	}
	writeMessage(w, http.StatusOK, "Token is valid")
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	if body.Password == "" || body.Password != body.ConfirmPassword {
		writeMessage(w, http.StatusBadRequest, "Passwords must match")
		return
	}

	s.mu.Lock()
	_, valid := s.lookupResetLocked(body.Token)
	s.mu.Unlock()
	if !valid {
		writeMessage(w, http.StatusBadRequest, "Invalid token")
		return
	}

	hash, err := s.hasher.Hash(body.Password)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	entry, valid := s.lookupResetLocked(body.Token)
	var a *account
	if valid {
		a = s.accounts[entry.accountID]
	}
	if a != nil {
		a.passwordHash = hash
		a.updated = time.Now()
		if a.verified.IsZero() {
			a.verified = a.updated
		}
		delete(s.resets, internal.HashToken(body.Token))
	}
	s.mu.Unlock()

	if a == nil {
		writeMessage(w, http.StatusBadRequest, "Invalid token")
		return
	}
	writeMessage(w, http.StatusOK, "Password reset successful, you can now login")
}

func (s *Server) lookupResetLocked(token string) (resetEntry, bool) {
	if internal.ValidateOpaqueToken(token) != nil {
		return resetEntry{}, false
	}
	entry, ok := s.resets[internal.HashToken(token)]
	if !ok || !time.Now().Before(entry.expires) {
		return resetEntry{}, false
	}
	return entry, true
}

/* ==== DIRECTORY ==== */

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	if !callerFrom(r).admin() {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.mu.Lock()
	views := make([]RoleView, 0, len(s.accounts))
	for _, a := range s.accounts {
		views = append(views, a.view())
	}
	s.mu.Unlock()

	sortViews(views)
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c := callerFrom(r)
	if id != c.id && !c.admin() {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.mu.Lock()
	a, ok := s.accounts[id]
	var view RoleView
	if ok {
		view = a.view()
	}
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "Account not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	if !callerFrom(r).admin() {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	if body.Email == nil || normalizeEmail(*body.Email) == "" || body.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if body.Password != body.ConfirmPassword {
		writeMessage(w, http.StatusBadRequest, "Passwords must match")
		return
	}
	if body.Role == nil || (*body.Role != RoleAdmin && *body.Role != RoleUser) {
		writeMessage(w, http.StatusBadRequest, "Role is invalid")
		return
	}

	hash, err := s.hasher.Hash(body.Password)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	email := normalizeEmail(*body.Email)
	s.mu.Lock()
	if _, exists := s.byEmail[email]; exists {
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "Email '"+email+"' is already registered")
		return
	}
	a := s.newAccountLocked(email, hash, *body.Role)
	applyProfile(a, body)
	a.verified = a.created
	view := a.view()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c := callerFrom(r)
	if id != c.id && !c.admin() {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	if body.Password != "" && body.Password != body.ConfirmPassword {
		writeMessage(w, http.StatusBadRequest, "Passwords must match")
		return
	}

	var hash string
	if body.Password != "" {
		h, err := s.hasher.Hash(body.Password)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		hash = h
	}

	s.mu.Lock()
	a, found := s.accounts[id]
	if !found {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "Account not found")
		return
	}
	if body.Email != nil {
		email := normalizeEmail(*body.Email)
		if email != "" && email != a.email {
			if _, taken := s.byEmail[email]; taken {
				s.mu.Unlock()
				writeMessage(w, http.StatusBadRequest, "Email '"+email+"' is already taken")
				return
			}
			delete(s.byEmail, a.email)
			a.email = email
			s.byEmail[email] = a.id
		}
	}
	// Only admins may change roles.
	if !c.admin() {
		body.Role = nil
	}
	applyProfile(a, body)
	if hash != "" {
		a.passwordHash = hash
	}
	a.updated = time.Now()
	view := a.view()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c := callerFrom(r)
	if id != c.id && !c.admin() {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.mu.Lock()
	a, found := s.accounts[id]
	if found {
		delete(s.accounts, id)
		delete(s.byEmail, a.email)
		for _, entry := range s.refresh {
			if entry.accountID == id {
				entry.revoked = true
			}
		}
	}
	s.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, "Account not found")
		return
	}
	writeMessage(w, http.StatusOK, "Account deleted successfully")
}

/* ==== HELPERS ==== */

func applyProfile(a *account, body requestBody) {
	if body.Title != nil {
		a.title = *body.Title
	}
	if body.FirstName != nil {
		a.firstName = *body.FirstName
	}
	if body.LastName != nil {
		a.lastName = *body.LastName
	}
	if body.Role != nil && (*body.Role == RoleAdmin || *body.Role == RoleUser) {
		a.role = *body.Role
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request) (requestBody, bool) {
	var body requestBody
	if r.Body == nil || r.ContentLength == 0 {
		return body, true
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed request body")
		return body, false
	}
	return body, true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

package server

import (
	"net/http"

	"chorepoints/internal/model"
)

type credentialsBody struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	Username string `json:"username"`
	Points   int    `json:"points"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{Username: u.Username, Points: u.Points}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, session, err := s.auth.SignUp(r.Context(), body.Username, body.Password, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, session.Token, session.ExpiresAt)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, session, err := s.auth.SignIn(r.Context(), body.Username, body.Password, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, session.Token, session.ExpiresAt)
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := s.auth.SignOut(r.Context(), cookie.Value); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserResponse(userFrom(r)))
}

type linkTelegramBody struct {
	ChatID int64 `json:"chat_id" validate:"required"`
}

func (s *Server) handleLinkTelegram(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	var body linkTelegramBody
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.auth.LinkTelegram(r.Context(), user.ID, body.ChatID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package web

import (
	"errors"
	"log/slog"
	"net/http"

	"congrega/internal/adapters/http/middleware"
	"congrega/internal/application/forms"
	"congrega/internal/application/orchestrators"
)

// handleLoginPage handles GET /login
func (s *server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.HasSession(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", pageData{
		Title: "Entrar",
		Bare:  true,
		Form:  formView{Open: true, Input: forms.LoginInput{}},
	})
}

// handleLogin handles POST /login
func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := forms.DecodeLogin(r.PostForm)
	fv := formView{Open: true, Input: forms.LoginInput{Email: input.Email}}

	if errs := forms.Validate(input); errs != nil {
		fv.Errors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "login.html", pageData{Title: "Entrar", Bare: true, Form: fv})
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	}, orchestrators.LoginDeps{AccountStore: s.Accounts, Now: s.Now})
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, orchestrators.ErrAccountLocked):
			status = http.StatusTooManyRequests
		case !errors.Is(err, orchestrators.ErrInvalidCredentials):
			internalError(w, err)
			return
		}
		fv.Notice = &forms.Notice{Title: "Não foi possível entrar", Description: err.Error(), Error: true}
		s.render(w, r, status, "login.html", pageData{Title: "Entrar", Bare: true, Form: fv})
		return
	}

	token, err := s.sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	slog.Info("auth_event", "event", "login_success", "email", result.Email, "role", result.Role)
	s.flash.Set(w, middleware.Flash{Title: "Bem-vindo!", Description: "Sessão iniciada como " + result.Email + "."})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout handles POST /logout. The session's cache scope is dropped
// with it.
func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		s.sessions.Delete(token)
		if s.Caches != nil {
			s.Caches.Drop(token)
		}
		slog.Info("auth_event", "event", "logout")
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *server) renderPassword(w http.ResponseWriter, r *http.Request, status int, fv formView) {
	fv.Open = true
	fv.Input = forms.PasswordChangeInput{}
	s.render(w, r, status, "password.html", pageData{Title: "Alterar senha", Form: fv})
}

// handlePasswordPage handles GET /conta/senha
func (s *server) handlePasswordPage(w http.ResponseWriter, r *http.Request) {
	s.renderPassword(w, r, http.StatusOK, formView{})
}

// handleChangePassword handles POST /conta/senha
func (s *server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	input := forms.DecodePasswordChange(r.PostForm)
	if errs := forms.Validate(input); errs != nil {
		s.renderPassword(w, r, http.StatusUnprocessableEntity, formView{Errors: errs})
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: s.Accounts})
	switch {
	case errors.Is(err, orchestrators.ErrCurrentPasswordWrong):
		s.renderPassword(w, r, http.StatusUnprocessableEntity, formView{Errors: forms.FieldErrors{"current_password": err.Error()}})
	case errors.Is(err, orchestrators.ErrNewPasswordSame):
		s.renderPassword(w, r, http.StatusUnprocessableEntity, formView{Errors: forms.FieldErrors{"new_password": err.Error()}})
	case err != nil:
		internalError(w, err)
	default:
		s.flash.Set(w, middleware.Flash{Title: "Senha alterada!", Description: "Use a nova senha no próximo acesso."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

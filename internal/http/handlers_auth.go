package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/target/lexdesk/internal/domain/auth"
	apperrors "github.com/target/lexdesk/internal/errors"
	"github.com/target/lexdesk/internal/http/validation"
	"github.com/target/lexdesk/internal/service"
)

// Messages shown to the visitor. Backend detail stays in the logs.
const (
	msgLoginSuccess    = "Login successful!"
	msgSignupSuccess   = "Account created successfully!"
	msgResetSent       = "Password reset email sent!"
	msgLoginFailed     = "Invalid email or password. Please try again."
	msgSignupFailed    = "Failed to create account. Please try again."
	msgGenericFailure  = "Something went wrong. Please try again."
	msgInProgress      = "Another request is already in progress. Please wait a moment."
	msgFixBelow        = "Please fix the errors below."
	msgPasswordsDiffer = "Passwords do not match."

	defaultPostAuthPath = "/dashboard"
)

// AuthHandlers provides HTTP handlers for the credential flows.
type AuthHandlers struct {
	Auth   *service.AuthService
	UI     *UIHandlers
	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// sessionFor returns the manager for the request's client, reusing the one the
// session middleware hydrated when present.
func (h *AuthHandlers) sessionFor(r *http.Request) (*service.Manager, error) {
	if m, ok := GetManagerFromContext(r.Context()); ok {
		return m, nil
	}
	clientID := GetClientIDFromContext(r.Context())
	if clientID == "" {
		return nil, apperrors.Internalf("request is not bound to a client")
	}
	return h.Auth.Session(r.Context(), clientID), nil
}

// authForm carries every field the credential forms submit, from either a
// form-encoded or a JSON body.
type authForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
	RedirectURI     string `json:"redirect_uri"`
}

func parseAuthForm(w http.ResponseWriter, r *http.Request) (authForm, error) {
	var f authForm
	if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		if err := decodeJSONBody(w, r, &f); err != nil {
			return authForm{}, err
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			return authForm{}, apperrors.Validation("could not read form")
		}
		f = authForm{
			Email:           r.PostFormValue("email"),
			Password:        r.PostFormValue("password"),
			ConfirmPassword: r.PostFormValue("confirmPassword"),
			Name:            r.PostFormValue("name"),
			RedirectURI:     r.PostFormValue("redirect_uri"),
		}
	}
	f.Email = strings.TrimSpace(f.Email)
	return f, nil
}

// postAuthRedirect returns the safe relative destination after login or signup.
func postAuthRedirect(candidate string) string {
	if candidate == "" || safeRedirectPath(candidate) != candidate {
		return defaultPostAuthPath
	}
	return candidate
}

// formView describes one re-render of a credential form.
type formView struct {
	Meta        PageMeta
	Status      int
	Form        authForm
	Message     string
	FieldErrors map[string]string
}

func (h *AuthHandlers) renderForm(w http.ResponseWriter, r *http.Request, v formView) {
	if v.Status == 0 {
		v.Status = http.StatusOK
	}
	b := NewTemplateData(r, v.Meta).
		With("Email", v.Form.Email).
		With("Name", v.Form.Name).
		With("RedirectURI", v.Form.RedirectURI).
		WithFieldErrors(v.FieldErrors)
	if v.Message != "" {
		b.WithError(v.Message)
	}
	h.UI.Render(w, r, v.Status, b.Build())
}

// failureMessage picks the visitor-facing message for a failed operation.
func failureMessage(err error, fallback string) string {
	if apperrors.IsOperationInProgress(err) {
		return msgInProgress
	}
	return fallback
}

// LoginPage renders the login form. GET /login?redirect_uri=<optional>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{
		Meta: pageMeta(PageLogin, "Login"),
		Form: authForm{RedirectURI: r.URL.Query().Get("redirect_uri")},
	})
}

// Login exchanges credentials. POST /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	form, err := parseAuthForm(w, r)
	if err != nil {
		h.loginFailed(w, r, form, err)
		return
	}
	m, err := h.sessionFor(r)
	if err != nil {
		h.loginFailed(w, r, form, err)
		return
	}
	id, err := m.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		h.loginFailed(w, r, form, err)
		return
	}
	h.succeed(w, r, authSuccess{Identity: &id, Redirect: postAuthRedirect(form.RedirectURI), Toast: msgLoginSuccess})
}

func (h *AuthHandlers) loginFailed(w http.ResponseWriter, r *http.Request, form authForm, err error) {
	h.logger().InfoContext(r.Context(), "login rejected", "code", apperrors.GetCode(err))
	if wantsJSON(r) {
		WriteAppError(w, err)
		return
	}
	form.Password = ""
	h.renderForm(w, r, formView{
		Meta:    pageMeta(PageLogin, "Login"),
		Status:  StatusForError(err),
		Form:    form,
		Message: failureMessage(err, msgLoginFailed),
	})
}

// SignupPage renders the registration form. GET /signup.
func (h *AuthHandlers) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{
		Meta: pageMeta(PageSignup, "Sign Up"),
		Form: authForm{RedirectURI: r.URL.Query().Get("redirect_uri")},
	})
}

func validateSignup(f authForm) map[string]string {
	fv := validation.New().
		Validate("name", f.Name, validation.Required("Name", 100)).
		Validate("email", f.Email, validation.Required("Email", 254), validation.Email("Email")).
		Validate("password", f.Password, validation.Required("Password", 256))
	if f.ConfirmPassword != "" {
		fv.Validate("confirmPassword", f.ConfirmPassword, validation.Matches(msgPasswordsDiffer, f.Password))
	}
	return fv.Errors()
}

// Signup registers an account. POST /signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	form, err := parseAuthForm(w, r)
	if err != nil {
		h.signupFailed(w, r, signupFailure{Form: form, Err: err})
		return
	}
	if fieldErrs := validateSignup(form); len(fieldErrs) > 0 {
		h.signupFailed(w, r, signupFailure{Form: form, Err: apperrors.InvalidRegistration(msgFixBelow), FieldErrors: fieldErrs})
		return
	}

	m, err := h.sessionFor(r)
	if err != nil {
		h.signupFailed(w, r, signupFailure{Form: form, Err: err})
		return
	}
	id, err := m.Signup(r.Context(), service.SignupInput{
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
		Name:            form.Name,
	})
	if err != nil {
		var fieldErrs map[string]string
		if field := apperrors.GetField(err); field != "" {
			fieldErrs = map[string]string{field: capitalizeMessage(err)}
		}
		h.signupFailed(w, r, signupFailure{Form: form, Err: err, FieldErrors: fieldErrs})
		return
	}
	h.succeed(w, r, authSuccess{Identity: &id, Redirect: postAuthRedirect(form.RedirectURI), Toast: msgSignupSuccess})
}

type signupFailure struct {
	Form        authForm
	Err         error
	FieldErrors map[string]string
}

func (h *AuthHandlers) signupFailed(w http.ResponseWriter, r *http.Request, f signupFailure) {
	form, err, fieldErrs := f.Form, f.Err, f.FieldErrors
	h.logger().InfoContext(r.Context(), "signup rejected", "code", apperrors.GetCode(err))
	if wantsJSON(r) {
		if len(fieldErrs) > 0 {
			WriteJSON(w, StatusForError(err), map[string]any{
				"error":   string(apperrors.GetCode(err)),
				"message": msgFixBelow,
				"fields":  fieldErrs,
			})
			return
		}
		WriteAppError(w, err)
		return
	}

	msg := failureMessage(err, msgSignupFailed)
	switch {
	case len(fieldErrs) > 0:
		msg = msgFixBelow
		if fieldErrs["confirmPassword"] == msgPasswordsDiffer && len(fieldErrs) == 1 {
			msg = msgPasswordsDiffer
		}
	case apperrors.IsInvalidRegistration(err):
		msg = msgFixBelow
	}
	form.Password, form.ConfirmPassword = "", ""
	h.renderForm(w, r, formView{
		Meta:        pageMeta(PageSignup, "Sign Up"),
		Status:      StatusForError(err),
		Form:        form,
		Message:     msg,
		FieldErrors: fieldErrs,
	})
}

// capitalizeMessage turns a service validation message into sentence form.
func capitalizeMessage(err error) string {
	var msg string
	if appErr := asAppError(err); appErr != nil {
		msg = appErr.Message
	}
	if msg == "" {
		return msgFixBelow
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

// ForgotPasswordPage renders the reset request form. GET /forgot-password.
func (h *AuthHandlers) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{Meta: pageMeta(PageForgotPassword, "Reset Password")})
}

// ForgotPassword requests a reset email. POST /forgot-password.
func (h *AuthHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	form, err := parseAuthForm(w, r)
	if err != nil {
		h.forgotFailed(w, r, form, err)
		return
	}
	fv := validation.New().Validate("email", form.Email, validation.Required("Email", 254), validation.Email("Email"))
	if !fv.Valid() {
		h.forgotFailed(w, r, form, apperrors.ValidationField("email", fv.Errors()["email"]))
		return
	}
	m, err := h.sessionFor(r)
	if err != nil {
		h.forgotFailed(w, r, form, err)
		return
	}
	if err := m.ForgotPassword(r.Context(), form.Email); err != nil {
		h.forgotFailed(w, r, form, err)
		return
	}

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "message": msgResetSent})
		return
	}
	data := NewTemplateData(r, pageMeta(PageForgotPassword, "Reset Password")).
		With("Submitted", true).
		With("Email", form.Email).
		WithToast(msgResetSent).
		Build()
	h.UI.Render(w, r, http.StatusOK, data)
}

func (h *AuthHandlers) forgotFailed(w http.ResponseWriter, r *http.Request, form authForm, err error) {
	h.logger().InfoContext(r.Context(), "password reset rejected", "code", apperrors.GetCode(err))
	if wantsJSON(r) {
		WriteAppError(w, err)
		return
	}
	view := formView{
		Meta:    pageMeta(PageForgotPassword, "Reset Password"),
		Status:  StatusForError(err),
		Form:    form,
		Message: failureMessage(err, msgGenericFailure),
	}
	if apperrors.IsValidation(err) {
		view.Message = msgFixBelow
		view.FieldErrors = map[string]string{"email": capitalizeFieldMessage(err)}
	}
	h.renderForm(w, r, view)
}

// capitalizeFieldMessage returns a validation message already phrased for display,
// falling back to sentence-casing the service message.
func capitalizeFieldMessage(err error) string {
	if appErr := asAppError(err); appErr != nil && strings.HasSuffix(appErr.Message, ".") {
		return appErr.Message
	}
	return capitalizeMessage(err)
}

// Logout clears the session. POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	m, err := h.sessionFor(r)
	if err == nil {
		err = m.Logout(r.Context())
	}
	if err != nil {
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		if wantsJSON(r) {
			WriteAppError(w, err)
			return
		}
	}

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect_to": "/login"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// authStatus is the /auth/status payload.
type authStatus struct {
	Authenticated bool                 `json:"authenticated"`
	Loading       bool                 `json:"loading"`
	User          *domainauth.Identity `json:"user"`
	Theme         domainauth.Theme     `json:"theme"`
}

// Status reports the session state for the client. GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	m, err := h.sessionFor(r)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	st := authStatus{Loading: m.IsLoading(), Theme: GetThemeFromContext(r.Context())}
	if id, ok := m.Identity(); ok {
		st.Authenticated = true
		st.User = &id
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, st)
}

type authSuccess struct {
	Identity *domainauth.Identity
	Redirect string
	Toast    string
}

// succeed answers a completed login or signup: JSON for API callers, otherwise a
// redirect with a flash toast.
func (h *AuthHandlers) succeed(w http.ResponseWriter, r *http.Request, s authSuccess) {
	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":      "success",
			"user":        s.Identity,
			"redirect_to": s.Redirect,
		})
		return
	}
	setFlash(w, r, h.UI.Cookies, s.Toast)
	http.Redirect(w, r, s.Redirect, http.StatusSeeOther)
}

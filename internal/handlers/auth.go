package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"topodash/internal/apiclient"
	"topodash/internal/middleware"
	"topodash/internal/models"
	"topodash/internal/payload"
	"topodash/internal/session"
)

// authData is the data of a successful /auth/login response.
type authData struct {
	Token       string          `json:"token"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Role        models.UserRole `json:"role"`
	PhoneNumber string          `json:"phoneNumber"`
}

func (h *Handlers) ShowSignIn(c *gin.Context) {
	if sessionOf(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "sign_in.html", gin.H{"Title": "Connexion", "Username": ""})
}

func (h *Handlers) SignIn(c *gin.Context) {
	var form payload.SignInForm
	_ = c.ShouldBind(&form)

	form, err := payload.CleanSignIn(form)
	if err != nil {
		h.render(c, http.StatusBadRequest, "sign_in.html", gin.H{
			"Title": "Connexion", "Username": form.Username, "Error": "Identifiant et mot de passe requis",
		})
		return
	}

	var data authData
	_, err = h.api.DoPublic(c.Request.Context(), apiclient.Request{
		Method: http.MethodPost, Path: "/auth/login", Body: form,
	}, &data)
	if err != nil {
		h.log.Info("[Auth] sign-in failed", "username", form.Username, "error", err)
		h.render(c, http.StatusUnauthorized, "sign_in.html", gin.H{
			"Title": "Connexion", "Username": form.Username, "Error": err.Error(),
		})
		return
	}

	username := data.Username
	if username == "" {
		username = form.Username
	}
	err = sessionOf(c).Login(session.User{
		Username:    username,
		Email:       data.Email,
		Role:        data.Role,
		PhoneNumber: data.PhoneNumber,
		Token:       data.Token,
	})
	if err != nil {
		h.log.Error("[Auth] failed to store session", "username", username, "error", err)
		h.render(c, http.StatusInternalServerError, "sign_in.html", gin.H{
			"Title": "Connexion", "Username": form.Username, "Error": "Réponse de connexion invalide",
		})
		return
	}

	h.log.Info("[Auth] signed in", "username", username, "role", data.Role)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handlers) ShowSignUp(c *gin.Context) {
	h.render(c, http.StatusOK, "sign_up.html", gin.H{
		"Title": "Inscription", "Form": payload.SignUpForm{}, "Errors": map[string]string{},
	})
}

func (h *Handlers) SignUp(c *gin.Context) {
	var form payload.SignUpForm
	_ = c.ShouldBind(&form)

	form, err := payload.CleanSignUp(form)
	if err != nil {
		fieldErrs, _ := formErrors(err)
		if fieldErrs == nil {
			fieldErrs = map[string]string{}
		}
		h.render(c, http.StatusBadRequest, "sign_up.html", gin.H{
			"Title": "Inscription", "Form": form, "Errors": fieldErrs,
		})
		return
	}

	msg, err := h.api.DoPublic(c.Request.Context(), apiclient.Request{
		Method: http.MethodPost, Path: "/auth/register", Body: form,
	}, nil)
	if err != nil {
		h.render(c, http.StatusBadRequest, "sign_up.html", gin.H{
			"Title": "Inscription", "Form": form, "Errors": map[string]string{}, "Error": err.Error(),
		})
		return
	}

	flash(c, flashSuccess, messageOr(msg, "Compte créé, vous pouvez vous connecter"))
	c.Redirect(http.StatusFound, middleware.SignInPath)
}

func (h *Handlers) ShowForgetPassword(c *gin.Context) {
	h.render(c, http.StatusOK, "forget_password.html", gin.H{"Title": "Mot de passe oublié", "Email": ""})
}

func (h *Handlers) ForgetPassword(c *gin.Context) {
	var form payload.ForgetPasswordForm
	_ = c.ShouldBind(&form)

	form, err := payload.CleanForgetPassword(form)
	if err != nil {
		h.render(c, http.StatusBadRequest, "forget_password.html", gin.H{
			"Title": "Mot de passe oublié", "Email": form.Email, "Error": "Adresse email invalide",
		})
		return
	}

	msg, err := h.api.DoPublic(c.Request.Context(), apiclient.Request{
		Method: http.MethodPost, Path: "/auth/forgot-password", Body: form,
	}, nil)
	if err != nil {
		h.render(c, http.StatusBadRequest, "forget_password.html", gin.H{
			"Title": "Mot de passe oublié", "Email": form.Email, "Error": err.Error(),
		})
		return
	}

	flash(c, flashSuccess, messageOr(msg, "Un lien de réinitialisation a été envoyé"))
	c.Redirect(http.StatusFound, middleware.SignInPath)
}

func (h *Handlers) SignOut(c *gin.Context) {
	if err := sessionOf(c).Logout(); err != nil {
		h.log.Error("[Auth] failed to clear session", "error", err)
	}
	c.Redirect(http.StatusFound, middleware.SignInPath)
}

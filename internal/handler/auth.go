package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/godwinide/teslastockinvestment/internal/cache"
	"github.com/godwinide/teslastockinvestment/internal/config"
	"github.com/godwinide/teslastockinvestment/internal/errHandler"
	"github.com/godwinide/teslastockinvestment/internal/helper"
	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/godwinide/teslastockinvestment/internal/repository"
	"github.com/godwinide/teslastockinvestment/internal/request"
	"github.com/godwinide/teslastockinvestment/internal/response"
	"github.com/godwinide/teslastockinvestment/internal/smtp"
	"github.com/godwinide/teslastockinvestment/internal/validator"

	"github.com/cradoe/gopass"
	"github.com/google/uuid"
	"github.com/pascaldekloe/jwt"
)

const (
	accountCurrency = "$"

	passwordResetKeyPrefix = "password-reset:"
	passwordResetTTL       = 1 * time.Hour
)

type AuthHandler struct {
	UserRepo    repository.UserRepository
	AccountRepo repository.AccountRepository
	DB          repository.Database
	Cache       *cache.Cache
	Helper      helper.HelperInterface
	Mailer      smtp.MailerInterface
	ErrHandler  *errHandler.ErrorHandler
	Config      *config.Config
}

func NewAuthHandler(handler *AuthHandler) *AuthHandler {
	return &AuthHandler{
		UserRepo:    handler.UserRepo,
		AccountRepo: handler.AccountRepo,
		DB:          handler.DB,
		Cache:       handler.Cache,
		Helper:      handler.Helper,
		Mailer:      handler.Mailer,
		ErrHandler:  handler.ErrHandler,
		Config:      handler.Config,
	}
}

// New user registration involves input validation and checking that the
// email has not already been taken. The user record and their ledger account
// are inserted inside one database transaction so a failure at any point
// leaves no half-registered user behind.
func (h *AuthHandler) HandleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string              `json:"email"`
		Password  string              `json:"password"`
		FirstName string              `json:"first_name"`
		LastName  string              `json:"last_name"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	// the Validate function returns a slice of errors if the password does
	// not meet the minimum requirements; return those before checking the
	// other fields
	_, errs := gopass.Validate(input.Password)
	if errs != nil {
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	_, found, err := h.UserRepo.GetByEmail(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")
	input.Validator.Check(!found, "Email is already in use")

	input.Validator.Check(validator.NotBlank(input.FirstName), "First name is required")
	input.Validator.Check(validator.NotBlank(input.LastName), "Last name is required")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	hashedPassword, err := gopass.Hash(input.Password)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	tx, err := h.DB.BeginTx(r.Context(), nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	createdUser := &models.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		HashedPassword: hashedPassword,
	}

	userID, err := h.UserRepo.Insert(createdUser, tx)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	_, err = h.AccountRepo.Insert(&models.Account{
		UserID:   userID,
		Currency: accountCurrency,
	}, tx)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err = tx.Commit(); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		emailData := h.Helper.NewEmailData()
		emailData["Name"] = createdUser.FirstName + " " + createdUser.LastName
		emailData["PlatformName"] = PlatformName

		err := h.Mailer.Send(createdUser.Email, emailData, "welcome.tmpl")
		if err != nil {
			log.Printf("Error sending welcome email: %v", err)
			return err
		}

		return nil
	})

	message := "Account created successfully"
	err = response.JSONCreatedResponse(w, nil, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *AuthHandler) HandleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string              `json:"email"`
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	user, found, err := h.UserRepo.GetByEmail(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")
	input.Validator.Check(found, "Incorrect email/password")

	if found {
		passwordMatches, err := gopass.ComparePasswordAndHash(input.Password, user.HashedPassword)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}

		input.Validator.Check(validator.NotBlank(input.Password), "Password is required")
		input.Validator.Check(passwordMatches, "Incorrect email/password")
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	var claims jwt.Claims
	claims.Subject = user.ID

	expiry := time.Now().Add(24 * time.Hour)
	claims.Issued = jwt.NewNumericTime(time.Now())
	claims.NotBefore = jwt.NewNumericTime(time.Now())
	claims.Expires = jwt.NewNumericTime(expiry)

	claims.Issuer = h.Config.BaseURL
	claims.Audiences = []string{h.Config.BaseURL}

	jwtBytes, err := claims.HMACSign(jwt.HS256, []byte(h.Config.Jwt.SecretKey))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"auth_token":   string(jwtBytes),
		"token_expiry": expiry.Format(time.RFC3339),
	}
	message := "Login successful"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleForgotPassword always responds with the same message whether or not
// the email exists, so the endpoint cannot be used to probe for accounts.
// The reset code lives in the cache with a short expiry.
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string              `json:"email"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	user, found, err := h.UserRepo.GetByEmail(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if found {
		code := uuid.NewString()

		err = h.Cache.Set(passwordResetKeyPrefix+code, user.ID, passwordResetTTL)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}

		h.Helper.BackgroundTask(r, func() error {
			emailData := h.Helper.NewEmailData()
			emailData["Name"] = user.FirstName + " " + user.LastName
			emailData["ResetLink"] = h.Config.BaseURL + "/auth/reset-password?code=" + code

			err := h.Mailer.Send(user.Email, emailData, "password-reset.tmpl")
			if err != nil {
				log.Printf("Error sending password reset email: %v", err)
				return err
			}

			return nil
		})
	}

	message := "If an account exists for that email, a reset link has been sent"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Code      string              `json:"code"`
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Code), "Reset code is required")

	_, errs := gopass.Validate(input.Password)
	if errs != nil {
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	userID, err := h.Cache.Get(passwordResetKeyPrefix + input.Code)
	if err != nil || userID == "" {
		h.ErrHandler.FailedValidation(w, r, []string{"Reset code is invalid or has expired"})
		return
	}

	hashedPassword, err := gopass.Hash(input.Password)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	err = h.UserRepo.UpdatePassword(userID, hashedPassword)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	// the code is single use
	if err := h.Cache.Delete(passwordResetKeyPrefix + input.Code); err != nil {
		log.Printf("Error deleting used password reset code: %v", err)
	}

	message := "Password reset successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

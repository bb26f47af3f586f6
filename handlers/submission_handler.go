package handlers

import (
	"net/http"

	apperrors "github.com/formgate/formgate-backend/errors"
	"github.com/formgate/formgate-backend/internal/store"
	"github.com/formgate/formgate-backend/internal/validation"
	"github.com/formgate/formgate-backend/logger"
	"github.com/formgate/formgate-backend/services"
	"github.com/formgate/formgate-backend/types"
	"github.com/gin-gonic/gin"
)

// SubmissionHandler runs the intake pipeline shared by every form:
// validate -> insert -> render/send -> update status -> respond.
// Each endpoint differs only in its field specs and response copy.
type SubmissionHandler struct {
	store store.SubmissionStore
	email *services.EmailService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionStore store.SubmissionStore, email *services.EmailService) *SubmissionHandler {
	return &SubmissionHandler{store: submissionStore, email: email}
}

// SubmitContact godoc
// @Summary      Submit the contact form
// @Description  Validates and stores a contact submission, then emails the admin and the submitter
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      types.ContactCreate  true  "Contact payload"
// @Success      200   {object}  types.SubmitResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      429   {object}  types.ErrorResponse
// @Failure      500   {object}  types.ErrorResponse
// @Router       /api/contact/submit [post]
func (h *SubmissionHandler) SubmitContact(c *gin.Context) {
	var req types.ContactCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	h.process(c, types.FormContact, validation.ContactFields(), map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"phone":    req.Phone,
		"category": req.Category,
		"age":      req.Age,
		"message":  req.Message,
	}, "Your message has been sent. Thank you for reaching out!")
}

// SubmitSignup godoc
// @Summary      Submit the signup form
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        body  body      types.SignupCreate  true  "Signup payload"
// @Success      200   {object}  types.SubmitResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      500   {object}  types.ErrorResponse
// @Router       /api/signup [post]
func (h *SubmissionHandler) SubmitSignup(c *gin.Context) {
	var req types.SignupCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	h.process(c, types.FormSignup, validation.SignupFields(), map[string]string{
		"name":  req.Name,
		"email": req.Email,
		"phone": req.Phone,
	}, "Signup successful. Check your inbox for a confirmation email.")
}

// SubmitSubdomainContact godoc
// @Summary      Submit the sub-domain contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      types.SubdomainContactCreate  true  "Contact payload"
// @Success      200   {object}  types.SubmitResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      429   {object}  types.ErrorResponse
// @Failure      500   {object}  types.ErrorResponse
// @Router       /subdomain-contact/submit [post]
func (h *SubmissionHandler) SubmitSubdomainContact(c *gin.Context) {
	var req types.SubdomainContactCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	h.process(c, types.FormSubdomainContact, validation.SubdomainContactFields(), map[string]string{
		"name":  req.Name,
		"email": req.Email,
		"phone": req.Phone,
	}, "Your message has been sent. Thank you for reaching out!")
}

// process is the shared pipeline. Nothing is persisted before validation
// passes; a dispatch failure still leaves the submission recorded, marked
// failed.
func (h *SubmissionHandler) process(c *gin.Context, form types.FormKind, specs []validation.FieldSpec, input map[string]string, successMsg string) {
	log := logger.GetLogger()

	normalized, fieldErrs := validation.Validate(specs, input)
	if len(fieldErrs) > 0 {
		_ = c.Error(apperrors.ValidationFailed(fieldErrs))
		return
	}

	sub := &types.Submission{
		Form:     form,
		Name:     normalized["name"],
		Email:    normalized["email"],
		Phone:    normalized["phone"],
		Category: normalized["category"],
		Age:      normalized["age"],
		Message:  normalized["message"],
		IP:       c.ClientIP(),
	}

	id, err := h.store.Insert(c.Request.Context(), sub)
	if err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ServerError, "Failed to record submission"))
		return
	}

	log.Infow("Submission accepted",
		"submission_id", id,
		"form", form,
		"email", logger.MaskEmail(sub.Email))

	dispatchErr := h.dispatch(c, sub)
	if dispatchErr != nil {
		if updateErr := h.store.UpdateStatus(c.Request.Context(), id, types.StatusFailed, dispatchErr.Error()); updateErr != nil {
			log.Errorw("Failed to mark submission failed", "submission_id", id, "error", updateErr)
		}

		if apperrors.IsConfiguration(dispatchErr) {
			_ = c.Error(dispatchErr)
			return
		}
		_ = c.Error(apperrors.DispatchFailed(dispatchErr))
		return
	}

	if err := h.store.UpdateStatus(c.Request.Context(), id, types.StatusCompleted, ""); err != nil {
		log.Errorw("Failed to mark submission completed", "submission_id", id, "error", err)
	}

	c.JSON(http.StatusOK, types.SubmitResponse{
		Success: true,
		Message: successMsg,
		Data: types.SubmissionData{
			ID:    id,
			Name:  sub.Name,
			Email: sub.Email,
		},
	})
}

func (h *SubmissionHandler) dispatch(c *gin.Context, sub *types.Submission) error {
	if h.email == nil {
		return apperrors.ConfigurationFailed("Email transport is not configured", "")
	}
	return h.email.DispatchSubmissionEmails(c.Request.Context(), sub)
}

// ListContacts godoc
// @Summary      List contact submissions
// @Description  Diagnostics listing of in-memory contact submissions, in insertion order
// @Tags         contact
// @Produce      json
// @Success      200  {object}  types.ListResponse
// @Router       /api/contact/submissions [get]
func (h *SubmissionHandler) ListContacts(c *gin.Context) {
	h.list(c, types.FormContact)
}

// ListSignups godoc
// @Summary      List signups
// @Tags         signup
// @Produce      json
// @Success      200  {object}  types.ListResponse
// @Router       /api/signup/signups [get]
func (h *SubmissionHandler) ListSignups(c *gin.Context) {
	h.list(c, types.FormSignup)
}

// ListSubdomainContacts godoc
// @Summary      List sub-domain contact submissions
// @Tags         contact
// @Produce      json
// @Success      200  {object}  types.ListResponse
// @Router       /subdomain-contact/submissions [get]
func (h *SubmissionHandler) ListSubdomainContacts(c *gin.Context) {
	h.list(c, types.FormSubdomainContact)
}

func (h *SubmissionHandler) list(c *gin.Context, form types.FormKind) {
	subs, err := h.store.List(c.Request.Context(), form)
	if err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ServerError, "Failed to list submissions"))
		return
	}

	c.JSON(http.StatusOK, types.ListResponse{
		Success: true,
		Count:   len(subs),
		Data:    subs,
	})
}

func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.InvalidPayload(err.Error()))
		return false
	}
	return true
}

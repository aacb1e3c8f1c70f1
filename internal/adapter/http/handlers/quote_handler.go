package handlers

import (
	request "client_portal/internal/adapter/http/dto/request"
	response "client_portal/internal/adapter/http/dto/response"
	"client_portal/internal/adapter/http/middleware"
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase"
	"client_portal/pkg"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequest   = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errInvalidSignature = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Signature must be a base64 encoded PNG", http.StatusBadRequest)
	errMissingActor     = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid bearer token", http.StatusUnauthorized)
)

// QuoteHandler exposes the quote lifecycle over HTTP. Every route runs behind
// the auth middleware; authorization itself is decided by the use case.

type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

// GenerateQuote creates the project's quote, or resends it while pending.
//
// @Summary  Generate or resend the project quote
// @Tags     quotes
// @Security Bearer
// @Produce  json
// @Param    project_id path string true "Project ID"
// @Success  201 {object} response.QuoteResultResponse
// @Success  200 {object} response.QuoteResultResponse
// @Failure  409 {object} pkg.HTTPError
// @Router   /projects/{project_id}/quote [post]
func (h *QuoteHandler) GenerateQuote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")
	log.Printf("[quote][handler] generate start project_id=%s actor_id=%s", projectID, actor.ID)

	res, err := h.usecase.Generate(c.Request.Context(), actor, projectID)
	if err != nil {
		h.fail(c, err)
		return
	}
	status := http.StatusOK
	if res.Event == usecase.TransitionCreated {
		status = http.StatusCreated
	}
	log.Printf("[quote][handler] generate success project_id=%s quote_id=%s event=%s warnings=%d", projectID, res.Quote.ID, res.Event, len(res.Warnings))
	c.JSON(status, response.FromQuoteResult(res))
}

// GetProjectQuote returns the quote of a project.
//
// @Summary  Get the project quote
// @Tags     quotes
// @Security Bearer
// @Produce  json
// @Param    project_id path string true "Project ID"
// @Success  200 {object} response.QuoteResponse
// @Failure  404 {object} pkg.HTTPError
// @Router   /projects/{project_id}/quote [get]
func (h *QuoteHandler) GetProjectQuote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	q, err := h.usecase.GetByProjectID(c.Request.Context(), actor, c.Param("project_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

// @Summary  Get a quote
// @Tags     quotes
// @Security Bearer
// @Produce  json
// @Param    quote_id path string true "Quote ID"
// @Success  200 {object} response.QuoteResponse
// @Failure  404 {object} pkg.HTTPError
// @Router   /quotes/{quote_id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	q, err := h.usecase.GetByID(c.Request.Context(), actor, c.Param("quote_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

// GetQuoteDocument streams the current PDF: signed once signed, unsigned before.
//
// @Summary  Download the quote PDF
// @Tags     quotes
// @Security Bearer
// @Produce  application/pdf
// @Param    quote_id path string true "Quote ID"
// @Success  200 {file} binary
// @Router   /quotes/{quote_id}/document [get]
func (h *QuoteHandler) GetQuoteDocument(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	q, data, err := h.usecase.Document(c.Request.Context(), actor, c.Param("quote_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	name := entities.QuoteTitle(q.Number)
	if q.SignedDocumentURL != "" {
		name += "-signed"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, name))
	c.Data(http.StatusOK, "application/pdf", data)
}

// SignQuote stamps the client's signature and moves the quote to signed.
//
// @Summary  Sign a pending quote
// @Tags     quotes
// @Security Bearer
// @Accept   json
// @Produce  json
// @Param    quote_id path string true "Quote ID"
// @Param    body body request.SignQuoteRequest true "Base64 PNG signature"
// @Success  200 {object} response.QuoteResultResponse
// @Failure  409 {object} pkg.HTTPError
// @Failure  422 {object} pkg.HTTPError
// @Router   /quotes/{quote_id}/sign [post]
func (h *QuoteHandler) SignQuote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quoteID := c.Param("quote_id")

	var payload request.SignQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}
	signature, err := payload.DecodeSignature()
	if err != nil {
		log.Printf("[quote][handler] signature not decodable quote_id=%s err=%v", quoteID, err)
		c.JSON(errInvalidSignature.HTTPStatus, errInvalidSignature.ToHTTPError())
		return
	}
	log.Printf("[quote][handler] sign start quote_id=%s actor_id=%s", quoteID, actor.ID)

	res, err := h.usecase.Sign(c.Request.Context(), actor, quoteID, signature)
	if err != nil {
		h.fail(c, err)
		return
	}
	log.Printf("[quote][handler] sign success quote_id=%s warnings=%d", quoteID, len(res.Warnings))
	c.JSON(http.StatusOK, response.FromQuoteResult(res))
}

// @Summary  Cancel a pending quote
// @Tags     quotes
// @Security Bearer
// @Produce  json
// @Param    quote_id path string true "Quote ID"
// @Success  200 {object} response.QuoteResponse
// @Failure  409 {object} pkg.HTTPError
// @Router   /quotes/{quote_id}/cancel [post]
func (h *QuoteHandler) CancelQuote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	q, err := h.usecase.Cancel(c.Request.Context(), actor, c.Param("quote_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

// ReplayFanOut re-runs the signed side effects. Staff only.
//
// @Summary  Replay signed side effects
// @Tags     quotes
// @Security Bearer
// @Produce  json
// @Param    quote_id path string true "Quote ID"
// @Success  200 {object} response.QuoteResultResponse
// @Router   /quotes/{quote_id}/fanout/replay [post]
func (h *QuoteHandler) ReplayFanOut(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	res, err := h.usecase.ReplayFanOut(c.Request.Context(), actor, c.Param("quote_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuoteResult(res))
}

// ListQuoteInvoices returns the invoices billed for a quote.
//
// @Summary  List quote invoices
// @Tags     quotes
// @Security Bearer
// @Produce  json
// @Param    quote_id path string true "Quote ID"
// @Success  200 {array}  response.InvoiceResponse
// @Failure  404 {object} pkg.HTTPError
// @Router   /quotes/{quote_id}/invoices [get]
func (h *QuoteHandler) ListQuoteInvoices(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	list, err := h.usecase.Invoices(c.Request.Context(), actor, c.Param("quote_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromInvoices(list))
}

func (h *QuoteHandler) actor(c *gin.Context) (entities.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok || actor.ID == "" {
		c.JSON(errMissingActor.HTTPStatus, errMissingActor.ToHTTPError())
		return entities.Actor{}, false
	}
	return actor, true
}

func (h *QuoteHandler) fail(c *gin.Context, err error) {
	appErr := mapQuoteError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Printf("[quote][handler] request failed path=%s code=%s err=%v", c.FullPath(), appErr.Code, err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapQuoteError(err error) *pkg.AppError {
	var conflict *usecase.QuoteConflictError
	switch {
	case errors.As(err, &conflict):
		return pkg.NewDomainErrorSimple(usecase.CodeConflict, "Project already has a closed quote", http.StatusConflict).
			WithDetail("quote_id", conflict.QuoteID).
			WithDetail("status", string(conflict.Status))
	case errors.Is(err, usecase.ErrInvalidQuoteID), errors.Is(err, usecase.ErrInvalidProjectID), errors.Is(err, usecase.ErrInvalidQuoteInput):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRenderFailure):
		return pkg.NewDomainError(usecase.CodeRenderFailure, "Document could not be rendered", err, http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrInvalidSignature):
		return pkg.NewDomainError("INVALID_REQUEST", "Signature is required", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple(usecase.CodeNotFound, "Quote not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple(usecase.CodeNotFound, "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrForbidden):
		return pkg.NewDomainErrorSimple(usecase.CodeForbidden, "Not allowed to manage this quote", http.StatusForbidden)
	case errors.Is(err, usecase.ErrInvalidState):
		return pkg.NewDomainError(usecase.CodeInvalidState, "Quote is no longer pending", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrStorageFailure):
		return pkg.NewDomainError(usecase.CodeStorageFailure, "Storage is unavailable, try again", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

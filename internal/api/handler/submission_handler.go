package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/microtasks/internal/api/metrics"
	"github.com/99minutos/microtasks/internal/core/ports"
)

// IdempotencyHeader lets clients retry POST /api/submissions safely.
const IdempotencyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// SubmissionHandler handles HTTP requests for the submission ledger.
type SubmissionHandler struct {
	service ports.SubmissionService
}

func NewSubmissionHandler(service ports.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Create handles POST /api/submissions.
//
// @Summary      Submit evidence for a task
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                   false  "Client key for safe retries"
// @Param        body             body      createSubmissionRequest  true   "Submission"
// @Success      201              {object}  createSubmissionResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/submissions [post]
func (h *SubmissionHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createSubmissionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(IdempotencyHeader))
	if len(key) > maxIdempotencyKeyLen {
		return echo.NewHTTPError(http.StatusBadRequest, "idempotency key too long")
	}

	res, err := h.service.CreateSubmission(c.Request().Context(), ports.CreateSubmissionInput{
		Caller:         caller,
		TaskID:         req.TaskID,
		Evidence:       req.Evidence,
		IdempotencyKey: key,
	})
	if err != nil {
		return err
	}

	if res.Replayed {
		metrics.SubmissionsCreatedTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, createSubmissionResponse{
			Message:  "submission created",
			ID:       res.ID,
			Replayed: true,
		})
	}

	metrics.SubmissionsCreatedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, createSubmissionResponse{Message: "submission created", ID: res.ID})
}

// List handles GET /api/submissions. Admins see every submission with the
// submitter's name; other callers see only their own.
//
// @Summary      List submissions
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   submissionResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/submissions [get]
func (h *SubmissionHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	subs, err := h.service.ListSubmissions(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSubmissionResponses(subs))
}

// Mine handles GET /api/submissions/mine.
//
// @Summary      List own submissions
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   submissionResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/submissions/mine [get]
func (h *SubmissionHandler) Mine(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	subs, err := h.service.ListOwnSubmissions(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSubmissionResponses(subs))
}

// Review handles PUT /api/submissions/:id.
//
// @Summary      Approve or reject a submission
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                      true  "Submission ID"
// @Param        body  body      reviewSubmissionRequest  true  "New status (approved or rejected)"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/submissions/{id} [put]
func (h *SubmissionHandler) Review(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid submission id")
	}

	var req reviewSubmissionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.service.ReviewSubmission(c.Request().Context(), ports.ReviewInput{
		Caller:       caller,
		SubmissionID: id,
		Status:       req.Status,
	}); err != nil {
		return err
	}

	metrics.SubmissionsReviewedTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "status updated"})
}

package waitlist

import (
	"errors"
	"net/http"

	"github.com/akeren/waitlist-foundry/config/router"
	apperrors "github.com/akeren/waitlist-foundry/pkg/errors"
)

func NewWaitlistController(service WaitlistService) *router.RESTController {
	return router.NewRESTController(
		"WaitlistController",
		"/api/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			// AbuseFilter owns the per-client limit for submissions.
			c.WithoutRouterRateLimit(rs)
			rs.AddPostHandler(c, nil, "", submitWaitlistEntryHandler(service))
		},
	)
}

func submitWaitlistEntryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		body, err := ctx.GetRawData()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return router.BodyResult(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Request payload too large"})
			}
			logger.Warn("Failed to read waitlist request body", "error", err)
		}

		req := DecodeSubmission(body)
		req.UserAgent = ctx.GetHeader("User-Agent")
		req.Referrer = ctx.GetHeader("Referer")
		req.ForwardedFor = ctx.GetHeader("X-Forwarded-For")

		if err := service.Submit(ctx.Request.Context(), &req); err != nil {
			status := apperrors.HTTPStatusCode(err)
			message := apperrors.GetHumanReadableMessage(err)
			if status == http.StatusInternalServerError {
				message = MessageSomethingWentWrong
			}
			return router.BodyResult(status, ErrorResponse{Error: message})
		}

		return router.BodyResult(http.StatusOK, SubmissionResponse{Success: true})
	}
}

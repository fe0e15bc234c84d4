package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/akeren/waitlist-foundry/config/router"
	"github.com/akeren/waitlist-foundry/domain/waitlist"
	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/internal/models"
	"github.com/akeren/waitlist-foundry/pkg/constants"
	apperrors "github.com/akeren/waitlist-foundry/pkg/errors"
)

//go:generate mockgen -source=controller.go -destination=mock_lister.go -package=admin

// EntryLister is the read side of the waitlist service.
type EntryLister interface {
	ListEntries(ctx context.Context, filter string) ([]*models.WaitlistEntry, error)
}

func NewAdminController(lister EntryLister, creds Credentials, productName string, logger *log.Logger) *router.RESTController {
	if productName == "" {
		productName = constants.DefaultProductName
	}
	title := fmt.Sprintf("%s Waitlist", productName)

	return router.NewRESTController(
		"AdminController",
		"/admin",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, nil, "waitlist", listEntriesHandler(lister, title), BasicAuth(creds, logger))
		},
	)
}

func listEntriesHandler(lister EntryLister, title string) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var query ListQuery
		if err := ctx.ShouldBindQuery(&query); err != nil {
			logger.Warn("Invalid admin listing query", "error", err)
			return router.BadRequestResult("Invalid query parameters", apperrors.FormatValidationErrors(err, &query))
		}

		entries, err := lister.ListEntries(ctx.Request.Context(), query.Query)
		if err != nil {
			return router.BodyResult(apperrors.HTTPStatusCode(err), waitlist.ErrorResponse{Error: apperrors.GetHumanReadableMessage(err)})
		}

		if query.Format == FormatJSON {
			resp := ListResponse{Total: len(entries), Entries: make([]waitlist.EntryResponse, 0, len(entries))}
			for _, entry := range entries {
				resp.Entries = append(resp.Entries, waitlist.ToEntryResponse(entry))
			}
			return router.BodyResult(http.StatusOK, resp)
		}

		return router.HTMLResult(http.StatusOK, listTemplate, listTemplateName, pageData{
			Title: title,
			Query: query.Query,
			Total: len(entries),
			Rows:  toPageRows(entries),
		})
	}
}

func toPageRows(entries []*models.WaitlistEntry) []pageRow {
	rows := make([]pageRow, 0, len(entries))
	for _, entry := range entries {
		source := entry.Source
		if source == "" {
			source = constants.DirectSource
		}
		rows = append(rows, pageRow{
			Time:      entry.FormattedTimestamp(),
			Email:     entry.Email,
			Source:    source,
			UserAgent: entry.UserAgent,
		})
	}
	return rows
}

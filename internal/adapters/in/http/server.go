package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"returnsync/internal/core/application/usecases/commands"
	"returnsync/internal/core/application/usecases/queries"
	"returnsync/internal/core/domain/model/discrepancy"
	"returnsync/internal/core/domain/model/kernel"
	"returnsync/internal/core/domain/model/returns"
	"returnsync/internal/core/ports"
	"returnsync/internal/pkg/errs"
	"returnsync/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

const defaultAuditLimit = 50

// Server exposes the operational HTTP surface: return intake, QC actions,
// read-side queries over returns and discrepancies, the audit trail and a
// manual sync trigger. It coordinates between HTTP handlers and application
// use cases.
type Server struct {
	// Command handlers
	createReturnHandler       commands.CreateReturnCommandHandler
	reopenReturnHandler       commands.ReopenReturnCommandHandler
	resolveDiscrepancyHandler commands.ResolveDiscrepancyCommandHandler
	syncReturnsHandler        commands.SyncReturnsCommandHandler

	// Query handlers
	getOpenDiscrepanciesHandler queries.GetOpenDiscrepanciesQueryHandler
	getReturnsByStatusHandler   queries.GetReturnsByStatusQueryHandler

	auditRepository ports.AuditRepository
	runLock         ports.RunLock
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	createReturnHandler commands.CreateReturnCommandHandler,
	reopenReturnHandler commands.ReopenReturnCommandHandler,
	resolveDiscrepancyHandler commands.ResolveDiscrepancyCommandHandler,
	syncReturnsHandler commands.SyncReturnsCommandHandler,
	getOpenDiscrepanciesHandler queries.GetOpenDiscrepanciesQueryHandler,
	getReturnsByStatusHandler queries.GetReturnsByStatusQueryHandler,
	auditRepository ports.AuditRepository,
	runLock ports.RunLock,
) *Server {
	return &Server{
		createReturnHandler:         createReturnHandler,
		reopenReturnHandler:         reopenReturnHandler,
		resolveDiscrepancyHandler:   resolveDiscrepancyHandler,
		syncReturnsHandler:          syncReturnsHandler,
		getOpenDiscrepanciesHandler: getOpenDiscrepanciesHandler,
		getReturnsByStatusHandler:   getReturnsByStatusHandler,
		auditRepository:             auditRepository,
		runLock:                     runLock,
	}
}

// RegisterRoutes wires the server's handlers onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/returns", s.CreateReturn)
	e.GET("/api/v1/returns", s.GetReturnsByStatus)
	e.POST("/api/v1/returns/:id/reopen", s.ReopenReturn)
	e.GET("/api/v1/discrepancies", s.GetOpenDiscrepancies)
	e.POST("/api/v1/discrepancies/:id/resolve", s.ResolveDiscrepancy)
	e.GET("/api/v1/audit", s.GetRecentAuditEntries)
	e.POST("/api/v1/sync", s.TriggerSync)
}

// CreateReturn handles POST /api/v1/returns - registers a return at intake.
func (s *Server) CreateReturn(ctx echo.Context) error {
	var request NewReturnRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	items := make([]returns.ReturnItem, 0, len(request.Items))
	for _, line := range request.Items {
		condition, err := returns.ConditionFromString(line.Condition)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid item condition: " + line.Condition,
			})
		}

		item, err := returns.NewReturnItem(line.SKU, line.Quantity, condition)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid return item: " + err.Error(),
			})
		}
		items = append(items, item)
	}

	returnID := kernel.NewUUID()
	cmd, err := commands.NewCreateReturnCommand(
		returnID,
		request.OrderRef,
		request.TrackingID,
		request.ProcessedBy,
		items,
		request.ShippedUnits,
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid return data: " + err.Error(),
		})
	}

	if handleErr := s.createReturnHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create return",
		})
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: returnID.String()})
}

// GetReturnsByStatus handles GET /api/v1/returns?status=... - lists returns
// in one lifecycle status.
func (s *Server) GetReturnsByStatus(ctx echo.Context) error {
	status, err := returns.StatusFromString(ctx.QueryParam("status"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid status: " + ctx.QueryParam("status"),
		})
	}

	query, err := queries.NewGetReturnsByStatusQuery(status)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid query: " + err.Error(),
		})
	}

	rows, err := s.getReturnsByStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve returns",
		})
	}

	response := make([]Return, len(rows))
	for i, row := range rows {
		response[i] = Return{
			ID:         row.ID.String(),
			OrderRef:   row.OrderRef,
			TrackingID: row.TrackingID,
			Status:     row.Status.String(),
			CreatedAt:  row.CreatedAt,
			VerifiedAt: row.VerifiedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ReopenReturn handles POST /api/v1/returns/:id/reopen - moves a terminal
// return back to InProgress for re-verification.
func (s *Server) ReopenReturn(ctx echo.Context) error {
	returnID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid return id",
		})
	}

	cmd, err := commands.NewReopenReturnCommand(returnID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid reopen request: " + err.Error(),
		})
	}

	if handleErr := s.reopenReturnHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		if errors.Is(handleErr, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Return not found",
			})
		}
		if errors.Is(handleErr, errs.ErrValueIsInvalid) {
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: "Return cannot be reopened: " + handleErr.Error(),
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to reopen return",
		})
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOpenDiscrepancies handles GET /api/v1/discrepancies - lists unresolved
// discrepancies, oldest first.
func (s *Server) GetOpenDiscrepancies(ctx echo.Context) error {
	query := queries.NewGetOpenDiscrepanciesQuery()

	rows, err := s.getOpenDiscrepanciesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve discrepancies",
		})
	}

	response := make([]Discrepancy, len(rows))
	for i, row := range rows {
		response[i] = Discrepancy{
			ID:        row.ID.String(),
			ReturnID:  row.ReturnID.String(),
			SKU:       row.SKU,
			Type:      row.Type.String(),
			Note:      row.Note,
			CreatedAt: row.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ResolveDiscrepancy handles POST /api/v1/discrepancies/:id/resolve - closes
// a discrepancy with the operator's note.
func (s *Server) ResolveDiscrepancy(ctx echo.Context) error {
	discrepancyID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid discrepancy id",
		})
	}

	var request ResolveDiscrepancyRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewResolveDiscrepancyCommand(discrepancyID, request.Note)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid resolve request: " + err.Error(),
		})
	}

	if handleErr := s.resolveDiscrepancyHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		if errors.Is(handleErr, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Discrepancy not found",
			})
		}
		if errors.Is(handleErr, discrepancy.ErrAlreadyResolved) {
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: "Discrepancy is already resolved",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to resolve discrepancy",
		})
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetRecentAuditEntries handles GET /api/v1/audit?limit=... - returns the
// newest audit entries first.
func (s *Server) GetRecentAuditEntries(ctx echo.Context) error {
	limit := defaultAuditLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid limit: " + raw,
			})
		}
		limit = parsed
	}

	entries, err := s.auditRepository.GetRecent(ctx.Request().Context(), limit)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve audit entries",
		})
	}

	response := make([]AuditEntry, len(entries))
	for i, entry := range entries {
		var returnID *string
		if entry.ReturnID() != nil {
			id := entry.ReturnID().String()
			returnID = &id
		}

		response[i] = AuditEntry{
			ID:         entry.ID().String(),
			EventID:    entry.EventID(),
			TrackingID: entry.TrackingID(),
			ReturnID:   returnID,
			Decision:   entry.Decision().String(),
			Reason:     entry.Reason(),
			CreatedAt:  entry.CreatedAt(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// TriggerSync handles POST /api/v1/sync - runs one delta reconciliation
// immediately instead of waiting for the next scheduled tick. Responds 409
// when another run already holds the lock.
func (s *Server) TriggerSync(ctx echo.Context) error {
	requestCtx := ctx.Request().Context()

	acquired, err := s.runLock.TryAcquire(requestCtx)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to acquire sync lock",
		})
	}
	if !acquired {
		metrics.SyncRuns.WithLabelValues(metrics.ResultLocked).Inc()
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "Sync is already running",
		})
	}
	// The request context dies when the client disconnects; the lock must be
	// released regardless, or every later trigger and cron tick gets a 409.
	defer func() { _ = s.runLock.Release(context.Background()) }()

	start := time.Now()
	result, err := s.syncReturnsHandler.Handle(requestCtx, commands.NewDeltaSyncCommand())
	metrics.SyncDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SyncRuns.WithLabelValues(metrics.ResultFailure).Inc()
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Sync failed: " + err.Error(),
		})
	}

	metrics.SyncRuns.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.EventsProcessed.Add(float64(result.Processed))
	metrics.Anomalies.Add(float64(len(result.Anomalies)))

	return ctx.JSON(http.StatusOK, SyncResult{
		Processed: result.Processed,
		Anomalies: result.Anomalies,
	})
}

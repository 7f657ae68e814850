package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"logview-backend/internal/dto"
	"logview-backend/internal/model"
	"logview-backend/internal/service"
	"logview-backend/internal/toast"
	"logview-backend/internal/util"
)

type LogController struct {
	logQueryService service.LogQueryService
	logFileService  service.LogFileService
	toastHub        *toast.Hub
}

func NewLogController(
	logQueryService service.LogQueryService,
	logFileService service.LogFileService,
	toastHub *toast.Hub,
) *LogController {
	return &LogController{
		logQueryService: logQueryService,
		logFileService:  logFileService,
		toastHub:        toastHub,
	}
}

func RegisterLogRoutes(router *gin.Engine, controller *LogController) {
	logs := router.Group("/api/logs")
	{
		logs.GET("/query", controller.QueryLogs)
		logs.GET("/files", controller.ListLogFiles)
		logs.GET("/files/:file/zip", controller.ZipLogFile)
		logs.GET("/errors", controller.ListErrors)
	}
	router.GET("/api/notifications/ws", controller.toastHub.Handle)
}

// QueryLogs godoc
// @Summary      Search and filter logs
// @Description  Retrieves logs filtered by minimum level, time range, free-text query, and context ids. Absent parameters are not applied as filters.
// @Tags         logs
// @Produce      json
// @Param        page        query     int     false  "Page number (default: 1)" minimum(1)
// @Param        shallow     query     bool    false  "Omit exception tracebacks for lighter payloads"
// @Param        level       query     string  false  "Minimum log level (TRACE..CRITICAL)"
// @Param        after       query     string  false  "Lower time bound (wire timestamp or epoch millis)"
// @Param        before      query     string  false  "Upper time bound (wire timestamp or epoch millis)"
// @Param        contains    query     string  false  "Free text search query"
// @Param        context_id  query     string  false  "Comma-separated context ids"
// @Param        size        query     int     false  "Page size (default from config, max 1000)"
// @Param        visible     query     int     false  "Pagination link budget; emits a link window when positive"
// @Param        q           query     string  false  "Pipe-delimited highlight terms"
// @Success      200  {object}  dto.LogPage "One page of annotated log rows"
// @Failure      400  {object}  model.Response "Invalid query parameters"
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/logs/query [get]
func (c *LogController) QueryLogs(ctx *gin.Context) {
	var q dto.LogQuery

	if pageStr, ok := ctx.GetQuery("page"); ok {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			page = 1
		}
		q.Page = page
	}
	if sizeStr, ok := ctx.GetQuery("size"); ok {
		if size, err := strconv.Atoi(sizeStr); err == nil {
			q.Size = size
		}
	}
	if visibleStr, ok := ctx.GetQuery("visible"); ok {
		if visible, err := strconv.Atoi(visibleStr); err == nil {
			q.Visible = visible
		}
	}
	q.Shallow = ctx.Query("shallow") == "true"
	if level, ok := ctx.GetQuery("level"); ok {
		q.MinLevel = model.Level(level)
	}
	if afterStr, ok := ctx.GetQuery("after"); ok {
		after, err := util.ParseTimeFlexible(afterStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid after timestamp.", nil))
			return
		}
		q.After = after
	}
	if beforeStr, ok := ctx.GetQuery("before"); ok {
		before, err := util.ParseTimeFlexible(beforeStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid before timestamp.", nil))
			return
		}
		q.Before = before
	}
	q.Contains = ctx.Query("contains")
	if contextIDs, ok := ctx.GetQuery("context_id"); ok {
		for _, id := range strings.Split(contextIDs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				q.ContextIDs = append(q.ContextIDs, id)
			}
		}
	}

	result, err := c.logQueryService.Search(ctx.Request.Context(), q, ctx.Query("q"))
	if err != nil {
		log.Error().Err(err).Msg("Error searching logs")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to search logs", nil))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// ListLogFiles godoc
// @Summary      List downloadable log files
// @Tags         logs
// @Produce      json
// @Success      200  {array}   dto.LogFileInfo
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/logs/files [get]
func (c *LogController) ListLogFiles(ctx *gin.Context) {
	files, err := c.logFileService.List(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error listing log files")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to list log files", nil))
		return
	}
	ctx.JSON(http.StatusOK, files)
}

// ZipLogFile godoc
// @Summary      Download one log file as a zip archive
// @Tags         logs
// @Produce      application/zip
// @Param        file  path  string  true  "Log file name"
// @Success      200  {file}    binary
// @Failure      404  {object}  model.Response "Unknown log file"
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/logs/files/{file}/zip [get]
func (c *LogController) ZipLogFile(ctx *gin.Context) {
	name := ctx.Param("file")

	ctx.Header("Content-Type", "application/zip")
	ctx.Header("Content-Disposition", `attachment; filename="`+name+`.zip"`)
	if err := c.logFileService.Zip(ctx.Request.Context(), name, ctx.Writer); err != nil {
		if errors.Is(err, service.ErrUnknownLogFile) {
			ctx.JSON(http.StatusNotFound, model.NewResponse("Unknown log file", nil))
			return
		}
		log.Error().Err(err).Str("file", name).Msg("Error zipping log file")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to zip log file", nil))
	}
}

// ListErrors godoc
// @Summary      List recent internal error summaries
// @Tags         logs
// @Produce      json
// @Param        limit  query  int  false  "Maximum summaries to return (default: 50)"
// @Success      200  {array}   model.ErrorSummary
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/logs/errors [get]
func (c *LogController) ListErrors(ctx *gin.Context) {
	limit := 50
	if limitStr, ok := ctx.GetQuery("limit"); ok {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	summaries, err := c.logFileService.RecentErrors(ctx.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Error listing internal errors")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to list internal errors", nil))
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

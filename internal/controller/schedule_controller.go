package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"logview-backend/internal/dto"
	"logview-backend/internal/model"
	"logview-backend/internal/schedule"
	"logview-backend/internal/service"
)

type ScheduleController struct {
	scheduleService service.ScheduleService
}

func NewScheduleController(scheduleService service.ScheduleService) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
	}
}

func RegisterScheduleRoutes(router *gin.Engine, controller *ScheduleController) {
	sched := router.Group("/api/schedule")
	{
		sched.GET("", controller.ListSchedules)
		sched.POST("/update/:taskId", controller.UpdateSchedule)
	}
}

// UpdateSchedule godoc
// @Summary      Update a task's schedule
// @Description  Accepts either a crontab expression or an interval broken into weeks/days/hours/minutes/seconds, never both. Returns the humanized schedule and next-run countdown.
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Param        taskId  path      string                     true  "Task identifier"
// @Param        body    body      dto.ScheduleUpdateRequest  true  "New schedule"
// @Success      200  {object}  dto.ScheduleResponse
// @Failure      400  {object}  model.Response "Malformed body or descriptor shape"
// @Failure      422  {object}  model.Response "Invalid cron expression"
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/schedule/update/{taskId} [post]
func (c *ScheduleController) UpdateSchedule(ctx *gin.Context) {
	taskID := ctx.Param("taskId")

	var req dto.ScheduleUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid schedule payload", nil))
		return
	}

	result, err := c.scheduleService.Update(ctx.Request.Context(), taskID, req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidExpression):
			// Fixed indicator string; the raw parser error stays server-side.
			ctx.JSON(http.StatusUnprocessableEntity, model.NewResponse("Invalid Expression", nil))
		case errors.Is(err, service.ErrBadScheduleRequest):
			ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		default:
			log.Error().Err(err).Str("task_id", taskID).Msg("Error updating task schedule")
			ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to update schedule", nil))
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// ListSchedules godoc
// @Summary      List task schedules
// @Tags         schedule
// @Produce      json
// @Success      200  {array}   dto.ScheduleResponse
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/schedule [get]
func (c *ScheduleController) ListSchedules(ctx *gin.Context) {
	schedules, err := c.scheduleService.List(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error listing task schedules")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to list schedules", nil))
		return
	}
	ctx.JSON(http.StatusOK, schedules)
}

package controller

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/service"
	"adaptive_learning_backend/internal/util"
	"fmt"

	"github.com/gin-gonic/gin"
)

type StruggleController struct {
	Service *service.StruggleService
}

func NewStruggleController(svc *service.StruggleService) *StruggleController {
	return &StruggleController{Service: svc}
}

type RecordEventsRequest struct {
	Events []model.InteractionEvent `json:"events" binding:"required,min=1,max=50,dive"`
}

type AnalyzeSessionRequest struct {
	CourseID     string  `json:"courseId"`
	ExpectedTime float64 `json:"expectedTime" binding:"gte=0"`
}

// @Summary 追加会话交互事件
// @Tags 实时学习困难检测
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "会话ID"
// @Param body body RecordEventsRequest true "事件列表"
// @Success 200 {object} util.Response
// @Router /api/struggle/sessions/{sessionId}/events [post]
func (c *StruggleController) RecordEvents(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RecordEventsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	for i, e := range req.Events {
		if !e.Type.Valid() {
			util.BadRequest(ctx, fmt.Sprintf("events[%d]: unknown event type %q", i, e.Type))
			return
		}
	}

	if err := c.Service.RecordEvents(ctx.Request.Context(), user.StudentID, ctx.Param("sessionId"), req.Events); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"recorded": len(req.Events)})
}

// @Summary 获取会话事件
// @Tags 实时学习困难检测
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/struggle/sessions/{sessionId}/events [get]
func (c *StruggleController) GetEvents(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	events, err := c.Service.Events(ctx.Request.Context(), user.StudentID, ctx.Param("sessionId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"events": events, "total": len(events)})
}

// @Summary 分析会话学习困难
// @Tags 实时学习困难检测
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "会话ID"
// @Param body body AnalyzeSessionRequest false "课程与期望用时"
// @Success 200 {object} util.Response
// @Router /api/struggle/sessions/{sessionId}/analyze [post]
func (c *StruggleController) Analyze(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnalyzeSessionRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	result, err := c.Service.Analyze(ctx.Request.Context(), user.StudentID, req.CourseID, ctx.Param("sessionId"), req.ExpectedTime)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 清空会话
// @Tags 实时学习困难检测
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/struggle/sessions/{sessionId} [delete]
func (c *StruggleController) ClearSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.Clear(ctx.Request.Context(), user.StudentID, ctx.Param("sessionId")); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

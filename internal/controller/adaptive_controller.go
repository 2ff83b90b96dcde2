package controller

import (
	"adaptive_learning_backend/internal/service"
	"adaptive_learning_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AdaptiveController struct {
	Metrics  *service.MetricsService
	Adaptive *service.AdaptiveService
}

func NewAdaptiveController(metrics *service.MetricsService, adaptive *service.AdaptiveService) *AdaptiveController {
	return &AdaptiveController{Metrics: metrics, Adaptive: adaptive}
}

type AdjustDifficultyRequest struct {
	CurrentDifficulty int `json:"currentDifficulty" binding:"gte=0,lte=10"`
}

// @Summary 获取课程学习指标
// @Tags 自适应学习
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/metrics [get]
func (c *AdaptiveController) GetMetrics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	m, err := c.Metrics.GetMetrics(ctx.Request.Context(), user.StudentID, ctx.Param("courseId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// @Summary 计算难度调整建议
// @Description currentDifficulty 为 0 时使用指标快照中的难度
// @Tags 自适应学习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param body body AdjustDifficultyRequest false "当前难度"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/difficulty [post]
func (c *AdaptiveController) AdjustDifficulty(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AdjustDifficultyRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	adj, err := c.Adaptive.AdjustDifficulty(ctx.Request.Context(), user.StudentID, ctx.Param("courseId"), req.CurrentDifficulty)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, adj)
}

// @Summary 推荐下一个学习模块
// @Tags 自适应学习
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param currentDifficulty query int false "当前难度"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/next-module [get]
func (c *AdaptiveController) RecommendNextModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	current := 0
	if s := ctx.Query("currentDifficulty"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 10 {
			util.BadRequest(ctx, "currentDifficulty must be an integer between 1 and 10")
			return
		}
		current = n
	}

	sel, err := c.Adaptive.RecommendNextModule(ctx.Request.Context(), user.StudentID, ctx.Param("courseId"), current)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sel)
}

package controller

import (
	"adaptive_learning_backend/internal/service"
	"adaptive_learning_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	Service *service.ReviewService
}

func NewReviewController(svc *service.ReviewService) *ReviewController {
	return &ReviewController{Service: svc}
}

type SubmitReviewRequest struct {
	Quality   *int    `json:"quality" binding:"required"`
	TimeSpent float64 `json:"timeSpent" binding:"gte=0"`
}

type GenerateReviewsRequest struct {
	CourseID string               `json:"courseId" binding:"required"`
	ModuleID string               `json:"moduleId" binding:"required"`
	Cards    []service.ReviewCard `json:"cards" binding:"required,min=1,dive"`
}

type PreviewReviewRequest struct {
	Quality     *int    `json:"quality" binding:"required"`
	EaseFactor  float64 `json:"easeFactor"`
	Interval    int     `json:"interval" binding:"gte=0"`
	Repetitions int     `json:"repetitions" binding:"gte=0"`
}

// @Summary 获取到期复习卡片
// @Tags 间隔复习
// @Produce json
// @Security BearerAuth
// @Param courseId query string false "课程ID"
// @Param limit query int false "数量上限"
// @Success 200 {object} util.Response
// @Router /api/reviews/due [get]
func (c *ReviewController) GetDueItems(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := 0
	if s := ctx.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			util.BadRequest(ctx, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	items, err := c.Service.GetDueItems(ctx.Request.Context(), user.StudentID, ctx.Query("courseId"), limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": items, "total": len(items)})
}

// @Summary 提交复习结果
// @Description quality 取值 0-5，按 SM-2 计算下次复习时间
// @Tags 间隔复习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "复习卡片ID"
// @Param body body SubmitReviewRequest true "复习结果"
// @Success 200 {object} util.Response
// @Router /api/reviews/{id}/submit [post]
func (c *ReviewController) SubmitReview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.Service.SubmitReview(ctx.Request.Context(), user.StudentID, ctx.Param("id"), *req.Quality, req.TimeSpent)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// @Summary 为模块生成复习卡片
// @Tags 间隔复习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenerateReviewsRequest true "卡片内容"
// @Success 201 {object} util.Response
// @Router /api/reviews/generate [post]
func (c *ReviewController) GenerateReviewItems(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GenerateReviewsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.GenerateReviewItems(ctx.Request.Context(), user.StudentID, req.CourseID, req.ModuleID, req.Cards)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary 预览复习调度结果
// @Tags 间隔复习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PreviewReviewRequest true "当前卡片状态"
// @Success 200 {object} util.Response
// @Router /api/reviews/preview [post]
func (c *ReviewController) Preview(ctx *gin.Context) {
	var req PreviewReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	schedule, err := c.Service.Preview(*req.Quality, req.EaseFactor, req.Interval, req.Repetitions)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, schedule)
}

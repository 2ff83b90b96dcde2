package controller

import (
	"adaptive_learning_backend/internal/service"
	"adaptive_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RiskController struct {
	Service *service.RiskService
}

func NewRiskController(svc *service.RiskService) *RiskController {
	return &RiskController{Service: svc}
}

// @Summary 预测学生辍学风险
// @Tags 风险预警
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/risk [get]
func (c *RiskController) Predict(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	ra, err := c.Service.Predict(ctx.Request.Context(), user.StudentID, ctx.Param("courseId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, ra)
}

// @Summary 课程风险巡检
// @Description 评估课程内全部在读学生，返回需要干预的名单（按风险降序）
// @Tags 风险预警
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/courses/{courseId}/risk/sweep [post]
func (c *RiskController) SweepCourse(ctx *gin.Context) {
	report, err := c.Service.SweepCourse(ctx.Request.Context(), ctx.Param("courseId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

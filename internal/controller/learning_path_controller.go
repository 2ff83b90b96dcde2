package controller

import (
	"adaptive_learning_backend/internal/service"
	"adaptive_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	Service *service.LearningPathService
}

func NewLearningPathController(svc *service.LearningPathService) *LearningPathController {
	return &LearningPathController{Service: svc}
}

type EvaluatePathRequest struct {
	Apply bool `json:"apply"`
}

// @Summary 获取学生学习路径
// @Description 首次访问时从课程路径的第一个节点开始
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/path [get]
func (c *LearningPathController) GetPath(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	p, err := c.Service.GetStudentPath(ctx.Request.Context(), user.StudentID, ctx.Param("courseId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary 评估路径分支
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param body body EvaluatePathRequest false "是否直接应用命中的分支"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/path/evaluate [post]
func (c *LearningPathController) Evaluate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EvaluatePathRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	ev, err := c.Service.Evaluate(ctx.Request.Context(), user.StudentID, ctx.Param("courseId"), req.Apply)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, ev)
}

// @Summary 完成路径节点
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param nodeId path string true "节点ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/path/nodes/{nodeId}/complete [post]
func (c *LearningPathController) CompleteNode(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	p, err := c.Service.CompleteNode(ctx.Request.Context(), user.StudentID, ctx.Param("courseId"), ctx.Param("nodeId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary 生成课程学习路径
// @Description 按模块顺序重建节点并派生补救、跳级分支
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 201 {object} util.Response
// @Router /api/teacher/courses/{courseId}/path/generate [post]
func (c *LearningPathController) GenerateCoursePath(ctx *gin.Context) {
	p, err := c.Service.GenerateCoursePath(ctx.Request.Context(), ctx.Param("courseId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, p)
}

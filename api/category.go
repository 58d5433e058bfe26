package api

import (
	"strconv"
	"strings"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 消费类别处理器，类别按用户隔离
type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required" example:"Groceries"`
}

// List 类别列表（输入联想）
// @Summary 获取类别列表
// @Description 按名称子串（不区分大小写）搜索当前用户的类别，默认 50 条，最多 200 条，按名称升序
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param query query string false "名称搜索"
// @Param limit query int false "返回数量上限" default(50)
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	limit := 50
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 200 {
		limit = 200
	}

	query := database.DB.Model(&models.Category{}).Where("user_id = ?", userID)
	if q := c.Query("query"); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(escapeLikeValue(q))+"%")
	}

	var list []models.Category
	if err := query.Order("name ASC").Limit(limit).Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Create 创建类别（幂等）
// @Summary 创建类别
// @Description 为当前用户按名称创建类别；(用户, 名称) 已存在时返回已有记录（200），新建返回 201
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "已存在，返回原记录"
// @Success 201 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "名称不能为空"
// @Failure 401 {object} Response "未授权"
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	var existing models.Category
	if err := database.DB.Where("user_id = ? AND name = ?", userID, req.Name).First(&existing).Error; err == nil {
		Success(c, existing)
		return
	}

	category, err := resolveCategory(database.DB, userID, req.Name)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	Created(c, category)
}

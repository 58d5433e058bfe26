package api

import (
	"strconv"
	"strings"

	"fintrack/database"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// CompanyHandler 商家处理器，商家全局共享
type CompanyHandler struct{}

func NewCompanyHandler() *CompanyHandler {
	return &CompanyHandler{}
}

type CompanyCreateRequest struct {
	Name string `json:"name" binding:"required" example:"Costco"`
}

// List 商家列表（输入联想）
// @Summary 获取商家列表
// @Description 按名称子串（不区分大小写）搜索商家，默认 20 条，最多 100 条，按名称升序
// @Tags 商家
// @Produce json
// @Param query query string false "名称搜索"
// @Param limit query int false "返回数量上限" default(20)
// @Success 200 {object} Response{data=[]models.Company} "获取成功"
// @Router /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	limit := 20
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}

	query := database.DB.Model(&models.Company{})
	if q := c.Query("query"); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(escapeLikeValue(q))+"%")
	}

	var list []models.Company
	if err := query.Order("name ASC").Limit(limit).Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Create 创建商家（幂等）
// @Summary 创建商家
// @Description 按名称创建商家；名称已存在时返回已有记录（200），新建返回 201
// @Tags 商家
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CompanyCreateRequest true "商家信息"
// @Success 200 {object} Response{data=models.Company} "已存在，返回原记录"
// @Success 201 {object} Response{data=models.Company} "创建成功"
// @Failure 400 {object} Response "名称不能为空"
// @Router /companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CompanyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	var existing models.Company
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		Success(c, existing)
		return
	}

	company, err := resolveCompany(database.DB, req.Name)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	Created(c, company)
}

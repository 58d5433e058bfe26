package api

import (
	"strconv"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// IncomeHandler 收入处理器
type IncomeHandler struct{}

func NewIncomeHandler() *IncomeHandler {
	return &IncomeHandler{}
}

type CreateIncomeRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0" example:"5000.00"`
	Source string  `json:"source" binding:"required,min=1" example:"工资"`
	Date   string  `json:"date" binding:"required" example:"2024-01-15"`
}

// IncomeListResponse 按年份查询收入的返回，附带年度与历史总额
type IncomeListResponse struct {
	YearIncomes  []models.Income `json:"year_incomes"`
	YearTotal    float64         `json:"year_total"`
	AllTimeTotal float64         `json:"all_time_total"`
}

// Create 创建收入
// @Summary 创建收入
// @Description 创建一条新的收入记录，金额必须为正数
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIncomeRequest true "收入信息"
// @Success 201 {object} Response{data=models.Income} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /income [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	t, err := parseDateAny(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为 2006-01-02 或 RFC3339")
		return
	}
	in := models.Income{UserID: userID, Amount: req.Amount, Source: req.Source, Date: t}
	if err := database.DB.Create(&in).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建收入失败"))
		return
	}
	Created(c, in)
}

// List 按年份获取收入列表
// @Summary 按年份获取收入列表
// @Description 获取当前用户指定年份的收入记录（UTC 年区间，按日期倒序），并返回年度总额与历史总额
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param year query int true "年份，如 2024"
// @Success 200 {object} Response{data=IncomeListResponse} "获取成功"
// @Failure 400 {object} Response "缺少或非法的年份参数"
// @Failure 401 {object} Response "未授权"
// @Router /income [get]
func (h *IncomeHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := parseYearParam(c.Query("year"))
	if !ok {
		BadRequest(c, "缺少或非法的年份参数")
		return
	}

	var list []models.Income
	if err := database.DB.
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC").
		Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var yearTotal, allTimeTotal float64
	database.DB.Model(&models.Income{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Select("COALESCE(SUM(amount), 0)").Scan(&yearTotal)
	database.DB.Model(&models.Income{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").Scan(&allTimeTotal)

	Success(c, IncomeListResponse{
		YearIncomes:  list,
		YearTotal:    yearTotal,
		AllTimeTotal: allTimeTotal,
	})
}

// Years 获取有收入记录的年份列表
// @Summary 获取收入年份列表
// @Description 返回当前用户存在收入记录的年份，倒序排列
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /income/years [get]
func (h *IncomeHandler) Years(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var years []int
	if err := database.DB.Model(&models.Income{}).
		Where("user_id = ?", userID).
		Distinct().
		Order("year DESC").
		Pluck("YEAR(date) AS year", &years).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, gin.H{"years": years})
}

// Delete 删除收入
// @Summary 删除收入
// @Description 删除指定的收入记录，只能删除自己的记录
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入ID"
// @Success 204 "删除成功"
// @Failure 400 {object} Response "无效的ID"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权操作他人记录"
// @Failure 404 {object} Response "记录不存在"
// @Router /income/{id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var in models.Income
	if err := database.DB.First(&in, uint(id)).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}
	if in.UserID != userID {
		Forbidden(c, "无权删除他人的收入记录")
		return
	}
	if err := database.DB.Delete(&in).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	NoContent(c)
}

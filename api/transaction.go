package api

import (
	"strconv"
	"strings"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionHandler 消费记录处理器
type TransactionHandler struct{}

func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// TransactionRequest 创建/更新消费记录请求
// 商家与类别按名称传入，不存在时自动创建
type TransactionRequest struct {
	Company     string  `json:"company" binding:"required,min=1" example:"Costco"`
	Category    string  `json:"category" binding:"required,min=1" example:"Groceries"`
	Item        string  `json:"item" binding:"required,min=1" example:"食品采购"`
	PaymentType string  `json:"payment_type" binding:"required,min=1" example:"credit"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"128.50"`
	Date        string  `json:"date" binding:"required" example:"2024-03-02"`
}

// TransactionWithNames 带商家/类别名称的消费记录
type TransactionWithNames struct {
	models.Transaction
	CompanyName  string `json:"company_name"`
	CategoryName string `json:"category_name"`
}

// resolveCompany 按名称查找商家，不存在则创建（全局唯一）
// 借助唯一索引 + ON CONFLICT DO NOTHING，并发下相同名称只会留下一行
func resolveCompany(db *gorm.DB, name string) (*models.Company, error) {
	name = strings.TrimSpace(name)
	company := models.Company{Name: name}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&company).Error; err != nil {
		return nil, err
	}
	if err := db.Where("name = ?", name).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// resolveCategory 按 (用户, 名称) 查找类别，不存在则创建
func resolveCategory(db *gorm.DB, userID uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	category := models.Category{UserID: userID, Name: name}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ? AND name = ?", userID, name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 创建一条消费记录，商家与类别按名称自动 find-or-create（商家全局共享，类别按用户隔离）
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "消费信息"
// @Success 201 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	t, err := parseDateAny(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为 2006-01-02 或 RFC3339")
		return
	}

	company, err := resolveCompany(database.DB, req.Company)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "处理商家失败"))
		return
	}
	category, err := resolveCategory(database.DB, userID, req.Category)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "处理类别失败"))
		return
	}

	tx := models.Transaction{
		UserID:      userID,
		CompanyID:   company.ID,
		CategoryID:  category.ID,
		Item:        req.Item,
		PaymentType: req.PaymentType,
		Amount:      req.Amount,
		Date:        t,
	}
	if err := database.DB.Create(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建消费记录失败"))
		return
	}
	Created(c, tx)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Description 更新指定的消费记录，商家与类别按名称重新解析，只能更新自己的记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Param request body TransactionRequest true "消费信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权操作他人记录"
// @Failure 404 {object} Response "记录不存在"
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var existing models.Transaction
	if err := database.DB.First(&existing, uint(id)).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}
	if existing.UserID != userID {
		Forbidden(c, "无权修改他人的消费记录")
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	t, err := parseDateAny(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为 2006-01-02 或 RFC3339")
		return
	}

	company, err := resolveCompany(database.DB, req.Company)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "处理商家失败"))
		return
	}
	category, err := resolveCategory(database.DB, userID, req.Category)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "处理类别失败"))
		return
	}

	updates := map[string]interface{}{
		"company_id":   company.ID,
		"category_id":  category.ID,
		"item":         req.Item,
		"payment_type": req.PaymentType,
		"amount":       req.Amount,
		"date":         t,
	}
	if err := database.DB.Model(&existing).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	database.DB.First(&existing, existing.ID)
	SuccessWithMessage(c, "更新成功", existing)
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 获取当前用户的消费记录，支持按年份、商家、类别筛选，按日期倒序，附带商家与类别名称
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param year query int false "年份筛选，如 2024"
// @Param company_id query int false "商家ID筛选"
// @Param category_id query int false "类别ID筛选"
// @Success 200 {object} Response{data=[]TransactionWithNames} "获取成功"
// @Failure 400 {object} Response "筛选参数非法"
// @Failure 401 {object} Response "未授权"
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Model(&models.Transaction{}).
		Select("transactions.*, companies.name AS company_name, categories.name AS category_name").
		Joins("LEFT JOIN companies ON transactions.company_id = companies.id").
		Joins("LEFT JOIN categories ON transactions.category_id = categories.id").
		Where("transactions.user_id = ?", userID)

	if yearStr := c.Query("year"); yearStr != "" {
		start, end, ok := parseYearParam(yearStr)
		if !ok {
			BadRequest(c, "非法的年份参数")
			return
		}
		query = query.Where("transactions.date >= ? AND transactions.date < ?", start, end)
	}
	if companyStr := c.Query("company_id"); companyStr != "" {
		companyID, err := strconv.ParseUint(companyStr, 10, 32)
		if err != nil {
			BadRequest(c, "非法的商家ID")
			return
		}
		query = query.Where("transactions.company_id = ?", uint(companyID))
	}
	if categoryStr := c.Query("category_id"); categoryStr != "" {
		categoryID, err := strconv.ParseUint(categoryStr, 10, 32)
		if err != nil {
			BadRequest(c, "非法的类别ID")
			return
		}
		query = query.Where("transactions.category_id = ?", uint(categoryID))
	}

	var list []TransactionWithNames
	if err := query.Order("transactions.date DESC").Scan(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Get 获取单条消费记录
// @Summary 获取单条消费记录
// @Description 根据ID获取消费记录详情，只能查看自己的记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 400 {object} Response "无效的ID"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权查看他人记录"
// @Failure 404 {object} Response "记录不存在"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var tx models.Transaction
	if err := database.DB.First(&tx, uint(id)).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}
	if tx.UserID != userID {
		Forbidden(c, "无权查看他人的消费记录")
		return
	}
	Success(c, tx)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Description 删除指定的消费记录，只能删除自己的记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 204 "删除成功"
// @Failure 400 {object} Response "无效的ID"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权操作他人记录"
// @Failure 404 {object} Response "记录不存在"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var tx models.Transaction
	if err := database.DB.First(&tx, uint(id)).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}
	if tx.UserID != userID {
		Forbidden(c, "无权删除他人的消费记录")
		return
	}
	if err := database.DB.Delete(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	NoContent(c)
}

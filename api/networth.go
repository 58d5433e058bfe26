package api

import (
	"errors"
	"sort"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NetWorthHandler 净资产快照处理器
// 同一用户同一日期的多行账户余额构成一份快照
type NetWorthHandler struct{}

func NewNetWorthHandler() *NetWorthHandler {
	return &NetWorthHandler{}
}

// NetWorthAccountInput 快照中的单个账户
type NetWorthAccountInput struct {
	AccountName string  `json:"account_name" binding:"required,min=1" example:"招商银行储蓄卡"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"25000.00"`
}

// NetWorthRequest 批量创建/替换快照请求
type NetWorthRequest struct {
	Date     string                 `json:"date" binding:"required" example:"2024-06-30"`
	Accounts []NetWorthAccountInput `json:"accounts" binding:"required,min=1,dive"`
}

// NetWorthSnapshot 按日期聚合后的快照
type NetWorthSnapshot struct {
	Date        string            `json:"date"`
	Accounts    []models.NetWorth `json:"accounts"`
	TotalAmount float64           `json:"total_amount"`
}

// MonthlyTotal 某个月份的净资产总额
type MonthlyTotal struct {
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// fetchSnapshot 取某用户某日期的全部账户行，按账户名升序
func fetchSnapshot(userID uint, date time.Time) ([]models.NetWorth, error) {
	var rows []models.NetWorth
	err := database.DB.
		Where("user_id = ? AND date = ?", userID, date).
		Order("account_name ASC").
		Find(&rows).Error
	return rows, err
}

// Create 批量创建快照
// @Summary 创建净资产快照
// @Description 为指定日期批量写入账户余额，返回该日期下的全部账户行（按账户名升序）
// @Tags 净资产
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NetWorthRequest true "快照信息"
// @Success 201 {object} Response{data=[]models.NetWorth} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /networth [post]
func (h *NetWorthHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req NetWorthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	t, err := parseDateAny(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为 2006-01-02 或 RFC3339")
		return
	}
	date := snapshotDate(t)

	rows := make([]models.NetWorth, 0, len(req.Accounts))
	for _, a := range req.Accounts {
		rows = append(rows, models.NetWorth{
			UserID:      userID,
			AccountName: a.AccountName,
			Amount:      a.Amount,
			Date:        date,
		})
	}
	if err := database.DB.Create(&rows).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建快照失败"))
		return
	}

	created, err := fetchSnapshot(userID, date)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询快照失败"))
		return
	}
	Created(c, created)
}

// Current 获取最新快照
// @Summary 获取最新净资产快照
// @Description 返回当前用户最近一个日期的全部账户行及其总额；无数据时返回空列表与零总额
// @Tags 净资产
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /networth/current [get]
func (h *NetWorthHandler) Current(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var latest models.NetWorth
	err := database.DB.
		Where("user_id = ?", userID).
		Order("date DESC").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Success(c, gin.H{"total": 0, "accounts": []models.NetWorth{}})
			return
		}
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	accounts, err := fetchSnapshot(userID, latest.Date)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	var total float64
	for _, a := range accounts {
		total += a.Amount
	}
	Success(c, gin.H{
		"date":     latest.Date.Format("2006-01-02"),
		"total":    total,
		"accounts": accounts,
	})
}

// All 获取全部快照
// @Summary 获取全部净资产快照
// @Description 返回当前用户的全部快照，按日期升序分组，每组附带总额
// @Tags 净资产
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]NetWorthSnapshot} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /networth/all [get]
func (h *NetWorthHandler) All(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var rows []models.NetWorth
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("date ASC, account_name ASC").
		Find(&rows).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	// rows 已按日期升序，顺序分组即可
	snapshots := make([]NetWorthSnapshot, 0)
	for _, row := range rows {
		key := row.Date.Format("2006-01-02")
		if len(snapshots) == 0 || snapshots[len(snapshots)-1].Date != key {
			snapshots = append(snapshots, NetWorthSnapshot{Date: key})
		}
		last := &snapshots[len(snapshots)-1]
		last.Accounts = append(last.Accounts, row)
		last.TotalAmount += row.Amount
	}
	Success(c, snapshots)
}

// Yearly 按年份获取月度总额
// @Summary 获取年度月度净资产总额
// @Description 统计指定年份（UTC 区间）每个自然月的净资产总额，只返回有数据的月份，按月份升序
// @Tags 净资产
// @Produce json
// @Security BearerAuth
// @Param year query int true "年份，如 2025"
// @Success 200 {object} Response{data=[]MonthlyTotal} "获取成功"
// @Failure 400 {object} Response "缺少或非法的年份参数"
// @Failure 401 {object} Response "未授权"
// @Router /networth [get]
func (h *NetWorthHandler) Yearly(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := parseYearParam(c.Query("year"))
	if !ok {
		BadRequest(c, "缺少或非法的年份参数")
		return
	}

	var rows []models.NetWorth
	if err := database.DB.
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&rows).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	monthly := make(map[int]float64)
	for _, row := range rows {
		monthly[int(row.Date.UTC().Month())] += row.Amount
	}
	result := make([]MonthlyTotal, 0, len(monthly))
	for month, total := range monthly {
		result = append(result, MonthlyTotal{Month: month, Total: total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	Success(c, result)
}

// Update 替换某日期的快照
// @Summary 替换净资产快照
// @Description 在一个事务内删除指定日期的全部账户行并按请求体重建
// @Tags 净资产
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "快照日期 (2006-01-02)"
// @Param request body NetWorthRequest true "新的快照内容"
// @Success 200 {object} Response{data=[]models.NetWorth} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /networth/{date} [put]
func (h *NetWorthHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	t, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		BadRequest(c, "日期格式错误，应为 2006-01-02")
		return
	}
	date := snapshotDate(t)

	var req NetWorthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	// 删旧建新放在同一事务里，避免中途失败留下半份快照
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND date = ?", userID, date).
			Delete(&models.NetWorth{}).Error; err != nil {
			return err
		}
		rows := make([]models.NetWorth, 0, len(req.Accounts))
		for _, a := range req.Accounts {
			rows = append(rows, models.NetWorth{
				UserID:      userID,
				AccountName: a.AccountName,
				Amount:      a.Amount,
				Date:        date,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "更新快照失败"))
		return
	}

	updated, err := fetchSnapshot(userID, date)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询快照失败"))
		return
	}
	SuccessWithMessage(c, "更新成功", updated)
}

// Delete 删除某日期的快照
// @Summary 删除净资产快照
// @Description 删除指定日期的全部账户行，返回删除行数
// @Tags 净资产
// @Produce json
// @Security BearerAuth
// @Param date path string true "快照日期 (2006-01-02)"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "日期格式错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "该日期没有快照"
// @Router /networth/{date} [delete]
func (h *NetWorthHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	t, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		BadRequest(c, "日期格式错误，应为 2006-01-02")
		return
	}
	date := snapshotDate(t)

	result := database.DB.Where("user_id = ? AND date = ?", userID, date).
		Delete(&models.NetWorth{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "删除失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "该日期没有快照")
		return
	}
	SuccessWithMessage(c, "删除成功", gin.H{"count": result.RowsAffected})
}

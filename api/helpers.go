package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/config"
)

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// escapeLikeValue 转义 LIKE 查询中的通配符 % 和 _，防止用户注入改变匹配语义
func escapeLikeValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// getCookieOptions 根据运行模式返回 Cookie 的安全选项
// release 模式下启用 Secure（仅 HTTPS 传输），SameSite=Lax 防止跨站 POST 携带 Cookie
func getCookieOptions() (secure bool, sameSite http.SameSite) {
	cfg := config.GlobalConfig
	if cfg != nil && cfg.Server.Mode == "release" {
		secure = true
	}
	sameSite = http.SameSiteLaxMode
	return
}

// parseYearParam 解析 year 查询参数，必填、非负整数
// 返回 [1月1日 year, 1月1日 year+1) 的 UTC 区间
func parseYearParam(yearStr string) (start, end time.Time, ok bool) {
	if yearStr == "" {
		return time.Time{}, time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 0 {
		return time.Time{}, time.Time{}, false
	}
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, end, true
}

// parseDateAny 解析客户端上报的日期，支持日期和 RFC3339 时间两种写法
func parseDateAny(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// snapshotDate 把净资产快照日期统一到 UTC 零点，保证 (user_id, date) 分组稳定
func snapshotDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

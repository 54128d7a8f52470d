// Package httpapi 品牌资源的 HTTP API 边界
//
// 只负责协议转换：解析请求 → 调用服务 → 按错误代码映射 HTTP 状态码。
// 认证/鉴权、限流、i18n 等由外部协作者承担。
package httpapi

import (
	"encoding/json"
	"net/http"

	"brandhub/errors"
)

// envelope 统一响应包装
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// conflictMessage 乐观锁冲突的对外提示，客户端应重新拉取后重试
const conflictMessage = "brand data has been modified by another user, please refresh and try again"

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Message: "success", Data: data})
}

// writeError 按规范化后的错误代码映射 HTTP 状态码
//
// 映射关系：
//   - 验证/输入错误  → 400
//   - 未找到        → 404
//   - 乐观锁冲突    → 409（固定提示语）
//   - 业务规则violation（锁定状态、非法流转、创建状态非法）→ 422，
//     错误消息本身已点名当前状态与目标状态
//   - 其它          → 500
func writeError(w http.ResponseWriter, err error) {
	err = errors.Normalize(err)
	switch {
	case errors.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: errorMessage(err)})
	case errors.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: errorMessage(err)})
	case errors.IsConflict(err):
		writeJSON(w, http.StatusConflict, envelope{Success: false, Message: conflictMessage})
	case errors.IsBusinessRule(err):
		writeJSON(w, http.StatusUnprocessableEntity, envelope{Success: false, Message: errorMessage(err)})
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "internal server error"})
	}
}

func errorMessage(err error) string {
	if ierr, ok := err.(errors.IError); ok {
		return ierr.Message()
	}
	return err.Error()
}

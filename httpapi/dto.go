package httpapi

import (
	"time"

	"brandhub/domain"
	"brandhub/domain/brand"
)

// statusDTO 状态的 wire 形态：编码与标签同时返回
type statusDTO struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
}

func toStatusDTO(s domain.Status) statusDTO {
	return statusDTO{Code: s.Code(), Label: s.Label()}
}

// brandDTO 品牌的响应形态
type brandDTO struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Status      statusDTO          `json:"status"`
	LockVersion int64              `json:"lock_version"`
	SyncRef     string             `json:"sync_ref,omitempty"`
	DetailInfo  []brand.ChangeEntry `json:"detail_info"`
	CreatedAt   time.Time          `json:"created_at"`
	CreatedBy   string             `json:"created_by"`
	UpdatedAt   time.Time          `json:"updated_at"`
	UpdatedBy   string             `json:"updated_by"`
}

func toBrandDTO(b *brand.Brand) brandDTO {
	return brandDTO{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Status:      toStatusDTO(b.Status),
		LockVersion: b.Version.Value(),
		SyncRef:     b.SyncRef,
		DetailInfo:  b.Detail,
		CreatedAt:   b.CreatedAt,
		CreatedBy:   b.CreatedBy,
		UpdatedAt:   b.UpdatedAt,
		UpdatedBy:   b.UpdatedBy,
	}
}

// createRequest 创建请求
type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      int    `json:"status"`
}

// updateRequest 更新请求
//
// lock_version：LockPolicy 对本资源强制时必填；豁免时可省略，
// 省略则由仓储在事务内以当前持久化版本号代入条件写。
type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SyncRef     *string `json:"sync_ref"`
	Status      *int    `json:"status"`
	LockVersion *int64  `json:"lock_version"`
}

// deleteRequest 删除请求（软删除）
type deleteRequest struct {
	LockVersion *int64 `json:"lock_version"`
}

// listResponse 分页响应
type listResponse struct {
	Items  []brandDTO `json:"items"`
	Total  int64      `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
}

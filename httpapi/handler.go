package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"brandhub/domain"
	"brandhub/domain/brand"
	"brandhub/validation"
)

// BrandHandler 品牌资源的 HTTP 处理器
type BrandHandler struct {
	service brand.IService
}

// NewBrandHandler 创建处理器
func NewBrandHandler(service brand.IService) *BrandHandler {
	return &BrandHandler{service: service}
}

// Register 注册路由（Go 1.22 方法+路径模式）
func (h *BrandHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/brands", h.create)
	mux.HandleFunc("GET /api/brands", h.list)
	mux.HandleFunc("GET /api/brands/{id}", h.get)
	mux.HandleFunc("PUT /api/brands/{id}", h.update)
	mux.HandleFunc("DELETE /api/brands/{id}", h.delete)
	mux.HandleFunc("GET /api/brands/{id}/audits", h.auditTrail)
}

func (h *BrandHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.service.Create(r.Context(), req.Name, req.Description, req.Status, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, toBrandDTO(b))
}

func (h *BrandHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toBrandDTO(b))
}

func (h *BrandHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	change := brand.Change{
		Name:        req.Name,
		Description: req.Description,
		SyncRef:     req.SyncRef,
	}
	if req.Status != nil {
		status, ok := domain.StatusFromCode(*req.Status)
		if !ok {
			writeError(w, validation.NewValidationError("未知的状态编码"))
			return
		}
		change.Status = &status
	}

	b, err := h.service.Update(r.Context(), id, req.LockVersion, change, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toBrandDTO(b))
}

func (h *BrandHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	// DELETE 请求体可省略（策略豁免时）
	var req deleteRequest
	if err := decodeBodyOptional(r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.service.Delete(r.Context(), id, req.LockVersion, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toBrandDTO(b))
}

func (h *BrandHandler) list(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 20)

	items, err := h.service.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	total, err := h.service.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]brandDTO, 0, len(items))
	for _, b := range items {
		dtos = append(dtos, toBrandDTO(b))
	}
	writeSuccess(w, http.StatusOK, listResponse{Items: dtos, Total: total, Offset: offset, Limit: limit})
}

func (h *BrandHandler) auditTrail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := h.service.AuditTrail(r.Context(), id, queryInt(r, "offset", 0), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, records)
}

// actor 从请求中提取操作者标识
// 认证由外部协作者完成，这里只消费其注入的头
func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return "anonymous"
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.NewValidationError("非法的实体 ID")
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return validation.NewValidationError("请求体不是合法的 JSON")
	}
	return nil
}

// decodeBodyOptional 空请求体按零值处理
func decodeBodyOptional(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return validation.NewValidationError("请求体不是合法的 JSON")
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

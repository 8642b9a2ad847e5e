package balance

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-pto/internal/shared/apperror"
	"go-pto/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Handler struct {
	service Service
	sf      singleflight.Group
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("balance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func yearOrCurrent(c *gin.Context) int {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year == 0 {
		return time.Now().UTC().Year()
	}
	return year
}

// Summary returns all balance rows for a user/year. Dashboards poll this
// endpoint; singleflight collapses identical concurrent reads.
func (h *Handler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	userID := c.Query("user_id")
	if userID == "" {
		userID = c.GetString("employee_id")
	}
	year := yearOrCurrent(c)

	key := fmt.Sprintf("summary:%s:%s:%d", companyID, userID, year)
	v, err, _ := h.sf.Do(key, func() (interface{}, error) {
		return h.service.Summary(ctx, companyID, userID, year)
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, v, nil)
}

func (h *Handler) GetBalance(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	userID := c.Query("user_id")
	if userID == "" {
		userID = c.GetString("employee_id")
	}
	ptoTypeID := c.Query("pto_type_id")
	year := yearOrCurrent(c)

	resp, err := h.service.GetBalance(ctx, companyID, userID, ptoTypeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	userID := c.Query("user_id")
	if userID == "" {
		userID = c.GetString("employee_id")
	}
	ptoTypeID := c.Query("pto_type_id")
	year := yearOrCurrent(c)

	resp, err := h.service.History(ctx, companyID, userID, ptoTypeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Adjust(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http adjust balance validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, err.Error())
		return
	}

	resp, err := h.service.Adjust(ctx, companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

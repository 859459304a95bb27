package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/service"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/response"
)

// FeedbackHandler 评教提交 HTTP 处理器
type FeedbackHandler struct {
	feedbackSvc service.FeedbackService
}

// NewFeedbackHandler 创建 FeedbackHandler
func NewFeedbackHandler(feedbackSvc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackSvc: feedbackSvc}
}

// Submit 提交评教
// POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.feedbackSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeedbackInvalidRatings):
			response.ErrorWithDetails(c, http.StatusBadRequest, 18001, "评分项无效", err.Error())
		case errors.Is(err, service.ErrFeedbackInvalidAssignment):
			response.BadRequest(c, 18002, "任课分配 ID 无效")
		case errors.Is(err, service.ErrFeedbackNotEligible):
			response.Forbidden(c, 18003, "无权对该任课分配评教")
		case errors.Is(err, service.ErrFeedbackAlreadySubmitted):
			response.Conflict(c, 18004, "已提交过该任课分配的评教")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// ListMine 我提交过的评教
// GET /api/v1/feedback/me
func (h *FeedbackHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.feedbackSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	engagementapp "github.com/storefront/backend/internal/application/engagement"
	"github.com/storefront/backend/internal/domain/engagement"
)

// EngagementService handles the contact form, newsletter and static pages
type EngagementService interface {
	Contact(ctx context.Context, req engagementapp.ContactRequest) (*engagementapp.Acknowledgement, error)
	Subscribe(ctx context.Context, req engagementapp.SubscribeRequest) (*engagementapp.Acknowledgement, error)
	Page(slug string) (*engagement.Page, error)
}

// EngagementHandler serves the contact, newsletter and page endpoints
type EngagementHandler struct {
	BaseHandler
	service EngagementService
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(service EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

// Contact godoc
// @ID           submitContact
// @Summary      Contact form
// @Description  Stores the message and forwards it to the store owner
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Param        request body engagementapp.ContactRequest true "Message"
// @Success      201 {object} dto.Response{data=engagementapp.Acknowledgement}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /contact [post]
func (h *EngagementHandler) Contact(c *gin.Context) {
	var req engagementapp.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ack, err := h.service.Contact(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ack)
}

// Subscribe godoc
// @ID           subscribeNewsletter
// @Summary      Newsletter sign-up
// @Description  Subscribing an address twice succeeds
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Param        request body engagementapp.SubscribeRequest true "Email"
// @Success      200 {object} dto.Response{data=engagementapp.Acknowledgement}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /newsletter [post]
func (h *EngagementHandler) Subscribe(c *gin.Context) {
	var req engagementapp.SubscribeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ack, err := h.service.Subscribe(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ack)
}

// Page godoc
// @ID           getPage
// @Summary      Static page
// @Tags         engagement
// @Produce      json
// @Param        slug path string true "Page slug" Enums(about, benefits, privacy)
// @Success      200 {object} dto.Response{data=engagement.Page}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pages/{slug} [get]
func (h *EngagementHandler) Page(c *gin.Context) {
	page, err := h.service.Page(c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

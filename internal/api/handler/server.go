package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"server-deck/internal/api/response"
	"server-deck/internal/repository"
	"server-deck/internal/service"
	"server-deck/internal/validation"
)

// ServerHandler maps HTTP requests onto the server service.
type ServerHandler struct {
	service *service.ServerService
}

func NewServerHandler(svc *service.ServerService) *ServerHandler {
	return &ServerHandler{service: svc}
}

// List handles GET /api/servers
func (h *ServerHandler) List(c *gin.Context) {
	result, err := h.service.List()
	if err != nil {
		h.renderError(c, err, "Failed to fetch servers")
		return
	}
	response.List(c, result.Servers, result.Count)
}

// Get handles GET /api/servers/:id
func (h *ServerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.service.Get(id)
	if err != nil {
		h.renderError(c, err, "Failed to fetch server")
		return
	}
	response.OK(c, view)
}

// Create handles POST /api/servers (multipart)
func (h *ServerHandler) Create(c *gin.Context) {
	in, errs := formInput(c)
	if !errs.Empty() {
		response.ValidationFailed(c, errs)
		return
	}
	view, err := h.service.Create(in)
	if err != nil {
		h.renderError(c, err, "Failed to create server")
		return
	}
	response.Created(c, "Server created successfully", view)
}

// Update handles PUT /api/servers/:id (multipart, any subset of fields)
func (h *ServerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	in, errs := formInput(c)
	if !errs.Empty() {
		response.ValidationFailed(c, errs)
		return
	}
	view, err := h.service.Update(id, in)
	if err != nil {
		h.renderError(c, err, "Failed to update server")
		return
	}
	response.Updated(c, "Server updated successfully", view)
}

// Delete handles DELETE /api/servers/:id
func (h *ServerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(id); err != nil {
		h.renderError(c, err, "Failed to delete server")
		return
	}
	response.Message(c, "Server deleted successfully")
}

// UpdateOrder handles POST /api/servers/update-order
func (h *ServerHandler) UpdateOrder(c *gin.Context) {
	var req struct {
		Servers []repository.OrderEntry `json:"servers" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validation.Errors{
			"servers": {"The servers field must be a list of id and sort_order pairs."},
		})
		return
	}
	if err := h.service.Reorder(req.Servers); err != nil {
		h.renderError(c, err, "Failed to update order")
		return
	}
	response.Message(c, "Order updated successfully")
}

// renderError maps service errors to status codes. Storage and persistence
// failures surface only the generic message.
func (h *ServerHandler) renderError(c *gin.Context, err error, generic string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "Server not found")
	default:
		response.Error(c, http.StatusInternalServerError, generic)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.NotFound(c, "Server not found")
		return 0, false
	}
	return uint(id), true
}

// formInput extracts the presence-aware fields of a create or update
// request. Absent fields stay nil so update requests only touch what they
// send. Both multipart and plain JSON bodies are accepted; only multipart
// can carry an image.
func formInput(c *gin.Context) (validation.ServerInput, validation.Errors) {
	var in validation.ServerInput
	errs := validation.Errors{}

	if c.ContentType() == "application/json" {
		return jsonInput(c), errs
	}

	form, err := c.MultipartForm()
	if err != nil {
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			// The client declared multipart but sent a body we cannot parse.
			errs.Add("body", "The request body could not be parsed.")
		}
		// Anything else has no parseable body; required-field validation
		// reports the gaps.
		return in, errs
	}

	get := func(field string) *string {
		if vals, ok := form.Value[field]; ok && len(vals) > 0 {
			v := vals[0]
			return &v
		}
		return nil
	}

	in.Name = get("name")
	in.Description = get("description")
	in.Host = get("host")
	in.IPAddress = get("ip_address")

	if v := get("sort_order"); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			errs.Add("sort_order", "The sort_order must be an integer.")
		} else {
			in.SortOrder = &n
		}
	}
	if v := get("status"); v != nil {
		b, err := strconv.ParseBool(*v)
		if err != nil {
			errs.Add("status", "The status field must be true or false.")
		} else {
			in.Status = &b
		}
	}

	if files, ok := form.File["image"]; ok && len(files) > 0 {
		fh := files[0]
		if fh.Size > validation.MaxImageBytes {
			errs.Add("image", "The image may not be greater than 5120 kilobytes.")
			return in, errs
		}
		f, err := fh.Open()
		if err != nil {
			errs.Add("image", "The image could not be read.")
			return in, errs
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			errs.Add("image", "The image could not be read.")
			return in, errs
		}
		in.Image = data
	}

	return in, errs
}

func jsonInput(c *gin.Context) validation.ServerInput {
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Host        *string `json:"host"`
		IPAddress   *string `json:"ip_address"`
		SortOrder   *int    `json:"sort_order"`
		Status      *bool   `json:"status"`
	}
	// A malformed body leaves every field nil; validation reports the gaps.
	_ = c.ShouldBindJSON(&body)

	return validation.ServerInput{
		Name:        body.Name,
		Description: body.Description,
		Host:        body.Host,
		IPAddress:   body.IPAddress,
		SortOrder:   body.SortOrder,
		Status:      body.Status,
	}
}

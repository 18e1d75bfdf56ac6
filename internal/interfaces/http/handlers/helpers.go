package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/interfaces/http/middleware"
	"smilecare.backend/internal/interfaces/http/response"
	"smilecare.backend/pkg/utils"
)

// PlatformHeader lets mobile clients name their platform for the session record
const PlatformHeader = "X-Platform"

// currentUser returns the acting user or writes a 401
func currentUser(c *gin.Context) (*entities.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return nil, false
	}
	return user, true
}

// pathID parses a uuid path parameter or writes a 400 naming the resource
func pathID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid "+resource+" ID"))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body or writes a 400 with the validation message
func bindJSON(c *gin.Context, input interface{}) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return false
	}
	return true
}

func paginationFrom(c *gin.Context) utils.PaginationParams {
	return utils.ParsePaginationParams(c.Query("page"), c.Query("limit"))
}

func respondList(c *gin.Context, data interface{}, total int64, params utils.PaginationParams) {
	response.Paginated(c, data, utils.CalculateMeta(total, params.Page, params.Limit))
}

// queryFilters reads optional typed query values, collecting the first parse error
type queryFilters struct {
	c   *gin.Context
	err error
}

func newQueryFilters(c *gin.Context) *queryFilters {
	return &queryFilters{c: c}
}

func (q *queryFilters) optUUID(key string) *uuid.UUID {
	raw := strings.TrimSpace(q.c.Query(key))
	if raw == "" || q.err != nil {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		q.err = domainerrors.BadRequest("Invalid " + key)
		return nil
	}
	return &id
}

func (q *queryFilters) optBool(key string) *bool {
	raw := strings.TrimSpace(q.c.Query(key))
	if raw == "" || q.err != nil {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.err = domainerrors.BadRequest("Invalid " + key)
		return nil
	}
	return &v
}

// date accepts YYYY-MM-DD; with endOfDay the result covers the whole day
func (q *queryFilters) date(key string, endOfDay bool) *time.Time {
	raw := strings.TrimSpace(q.c.Query(key))
	if raw == "" || q.err != nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		q.err = domainerrors.BadRequest("Invalid " + key + ", expected YYYY-MM-DD")
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

// dateString validates YYYY-MM-DD and keeps the raw value
func (q *queryFilters) dateString(key string) string {
	raw := strings.TrimSpace(q.c.Query(key))
	if raw == "" || q.err != nil {
		return ""
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		q.err = domainerrors.BadRequest("Invalid " + key + ", expected YYYY-MM-DD")
		return ""
	}
	return raw
}

func (q *queryFilters) text(key string) string {
	return strings.TrimSpace(q.c.Query(key))
}

// done writes the first parse error, if any
func (q *queryFilters) done() bool {
	if q.err != nil {
		response.Error(q.c, q.err)
		return false
	}
	return true
}

func clientInfo(c *gin.Context) entities.ClientInfo {
	platform := c.GetHeader(PlatformHeader)
	if platform == "" {
		platform = "web"
	}
	return entities.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		Platform:  platform,
		IPAddress: c.ClientIP(),
	}
}

// optionalFormUUID parses an optional id form field
func optionalFormUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid " + field)
	}
	return &id, nil
}

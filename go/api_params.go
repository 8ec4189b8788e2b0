package breweryserver

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	apierrors "github.com/Apurer/go-gin-brewery-api/internal/shared/errors"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseIfMatch reads an optional If-Match header holding a version number.
// Quotes and a weak prefix are tolerated so plain ETag echoes work.
func parseIfMatch(c *gin.Context) (*int64, bool) {
	raw := strings.TrimSpace(c.GetHeader("If-Match"))
	if raw == "" || raw == "*" {
		return nil, true
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 0 {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"If-Match": "must be a version number"}))
		return nil, false
	}
	return &version, true
}

// bindPageParams reads the optional pageNumber and pageSize query parameters.
func bindPageParams(c *gin.Context, number, size **int32) bool {
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "pageNumber", query, number); err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"pageNumber": "must be an integer"}))
		return false
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageSize", query, size); err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"pageSize": "must be an integer"}))
		return false
	}
	return true
}

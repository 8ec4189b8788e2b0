package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper claims the errors of one bounded context. ok is false when err
// belongs to someone else.
type ErrorMapper func(err error) (problem ProblemDetail, ok bool)

// Responder renders service errors as problem+json. Mappers run in order and
// the first claim wins; errors nobody claims become a 500 whose cause is kept
// on the gin context (and so on the request span) rather than in the body.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
}

func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{baseURI: strings.TrimSuffix(baseURI, "/"), mappers: mappers}
}

// Resolve returns the problem err renders as.
func (r *Responder) Resolve(err error) ProblemDetail {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	return ErrInternal.WithDetail("the request could not be completed")
}

func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

func (r *Responder) RespondError(c *gin.Context, err error) {
	problem := r.Resolve(err)
	if problem.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	r.Respond(c, problem)
}

// HTTPStatusFromError is 500 unless err wraps a ProblemDetail.
func HTTPStatusFromError(err error) int {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem.Status
	}
	return http.StatusInternalServerError
}

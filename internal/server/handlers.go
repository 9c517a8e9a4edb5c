package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/sewcio543/soupsavvy-sub002/internal/model"
	"github.com/sewcio543/soupsavvy-sub002/internal/nth"
	"github.com/sewcio543/soupsavvy-sub002/internal/operation"
	"github.com/sewcio543/soupsavvy-sub002/internal/query"
	"github.com/sewcio543/soupsavvy-sub002/internal/selector"
	"github.com/sewcio543/soupsavvy-sub002/internal/source"
)

var (
	errNoDocument    = errors.New("one of html or url is required")
	errFetchDisabled = errors.New("fetching urls is disabled")
)

// documentInput names the document a request runs against.
type documentInput struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
}

type selectRequest struct {
	documentInput
	query.Query
}

type extractRequest struct {
	documentInput
	Schema       *model.SchemaSpec `json:"schema"`
	Limit        int               `json:"limit"`
	NonRecursive bool              `json:"non_recursive"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) selectElements(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %w", query.ErrInvalidQuery, err))
		return
	}
	compiled, err := req.Query.Compile()
	if err != nil {
		s.fail(c, err)
		return
	}
	doc, err := s.document(c, req.documentInput)
	if err != nil {
		s.fail(c, err)
		return
	}

	results, err := compiled.Run(doc.Root())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.recordResults("select", len(results))
	s.respond(c, http.StatusOK, gin.H{
		"selector": compiled.Selector().String(),
		"count":    len(results),
		"results":  results,
	})
}

func (s *Server) extractRecords(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %w", model.ErrInvalidSchema, err))
		return
	}
	if req.Schema == nil {
		s.fail(c, fmt.Errorf("%w: schema is required", model.ErrInvalidSchema))
		return
	}
	schema, err := req.Schema.Compile()
	if err != nil {
		s.fail(c, err)
		return
	}
	doc, err := s.document(c, req.documentInput)
	if err != nil {
		s.fail(c, err)
		return
	}

	records, err := schema.ExtractAll(doc.Root(), !req.NonRecursive, req.Limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.recordResults("extract", len(records))
	s.respond(c, http.StatusOK, gin.H{
		"model":   schema.Name(),
		"count":   len(records),
		"records": records,
	})
}

func (s *Server) document(c *gin.Context, in documentInput) (*source.Document, error) {
	switch {
	case in.HTML != "":
		return s.loader.LoadBytes("request", []byte(in.HTML))
	case in.URL == "":
		return nil, errNoDocument
	case !s.cfg.AllowFetch:
		return nil, errFetchDisabled
	case !strings.HasPrefix(in.URL, "http://") && !strings.HasPrefix(in.URL, "https://"):
		return nil, fmt.Errorf("%w: only http(s) urls are accepted", source.ErrUnsupportedType)
	}
	return s.loader.Load(c.Request.Context(), in.URL)
}

// respond encodes v with sonic, which honours the ordered Record encoding.
func (s *Server) respond(c *gin.Context, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusOf(err), gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig), errors.Is(err, source.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errFetchDisabled):
		return http.StatusForbidden
	case errors.Is(err, source.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, source.ErrHostUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, source.ErrFetch):
		return http.StatusBadGateway
	case errors.Is(err, selector.ErrElementNotFound), errors.Is(err, model.ErrModelNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrFieldExtraction),
		errors.Is(err, model.ErrRequiredConstraint),
		errors.Is(err, operation.ErrOperationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, query.ErrInvalidQuery),
		errors.Is(err, model.ErrInvalidSchema),
		errors.Is(err, model.ErrScopeNotDefined),
		errors.Is(err, model.ErrFieldsNotDefined),
		errors.Is(err, model.ErrInvalidField),
		errors.Is(err, selector.ErrInvalidSelector),
		errors.Is(err, selector.ErrInvalidExpression),
		errors.Is(err, operation.ErrInvalidOperation),
		errors.Is(err, nth.ErrInvalidFormula),
		errors.Is(err, nth.ErrInvalidPositionalParameter),
		errors.Is(err, errNoDocument):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

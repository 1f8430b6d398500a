package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"pipecheck/internal/api/middleware"
	"pipecheck/internal/api/openapi"
	domainerrors "pipecheck/internal/core/errors"
	"pipecheck/internal/core/ports"
	"pipecheck/internal/engine/pipeline"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their JSON names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// ParsePipeline answers POST /pipelines/parse. The body is checked against
// the PipelineRequest schema, bound, then handed to the service.
func ParsePipeline(svc ports.PipelineService, doc *openapi.Document) gin.HandlerFunc {
	useJSONFieldNames()
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				middleware.AbortWithError(c, middleware.TooLarge(maxErr.Limit))
				return
			}
			middleware.AbortWithError(c, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "read request body"))
			return
		}

		p, err := decodePipeline(body, doc)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}

		res, err := svc.ParsePipeline(c.Request.Context(), p)
		if err != nil {
			slog.Debug("pipeline check failed", "error", err, "request_id", c.GetString(middleware.RequestIDKey))
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func decodePipeline(body []byte, doc *openapi.Document) (pipeline.Pipeline, error) {
	var p pipeline.Pipeline

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return p, domainerrors.New(domainerrors.CodeValidationError, fmt.Sprintf("JSON decode error: %v", err))
	}
	if doc != nil {
		if err := doc.ValidateBody(openapi.PipelineRequestSchema, raw); err != nil {
			return p, domainerrors.New(domainerrors.CodeValidationError, err.Error())
		}
		// Bind only what the schema saw; encoding/json folds key case.
		canonical, err := doc.CanonicalBody(openapi.PipelineRequestSchema, raw)
		if err != nil {
			return p, domainerrors.Wrap(err, domainerrors.CodeInternal, "canonicalize request body")
		}
		body = canonical
	}
	if err := binding.JSON.BindBody(body, &p); err != nil {
		return p, domainerrors.New(domainerrors.CodeValidationError, describeBindingError(err))
	}
	return p, nil
}

func describeBindingError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if idx := strings.IndexByte(field, '.'); idx >= 0 {
			field = "body" + field[idx:]
		}
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+": field required")
		default:
			parts = append(parts, fmt.Sprintf("%s: failed %q validation", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

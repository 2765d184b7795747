package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingFinishesSpanPerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tracer := mocktracer.New()
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	router := gin.New()
	router.Use(Tracing())
	router.GET("/videos/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/videos/abc", nil)
	router.ServeHTTP(w, req)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "GET /videos/:id", span.OperationName)
	assert.Equal(t, "GET", span.Tag("http.method"))
	assert.Equal(t, http.StatusOK, span.Tag("http.status_code"))
	assert.Nil(t, span.Tag("error"))
}

func TestTracingTagsServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tracer := mocktracer.New()
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	router := gin.New()
	router.Use(Tracing())
	router.GET("/broken", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/broken", nil)
	router.ServeHTTP(w, req)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, true, spans[0].Tag("error"))
}

package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SomethingReallCool234/NexGen/pkg/apperr"
	"github.com/SomethingReallCool234/NexGen/pkg/data"
)

// Server is the dashboard HTTP API.
type Server struct {
	state    *State
	logger   log.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	engine   *gin.Engine
}

// NewServer wires the routes over state. Metrics go to a private registry
// so several servers can live in one process (tests).
func NewServer(state *State, logger log.Logger) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Server{
		state:    state,
		logger:   logger,
		registry: reg,
		metrics:  NewMetrics(reg),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/options", s.options)
	api.GET("/deliveries", s.deliveries)
	api.GET("/deliveries/export.csv", s.exportCSV)
	api.GET("/deliveries/export.xlsx", s.exportXLSX)
	api.GET("/charts/status", s.countChart(data.ColDeliveryStatus))
	api.GET("/charts/quality-issues", s.countChart(data.ColQualityIssue))
	api.GET("/charts/ratings", s.ratingChart)
	api.POST("/predict", s.predict)

	s.engine = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status())
		took := time.Since(start)
		s.metrics.RequestDuration.WithLabelValues(route, code).Observe(took.Seconds())
		level.Debug(s.logger).Log("method", c.Request.Method, "route", route, "code", code, "took", took)
	}
}

func (s *Server) health(c *gin.Context) {
	meta := s.state.Model().Meta
	c.JSON(http.StatusOK, gin.H{
		"status":        "UP",
		"model_run_id":  meta.RunID,
		"trained_at":    meta.TrainedAt,
		"test_accuracy": meta.TestAccuracy,
	})
}

func (s *Server) options(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Options())
}

// filteredDeliveries applies the request's filter to the delivery table.
// On failure it has already written the response and ok is false.
func (s *Server) filteredDeliveries(c *gin.Context) (f Filter, df dataframe.DataFrame, ok bool) {
	f, err := FilterFromQuery(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return f, df, false
	}
	df = f.Apply(s.state.Tables().Delivery)
	if df.Err != nil {
		s.internal(c, errors.Wrap(df.Err, "filter deliveries"))
		return f, df, false
	}
	return f, df, true
}

func (s *Server) deliveries(c *gin.Context) {
	f, df, ok := s.filteredDeliveries(c)
	if !ok {
		return
	}
	rows := df.Maps()
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	c.JSON(http.StatusOK, gin.H{"filter": f, "count": df.Nrow(), "rows": rows})
}

func (s *Server) countChart(col string) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, df, ok := s.filteredDeliveries(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"column": col, "counts": ValueCounts(df, col)})
	}
}

func (s *Server) ratingChart(c *gin.Context) {
	_, df, ok := s.filteredDeliveries(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": RatingSummaries(df)})
}

func (s *Server) exportCSV(c *gin.Context) {
	_, df, ok := s.filteredDeliveries(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", CSVFileName))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := WriteCSV(c.Writer, df); err != nil {
		level.Error(s.logger).Log("msg", "csv export failed", "err", err)
		return
	}
	s.metrics.Exports.WithLabelValues("csv").Inc()
}

func (s *Server) exportXLSX(c *gin.Context) {
	_, df, ok := s.filteredDeliveries(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", XLSXFileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := WriteXLSX(c.Writer, df); err != nil {
		level.Error(s.logger).Log("msg", "xlsx export failed", "err", err)
		return
	}
	s.metrics.Exports.WithLabelValues("xlsx").Inc()
}

func (s *Server) predict(c *gin.Context) {
	var body map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		s.rejectPrediction(c, &apperr.InferenceInputError{Field: "body", Reason: "must be a JSON object"})
		return
	}
	a, err := s.state.Model().AssessFields(requestFields(body))
	if err != nil {
		var inputErr *apperr.InferenceInputError
		if errors.As(err, &inputErr) {
			s.rejectPrediction(c, inputErr)
			return
		}
		s.internal(c, err)
		return
	}
	s.metrics.Predictions.WithLabelValues(a.Risk).Inc()
	c.JSON(http.StatusOK, a)
}

func (s *Server) rejectPrediction(c *gin.Context, err *apperr.InferenceInputError) {
	s.metrics.PredictionFailures.Inc()
	level.Warn(s.logger).Log("msg", "prediction rejected", "field", err.Field, "err", err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": err.Field})
}

func (s *Server) internal(c *gin.Context, err error) {
	level.Error(s.logger).Log("msg", "request failed", "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// requestFields flattens a decoded JSON object into the string fields
// ParseShipment expects. Numbers keep their shortest form; null is dropped.
func requestFields(body map[string]any) map[string]string {
	out := make(map[string]string, len(body))
	for k, v := range body {
		switch t := v.(type) {
		case nil:
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}

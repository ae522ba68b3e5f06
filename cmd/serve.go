package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/schedsim/schedsim/sim"
	"github.com/schedsim/schedsim/sim/trace"
	"github.com/schedsim/schedsim/sim/workload"
)

const requestIDKey = "request_id"

// maxBodyBytes caps request bodies; process sets are small.
const maxBodyBytes = 1 << 20

// Request limits. Round robin with quantum 1 dispatches once per tick of
// service, so total service bounds both run time and response size.
const (
	maxRequestProcesses     = 1000
	maxRequestArrival       = 1_000_000_000
	maxRequestService       = 100_000 // summed over all processes
	maxRequestContextSwitch = 1000
	simulationTimeout       = 10 * time.Second
)

var (
	serveAddr   string
	corsOrigins []string
	serveDev    bool
)

// serveCmd exposes the simulator over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over an HTTP JSON API",
	Run: func(cmd *cobra.Command, args []string) {
		if !serveDev {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           newRouter(serverOptions{CORSOrigins: corsOrigins, Dev: serveDev}),
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		logrus.Infof("Running HTTP server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
		logrus.Info("Server closed")
	},
}

type serverOptions struct {
	CORSOrigins []string // empty disables CORS
	Dev         bool
}

// newRouter wires middleware and routes. Split from serveCmd so tests can
// drive it through httptest.
func newRouter(opts serverOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IsDevelopment:      opts.Dev,
	}))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"X-Request-ID", "Content-Type"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}
	r.Use(accessLog())
	r.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	})

	r.GET("/api/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	r.GET("/api/algorithms", listAlgorithms)
	r.POST("/api/simulate", simulateHandler)
	r.POST("/api/compare", compareHandler)
	return r
}

// requestID keeps a client-supplied X-Request-ID of sane length, otherwise
// generates one, and echoes it on the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if l := len(id); l < 1 || l > 64 {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		c.Set(requestIDKey, id)
		c.Next()
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// accessLog records one line per request after it has been handled.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		entry := logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"route":      route,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start),
			"request_id": getRequestID(c),
		})
		var errs []error
		for _, ge := range c.Errors {
			if ge.Err != nil {
				errs = append(errs, ge.Err)
			}
		}
		if joined := errors.Join(errs...); joined != nil {
			entry = entry.WithError(joined)
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

type algorithmInfo struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Preemptive bool   `json:"preemptive"`
}

func listAlgorithms(c *gin.Context) {
	out := make([]algorithmInfo, 0, len(sim.AllDisciplines()))
	for _, d := range sim.AllDisciplines() {
		policy, err := sim.NewPolicy(string(d), sim.DefaultTimeQuantum)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		out = append(out, algorithmInfo{Name: string(d), Title: d.Title(sim.DefaultTimeQuantum), Preemptive: policy.Preemptive()})
	}
	c.JSON(http.StatusOK, out)
}

// simulationRequest is the body of /api/simulate and /api/compare.
// Algorithm is used by simulate, Algorithms by compare.
type simulationRequest struct {
	Algorithm     string                 `json:"algorithm"`
	Algorithms    []string               `json:"algorithms"`
	Processes     []workload.ProcessSpec `json:"processes"`
	Sample        bool                   `json:"sample"`
	TimeQuantum   *int64                 `json:"time_quantum"`
	ContextSwitch *int64                 `json:"context_switch"`
	TraceLevel    string                 `json:"trace_level"`
}

func simulateHandler(c *gin.Context) {
	var req simulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed JSON"})
		return
	}
	if req.Algorithm == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "algorithm is required"})
		return
	}
	cmp, ok := runRequest(c, &req, []string{req.Algorithm})
	if !ok {
		return
	}
	resp := gin.H{"request_id": getRequestID(c), "result": cmp.Results[0]}
	if st := cmp.Traces[0]; st != nil {
		resp["trace"] = trace.Summarize(st)
	}
	c.JSON(http.StatusOK, resp)
}

func compareHandler(c *gin.Context) {
	var req simulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed JSON"})
		return
	}
	cmp, ok := runRequest(c, &req, req.Algorithms)
	if !ok {
		return
	}
	resp := gin.H{"run_id": uuid.NewString(), "request_id": getRequestID(c), "results": cmp.Results}
	if best := cmp.Best(); best != nil {
		resp["best"] = best.Discipline
	}
	c.JSON(http.StatusOK, resp)
}

// runRequest validates the request and runs it. On failure it has already
// written the error response and returns false.
func runRequest(c *gin.Context, req *simulationRequest, algorithms []string) (*sim.Comparison, bool) {
	specs := req.Processes
	if len(specs) == 0 && req.Sample {
		specs = workload.SampleProcesses()
	}
	if len(specs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "processes are required (or set sample: true)"})
		return nil, false
	}
	if err := checkRequestLimits(specs, req.ContextSwitch); err != nil {
		writeValidationError(c, err)
		return nil, false
	}
	procs, err := workload.BuildProcesses(specs)
	if err != nil {
		writeValidationError(c, err)
		return nil, false
	}

	cfg := &sim.RunConfig{
		Algorithms:    algorithms,
		TimeQuantum:   req.TimeQuantum,
		ContextSwitch: req.ContextSwitch,
		TraceLevel:    req.TraceLevel,
	}
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return nil, false
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), simulationTimeout)
	defer cancel()
	cmp, err := sim.Compare(ctx, procs, cfg)
	if err != nil {
		_ = c.Error(err)
		switch {
		case errors.Is(err, sim.ErrHorizonOverflow):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "simulation timed out"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return nil, false
	}
	if err := checkTimelines(cmp); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return nil, false
	}
	return cmp, true
}

// checkRequestLimits rejects process sets too large to simulate within a request.
func checkRequestLimits(specs []workload.ProcessSpec, contextSwitch *int64) error {
	if len(specs) > maxRequestProcesses {
		return &workload.ValidationError{Index: -1, Field: "processes",
			Reason: fmt.Sprintf("at most %d processes per request, got %d", maxRequestProcesses, len(specs))}
	}
	if contextSwitch != nil && *contextSwitch > maxRequestContextSwitch {
		return &workload.ValidationError{Index: -1, Field: "context_switch",
			Reason: fmt.Sprintf("must be at most %d, got %d", maxRequestContextSwitch, *contextSwitch)}
	}
	var service int64
	for i, p := range specs {
		if p.Arrival > maxRequestArrival {
			return &workload.ValidationError{Index: i, Field: "arrival_time",
				Reason: fmt.Sprintf("must be at most %d, got %d", maxRequestArrival, p.Arrival)}
		}
		if p.Burst > maxRequestService-service {
			return &workload.ValidationError{Index: i, Field: "burst_time",
				Reason: fmt.Sprintf("total burst time per request must be at most %d", maxRequestService)}
		}
		service += max(p.Burst, 0)
	}
	return nil
}

// checkTimelines guards the response: every result must carry a well-formed timeline.
func checkTimelines(cmp *sim.Comparison) error {
	for _, r := range cmp.Results {
		if err := r.Timeline.Validate(); err != nil {
			return fmt.Errorf("%s produced an invalid timeline: %w", r.Discipline, err)
		}
	}
	return nil
}

func writeValidationError(c *gin.Context, err error) {
	var verr *workload.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Error(), "field": verr.Field, "index": verr.Index})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", nil, "Allowed CORS origins (repeatable); CORS is off when empty")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "Run gin in debug mode")

	rootCmd.AddCommand(serveCmd)
}

// Package wsbridge exposes the engine over HTTP. Plain requests are
// answered by an rpc.TakumiServer; /ws runs a bridge.Host per
// connection, so a browser can drive searches as a background worker.
package wsbridge

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/takumi-tak/takumi/bridge"
	"github.com/takumi-tak/takumi/rpc"
)

type Server struct {
	Service rpc.TakumiServer
	Engine  bridge.Engine

	// MaxTime bounds searches started over /ws that carry neither a
	// time nor a node budget.
	MaxTime time.Duration
	Debug   int
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.Debug > 0 {
		r.Use(gin.Logger())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/analyze", s.analyze)
	r.POST("/moves", s.moves)
	r.POST("/status", s.status)
	r.GET("/ws", s.handleWS)
	return r
}

func httpStatus(err error) int {
	switch status.Code(err) {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.FailedPrecondition:
		return http.StatusUnprocessableEntity
	case codes.Canceled, codes.DeadlineExceeded:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, err error) {
	msg := err.Error()
	if st, ok := status.FromError(err); ok {
		msg = st.Message()
	}
	c.JSON(httpStatus(err), gin.H{"error": msg})
}

func (s *Server) analyze(c *gin.Context) {
	var req rpc.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := s.Service.Analyze(c.Request.Context(), &req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) moves(c *gin.Context) {
	var req rpc.LegalMovesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := s.Service.LegalMoves(c.Request.Context(), &req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) status(c *gin.Context) {
	var req rpc.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := s.Service.Status(c.Request.Context(), &req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

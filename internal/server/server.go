// Package server exposes the HTTP surface: the Twilio webhook, report
// downloads, a health probe and the token-guarded admin API.
package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-chatbot/internal/auth"
	"github.com/ukydev/fleet-chatbot/internal/bot"
	"github.com/ukydev/fleet-chatbot/internal/maintenance"
	"github.com/ukydev/fleet-chatbot/internal/store"
	"github.com/ukydev/fleet-chatbot/internal/sync"
	"github.com/ukydev/fleet-chatbot/internal/twiml"
)

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	responder  *bot.Responder
	store      store.Store
	tracker    *maintenance.Tracker
	auth       *auth.Service
	syncer     *sync.Syncer
	reportsDir string
}

// New creates a server. syncer may be nil when no Excel source is
// configured; the sync endpoints then report that state.
func New(responder *bot.Responder, s store.Store, tracker *maintenance.Tracker, authSvc *auth.Service, syncer *sync.Syncer, reportsDir string) *Server {
	return &Server{
		responder:  responder,
		store:      s,
		tracker:    tracker,
		auth:       authSvc,
		syncer:     syncer,
		reportsDir: reportsDir,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.POST("/webhook", s.handleWebhook)
	r.GET("/download/:filename", s.handleDownload)
	r.GET("/health", s.handleHealth)

	r.POST("/api/auth/login", s.handleLogin)

	admin := r.Group("/api/admin", s.requireAuth())
	admin.GET("/status", s.handleAdminStatus)
	admin.GET("/alerts", s.handleAdminAlerts)
	admin.GET("/stats", s.handleAdminStats)
	admin.POST("/sync", s.handleAdminSync)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request handled")
	}
}

// handleWebhook answers inbound WhatsApp messages with TwiML. An empty
// body is the only client error; everything else still yields a reply.
func (s *Server) handleWebhook(c *gin.Context) {
	body := c.PostForm("Body")
	from := c.PostForm("From")
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing message body"})
		return
	}

	reply := s.responder.Handle(c.Request.Context(), from, body)

	xml, err := twiml.Reply(reply.Body, reply.MediaURL)
	if err != nil {
		log.WithError(err).Error("failed to encode TwiML reply")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, twiml.ContentType, xml)
}

// handleDownload serves a generated report. The filename is flattened
// to its base so path traversal cannot escape the reports directory.
func (s *Server) handleDownload(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(s.reportsDir, filename)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "fleet-chatbot",
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	token, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := s.auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed token"})
			return
		}
		claims, err := s.auth.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("username", claims.Username)
		c.Next()
	}
}

// handleAdminStatus reports fleet size and the last sync runs.
func (s *Server) handleAdminStatus(c *gin.Context) {
	snap, err := s.store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load fleet data"})
		return
	}

	resp := gin.H{
		"vehicles": len(snap.Vehicles),
		"records":  len(snap.Records),
	}
	if s.syncer != nil {
		resp["sync"] = s.syncer.Status()
	} else {
		resp["sync"] = gin.H{"enabled": false}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAdminAlerts(c *gin.Context) {
	snap, err := s.store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load fleet data"})
		return
	}

	alerts := s.tracker.Alerts(snap, time.Now(), 30)
	c.JSON(http.StatusOK, gin.H{"total": len(alerts), "alerts": alerts})
}

func (s *Server) handleAdminStats(c *gin.Context) {
	snap, err := s.store.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load fleet data"})
		return
	}
	c.JSON(http.StatusOK, s.tracker.Stats(snap, time.Now()))
}

// handleAdminSync triggers an immediate sync run.
func (s *Server) handleAdminSync(c *gin.Context) {
	if s.syncer == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no Excel source configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	res, err := s.syncer.Run(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"changed":  res.Changed,
		"vehicles": res.Vehicles,
		"records":  res.Records,
		"faults":   res.Faults,
	})
}

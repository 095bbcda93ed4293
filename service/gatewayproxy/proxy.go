package gatewayproxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"relaychat/logger"
)

// Server fronts the auth and chat services: strips the route prefix
// and forwards, the way the original gateway resolves proxy paths.
type Server struct {
	authProxy *httputil.ReverseProxy
	chatProxy *httputil.ReverseProxy
	limiter   *Limiter
}

func NewServer(authURL, chatURL string, limiter *Limiter) (*Server, error) {
	ap, err := newProxy(authURL, "auth")
	if err != nil {
		return nil, err
	}
	cp, err := newProxy(chatURL, "chat")
	if err != nil {
		return nil, err
	}
	return &Server{authProxy: ap, chatProxy: cp, limiter: limiter}, nil
}

func newProxy(target, name string) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	p := httputil.NewSingleHostReverseProxy(u)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Errorf("[apigw] %s proxy error: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("API Gateway: " + name + " service is unavailable."))
	}
	return p, nil
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())

	auth := r.Group("/auth")
	if s.limiter != nil {
		auth.Use(s.limiter.Middleware("auth"))
	}
	auth.Any("/*path", s.forward(s.authProxy, "/auth"))

	chat := r.Group("/chat")
	if s.limiter != nil {
		chat.Use(s.limiter.Middleware("api"))
	}
	chat.Any("/*path", s.forward(s.chatProxy, "/chat"))

	r.NoRoute(func(c *gin.Context) {
		logger.Warnf("[apigw] 404 not found - %s %s", c.Request.Method, c.Request.URL.Path)
		c.String(http.StatusNotFound, "API Gateway: Endpoint not found")
	})
}

func (s *Server) forward(p *httputil.ReverseProxy, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.URL.Path = strings.TrimPrefix(c.Request.URL.Path, prefix)
		if c.Request.URL.Path == "" {
			c.Request.URL.Path = "/"
		}
		logger.Infof("[apigw] proxying %s %s%s", c.Request.Method, prefix, c.Request.URL.Path)
		p.ServeHTTP(c.Writer, c.Request)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

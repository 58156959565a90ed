package main

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type server struct {
	controller controller
}

func (s server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/analyze", s.Analyze)
	api.POST("/redact", s.Redact)
	api.POST("/deredact", s.Deredact)
	api.POST("/analyze-for-review", s.AnalyzeForReview)
	api.POST("/redact-selected", s.RedactSelected)
	api.GET("/health", s.Health)
}

type textRequest struct {
	Text     string `json:"text"`
	Validate bool   `json:"validate"`
}

func (r textRequest) check() error {
	if r.Text == "" {
		return NewHttpError(400, errors.New("text must not be empty"))
	}
	return nil
}

func (s server) Analyze(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(400, err))
		return
	}
	if err := req.check(); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, s.controller.Analyze(c.Request.Context(), req.Text, req.Validate))
}

func (s server) Redact(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(400, err))
		return
	}
	if err := req.check(); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, s.controller.Redact(c.Request.Context(), req.Text, req.Validate))
}

func (s server) Deredact(c *gin.Context) {
	var req struct {
		Text    string            `json:"text"`
		Mapping map[string]string `json:"mapping"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(400, err))
		return
	}
	if req.Text == "" {
		handleError(c, NewHttpError(400, errors.New("text must not be empty")))
		return
	}

	c.JSON(200, map[string]string{"text": s.controller.Deredact(req.Text, req.Mapping)})
}

func (s server) AnalyzeForReview(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(400, err))
		return
	}
	if err := req.check(); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(200, s.controller.AnalyzeForReview(c.Request.Context(), req.Text, req.Validate))
}

func (s server) RedactSelected(c *gin.Context) {
	var req struct {
		Text            string `json:"text"`
		SelectedIndices []int  `json:"selected_indices"`
		Validate        bool   `json:"validate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewHttpError(400, err))
		return
	}
	if req.Text == "" {
		handleError(c, NewHttpError(400, errors.New("text must not be empty")))
		return
	}

	resp, err := s.controller.RedactSelected(c.Request.Context(), req.Text, req.SelectedIndices, req.Validate)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(200, resp)
}

func (s server) Health(c *gin.Context) {
	c.JSON(200, s.controller.Health(c.Request.Context()))
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, 500, errors.New("abort called on nil error"))
	}
	switch e := err.(type) {
	case HttpError:
		abort(c, e.code, e.error)
	default:
		abort(c, 500, e)
	}
}

func abort(c *gin.Context, code int, err error) {
	switch {
	case code <= 500:
		c.JSON(code, map[string]interface{}{
			"status":  code,
			"message": err.Error(),
		})
		c.Abort()
	default:
		_ = c.AbortWithError(code, err)
	}
}

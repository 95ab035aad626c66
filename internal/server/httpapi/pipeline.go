package httpapi

import (
	"github.com/gin-gonic/gin"
)

// Rejection ends a request before its handler runs. Reason is logged and
// never sent to the client.
type Rejection struct {
	Status  int
	Message string
	JSON    bool
	Reason  string
}

// Stage is one guard of a route. Check returns nil to let the request
// through.
type Stage interface {
	Check(c *gin.Context) *Rejection
}

// StageFunc adapts a function to Stage.
type StageFunc func(c *gin.Context) *Rejection

func (f StageFunc) Check(c *gin.Context) *Rejection { return f(c) }

// Pipeline is the ordered list of stages a route runs before its handler.
type Pipeline []Stage

// Then returns a gin handler that runs the stages in order and calls h only
// when every stage passed. Exactly one response is written either way.
func (p Pipeline) Then(h gin.HandlerFunc) gin.HandlerFunc {
	stages := append(Pipeline(nil), p...)
	return func(c *gin.Context) {
		for _, s := range stages {
			if rej := s.Check(c); rej != nil {
				reject(c, rej)
				return
			}
		}
		h(c)
	}
}

func reject(c *gin.Context, rej *Rejection) {
	requestLogger(c).Warn(c.Request.Context(), "request rejected",
		"status", rej.Status,
		"reason", rej.Reason,
	)

	if rej.JSON {
		c.AbortWithStatusJSON(rej.Status, gin.H{"message": rej.Message})
		return
	}
	c.Abort()
	c.String(rej.Status, rej.Message)
}

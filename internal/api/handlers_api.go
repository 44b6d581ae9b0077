package api

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
	"github.com/spacesedan/reviewpulse/internal/tabular"
)

const rejectionMessage = "Text does not appear to be a smartwatch/product review."

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func respondError(c *gin.Context, err error) {
	status := MapHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) analyzeReview(c *gin.Context) {
	var req models.AnalysisRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: %v", ErrInvalidJSON, err))
			return
		}
	}

	result, err := s.analyzer.Analyze(req.Text, req.Enforce())
	if errors.Is(err, sentiment.ErrNotRelevant) {
		c.JSON(http.StatusOK, models.RelevanceRejection{Relevant: false, Message: rejectionMessage})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) analyzeBatch(c *gin.Context) {
	src, err := readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := s.aggregator.Run(c.Request.Context(), src, c.PostForm("text_column"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// readUpload parses the CSV uploaded under the "file" form field.
func readUpload(c *gin.Context) (*tabular.CSVSource, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, ErrMissingFile
	}
	if fh.Filename == "" {
		return nil, ErrUnnamedFile
	}
	return openCSV(fh)
}

func openCSV(fh *multipart.FileHeader) (*tabular.CSVSource, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tabular.ErrSourceUnreadable, err)
	}
	defer f.Close()

	src, err := tabular.ReadCSV(f)
	if err != nil {
		slog.Warn("[HTTP] Rejected upload",
			slog.String("filename", fh.Filename),
			slog.String("error", err.Error()))
		return nil, err
	}
	return src, nil
}

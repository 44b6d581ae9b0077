package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/reviewpulse/internal/auth"
	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
)

type authPage struct {
	Title      string
	Action     string
	Button     string
	Username   string
	Error      string
	FooterText string
	FooterLink string
	FooterHref string
}

func loginView() authPage {
	return authPage{
		Title:      "Login",
		Action:     "/login",
		Button:     "Login",
		FooterText: "New here?",
		FooterLink: "Create an account",
		FooterHref: "/signup",
	}
}

func signupView() authPage {
	return authPage{
		Title:      "Sign up",
		Action:     "/signup",
		Button:     "Create account",
		FooterText: "Already have an account?",
		FooterLink: "Login",
		FooterHref: "/login",
	}
}

func (s *Server) redirectIfLoggedIn(c *gin.Context) bool {
	if _, err := s.currentUser(c); err == nil {
		c.Redirect(http.StatusFound, "/")
		return true
	}
	return false
}

func (s *Server) loginPage(c *gin.Context) {
	if s.redirectIfLoggedIn(c) {
		return
	}
	c.HTML(http.StatusOK, "auth.html", loginView())
}

func (s *Server) login(c *gin.Context) {
	if s.redirectIfLoggedIn(c) {
		return
	}

	view := loginView()
	view.Username = strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if view.Username == "" || password == "" {
		view.Error = "Please enter both username and password."
		c.HTML(http.StatusOK, "auth.html", view)
		return
	}

	ok, err := s.creds.ValidateUser(c.Request.Context(), view.Username, password)
	if err != nil {
		_ = c.Error(err)
		view.Error = "Login is unavailable right now. Please try again."
		c.HTML(http.StatusInternalServerError, "auth.html", view)
		return
	}
	if !ok {
		view.Error = "Invalid username or password."
		c.HTML(http.StatusOK, "auth.html", view)
		return
	}

	s.finishLogin(c, view)
}

func (s *Server) signupPage(c *gin.Context) {
	if s.redirectIfLoggedIn(c) {
		return
	}
	c.HTML(http.StatusOK, "auth.html", signupView())
}

func (s *Server) signup(c *gin.Context) {
	if s.redirectIfLoggedIn(c) {
		return
	}

	view := signupView()
	view.Username = strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	err := s.creds.CreateUser(c.Request.Context(), view.Username, password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		view.Error = "Please choose a username and password."
		c.HTML(http.StatusOK, "auth.html", view)
		return
	case errors.Is(err, auth.ErrUserExists):
		view.Error = "That username is already taken. Please pick another one."
		c.HTML(http.StatusOK, "auth.html", view)
		return
	case err != nil:
		_ = c.Error(err)
		view.Error = "Sign up is unavailable right now. Please try again."
		c.HTML(http.StatusInternalServerError, "auth.html", view)
		return
	}

	slog.Info("[HTTP] User signed up",
		slog.String("username", view.Username))
	s.finishLogin(c, view)
}

func (s *Server) finishLogin(c *gin.Context, view authPage) {
	if err := s.startSession(c, view.Username); err != nil {
		_ = c.Error(err)
		view.Error = "Could not start a session. Please try again."
		c.HTML(http.StatusInternalServerError, "auth.html", view)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	s.endSession(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

type singleView struct {
	CurrentUser    string
	ReviewText     string
	ProceedAnyway  bool
	EnforceWarning bool
	Error          string
	Result         *models.AnalysisResult
}

func (s *Server) singlePage(c *gin.Context) {
	c.HTML(http.StatusOK, "single.html", singleView{CurrentUser: c.GetString(userKey)})
}

func (s *Server) singleAnalyze(c *gin.Context) {
	view := singleView{
		CurrentUser:   c.GetString(userKey),
		ReviewText:    strings.TrimSpace(c.PostForm("review_text")),
		ProceedAnyway: c.PostForm("proceed_anyway") != "",
	}

	result, err := s.analyzer.Analyze(view.ReviewText, !view.ProceedAnyway)
	switch {
	case errors.Is(err, sentiment.ErrInvalidInput):
		view.Error = "Please enter a review to analyze."
	case errors.Is(err, sentiment.ErrNotRelevant):
		view.EnforceWarning = true
	case err != nil:
		_ = c.Error(err)
		view.Error = "Analysis failed. Please try again."
	default:
		view.Result = result
	}

	c.HTML(http.StatusOK, "single.html", view)
}

type batchRowView struct {
	Review     string
	Sentiment  string
	Polarity   string
	Confidence string
	Relevant   string
}

type batchView struct {
	CurrentUser     string
	Error           string
	Summary         *models.BatchSummary
	Labels          []models.SentimentLabel
	AveragePolarity string
	Rows            []batchRowView
	Hidden          int
}

func (s *Server) batchPage(c *gin.Context) {
	c.HTML(http.StatusOK, "batch.html", batchView{CurrentUser: c.GetString(userKey)})
}

func (s *Server) batchAnalyze(c *gin.Context) {
	view := batchView{CurrentUser: c.GetString(userKey), Labels: models.Labels}

	src, err := readUpload(c)
	if err != nil {
		view.Error = pageError(err)
		c.HTML(http.StatusOK, "batch.html", view)
		return
	}

	resp, err := s.aggregator.Run(c.Request.Context(), src, c.PostForm("text_column"))
	if err != nil {
		view.Error = pageError(err)
		c.HTML(http.StatusOK, "batch.html", view)
		return
	}

	view.Summary = &resp.Summary
	view.AveragePolarity = "n/a"
	if avg := resp.Summary.AveragePolarity; avg != nil {
		view.AveragePolarity = fmt.Sprintf("%.3f", *avg)
	}
	shown := resp.Results
	if len(shown) > s.opts.DisplayLimit {
		view.Hidden = len(shown) - s.opts.DisplayLimit
		shown = shown[:s.opts.DisplayLimit]
	}
	view.Rows = make([]batchRowView, len(shown))
	for i, row := range shown {
		view.Rows[i] = toRowView(row)
	}

	c.HTML(http.StatusOK, "batch.html", view)
}

func pageError(err error) string {
	if errors.Is(err, ErrMissingFile) || errors.Is(err, ErrUnnamedFile) {
		return "Please upload a CSV file."
	}
	if MapHTTPStatus(err) == http.StatusBadRequest {
		msg := err.Error()
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	}
	return "Batch analysis failed. Please try again."
}

func toRowView(row models.BatchRow) batchRowView {
	view := batchRowView{
		Sentiment:  "Not analyzed",
		Polarity:   "-",
		Confidence: "-",
		Relevant:   "N/A",
	}
	if row.Review != nil {
		view.Review = *row.Review
	}
	if row.Relevant != nil {
		view.Relevant = "No"
		if *row.Relevant {
			view.Relevant = "Yes"
		}
	}
	if row.Sentiment != nil {
		view.Sentiment = string(*row.Sentiment)
	}
	if row.Polarity != nil {
		view.Polarity = fmt.Sprintf("%.3f", *row.Polarity)
	}
	if row.Confidence != nil {
		view.Confidence = fmt.Sprintf("%.1f%%", *row.Confidence)
	}
	return view
}

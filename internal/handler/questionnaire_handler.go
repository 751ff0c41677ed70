package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"docportal/internal/auth"
	"docportal/internal/model"
	"docportal/internal/service"
	"docportal/internal/web"
)

// QuestionnaireHandler serves the readiness questionnaire.
type QuestionnaireHandler struct {
	questionnaire service.QuestionnaireService
	authService   service.AuthService
	cookies       *auth.CookieHelper
}

// NewQuestionnaireHandler creates a questionnaire handler.
func NewQuestionnaireHandler(q service.QuestionnaireService, authService service.AuthService, cookies *auth.CookieHelper) *QuestionnaireHandler {
	return &QuestionnaireHandler{questionnaire: q, authService: authService, cookies: cookies}
}

type questionnaireView struct {
	Contact  string
	Sections []model.QuestionnaireSection
	Answers  map[string]string
	Errors   []service.FieldError
}

func (h *QuestionnaireHandler) render(c echo.Context, status int, user *auth.Claims, answers map[string]string, problems []service.FieldError) error {
	if answers == nil {
		answers = map[string]string{}
	}
	return c.Render(status, "questionnaire", web.View{
		Title: "Readiness Questionnaire",
		User:  user,
		Data: questionnaireView{
			Contact:  service.ReadinessContact,
			Sections: h.questionnaire.Sections(),
			Answers:  answers,
			Errors:   problems,
		},
	})
}

// Form renders the empty questionnaire.
func (h *QuestionnaireHandler) Form(c echo.Context) error {
	return h.render(c, http.StatusOK, sessionFor(c, h.authService, h.cookies), nil, nil)
}

// Submit validates the posted answers and returns them as a JSON download.
func (h *QuestionnaireHandler) Submit(c echo.Context) error {
	user := sessionFor(c, h.authService, h.cookies)

	form, err := c.FormParams()
	if err != nil {
		return badRequest("Invalid form submission")
	}
	answers := make(map[string]string, len(form))
	for name, values := range form {
		if len(values) > 0 {
			answers[name] = values[0]
		}
	}

	submittedBy := ""
	if user != nil {
		submittedBy = user.Username
	}

	sub, err := h.questionnaire.Submit(answers, submittedBy)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return h.render(c, http.StatusBadRequest, user, answers, verr.Fields)
		}
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+h.questionnaire.Filename(sub)+`"`)
	return c.JSONPretty(http.StatusOK, sub, "  ")
}

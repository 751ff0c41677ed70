package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docportal/internal/content"
	"docportal/internal/model"
	"docportal/internal/service"
)

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                  "/docs",
		"/admin/users":      "/admin/users",
		"//evil.example":    "/docs",
		"/\\evil.example":   "/docs",
		"https://evil.test": "/docs",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirect(in), in)
	}
}

func TestPageHandler_Home(t *testing.T) {
	f := newFixture(t)
	h := NewPageHandler(f.auth, f.users, f.cookies)

	c, rec := f.context(http.MethodGet, "/", "", nil)
	require.NoError(t, h.Home(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "LVHN eKVM Remote Update")

	c, rec = f.context(http.MethodGet, "/", "", f.sessionCookie(t, "bob"))
	require.NoError(t, h.Home(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/docs", rec.Header().Get(echo.HeaderLocation))
}

func TestPageHandler_LoginPage(t *testing.T) {
	f := newFixture(t)
	h := NewPageHandler(f.auth, f.users, f.cookies)

	c, rec := f.context(http.MethodGet, "/login?redirect=%2Fadmin", "", nil)
	require.NoError(t, h.LoginPage(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="redirect" value="/admin"`)

	c, rec = f.context(http.MethodGet, "/login?redirect=%2Fadmin", "", f.sessionCookie(t, "alice"))
	require.NoError(t, h.LoginPage(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get(echo.HeaderLocation))
}

func TestPageHandler_LoginSubmit(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantBody   string
		wantCookie bool
	}{
		{
			name:       "success redirects",
			form:       url.Values{"username": {"alice"}, "password": {"pw1"}, "redirect": {"/admin/users"}},
			wantStatus: http.StatusSeeOther,
			wantCookie: true,
		},
		{
			name:       "bad password re-renders",
			form:       url.Values{"username": {"alice"}, "password": {"bad"}},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid username or password",
		},
		{
			name:       "missing fields",
			form:       url.Values{"username": {"alice"}},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Username and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			h := NewPageHandler(f.auth, f.users, f.cookies)
			c, rec := f.context(http.MethodPost, "/login", tt.form.Encode(), nil)

			require.NoError(t, h.LoginSubmit(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCookie {
				assert.Equal(t, "/admin/users", rec.Header().Get(echo.HeaderLocation))
				assert.Contains(t, rec.Header().Get("Set-Cookie"), testCookie+"=")
			} else {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
				assert.Empty(t, rec.Header().Get("Set-Cookie"))
			}
		})
	}
}

func TestPageHandler_AdminPages(t *testing.T) {
	f := newFixture(t)
	h := NewPageHandler(f.auth, f.users, f.cookies)

	pages := map[string]func(echo.Context) error{"/admin": h.Admin, "/admin/users": h.AdminUsers}
	for path, call := range pages {
		t.Run(path, func(t *testing.T) {
			c, rec := f.context(http.MethodGet, path, "", nil)
			require.NoError(t, call(c))
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login?redirect="+url.QueryEscape(path), rec.Header().Get(echo.HeaderLocation))

			c, rec = f.context(http.MethodGet, path, "", f.sessionCookie(t, "bob"))
			require.NoError(t, call(c))
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Contains(t, rec.Body.String(), "Admin access required.")

			c, rec = f.context(http.MethodGet, path, "", f.sessionCookie(t, "alice"))
			require.NoError(t, call(c))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	c, rec := f.context(http.MethodGet, "/admin/users", "", f.sessionCookie(t, "alice"))
	require.NoError(t, h.AdminUsers(c))
	assert.Contains(t, rec.Body.String(), "bob@example.com")
	assert.Contains(t, rec.Body.String(), `data-delete="`+f.user(t, "bob").ID+`"`)
	assert.NotContains(t, rec.Body.String(), `data-delete="`+f.user(t, "alice").ID+`"`)
}

func TestDocsHandler(t *testing.T) {
	f := newFixture(t)
	docs := service.NewDocumentService([]model.Page{
		{Slug: "runbooks/rdp", URL: "/docs/runbooks/rdp", Title: "RDP Hardening", Category: "Runbooks", Published: true, Body: "# Steps\n<script>x()</script>"},
	}, content.NewRenderer(), nil, time.Minute, nil)
	h := NewDocsHandler(docs, f.auth, f.cookies)
	cookie := f.sessionCookie(t, "bob")

	c, rec := f.context(http.MethodGet, "/docs?q=rdp", "", cookie)
	require.NoError(t, h.Index(c))
	assert.Contains(t, rec.Body.String(), `href="/docs/runbooks/rdp"`)
	assert.Contains(t, rec.Body.String(), "Technology Stack Specification")

	c, rec = f.context(http.MethodGet, "/docs/runbooks/rdp", "", cookie)
	c.SetParamNames("*")
	c.SetParamValues("runbooks/rdp")
	require.NoError(t, h.Page(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<h1 id="steps">Steps</h1>`)
	assert.NotContains(t, rec.Body.String(), "x()")

	c, rec = f.context(http.MethodGet, "/docs/missing", "", cookie)
	c.SetParamNames("*")
	c.SetParamValues("missing")
	require.NoError(t, h.Page(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = f.context(http.MethodGet, "/api/docs/catalog", "", cookie)
	require.NoError(t, h.ListCatalog(c))
	var catalog []model.DocumentLink
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Len(t, catalog, 11)

	c, rec = f.context(http.MethodGet, "/api/docs/pages", "", nil)
	assert.Equal(t, http.StatusUnauthorized, statusOf(h.ListPages(c), rec))
}

func TestQuestionnaireHandler(t *testing.T) {
	f := newFixture(t)
	h := NewQuestionnaireHandler(service.NewQuestionnaireService(), f.auth, f.cookies)
	cookie := f.sessionCookie(t, "bob")

	c, rec := f.context(http.MethodGet, "/questionnaire", "", cookie)
	require.NoError(t, h.Form(c))
	assert.Contains(t, rec.Body.String(), `name="jumperHostname"`)
	assert.Contains(t, rec.Body.String(), `<option value="ssl-vpn">SSL VPN</option>`)

	c, rec = f.context(http.MethodPost, "/questionnaire", url.Values{"jumperHostname": {"jumper-01"}}.Encode(), cookie)
	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Windows Server Version is required")
	assert.Contains(t, rec.Body.String(), `value="jumper-01"`)

	form := url.Values{}
	for k, v := range map[string]string{
		"jumperHostname": "jumper-01", "jumperLocation": "DC A", "windowsVersion": "2022", "localAdminContact": "Jane",
		"accessMethod": "dedicated", "vpnGateway": "vpn", "authenticationMethod": "AD", "mfaProvider": "MS",
		"ekvmConnectivity": "yes", "firewallContact": "netops", "directoryService": "AD", "jitProcess": "SN",
		"leadTime": "48h", "expiryPolicy": "1h", "changeSystem": "SN", "standardWindow": "Sun", "noticePeriod": "5d",
		"approver": "John", "oncallContact": "Ops",
	} {
		form.Set(k, v)
	}
	c, rec = f.context(http.MethodPost, "/questionnaire", form.Encode(), cookie)
	require.NoError(t, h.Submit(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, `attachment; filename="lvhn-jumper-questionnaire-`+today+`.json"`, rec.Header().Get(echo.HeaderContentDisposition))

	var sub model.QuestionnaireSubmission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.Equal(t, "bob", sub.SubmittedBy)
	assert.Equal(t, "dedicated", sub.Answers["accessMethod"])
}

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "docportal/internal/errors"
	"docportal/internal/model"
)

func completeAnswers() map[string]string {
	return map[string]string{
		"jumperHostname":       "jumper-01.lvhn.local",
		"jumperLocation":       "Data Center A",
		"windowsVersion":       "Windows Server 2022",
		"localAdminContact":    "Jane Smith",
		"accessMethod":         "ssl-vpn",
		"vpnGateway":           "vpn.lvhn.org",
		"authenticationMethod": "AD + SAML",
		"mfaProvider":          "Microsoft Authenticator",
		"ekvmConnectivity":     "pending",
		"firewallContact":      "netops@lvhn.org",
		"directoryService":     "lvhn.local",
		"jitProcess":           "CHG-JIT-ACCESS",
		"leadTime":             "48 hours",
		"expiryPolicy":         "1 hour after window",
		"changeSystem":         "ServiceNow",
		"standardWindow":       "Sundays 01:00",
		"noticePeriod":         "5 business days",
		"approver":             "John Doe",
		"oncallContact":        "Operations Bridge",
	}
}

func TestQuestionnaireService_Sections(t *testing.T) {
	sections := NewQuestionnaireService().Sections()

	ids := lo.Map(sections, func(s model.QuestionnaireSection, _ int) string { return s.ID })
	assert.Equal(t, []string{"jumper", "access", "identity", "maintenance", "notes", "approvals"}, ids)

	for _, s := range sections {
		for _, f := range s.Fields {
			assert.NotEmpty(t, f.Type, f.Name)
		}
	}
}

func TestQuestionnaireService_Submit(t *testing.T) {
	svc := NewQuestionnaireService().(*questionnaireService)
	svc.now = func() time.Time { return time.Date(2025, 11, 14, 16, 0, 0, 0, time.UTC) }

	answers := completeAnswers()
	answers["additionalNotes"] = "  blackout during holidays  "
	answers["patchStatus"] = "   "
	answers["unknownField"] = "ignored"

	sub, err := svc.Submit(answers, "alice")

	require.NoError(t, err)
	assert.Equal(t, "alice", sub.SubmittedBy)
	assert.Equal(t, "blackout during holidays", sub.Answers["additionalNotes"])
	assert.NotContains(t, sub.Answers, "patchStatus")
	assert.NotContains(t, sub.Answers, "unknownField")
	assert.Equal(t, "lvhn-jumper-questionnaire-2025-11-14.json", svc.Filename(sub))
}

func TestQuestionnaireService_SubmitRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
		fields []string
	}{
		{
			name:   "missing required",
			mutate: func(a map[string]string) { delete(a, "jumperHostname"); a["mfaProvider"] = " " },
			fields: []string{"jumperHostname", "mfaProvider"},
		},
		{
			name:   "invalid select option",
			mutate: func(a map[string]string) { a["accessMethod"] = "carrier-pigeon" },
			fields: []string{"accessMethod"},
		},
		{
			name: "empty submission",
			mutate: func(a map[string]string) {
				for k := range a {
					delete(a, k)
				}
			},
			fields: []string{"answers"},
		},
	}

	svc := NewQuestionnaireService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := completeAnswers()
			tt.mutate(answers)

			_, err := svc.Submit(answers, "")

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			got := lo.Map(verr.Fields, func(f FieldError, _ int) string { return f.Field })
			assert.Equal(t, tt.fields, got)
		})
	}
}

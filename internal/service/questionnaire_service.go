package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	apperrors "docportal/internal/errors"
	"docportal/internal/model"
)

// ReadinessContact receives completed questionnaires.
const ReadinessContact = "ionic.project.manager@ionic.health"

var questionnaireSections = []model.QuestionnaireSection{
	{
		ID:          "jumper",
		Title:       "1. Jumper Server Deployment",
		Description: "Required details for the LVHN-operated Windows jumper server.",
		Fields: []model.QuestionnaireField{
			{Name: "jumperHostname", Label: "Hostname / FQDN", Required: true, Placeholder: "jumper-server-01.lvhn.local"},
			{Name: "jumperLocation", Label: "Physical or Virtual Location", Required: true, Placeholder: "Data Center A"},
			{Name: "windowsVersion", Label: "Windows Server Version", Required: true, Placeholder: "Windows Server 2022 Standard"},
			{Name: "patchStatus", Label: "Current Patch Level", Placeholder: "Latest cumulative update applied: 2025-10"},
			{Name: "hardeningBaseline", Label: "Hardening Baseline Applied", Placeholder: "CIS Level 1 + Microsoft SCT"},
			{Name: "localAdminContact", Label: "Local Admin Contact (Name / Email)", Required: true, Placeholder: "Jane Smith - jane.smith@lvhn.org"},
			{Name: "backupCapability", Label: "Backup or Snapshot Capability", Placeholder: "E.g., nightly snapshots via VMware SRM"},
		},
	},
	{
		ID:          "access",
		Title:       "2. Connectivity Path",
		Description: "How Ionic operators reach the jumper server and the eKVM devices.",
		Fields: []model.QuestionnaireField{
			{
				Name: "accessMethod", Label: "Access Method", Type: model.FieldSelect, Required: true,
				Options: []model.FieldOption{
					{Value: "ssl-vpn", Label: "SSL VPN"},
					{Value: "dedicated", Label: "Dedicated network access"},
					{Value: "other", Label: "Other"},
				},
			},
			{Name: "vpnGateway", Label: "VPN / Access Gateway (Hostname or URL)", Required: true, Placeholder: "vpn.lvhn.org"},
			{Name: "authenticationMethod", Label: "Authentication Method", Required: true, Placeholder: "Active Directory with SAML federation"},
			{Name: "mfaProvider", Label: "MFA Provider", Required: true, Placeholder: "Microsoft Authenticator"},
			{
				Name: "ekvmConnectivity", Label: "Can jumper reach Ionic eKVM public IPs during the window?", Type: model.FieldSelect, Required: true,
				Options: []model.FieldOption{
					{Value: "yes", Label: "Yes"},
					{Value: "no", Label: "No"},
					{Value: "pending", Label: "Pending validation"},
				},
			},
			{Name: "firewallContact", Label: "Firewall/ACL Change Contact (Name / Email / Phone)", Required: true, Placeholder: "Network Operations - netops@lvhn.org - +1 555-0100"},
			{Name: "proxyDetails", Label: "Proxy Required for Outbound HTTPS?", Placeholder: "If yes, provide host, port, and auth method."},
		},
	},
	{
		ID:          "identity",
		Title:       "3. Identity & Access",
		Description: "Controls for named, time-boxed accounts.",
		Fields: []model.QuestionnaireField{
			{Name: "directoryService", Label: "Directory Service", Required: true, Placeholder: "LVHN Active Directory (lvhn.local)"},
			{Name: "jitProcess", Label: "Process to Provision JIT Accounts", Required: true, Placeholder: "ServiceNow request: template CHG-JIT-ACCESS"},
			{Name: "leadTime", Label: "Minimum Lead Time to Enable Accounts", Required: true, Placeholder: "48 hours"},
			{Name: "expiryPolicy", Label: "Account Expiry Policy", Required: true, Placeholder: "Auto-disable 1 hour after maintenance window"},
			{Name: "pamInUse", Label: "Privileged Access Management Tool", Placeholder: "If applicable (e.g., CyberArk, BeyondTrust). Indicate if not used."},
			{Name: "siemContact", Label: "SIEM Contact (Email)", Placeholder: "siem@lvhn.org"},
		},
	},
	{
		ID:          "maintenance",
		Title:       "4. Maintenance Windows",
		Description: "Change control information for scheduling.",
		Fields: []model.QuestionnaireField{
			{Name: "changeSystem", Label: "Change Management System", Required: true, Placeholder: "ServiceNow"},
			{Name: "standardWindow", Label: "Standard Maintenance Window (Days / Times)", Required: true, Placeholder: "Sundays 01:00-04:00 ET"},
			{Name: "noticePeriod", Label: "Required Notice for Window Approval", Required: true, Placeholder: "5 business days"},
			{Name: "approver", Label: "Primary Change Approver (Name / Role / Email)", Required: true, Placeholder: "John Doe - Change Manager - john.doe@lvhn.org"},
			{Name: "oncallContact", Label: "On-call Contact During Window (Name / Phone)", Required: true, Placeholder: "Operations Bridge - +1 555-0111"},
			{Name: "evidenceMethod", Label: "Preferred Evidence Submission Method", Placeholder: "Attach to change ticket within 24 hours"},
		},
	},
	{
		ID:          "notes",
		Title:       "5. Additional Notes",
		Description: "Optional space for constraints, blackout periods, or clarifications.",
		Fields: []model.QuestionnaireField{
			{Name: "additionalNotes", Label: "Notes", Type: model.FieldTextarea, Placeholder: "Add any information that helps coordination or highlights constraints."},
		},
	},
	{
		ID:          "approvals",
		Title:       "6. Approvals",
		Description: "Capture the stakeholders who reviewed the information.",
		Fields: []model.QuestionnaireField{
			{Name: "lvhnOperationsApproval", Label: "LVHN IT Operations (Name / Date)", Placeholder: "Jane Smith - 2025-11-11"},
			{Name: "lvhnComplianceApproval", Label: "LVHN Security / Compliance (Name / Date)", Placeholder: "Mark Lee - 2025-11-12"},
			{Name: "ionicPmApproval", Label: "Ionic Health Project Manager (Name / Date)", Placeholder: "Alex Brown - 2025-11-13"},
		},
	},
}

// FieldError describes one rejected questionnaire answer.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected answer of a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := lo.Map(e.Fields, func(f FieldError, _ int) string { return f.Field })
	return fmt.Sprintf("%s: %s", apperrors.ErrValidation, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// QuestionnaireService holds the readiness questionnaire schema.
type QuestionnaireService interface {
	Sections() []model.QuestionnaireSection
	Submit(answers map[string]string, submittedBy string) (*model.QuestionnaireSubmission, error)
	Filename(sub *model.QuestionnaireSubmission) string
}

type questionnaireService struct {
	sections []model.QuestionnaireSection
	fields   map[string]model.QuestionnaireField
	now      func() time.Time
}

// NewQuestionnaireService creates the service for the jumper server questionnaire.
func NewQuestionnaireService() QuestionnaireService {
	sections := lo.Map(questionnaireSections, func(s model.QuestionnaireSection, _ int) model.QuestionnaireSection {
		s.Fields = lo.Map(s.Fields, func(f model.QuestionnaireField, _ int) model.QuestionnaireField {
			if f.Type == "" {
				f.Type = model.FieldText
			}
			return f
		})
		return s
	})
	fields := lo.FlatMap(sections, func(s model.QuestionnaireSection, _ int) []model.QuestionnaireField {
		return s.Fields
	})
	return &questionnaireService{
		sections: sections,
		fields:   lo.KeyBy(fields, func(f model.QuestionnaireField) string { return f.Name }),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Sections returns the questionnaire layout.
func (s *questionnaireService) Sections() []model.QuestionnaireSection {
	return s.sections
}

// Submit trims the answers, drops blank and unknown fields, and checks
// required fields and select options.
func (s *questionnaireService) Submit(answers map[string]string, submittedBy string) (*model.QuestionnaireSubmission, error) {
	clean := make(map[string]string, len(answers))
	for name, value := range answers {
		value = strings.TrimSpace(value)
		if _, known := s.fields[name]; !known || value == "" {
			continue
		}
		clean[name] = value
	}

	if len(clean) == 0 {
		return nil, &ValidationError{Fields: []FieldError{{Field: "answers", Message: "at least one answer is required"}}}
	}

	var problems []FieldError
	for _, section := range s.sections {
		for _, field := range section.Fields {
			value, ok := clean[field.Name]
			if !ok {
				if field.Required {
					problems = append(problems, FieldError{Field: field.Name, Message: field.Label + " is required"})
				}
				continue
			}
			if field.Type == model.FieldSelect && !lo.ContainsBy(field.Options, func(o model.FieldOption) bool { return o.Value == value }) {
				problems = append(problems, FieldError{Field: field.Name, Message: fmt.Sprintf("%q is not a valid choice", value)})
			}
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Fields: problems}
	}

	return &model.QuestionnaireSubmission{
		SubmittedAt: s.now(),
		SubmittedBy: submittedBy,
		Answers:     clean,
	}, nil
}

// Filename is the download name for sub, dated by its submission day.
func (s *questionnaireService) Filename(sub *model.QuestionnaireSubmission) string {
	return "lvhn-jumper-questionnaire-" + sub.SubmittedAt.Format("2006-01-02") + ".json"
}

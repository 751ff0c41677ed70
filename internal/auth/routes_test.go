package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteTable_Classify(t *testing.T) {
	table := DefaultRouteTable()

	tests := []struct {
		path string
		want RouteClass
	}{
		{"/", RoutePublic},
		{"/login", RoutePublic},
		{"/login/help", RoutePublic},
		{"/api/auth/login", RoutePublic},
		{"/api/auth/logout", RoutePublic},
		{"/docs", RouteProtected},
		{"/docs/architecture/adr-001", RouteProtected},
		{"/questionnaire", RouteProtected},
		{"/admin/users", RouteProtected},
		{"/api/auth/me", RouteUnrestricted},
		{"/api/users", RouteUnrestricted},
		{"/healthz", RouteUnrestricted},
		{"/static/app.css", RouteUnrestricted},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.path))
		})
	}
}

func TestRouteTable_PublicWinsOverProtected(t *testing.T) {
	table := RouteTable{
		Public:    []PathRule{{Path: "/docs/public", Prefix: true}},
		Protected: []PathRule{{Path: "/docs", Prefix: true}},
	}

	assert.Equal(t, RoutePublic, table.Classify("/docs/public/intro"))
	assert.Equal(t, RouteProtected, table.Classify("/docs/private"))
}

func TestRouteClass_String(t *testing.T) {
	assert.Equal(t, "public", RoutePublic.String())
	assert.Equal(t, "protected", RouteProtected.String())
	assert.Equal(t, "unrestricted", RouteUnrestricted.String())
}

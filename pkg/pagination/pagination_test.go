package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultLimit, 0},
		{"explicit", "limit=50&offset=10", 50, 10},
		{"capped at max", "limit=5000", MaxLimit, 0},
		{"negative offset clamped", "offset=-5", DefaultLimit, 0},
		{"zero limit defaults", "limit=0", DefaultLimit, 0},
		{"garbage ignored", "limit=abc&offset=xyz", DefaultLimit, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := paramsFor(t, tc.query)
			if p.Limit != tc.wantLimit {
				t.Errorf("limit: expected %d, got %d", tc.wantLimit, p.Limit)
			}
			if p.Offset != tc.wantOffset {
				t.Errorf("offset: expected %d, got %d", tc.wantOffset, p.Offset)
			}
		})
	}
}

func TestResponse_HasMore(t *testing.T) {
	resp := NewResponse([]string{"a"}, 45, 20, 20)
	if !resp.HasMore {
		t.Error("expected HasMore at offset 20 of 45")
	}
	resp = NewResponse([]string{"a"}, 45, 20, 40)
	if resp.HasMore {
		t.Error("expected no more results at offset 40 of 45")
	}
}

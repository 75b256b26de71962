package examples_test

import (
	"testing"

	"github.com/goliatone/go-exampledoc/pkg/examples"
)

func TestSymbolName(t *testing.T) {
	cases := map[string]string{
		"userDetail":      "USER_DETAIL",
		"user-detail":     "USER_DETAIL",
		"user_detail":     "USER_DETAIL",
		"HTTPStatus":      "HTTP_STATUS",
		"myBarGraph":      "MY_BAR_GRAPH",
		"USER":            "USER",
		"  auth token  ":  "AUTH_TOKEN",
		"position2Detail": "POSITION2_DETAIL",
		"--":              "",
	}
	for in, want := range cases {
		if got := examples.SymbolName(in); got != want {
			t.Errorf("SymbolName(%q) = %q, want %q", in, got, want)
		}
	}
}

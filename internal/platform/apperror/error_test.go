package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/inkhouse/backend/internal/platform/apperror"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		code         apperror.ErrorCode
		businessCode apperror.BusinessCode
		message      string
		httpStatus   int
	}{
		{
			name:         "not found error",
			code:         apperror.CodeNotFound,
			businessCode: apperror.BusinessCodePostNotFound,
			message:      "post not found",
			httpStatus:   http.StatusNotFound,
		},
		{
			name:         "invalid argument error",
			code:         apperror.CodeInvalidArgument,
			businessCode: apperror.BusinessCodeMalformedID,
			message:      "post id must be numeric",
			httpStatus:   http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := apperror.New(tt.code, tt.businessCode, tt.message, tt.httpStatus)
			if err.Code != tt.code {
				t.Errorf("expected code %v, got %v", tt.code, err.Code)
			}
			if err.BusinessCode != tt.businessCode {
				t.Errorf("expected business code %v, got %v", tt.businessCode, err.BusinessCode)
			}
			if err.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, err.Error())
			}
			if err.HTTPStatus != tt.httpStatus {
				t.Errorf("expected http status %d, got %d", tt.httpStatus, err.HTTPStatus)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := apperror.Wrap(
		inner,
		apperror.CodeRemoteRequest,
		apperror.BusinessCodeRemoteUnreachable,
		"listPosts: remote backend unreachable",
		http.StatusBadGateway,
	)

	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to match inner via errors.Is")
	}
	if errors.Unwrap(err) != inner {
		t.Error("expected Unwrap to return the inner error")
	}
}

func TestIs_MatchesOnBothCodes(t *testing.T) {
	missing := apperror.MissingSetting("RESTCMS_BASE_URL")
	target := apperror.New(
		apperror.CodeConfiguration,
		apperror.BusinessCodeMissingSetting,
		"anything",
		http.StatusInternalServerError,
	)

	if !errors.Is(missing, target) {
		t.Error("expected configuration errors to match by code pair")
	}

	other := apperror.New(
		apperror.CodeConfiguration,
		apperror.BusinessCodeUnknownProvider,
		"anything",
		http.StatusInternalServerError,
	)
	if errors.Is(missing, other) {
		t.Error("expected different business codes not to match")
	}
}

func TestMissingSetting_NamesTheKey(t *testing.T) {
	err := apperror.MissingSetting("DOCCMS_PROJECT_ID")
	if err.Details != "DOCCMS_PROJECT_ID" {
		t.Errorf("expected details to carry the setting name, got %v", err.Details)
	}
	want := "required setting DOCCMS_PROJECT_ID is not configured"
	if err.Message != want {
		t.Errorf("expected message %q, got %q", want, err.Message)
	}
}

func TestRemoteStatus_CarriesStatus(t *testing.T) {
	err := apperror.RemoteStatus("RestProvider.ListPosts", http.StatusForbidden)
	if err.Details != http.StatusForbidden {
		t.Errorf("expected details to carry the remote status, got %v", err.Details)
	}
	if err.Code != apperror.CodeRemoteRequest {
		t.Errorf("expected remote request code, got %v", err.Code)
	}
}

func TestFormat_Verbose(t *testing.T) {
	inner := errors.New("boom")
	err := apperror.Wrap(
		inner,
		apperror.CodeInternalError,
		apperror.BusinessCodeGeneral,
		"something failed",
		http.StatusInternalServerError,
	).WithDetails("extra")

	out := fmt.Sprintf("%+v", err)
	for _, want := range []string{"INTERNAL_ERROR", "something failed", "boom", "extra"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected verbose output to contain %q, got %q", want, out)
		}
	}

	if got := fmt.Sprintf("%s", err); got != "something failed" {
		t.Errorf("expected plain format to be the message, got %q", got)
	}
}

package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/semantic-faq/pkg/errors"
)

func TestDomainErrorMapsCodes(t *testing.T) {
	cases := []struct {
		code   string
		status int
		want   string
	}{
		{code: apperrors.CodeInvalidInput, status: http.StatusBadRequest, want: codeInvalidRequest},
		{code: apperrors.CodeEncoder, status: http.StatusBadGateway, want: apperrors.CodeEncoder},
		{code: apperrors.CodeStorage, status: http.StatusInternalServerError, want: apperrors.CodeStorage},
		{code: apperrors.CodeUnauthorized, status: http.StatusForbidden, want: apperrors.CodeUnauthorized},
		{code: apperrors.CodeInvalidToken, status: http.StatusForbidden, want: apperrors.CodeInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			httpErr := domainError(apperrors.Wrap(tc.code, "boom", nil), "fallback")
			require.Equal(t, tc.status, httpErr.Status)
			require.Equal(t, tc.want, httpErr.Code)
		})
	}

	httpErr := domainError(errors.New("plain"), "add_failed")
	require.Equal(t, http.StatusInternalServerError, httpErr.Status)
	require.Equal(t, "add_failed", httpErr.Code)
}

func TestAsHTTPError(t *testing.T) {
	require.Nil(t, asHTTPError(nil))

	notFound := questionNotFound()
	require.Same(t, notFound, asHTTPError(notFound))

	encoderErr := asHTTPError(apperrors.Wrap(apperrors.CodeEncoder, "embed", errors.New("offline")))
	require.Equal(t, http.StatusBadGateway, encoderErr.Status)

	unknown := asHTTPError(errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, unknown.Status)
	require.Equal(t, codeInternal, unknown.Code)
	require.Equal(t, "something went wrong", unknown.Message)
}

func TestHTTPErrorUnwrap(t *testing.T) {
	cause := apperrors.Wrap(apperrors.CodeStorage, "save", nil)
	httpErr := NewHTTPError(http.StatusInternalServerError, apperrors.CodeStorage, "failed", cause)
	require.True(t, apperrors.IsCode(httpErr, apperrors.CodeStorage))
	require.Equal(t, "", errMessage(nil))
}

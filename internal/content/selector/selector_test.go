package selector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhouse/backend/internal/platform/apperror"
	"github.com/inkhouse/backend/internal/platform/logger"
)

func TestNew_MissingSettingsFailFast(t *testing.T) {
	tests := []struct {
		name       string
		settings   Settings
		missingKey string
	}{
		{
			name:       "default provider without database URL",
			settings:   Settings{Provider: ProviderDefault},
			missingKey: "DATABASE_URL",
		},
		{
			name:       "empty provider falls back to default",
			settings:   Settings{},
			missingKey: "DATABASE_URL",
		},
		{
			name:       "rest-cms without base URL",
			settings:   Settings{Provider: ProviderRestCMS},
			missingKey: "RESTCMS_BASE_URL",
		},
		{
			name: "document-cms without project id",
			settings: Settings{
				Provider:         ProviderDocumentCMS,
				DocCMSDataset:    "production",
				DocCMSAPIVersion: "2025-02-19",
			},
			missingKey: "DOCCMS_PROJECT_ID",
		},
		{
			name: "document-cms without dataset",
			settings: Settings{
				Provider:         ProviderDocumentCMS,
				DocCMSProjectID:  "abc123",
				DocCMSAPIVersion: "2025-02-19",
			},
			missingKey: "DOCCMS_DATASET",
		},
		{
			name: "document-cms without api version",
			settings: Settings{
				Provider:        ProviderDocumentCMS,
				DocCMSProjectID: "abc123",
				DocCMSDataset:   "production",
			},
			missingKey: "DOCCMS_API_VERSION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := New(context.Background(), tt.settings, logger.NewNop())
			require.Error(t, err)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperror.CodeConfiguration, appErr.Code)
			assert.Equal(t, apperror.BusinessCodeMissingSetting, appErr.BusinessCode)
			assert.Equal(t, tt.missingKey, appErr.Details)
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, _, err := New(context.Background(), Settings{Provider: "contentful"}, logger.NewNop())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.BusinessCodeUnknownProvider, appErr.BusinessCode)
}

func TestNew_RestCMS(t *testing.T) {
	provider, cleanup, err := New(context.Background(), Settings{
		Provider:       ProviderRestCMS,
		RestCMSBaseURL: "https://cms.example.com",
	}, logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, provider)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestNew_DocumentCMS(t *testing.T) {
	provider, cleanup, err := New(context.Background(), Settings{
		Provider:         ProviderDocumentCMS,
		DocCMSProjectID:  "abc123",
		DocCMSDataset:    "production",
		DocCMSAPIVersion: "2025-02-19",
		DocCMSUseCDN:     true,
	}, logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, provider)
	require.NotNil(t, cleanup)
	cleanup()
}

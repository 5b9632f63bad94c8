package backup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/rs/zerolog"
)

const (
	// Well-known Azurite development account.
	azuriteAccountName = "devstoreaccount1"
	azuriteAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// BlobStore uploads backups to an Azure Blob Storage account.
type BlobStore struct {
	serviceURL string
	client     *azblob.Client
}

// isLocal reports whether serviceURL points at a local emulator.
func isLocal(serviceURL string) bool {
	return strings.HasPrefix(serviceURL, "http://")
}

// NewBlobStore connects to serviceURL. Plain http URLs are assumed to be
// Azurite and use its shared key; anything else uses DefaultAzureCredential.
func NewBlobStore(serviceURL string) (*BlobStore, error) {
	if serviceURL == "" {
		return nil, errors.New("blob service URL is required")
	}

	var client *azblob.Client
	if isLocal(serviceURL) {
		cred, err := azblob.NewSharedKeyCredential(azuriteAccountName, azuriteAccountKey)
		if err != nil {
			return nil, fmt.Errorf("shared key credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("blob client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("default azure credential: %w", err)
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("blob client: %w", err)
		}
	}

	return &BlobStore{serviceURL: serviceURL, client: client}, nil
}

func newDefaultAzureCredential() (azcore.TokenCredential, error) {
	return azidentity.NewDefaultAzureCredential(nil)
}

// Upload stores data as container/blobName, creating the container first if
// it does not exist.
func (b *BlobStore) Upload(ctx context.Context, container, blobName string, data []byte) error {
	l := zerolog.Ctx(ctx).With().Str("container", container).Str("blob_name", blobName).Logger()

	if _, err := b.client.CreateContainer(ctx, container, nil); err != nil {
		var respErr *azcore.ResponseError
		if !errors.As(err, &respErr) || respErr.ErrorCode != "ContainerAlreadyExists" {
			l.Warn().Err(err).Msg("create container")
		}
	}

	if _, err := b.client.UploadBuffer(ctx, container, blobName, data, nil); err != nil {
		l.Error().Err(err).Msg("upload blob")
		return fmt.Errorf("upload blob %s/%s: %w", container, blobName, err)
	}

	l.Info().Int("size_bytes", len(data)).Msg("uploaded blob")
	return nil
}

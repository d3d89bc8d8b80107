package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

const jsonContentType = "application/json"

type azureStorage struct {
	client    *azblob.Client
	container string
}

// NewAzureStorage creates a store that writes documents as blobs in container
func NewAzureStorage(accountName, accountKey, container string) (KernelStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create azure client: %w", err)
	}

	return &azureStorage{client: client, container: container}, nil
}

// EnsureContainer creates the container if it does not exist yet
func (s *azureStorage) EnsureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("create container %s: %w", s.container, err)
	}
	return nil
}

func (s *azureStorage) Put(ctx context.Context, key string, doc []byte) (string, error) {
	contentType := jsonContentType
	_, err := s.client.UploadBuffer(ctx, s.container, key, doc, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return key, nil
}

func (s *azureStorage) Get(ctx context.Context, key string) ([]byte, error) {
	downloadResponse, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	return io.ReadAll(retryReader)
}

func (s *azureStorage) Name() string {
	return "azure"
}

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package store

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
)

// PackageUploader ships built packages to a submission's fileUploadUrl.
type PackageUploader interface {
	Upload(ctx context.Context, fileUploadUrl string, files []string) error
}

// blobUploader is the real uploader: the submission API hands out an
// Azure Blob SAS URL, and the service expects a single zip blob holding
// the package files.
type blobUploader struct {
}

func NewPackageUploader() PackageUploader {
	return &blobUploader{}
}

func (u *blobUploader) Upload(ctx context.Context, fileUploadUrl string, files []string) error {
	zipPath, err := zipPackages(files)
	if err != nil {
		return err
	}
	defer os.Remove(zipPath)

	zipFile, err := os.Open(zipPath)
	if err != nil {
		return fmt.Errorf("opening upload zip: %w", err)
	}
	defer zipFile.Close()

	// The SAS URL embeds the credential; no further auth is needed.
	blobClient, err := blockblob.NewClientWithNoCredential(fileUploadUrl, nil)
	if err != nil {
		return fmt.Errorf("creating upload client: %w", err)
	}

	if _, err := blobClient.UploadFile(ctx, zipFile, nil); err != nil {
		return fmt.Errorf("uploading packages: %w", err)
	}

	return nil
}

// zipPackages writes the package files into a temporary zip, flattened
// to their base names as the submission API expects.
func zipPackages(files []string) (string, error) {
	tmp, err := os.CreateTemp("", "msstore-upload-*.zip")
	if err != nil {
		return "", fmt.Errorf("creating upload zip: %w", err)
	}

	zw := zip.NewWriter(tmp)

	for _, file := range files {
		src, err := os.Open(file)
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return "", fmt.Errorf("reading package %s: %w", file, err)
		}

		dst, err := zw.Create(filepath.Base(file))
		if err == nil {
			_, err = io.Copy(dst, src)
		}
		src.Close()
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return "", fmt.Errorf("zipping package %s: %w", file, err)
		}
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("finalizing upload zip: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("finalizing upload zip: %w", err)
	}

	return tmp.Name(), nil
}

package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"

	"github.com/minio/minio-go/v7"

	"fakestore_back_end/internal/database"
)

// UploadProductImage stocke l'image d'un produit dans MinIO sous
// products/<id> et retourne l'URL publique à écrire dans la colonne image.
func UploadProductImage(ctx context.Context, productID int, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := fmt.Sprintf("products/%d/%s", productID, file.Filename)

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), bucket, objectName)
	return url, nil
}

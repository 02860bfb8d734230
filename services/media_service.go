package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore keeps space images in a Cloudinary folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	secret string
	folder string
	now    func() time.Time
}

func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, errors.New("CLOUDINARY_URL is not set")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("initialize cloudinary: %w", err)
	}
	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("parse cloudinary url: %w", err)
	}
	secret, _ := parsedURL.User.Password()
	return &CloudinaryStore{cld: cld, secret: secret, folder: folder, now: time.Now}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, filename string) (*UploadedImage, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("upload %s: %s", filename, res.Error.Message)
	}
	return &UploadedImage{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}

// SignUpload returns parameters a client can use to upload straight to
// Cloudinary.
func (s *CloudinaryStore) SignUpload() (*SignedUpload, error) {
	paramsToSign, err := api.StructToParams(uploader.UploadParams{Folder: s.folder})
	if err != nil {
		return nil, fmt.Errorf("prepare signature params: %w", err)
	}
	timestamp := s.now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign upload params: %w", err)
	}
	return &SignedUpload{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    s.cld.Config.Cloud.APIKey,
		CloudName: s.cld.Config.Cloud.CloudName,
		Folder:    s.folder,
	}, nil
}

var errMediaDisabled = errors.New("image storage is not configured")

type noMedia struct{}

func (noMedia) Upload(context.Context, io.Reader, string) (*UploadedImage, error) {
	return nil, errMediaDisabled
}

func (noMedia) Destroy(context.Context, string) error { return nil }

func (noMedia) SignUpload() (*SignedUpload, error) { return nil, errMediaDisabled }

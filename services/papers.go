package services

import (
	"context"
	"errors"
	"net/http"
	"path"
	"time"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/res"
	"go.uber.org/zap"
)

var ErrPaperWithoutFile = errors.New("this paper has no file to download")

// Presigner is satisfied by *aws_s3.AWSS3.
type Presigner interface {
	PresignGet(key, filename string, ttl time.Duration) (string, error)
}

type PapersService struct {
	listings  *ListingsService
	presigner Presigner
	ttl       time.Duration
	logger    *zap.Logger
}

// DownloadURL returns a short lived link to the paper file.
func (p *PapersService) DownloadURL(ctx context.Context, slug string) (string, *res.ErrorRes) {
	listing, errRes := p.listings.GetListing(ctx, models.PAPER, slug)
	if errRes != nil {
		return "", errRes
	}
	paper, ok := listing.(models.Paper)
	if !ok || paper.FileKey == "" {
		return "", &res.ErrorRes{
			Err:        ErrPaperWithoutFile,
			StatusCode: http.StatusNotFound,
		}
	}
	if p.presigner == nil {
		return "", &res.ErrorRes{
			Err:        errors.New("downloads are not available"),
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	url, err := p.presigner.PresignGet(paper.FileKey, paper.Slug+path.Ext(paper.FileKey), p.ttl)
	if err != nil {
		p.logger.Error("presign paper", zap.String("key", paper.FileKey), zap.Error(err))
		return "", res.NewErrorRes(err)
	}
	return url, nil
}

func NewPapersService(
	listings *ListingsService,
	presigner Presigner,
	ttl time.Duration,
	logger *zap.Logger,
) *PapersService {
	return &PapersService{
		listings:  listings,
		presigner: presigner,
		ttl:       ttl,
		logger:    nopLogger(logger),
	}
}

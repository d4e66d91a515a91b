package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/CPU-commits/CareerNest/db"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const EXPORT_LIMIT = 1000

var exportColumns = []string{
	"Title",
	"Organization",
	"Location",
	"Category",
	"Date",
	"Last date",
	"Link",
}

type ExportService struct {
	listings *ListingsService
	siteURL  string
	logger   *zap.Logger
}

// WriteListingsXLSX writes one sheet named after the kind.
func WriteListingsXLSX(w io.Writer, spec models.KindSpec, listings []models.Listing, siteURL string) error {
	file := excelize.NewFile()
	defer file.Close()

	sheetName := spec.Label
	file.SetSheetName("Sheet1", sheetName)
	for i, column := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		file.SetCellValue(sheetName, cell, column)
	}
	for row, listing := range listings {
		base := listing.Base()
		values := []interface{}{
			listing.GetTitle(),
			listing.GetOrganization(),
			base.Location,
			base.Category,
			models.DateOf(listing).Display(),
			base.LastDate.Display(),
			strings.TrimRight(siteURL, "/") + spec.Prefix + "/" + base.Slug,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			file.SetCellValue(sheetName, cell, value)
		}
	}
	return file.Write(w)
}

func (e *ExportService) ExportListings(
	ctx context.Context,
	kind models.Kind,
	q repositories.ListQuery,
	w io.Writer,
) *res.ErrorRes {
	repo, err := e.listings.Repository(kind)
	if err != nil {
		return res.NewErrorRes(err)
	}
	ctx, cancel := withTimeout(ctx, db.QUERY_TIMEOUT)
	defer cancel()

	q = q.Normalize()
	spec := repo.Spec()
	listings, err := repo.Find(ctx, repositories.BuildFilter(spec, q), repositories.FindOptions{
		Limit: EXPORT_LIMIT,
		Sort:  repositories.SortFor(spec, q.Sort),
	})
	if err != nil {
		e.logger.Error("export listings", zap.String("kind", string(kind)), zap.Error(err))
		return res.NewErrorRes(err)
	}
	if err := WriteListingsXLSX(w, spec, listings, e.siteURL); err != nil {
		return internal(err)
	}
	return nil
}

// WriteListingPDF renders a printable A4 page of one listing.
func WriteListingPDF(w io.Writer, listing models.Listing, siteName, siteURL string) error {
	spec := models.MustKind(listing.Kind())
	base := listing.Base()

	pdf := gofpdf.New("P", "mm", "A4", "")
	defer pdf.Close()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetMargins(15, 15, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		footer := fmt.Sprintf("%s - %s - printed %s", siteName, siteURL, time.Now().Format(models.DISPLAY_DATE))
		pdf.CellFormat(0, 5, tr(footer), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(spec.Label), "", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(listing.GetTitle()), "", "", false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, tr(listing.GetOrganization()), "", "", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	for _, detail := range listing.Details() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 6, tr(detail.Label), "1", 0, "", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(detail.Value), "1", 1, "", false, 0, "")
	}

	sections := []models.Detail{
		{Label: "Description", Value: base.Description},
		{Label: "Eligibility", Value: base.EligibilityCriteria},
		{Label: "Apply", Value: base.ApplyLink},
		{Label: "Official website", Value: base.OfficialLink},
	}
	for _, section := range sections {
		if strings.TrimSpace(section.Value) == "" {
			continue
		}
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, tr(section.Label), "", 1, "", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(section.Value), "", "", false)
	}
	return pdf.Output(w)
}

func (e *ExportService) ListingPDF(
	ctx context.Context,
	kind models.Kind,
	slug string,
	siteName string,
	w io.Writer,
) *res.ErrorRes {
	listing, errRes := e.listings.GetListing(ctx, kind, slug)
	if errRes != nil {
		return errRes
	}
	if err := WriteListingPDF(w, listing, siteName, e.siteURL); err != nil {
		e.logger.Error("listing pdf", zap.String("slug", slug), zap.Error(err))
		return internal(err)
	}
	return nil
}

func NewExportService(listings *ListingsService, siteURL string, logger *zap.Logger) *ExportService {
	return &ExportService{
		listings: listings,
		siteURL:  siteURL,
		logger:   nopLogger(logger),
	}
}

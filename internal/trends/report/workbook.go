package report

import (
	"context"
	"fmt"
	"io"
	"ktrend_api/internal/trends/business"
	"ktrend_api/internal/trends/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetRanked   = "Ranked"
	SheetTrending = "Trending"
	SheetDeals    = "Deals"

	reportPageSize = 100
)

type RankedFetcher interface {
	FetchRankedProducts(ctx context.Context, q business.RankedQuery) (models.Page[models.RankedProduct], error)
}

type TrendingFetcher interface {
	FetchTrending(ctx context.Context, limit int, platform string) (models.Page[models.TrendingProduct], error)
}

type DealsFetcher interface {
	FetchDailySpecials(ctx context.Context, platform string) (models.Page[models.DealProduct], error)
}

// Builder exports a platform's current ranking, trending and deals as one workbook.
type Builder struct {
	ranked   RankedFetcher
	trending TrendingFetcher
	deals    DealsFetcher
}

func NewBuilder(ranked RankedFetcher, trending TrendingFetcher, deals DealsFetcher) *Builder {
	return &Builder{ranked: ranked, trending: trending, deals: deals}
}

// DailyWorkbook assembles the three sheets. The caller closes the file.
func (b *Builder) DailyWorkbook(ctx context.Context, platform string) (*excelize.File, error) {
	ranked, err := b.ranked.FetchRankedProducts(ctx, business.RankedQuery{Page: 1, PerPage: reportPageSize, Platform: platform})
	if err != nil {
		return nil, fmt.Errorf("report ranked: %w", err)
	}
	trending, err := b.trending.FetchTrending(ctx, reportPageSize, platform)
	if err != nil {
		return nil, fmt.Errorf("report trending: %w", err)
	}
	deals, err := b.deals.FetchDailySpecials(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("report deals: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetRanked); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetTrending, SheetDeals} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	rankedRows := make([][]interface{}, len(ranked.Data))
	for i, p := range ranked.Data {
		rankedRows[i] = []interface{}{optInt(p.CurrentRank), string(p.External), p.Name, p.Brand, money(p.Price), p.CategoryCode, p.Gender(), p.URL}
	}
	trendingRows := make([][]interface{}, len(trending.Data))
	for i, p := range trending.Data {
		trendingRows[i] = []interface{}{p.CurrentRank, optInt(p.PreviousRank), p.RankChange, string(p.External), p.Name, p.Brand, p.URL}
	}
	dealRows := make([][]interface{}, len(deals.Data))
	for i, p := range deals.Data {
		dealRows[i] = []interface{}{string(p.External), p.Name, p.Brand, p.SpecialPrice.InexactFloat64(), money(p.OriginalPrice), optInt(p.DiscountPct), p.URL}
	}

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{SheetRanked, []interface{}{"Rank", "Product ID", "Name", "Brand", "Price", "Category", "Gender", "URL"}, rankedRows},
		{SheetTrending, []interface{}{"Rank", "Previous Rank", "Change", "Product ID", "Name", "Brand", "URL"}, trendingRows},
		{SheetDeals, []interface{}{"Product ID", "Name", "Brand", "Special Price", "Original Price", "Discount %", "URL"}, dealRows},
	}
	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.header, s.rows); err != nil {
			f.Close()
			return nil, fmt.Errorf("report sheet %s: %w", s.name, err)
		}
	}
	return f, nil
}

// Write streams the workbook as xlsx.
func (b *Builder) Write(ctx context.Context, platform string, w io.Writer) error {
	f, err := b.DailyWorkbook(ctx, platform)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func money(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}

func optInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

package sector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/pkg/logger"
)

// DefaultTableSelector matches every table of the document
const DefaultTableSelector = "table"

// LoadHTML reads a saved HTML table export (업종별 종목 리스트 페이지 등).
// Each data row carries the company in cell 0 and the sector in cell 1.
func LoadHTML(r io.Reader, selector string) (contracts.SectorMap, error) {
	if selector == "" {
		selector = DefaultTableSelector
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tables := doc.Find(selector)
	if tables.Length() == 0 {
		return nil, fmt.Errorf("no table matches %q", selector)
	}

	sectors := make(contracts.SectorMap)
	tables.Find("tr").Each(func(_ int, row *goquery.Selection) {
		// 헤더 행(th)과 셀이 부족한 행은 건너뜀
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		company := strings.TrimSpace(cells.Eq(0).Text())
		label := strings.TrimSpace(cells.Eq(1).Text())
		if company == "" {
			return
		}
		sectors[company] = label
	})

	return sectors, nil
}

// Fetcher downloads a remote page (httputil.Client)
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTMLSource implements contracts.SectorSource for an HTML export file or an http(s) URL
type HTMLSource struct {
	Path     string
	Selector string
	Client   Fetcher // required for http(s) paths
	Logger   *logger.Logger
}

// IsRemote reports whether path is fetched over HTTP
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Sectors parses the HTML page. A missing local file behaves like a missing text mapping.
func (s *HTMLSource) Sectors(ctx context.Context) (contracts.SectorMap, error) {
	log := s.Logger
	if log == nil {
		log = logger.Nop()
	}

	var r io.Reader
	if IsRemote(s.Path) {
		if s.Client == nil {
			return nil, fmt.Errorf("fetch sector html %s: no http client", s.Path)
		}
		body, err := s.Client.Fetch(ctx, s.Path)
		if err != nil {
			return nil, fmt.Errorf("fetch sector html: %w", err)
		}
		r = bytes.NewReader(body)
	} else {
		f, err := os.Open(s.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.WithField("path", s.Path).Warn("sector html not found, all companies will be Unknown")
				return nil, nil
			}
			return nil, fmt.Errorf("open sector html: %w", err)
		}
		defer f.Close()
		r = f
	}

	sectors, err := LoadHTML(r, s.Selector)
	if err != nil {
		return nil, fmt.Errorf("read sector html %s: %w", s.Path, err)
	}

	log.WithFields(map[string]interface{}{
		"path":    s.Path,
		"entries": len(sectors),
	}).Info("sector mapping loaded")

	return sectors, nil
}

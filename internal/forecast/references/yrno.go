package references

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/akorchev/weather-notify/internal/forecast"
)

var (
	tempPairExpr = regexp.MustCompile(`(-?\d+)°\s*/\s*(-?\d+)°`)
	percentExpr  = regexp.MustCompile(`(\d{1,3})\s*%`)
)

// YRNoSource scrapes the YR.no daily forecast table for a city. Site layout
// changes legitimately yield "no data": every failure maps to
// ErrReferenceUnavailable and a null point downstream.
type YRNoSource struct {
	name   string
	client *http.Client
	tz     *time.Location

	// urls maps lowercase city names to their daily-table page.
	urls map[string]string
}

func NewYRNoSource(client *http.Client, tz *time.Location, urls map[string]string) *YRNoSource {
	normalized := make(map[string]string, len(urls))
	for city, u := range urls {
		normalized[strings.ToLower(city)] = u
	}
	return &YRNoSource{
		name:   "yr.no",
		client: client,
		tz:     tz,
		urls:   normalized,
	}
}

func (s *YRNoSource) Name() string {
	return s.name
}

// FetchReference scrapes the row for the requested day out of the daily
// table. Temperature is the midpoint of the listed high/low; rain
// probability is taken only when the row shows a percentage.
func (s *YRNoSource) FetchReference(ctx context.Context, loc forecast.Location, day time.Time) (forecast.ReferencePoint, error) {
	point := forecast.ReferencePoint{SourceName: s.name}

	pageURL, ok := s.urls[strings.ToLower(loc.City)]
	if !ok {
		return point, fmt.Errorf("%w: no yr.no page configured for %s", forecast.ErrReferenceUnavailable, loc.City)
	}

	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return point, fmt.Errorf("%w: %v", forecast.ErrReferenceUnavailable, err)
	}

	row, err := s.dayRow(doc, day)
	if err != nil {
		return point, fmt.Errorf("%w: %v", forecast.ErrReferenceUnavailable, err)
	}

	text := row.Text()
	if m := tempPairExpr.FindStringSubmatch(text); m != nil {
		high, _ := strconv.ParseFloat(m[1], 64)
		low, _ := strconv.ParseFloat(m[2], 64)
		mid := (high + low) / 2
		point.TempC = &mid
	}
	if m := percentExpr.FindStringSubmatch(text); m != nil {
		pct, _ := strconv.ParseFloat(m[1], 64)
		if pct <= 100 {
			point.RainPct = &pct
		}
	}

	if !point.Usable() {
		return point, fmt.Errorf("%w: could not extract values from yr.no row", forecast.ErrReferenceUnavailable)
	}
	return point, nil
}

func (s *YRNoSource) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "weather-notify/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yr.no returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// dayRow selects the table row whose offset from today matches the target
// day. The daily table lists today first, then the following days.
func (s *YRNoSource) dayRow(doc *goquery.Document, day time.Time) (*goquery.Selection, error) {
	today := time.Now().In(s.tz)
	offset := daysBetween(today, day.In(s.tz))
	if offset < 0 {
		return nil, fmt.Errorf("target day %s is in the past", day.Format("2006-01-02"))
	}

	rows := doc.Find("table tbody tr")
	if rows.Length() == 0 {
		rows = doc.Find("table tr")
	}
	if rows.Length() <= offset {
		return nil, fmt.Errorf("daily table has %d rows, need row %d", rows.Length(), offset)
	}
	return rows.Eq(offset), nil
}

func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, from.Location())
	end := time.Date(ty, tm, td, 0, 0, 0, 0, to.Location())
	return int(end.Sub(start).Hours() / 24)
}

package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"grambazaar/internal/domain"
	"grambazaar/internal/repos"
)

// ForecastService is read-side analytics over live listings and historical
// orders. It is idempotent and safe to re-run on demand; in notify mode it
// also persists each alert as a seller-targeted notification.
type ForecastService struct {
	Listings *repos.ListingRepo
	Orders   *repos.OrderRepo
	Sellers  *repos.SellerRepo
	Notifs   *repos.NotificationRepo
}

func NewForecastService(listings *repos.ListingRepo, orders *repos.OrderRepo, sellers *repos.SellerRepo, notifs *repos.NotificationRepo) *ForecastService {
	return &ForecastService{Listings: listings, Orders: orders, Sellers: sellers, Notifs: notifs}
}

const lowInventoryThreshold = 5

type Trend struct {
	RecentOrders   int    `json:"recent_orders"`
	PreviousOrders int    `json:"previous_orders"`
	Direction      string `json:"direction"` // up | down | stable
	ChangePct      int    `json:"change_pct"`
}

type AreaCount struct {
	Area   string `json:"area"`
	Orders int    `json:"orders"`
}

type ProductHeat struct {
	Product string      `json:"product"`
	Areas   []AreaCount `json:"areas"`
}

type Analytics struct {
	SalesTrend     Trend         `json:"sales_trend"`
	TopAreas       []AreaCount   `json:"top_areas"`
	ProductHeatmap []ProductHeat `json:"product_heatmap"`
}

type Report struct {
	Alerts    []domain.ForecastAlert `json:"forecasts"`
	Analytics Analytics              `json:"analytics"`
}

// Run computes alerts and demand analytics, optionally restricted to one
// listing. With notify=true each alert becomes a persisted notification
// targeted at the listing's owning seller.
func (s *ForecastService) Run(notify bool, listingID string) (Report, error) {
	alerts, err := s.buildAlerts(notify, listingID)
	if err != nil {
		return Report{}, err
	}
	analytics, err := s.buildAnalytics(listingID)
	if err != nil {
		return Report{}, err
	}
	return Report{Alerts: alerts, Analytics: analytics}, nil
}

func (s *ForecastService) buildAlerts(notify bool, listingID string) ([]domain.ForecastAlert, error) {
	listings, err := s.Listings.ListLive("")
	if err != nil {
		return nil, err
	}
	if listingID != "" {
		filtered := listings[:0]
		for _, l := range listings {
			if l.ID == listingID {
				filtered = append(filtered, l)
			}
		}
		listings = filtered
	}

	sellerNames := map[string]string{}
	sellerName := func(id string) string {
		if name, ok := sellerNames[id]; ok {
			return name
		}
		name := id
		if sel, err := s.Sellers.Get(id); err == nil {
			name = sel.Name
		}
		sellerNames[id] = name
		return name
	}

	alerts := []domain.ForecastAlert{}

	// Rule 1: low inventory on live listings.
	for _, l := range listings {
		if l.Inventory >= lowInventoryThreshold {
			continue
		}
		msg := fmt.Sprintf("Low inventory for %s! Only %d items left. We recommend increasing production.", l.Title, l.Inventory)
		alerts = append(alerts, domain.ForecastAlert{
			ListingID: l.ID,
			Product:   l.Title,
			SellerID:  l.SellerID,
			Seller:    sellerName(l.SellerID),
			Message:   msg,
			Priority:  domain.PriorityHigh,
		})
		if notify {
			if _, err := s.Notifs.Create("Low Inventory Alert", msg, []string{l.SellerID}); err != nil {
				return nil, err
			}
		}
	}

	// Rule 2: seasonal restock for food products, unconditionally.
	for _, l := range listings {
		if l.Category != domain.CategoryFood {
			continue
		}
		msg := fmt.Sprintf("Seasonal demand expected for %s around festival periods. Plan extra stock and promotions.", l.Title)
		alerts = append(alerts, domain.ForecastAlert{
			ListingID: l.ID,
			Product:   l.Title,
			SellerID:  l.SellerID,
			Seller:    sellerName(l.SellerID),
			Message:   msg,
			Priority:  domain.PriorityMedium,
		})
		if notify {
			if _, err := s.Notifs.Create("Seasonal Demand Insight", msg, []string{l.SellerID}); err != nil {
				return nil, err
			}
		}
	}

	return alerts, nil
}

func (s *ForecastService) buildAnalytics(listingID string) (Analytics, error) {
	now := time.Now().UTC()
	recentStart := now.AddDate(0, 0, -30)
	prevStart := now.AddDate(0, 0, -60)

	recent, err := s.Orders.CountCompleted(listingID, recentStart, now.Add(time.Minute))
	if err != nil {
		return Analytics{}, err
	}
	previous, err := s.Orders.CountCompleted(listingID, prevStart, recentStart)
	if err != nil {
		return Analytics{}, err
	}

	rows, err := s.Orders.CompletedSince(listingID, recentStart)
	if err != nil {
		return Analytics{}, err
	}

	return Analytics{
		SalesTrend:     ComputeTrend(previous, recent),
		TopAreas:       topAreas(rows),
		ProductHeatmap: productHeatmap(rows),
	}, nil
}

// ComputeTrend derives direction and change percentage from the two
// adjacent 30-day windows.
func ComputeTrend(previous, recent int) Trend {
	t := Trend{RecentOrders: recent, PreviousOrders: previous}
	switch {
	case previous == 0 && recent == 0:
		t.Direction = "stable"
	case previous == 0:
		t.Direction = "up"
		t.ChangePct = 100
	default:
		diff := recent - previous
		t.ChangePct = int(math.Round(float64(diff) / float64(previous) * 100))
		switch {
		case diff > 0:
			t.Direction = "up"
		case diff < 0:
			t.Direction = "down"
		default:
			t.Direction = "stable"
		}
	}
	return t
}

// ExtractArea derives a coarse area label from a free-text delivery
// address: the second-to-last non-empty comma segment, or the last segment
// when fewer than two exist. The rule is intentionally approximate; keep
// it stable for output compatibility.
func ExtractArea(address string) string {
	if address == "" {
		return "Unknown"
	}
	parts := []string{}
	for _, p := range strings.Split(address, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return parts[len(parts)-1]
}

func topAreas(rows []repos.DemandRow) []AreaCount {
	counts := map[string]int{}
	for _, r := range rows {
		counts[ExtractArea(r.Address)]++
	}
	return topCounts(counts, 5)
}

func productHeatmap(rows []repos.DemandRow) []ProductHeat {
	perProduct := map[string]map[string]int{}
	for _, r := range rows {
		m, ok := perProduct[r.Title]
		if !ok {
			m = map[string]int{}
			perProduct[r.Title] = m
		}
		m[ExtractArea(r.Address)]++
	}

	heat := []ProductHeat{}
	for title, areas := range perProduct {
		heat = append(heat, ProductHeat{Product: title, Areas: topCounts(areas, 5)})
	}
	// Products with the most heatmap orders first; ties by name for a
	// deterministic report.
	total := func(h ProductHeat) int {
		n := 0
		for _, a := range h.Areas {
			n += a.Orders
		}
		return n
	}
	sort.Slice(heat, func(i, j int) bool {
		ti, tj := total(heat[i]), total(heat[j])
		if ti != tj {
			return ti > tj
		}
		return heat[i].Product < heat[j].Product
	})
	return heat
}

func topCounts(counts map[string]int, limit int) []AreaCount {
	out := []AreaCount{}
	for area, n := range counts {
		out = append(out, AreaCount{Area: area, Orders: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		return out[i].Area < out[j].Area
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

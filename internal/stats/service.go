package stats

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"dishlog/internal/receipt"
	"dishlog/internal/restaurant"
)

// ReceiptSource is the slice of the receipt store the aggregations read.
type ReceiptSource interface {
	ListReceipts(ctx context.Context) ([]receipt.Receipt, error)
	ListInstances(ctx context.Context) ([]receipt.DishInstance, error)
}

type RestaurantSource interface {
	List(ctx context.Context) ([]restaurant.Restaurant, error)
}

type PhotoSource interface {
	Count(ctx context.Context) (int, error)
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type Overview struct {
	TotalDishes      int            `json:"totalDishes"`
	TotalReceipts    int            `json:"totalReceipts"`
	TotalRestaurants int            `json:"totalRestaurants"`
	TotalSpend       float64        `json:"totalSpend"`
	RatingBreakdown  map[string]int `json:"ratingBreakdown"`
	DishesPerMonth   []MonthCount   `json:"dishesPerMonth"`
}

type Service struct {
	receipts    ReceiptSource
	restaurants RestaurantSource
	photos      PhotoSource
}

func NewService(receipts ReceiptSource, restaurants RestaurantSource, photos PhotoSource) *Service {
	return &Service{receipts: receipts, restaurants: restaurants, photos: photos}
}

const monthLayout = "Jan 06"

// GetOverview aggregates the dashboard numbers. TotalDishes counts
// posted photos, matching the dashboard's "dishes captured" card.
func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	receipts, err := s.receipts.ListReceipts(ctx)
	if err != nil {
		return nil, err
	}
	instances, err := s.receipts.ListInstances(ctx)
	if err != nil {
		return nil, err
	}
	restaurants, err := s.restaurants.List(ctx)
	if err != nil {
		return nil, err
	}
	photoCount, err := s.photos.Count(ctx)
	if err != nil {
		return nil, err
	}

	breakdown := map[string]int{
		string(receipt.RatingElite):         0,
		string(receipt.RatingWouldOrder):    0,
		string(receipt.RatingShouldTryOnce): 0,
		string(receipt.RatingNotForMe):      0,
	}
	for _, inst := range instances {
		if inst.Rating == nil {
			continue
		}
		if _, ok := breakdown[*inst.Rating]; ok {
			breakdown[*inst.Rating]++
		}
	}

	spend := decimal.Zero
	receiptsByID := make(map[string]receipt.Receipt, len(receipts))
	for _, rec := range receipts {
		receiptsByID[rec.ID] = rec
		if rec.TotalAmount == nil {
			continue
		}
		amount, err := decimal.NewFromString(*rec.TotalAmount)
		if err != nil {
			continue
		}
		spend = spend.Add(amount)
	}

	monthly := make(map[string]int)
	for _, inst := range instances {
		rec, ok := receiptsByID[inst.ReceiptID]
		if !ok {
			continue
		}
		monthly[rec.Datetime.Format(monthLayout)]++
	}

	perMonth := make([]MonthCount, 0, len(monthly))
	for month, count := range monthly {
		perMonth = append(perMonth, MonthCount{Month: month, Count: count})
	}
	sort.Slice(perMonth, func(i, j int) bool {
		a, _ := time.Parse(monthLayout, perMonth[i].Month)
		b, _ := time.Parse(monthLayout, perMonth[j].Month)
		return a.Before(b)
	})

	return &Overview{
		TotalDishes:      photoCount,
		TotalReceipts:    len(receipts),
		TotalRestaurants: len(restaurants),
		TotalSpend:       spend.InexactFloat64(),
		RatingBreakdown:  breakdown,
		DishesPerMonth:   perMonth,
	}, nil
}
